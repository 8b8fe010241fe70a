package service

import (
	"context"
	"time"
	"unicode/utf8"

	"atrium/internal/models"
	"atrium/internal/observability"
	"atrium/internal/repository"
)

// BlockService records block audit rows against customer accounts. Rows are
// creation-only; there is no update or unblock-edit path.
type BlockService struct {
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewBlockService returns a new BlockService. A nil clock defaults to
// time.Now; tests inject a fixed one.
func NewBlockService(customerRepo repository.CustomerRepository, now func() time.Time) *BlockService {
	if now == nil {
		now = time.Now
	}
	return &BlockService{customerRepo: customerRepo, now: now}
}

// BlockCustomer validates the reason, writes the audit row with a
// server-assigned timestamp, and marks the customer blocked.
func (s *BlockService) BlockCustomer(ctx context.Context, creatorID uint, customerID uint, reason string) (*models.BlockReason, error) {
	// Bounds are in characters, not bytes; multibyte reasons count per rune.
	if utf8.RuneCountInString(reason) < models.MinBlockReasonLength {
		return nil, models.NewValidationError("Block reason must be at least 3 characters")
	}
	if utf8.RuneCountInString(reason) > 255 {
		return nil, models.NewValidationError("Block reason must not exceed 255 characters")
	}

	span, ctx := observability.NewSpan(ctx, "service.block_customer")
	defer span.End()

	row := &models.BlockReason{
		Reason:    reason,
		CreatorID: &creatorID,
		BlockedAt: s.now(),
	}
	if err := s.customerRepo.Block(ctx, customerID, row); err != nil {
		span.SetError(err)
		return nil, err
	}

	observability.CustomerBlocks.Inc()
	return row, nil
}

// BlockHistory returns every block audit row for a customer, newest first.
func (s *BlockService) BlockHistory(ctx context.Context, customerID uint) ([]models.BlockReason, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.customerRepo.ListBlockReasons(ctx, customerID)
}
