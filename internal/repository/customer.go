package repository

import (
	"context"
	"errors"

	"atrium/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository defines the admin-side persistence operations on
// customer accounts.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*models.CustomerUser, error)
	Create(ctx context.Context, customer *models.CustomerUser) error
	List(ctx context.Context, limit, offset int) ([]models.CustomerUser, error)

	// Block creates the audit row and marks the customer blocked in one
	// transaction.
	Block(ctx context.Context, customerID uint, reason *models.BlockReason) error
	ListBlockReasons(ctx context.Context, customerID uint) ([]models.BlockReason, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository returns a new CustomerRepository implementation.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.CustomerUser, error) {
	var customer models.CustomerUser
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Customer", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.CustomerUser) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Customer already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context, limit, offset int) ([]models.CustomerUser, error) {
	var customers []models.CustomerUser
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return customers, nil
}

func (r *customerRepository) Block(ctx context.Context, customerID uint, reason *models.BlockReason) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.CustomerUser
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Customer", customerID)
			}
			return models.NewInternalError(err)
		}

		reason.CustomerUserID = customerID
		if err := tx.Create(reason).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&customer).Update("is_blocked", true).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	return err
}

func (r *customerRepository) ListBlockReasons(ctx context.Context, customerID uint) ([]models.BlockReason, error) {
	var reasons []models.BlockReason
	if err := r.db.WithContext(ctx).
		Where("customer_user_id = ?", customerID).
		Order("blocked_at DESC").
		Find(&reasons).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reasons, nil
}
