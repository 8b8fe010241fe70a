package server

import (
	"atrium/internal/middleware"
	"atrium/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListCustomers handles GET /api/customers
func (s *Server) ListCustomers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	customers, err := s.customerRepo.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"customers": customers})
}

// BlockCustomer handles POST /api/customers/:id/block
// @Summary Block a customer account with an audited reason
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param request body object{reason=string} true "Block reason"
// @Success 201 {object} models.BlockReason
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /customers/{id}/block [post]
func (s *Server) BlockCustomer(c *fiber.Ctx) error {
	customerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	adminID := middleware.AdminID(c)
	reason, err := s.blocks.BlockCustomer(c.UserContext(), adminID, customerID, req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reason)
}

// ListBlockReasons handles GET /api/customers/:id/block-reasons
func (s *Server) ListBlockReasons(c *fiber.Ctx) error {
	customerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reasons, err := s.blocks.BlockHistory(c.UserContext(), customerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"block_reasons": reasons})
}
