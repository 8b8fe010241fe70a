// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"atrium/internal/models"
	"atrium/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten;
// callers should check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseTaxonomy reads the taxonomy query parameter, defaulting to standard.
// On an unknown value it writes a 400 response and returns errResponseWritten.
func (s *Server) parseTaxonomy(c *fiber.Ctx) (models.Taxonomy, error) {
	taxonomy := models.Taxonomy(c.Query("taxonomy", string(models.TaxonomyStandard)))
	if !taxonomy.Valid() {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unknown taxonomy"))
		return "", errResponseWritten
	}
	return taxonomy, nil
}

// statusForError maps AppError codes onto HTTP status codes.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "VALIDATION_ERROR", "INVALID_ARGUMENT", "INVARIANT_VIOLATION":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes the response for an error bubbling out of a
// service or repository call.
func respondServiceError(c *fiber.Ctx, err error) error {
	observability.RecordErrorInContext(c.UserContext(), err)
	return models.RespondWithError(c, statusForError(err), err)
}
