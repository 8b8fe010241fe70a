package server

import (
	"time"

	"atrium/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateRoom handles POST /api/rooms
// @Summary Create a chat room record
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{room_name=string,created_at=string} true "New room"
// @Success 201 {object} models.Room
// @Failure 400 {object} models.ErrorResponse
// @Router /rooms [post]
func (s *Server) CreateRoom(c *fiber.Ctx) error {
	var req struct {
		RoomName  string     `json:"room_name"`
		CreatedAt *time.Time `json:"created_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var createdAt time.Time
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	room, err := models.NewRoom(req.RoomName, createdAt, time.Now())
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.roomStore.Insert(c.UserContext(), room); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// GetRoom handles GET /api/rooms/:id
func (s *Server) GetRoom(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid id"))
	}

	room, err := s.roomStore.FindByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(room)
}

// ListRooms handles GET /api/rooms
func (s *Server) ListRooms(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	rooms, err := s.roomStore.List(c.UserContext(), p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}
