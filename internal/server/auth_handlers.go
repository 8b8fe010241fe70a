package server

import (
	"fmt"
	"strconv"
	"time"

	"atrium/internal/models"
	"atrium/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Login handles POST /api/auth/login
// @Summary Admin login
// @Description Authenticate an admin account and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,admin=models.Admin}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	admin, err := s.provision.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if models.IsCode(err, "UNAUTHORIZED") {
			observability.AuthFailures.WithLabelValues("bad_credentials").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(admin.ID, admin.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"admin": admin,
	})
}

// GetMyAccount handles GET /api/admins/me
// @Summary Current admin account
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Admin
// @Failure 401 {object} models.ErrorResponse
// @Router /admins/me [get]
func (s *Server) GetMyAccount(c *fiber.Ctx) error {
	actor, err := s.actor(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(actor)
}

// generateToken creates a signed JWT for the given admin.
func (s *Server) generateToken(adminID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(adminID), 10), // Subject (admin ID as string)
		"username": username,                                // Username (cached in token)
		"iss":      "atrium-api",                            // Issuer
		"aud":      "atrium-client",                         // Audience
		"exp":      now.Add(time.Hour * 12).Unix(),          // Expiration (12 hours)
		"iat":      now.Unix(),                              // Issued at
		"nbf":      now.Unix(),                              // Not before
		"jti":      s.generateJTI(),                         // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
