package server

import (
	"context"
	"fmt"
	"time"

	"atrium/internal/cache"
	"atrium/internal/config"
	"atrium/internal/database"
	"atrium/internal/middleware"
	"atrium/internal/models"
	"atrium/internal/repository"
	"atrium/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Permission codenames the HTTP surface gates on. All live in the standard
// taxonomy; the developer catalog is managed through the same endpoints with
// ?taxonomy=developer.
const (
	PermAdminsManage      = "admins.manage"
	PermPermissionsManage = "permissions.manage"
	PermCustomersBlock    = "customers.block"
	PermRoomsManage       = "rooms.manage"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	adminRepo      repository.AdminRepository
	permRepo       repository.PermissionRepository
	customerRepo   repository.CustomerRepository
	roomStore      repository.RoomStore
	authz          *service.AuthzService
	provision      *service.ProvisionService
	blocks         *service.BlockService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	adminRepo := repository.NewAdminRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	prom := fiberprometheus.New("atrium-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		adminRepo:      adminRepo,
		permRepo:       permRepo,
		customerRepo:   customerRepo,
		roomStore:      repository.NewRoomStore(redisClient),
		authz:          service.NewAuthzService(permRepo),
		provision:      service.NewProvisionService(adminRepo),
		blocks:         service.NewBlockService(customerRepo, nil),
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and admin ID into slog
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans per request
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on errors.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Admin account routes
	admins := protected.Group("/admins")
	admins.Get("/me", s.GetMyAccount)
	admins.Get("/me/permissions", s.GetMyPermissions)
	admins.Get("/me/permissions/check", s.CheckMyPermission)
	admins.Get("/", s.PermissionRequired(PermAdminsManage), s.ListAdmins)
	admins.Post("/", s.PermissionRequired(PermAdminsManage), s.CreateAdmin)
	admins.Post("/:id/activate", s.PermissionRequired(PermAdminsManage), s.ActivateAdmin)
	admins.Post("/:id/deactivate", s.PermissionRequired(PermAdminsManage), s.DeactivateAdmin)
	admins.Get("/:id", s.PermissionRequired(PermAdminsManage), s.GetAdmin)

	// Grant management routes
	grants := protected.Group("", s.PermissionRequired(PermPermissionsManage))
	grants.Post("/admins/:id/permissions/:permissionId", s.GrantPermission)
	grants.Delete("/admins/:id/permissions/:permissionId", s.RevokePermission)
	grants.Post("/admins/:id/groups/:groupId", s.AddAdminToGroup)
	grants.Delete("/admins/:id/groups/:groupId", s.RemoveAdminFromGroup)
	grants.Get("/permissions", s.ListPermissions)
	grants.Post("/permissions", s.CreatePermission)
	grants.Get("/groups", s.ListGroups)
	grants.Post("/groups", s.CreateGroup)
	grants.Post("/groups/:groupId/permissions/:permissionId", s.AddPermissionToGroup)
	grants.Delete("/groups/:groupId/permissions/:permissionId", s.RemovePermissionFromGroup)

	// Customer moderation routes
	customers := protected.Group("/customers", s.PermissionRequired(PermCustomersBlock))
	customers.Get("/", s.ListCustomers)
	customers.Post("/:id/block", s.BlockCustomer)
	customers.Get("/:id/block-reasons", s.ListBlockReasons)

	// Room routes
	rooms := protected.Group("/rooms")
	rooms.Get("/", s.ListRooms)
	rooms.Get("/:id", s.GetRoom)
	rooms.Post("/", s.PermissionRequired(PermRoomsManage), s.CreateRoom)
}

// PermissionRequired returns a middleware enforcing that the authenticated
// admin holds the given permission codename in either taxonomy.
func (s *Server) PermissionRequired(codename string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := s.actor(c)
		if err != nil {
			return respondServiceError(c, err)
		}

		ok, err := s.authz.HasPerm(c.UserContext(), actor, codename)
		if err != nil {
			return respondServiceError(c, err)
		}
		if !ok {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Missing permission: "+codename))
		}
		return c.Next()
	}
}

// actor loads the authenticated admin row for the current request.
func (s *Server) actor(c *fiber.Ctx) (*models.Admin, error) {
	adminID := middleware.AdminID(c)
	if adminID == 0 {
		return nil, models.NewUnauthorizedError("Not authenticated")
	}
	return s.adminRepo.GetByID(c.UserContext(), adminID)
}

// Shutdown releases server-held resources during graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.WarnContext(ctx, "Redis close failed", "error", err)
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the backing stores answer.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"db":     "unreachable",
		})
	}

	status := fiber.Map{"status": "ok", "db": "ok"}
	if s.redis != nil {
		if err := s.redis.Ping(c.UserContext()).Err(); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	} else {
		status["redis"] = "disabled"
	}
	return c.JSON(status)
}
