package routes

import (
	"eventaro/internal/adapters/http/handlers"
	"eventaro/internal/adapters/http/middleware"
	"eventaro/internal/adapters/persistence/repositories"
	"eventaro/internal/config"
	"eventaro/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup assembles the object graph and configures all routes
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	eventService := services.NewEventService(eventRepo, reservationRepo)
	ticketService := services.NewTicketService()
	reservationService := services.NewReservationService(
		db,
		reservationRepo,
		eventRepo,
		userRepo,
		ticketService,
		cfg.Reservation.CancelLeadHours,
	)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	eventHandler := handlers.NewEventHandler(eventService)
	reservationHandler := handlers.NewReservationHandler(reservationService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	setupAuthRoutes(api.Group("/auth"), authHandler, cfg)
	setupEventRoutes(api.Group("/events"), eventHandler, cfg)
	setupReservationRoutes(api.Group("/reservations"), reservationHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, cfg *config.Config) {
	authLimiter := middleware.AuthRateLimiter()

	// Public
	router.Post("/register", authLimiter, h.Register)
	router.Post("/login", authLimiter, h.Login)

	// Valid refresh token required
	router.Get("/refresh", authLimiter, middleware.RefreshMiddleware(cfg), h.Refresh)

	// Authenticated
	router.Post("/logout", middleware.AuthMiddleware(cfg), h.Logout)
	router.Get("/me", middleware.AuthMiddleware(cfg), h.Me)
}

// setupEventRoutes configures event catalog routes
func setupEventRoutes(router fiber.Router, h *handlers.EventHandler, cfg *config.Config) {
	// Public catalog
	router.Get("/published", h.FindPublished)
	router.Get("/published/:id", h.FindOnePublished)

	// Admin catalog & lifecycle. Static paths registered before :id.
	admin := router.Group("", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	admin.Get("/", h.FindAll)
	admin.Get("/upcoming", h.FindUpcoming)
	admin.Post("/", h.Create)
	admin.Get("/:id", h.FindOne)
	admin.Get("/:id/stats", h.GetStats)
	admin.Patch("/:id", h.Update)
	admin.Delete("/:id", h.Delete)
}

// setupReservationRoutes configures reservation ledger routes
func setupReservationRoutes(router fiber.Router, h *handlers.ReservationHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))

	// Any authenticated user
	router.Post("/", h.Create)
	router.Get("/my", h.FindMy)

	// Admin views
	router.Get("/all", middleware.AdminOnly(), h.FindAll)
	router.Get("/stats", middleware.AdminOnly(), h.Stats)

	// Status transitions
	router.Patch("/:id/confirm", middleware.AdminOnly(), h.Confirm)
	router.Patch("/:id/refuse", middleware.AdminOnly(), h.Refuse)
	router.Patch("/:id/cancel", h.Cancel)

	// Ticket download (owner or admin, enforced in the service)
	router.Get("/:id/ticket", h.Ticket)
}
