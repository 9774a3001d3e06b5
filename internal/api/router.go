package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/karibu-kenya/travel-api/internal/api/handler"
	"github.com/karibu-kenya/travel-api/internal/api/middleware"
	"github.com/karibu-kenya/travel-api/internal/core/domain"
	"github.com/karibu-kenya/travel-api/internal/core/ports"
	"github.com/karibu-kenya/travel-api/internal/infrastructure/http/handlers"
	"github.com/karibu-kenya/travel-api/internal/pkg/config"
)

// Dependencies bundles the wired collaborators the router needs.
type Dependencies struct {
	Accounts ports.AccountService
	Mongo    *mongo.Database
	Redis    *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("karibu"))

	authHandler := handler.NewAuthHandler(deps.Accounts)
	authMiddleware := middleware.Auth(cfg.JWT.Secret)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgotpassword", authHandler.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", authHandler.ResetPassword)
	auth.GET("/verify-email/:token", authHandler.VerifyEmail)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.GET("/me", authHandler.Me, authMiddleware)
	auth.PUT("/updatedetails", authHandler.UpdateDetails, authMiddleware)
	auth.PUT("/updatepassword", authHandler.UpdatePassword, authMiddleware)

	// --- Placeholder domain modules ---
	v1.GET("/users", handler.Placeholder("Users"), authMiddleware)
	v1.GET("/accommodation", handler.Placeholder("Accommodation"))
	v1.GET("/transport", handler.Placeholder("Transport"))
	v1.GET("/planner", handler.Placeholder("Travel Planner"))
	v1.GET("/feedback", handler.Placeholder("Feedback"))
	v1.GET("/alerts", handler.Placeholder("Alerts"), authMiddleware)
	v1.GET("/admin", handler.Placeholder("Admin"),
		authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleModerator))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
