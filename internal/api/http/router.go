package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/campus-union/engage-auth/internal/api/http/handlers"
	"github.com/campus-union/engage-auth/internal/auth"
	"github.com/campus-union/engage-auth/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	AdminGuard     fiber.Handler
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/register", cfg.Auth.Register)

	api.Get("/profile", cfg.AuthMiddleware.Handle, cfg.Profile.Get)
	api.Patch("/profile", cfg.AuthMiddleware.Handle, cfg.Profile.Update)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, cfg.AdminGuard)
	admin.Get("/profiles", cfg.Admin.ListProfiles)
}
