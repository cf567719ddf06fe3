package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/johnrue/summit-advisory-vercel-sub002/internal/api/http/handlers"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/auth"
	"github.com/johnrue/summit-advisory-vercel-sub002/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Shifts         *handlers.ShiftsHandler
	Bulk           *handlers.BulkHandler
	Board          *handlers.BoardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	api.Get("/board", cfg.Board.Get)
	api.Get("/shifts", cfg.Shifts.List)
	api.Get("/shifts/:id/transitions", cfg.Shifts.ListTransitions)
	api.Post("/shifts/:id/transition", cfg.Shifts.Transition)

	// Bulk operations stay behind a manager gate.
	api.Post("/shifts/bulk",
		auth.RequireRole(domain.RoleManager, domain.RoleAdmin),
		cfg.Bulk.Execute)
}
