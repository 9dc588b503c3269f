package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hilltop/user-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Users  *handlers.UsersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	userGroup := app.Group("/api/user")
	userGroup.Post("", cfg.Users.Register)
	userGroup.Post("/login", cfg.Users.Login)
	userGroup.Post("/token/validate", cfg.Users.ValidateToken)
}
