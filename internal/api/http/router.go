package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Meta           *handlers.MetaHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)
	app.Get("/meta/options", cfg.Meta.Options)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Auth.Session)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", auth.RequireAdmin(), cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/assignee", auth.RequireAdmin(), cfg.Tickets.UpdateAssignee)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/:id/tickets", auth.RequireSelfOrAdmin("id"), cfg.Tickets.ListReporterTickets)
	users.Get("/", auth.RequireAdmin(), cfg.Users.ListUsers)
	users.Post("/", auth.RequireAdmin(), cfg.Users.CreateUser)
	users.Delete("/:id", auth.RequireAdmin(), cfg.Users.DeleteUser)
	users.Post("/:id/reset-password", auth.RequireAdmin(), cfg.Users.ResetPassword)
}
