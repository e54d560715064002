package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/api/http/handlers"
	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Metrics           *handlers.MetricsHandler
	View              *handlers.ViewHandler
	Auth              *handlers.AuthHandler
	Tickets           *handlers.TicketsHandler
	Chat              *handlers.ChatHandler
	ProfileMiddleware *auth.ProfileMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	profiled := app.Group("", cfg.ProfileMiddleware.Handle)

	profiled.Get("/view", cfg.View.Current)
	profiled.Post("/view/login", cfg.View.OpenLogin)
	profiled.Post("/view/back", cfg.View.Back)

	profiled.Post("/auth/login", cfg.Auth.Login)
	profiled.Post("/auth/logout", cfg.Auth.Logout)

	admin := auth.RequireRole(domain.RoleAdmin)
	employee := auth.RequireRole(domain.RoleUser)

	profiled.Get("/tickets", admin, cfg.Tickets.ListTickets)
	profiled.Post("/tickets", employee, cfg.Tickets.CreateTicket)
	profiled.Get("/tickets/:id", admin, cfg.Tickets.GetTicket)
	profiled.Post("/tickets/:id/close", admin, cfg.Tickets.CloseTicket)

	chat := profiled.Group("/chat", employee)
	chat.Post("/mount", cfg.Chat.Mount)
	chat.Get("", cfg.Chat.Transcript)
	chat.Post("/messages", cfg.Chat.Send)
	chat.Get("/escalation", cfg.Chat.Escalation)
	chat.Get("/manual", cfg.Chat.Manual)

	app.Use(notFound)
}
