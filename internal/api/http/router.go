package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	KB             *handlers.KBHandler
	Chat           *handlers.ChatHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Intake, chat and KB queries are open;
// staff-side ticket updates and KB writes require a session token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	app.Post("/tickets/ingest", cfg.Tickets.Ingest)
	app.Get("/tickets", cfg.Tickets.List)
	app.Get("/tickets/:id", cfg.Tickets.Get)

	app.Post("/kb/query", cfg.KB.Query)
	app.Post("/chat", cfg.Chat.Respond)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Patch("/tickets/:id", cfg.Tickets.Update)
	protected.Post("/tickets/:id/contact", cfg.Tickets.ContactRequester)
	protected.Post("/kb/index", cfg.KB.Index)
	protected.Post("/kb/reindex", cfg.KB.Reindex)
}
