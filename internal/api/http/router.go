package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-platform/intake-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Intake  *handlers.IntakeHandler
	Tickets *handlers.TicketsHandler
	KB      *handlers.KBHandler
}

// RegisterRoutes wires HTTP routes. Authentication is handled by the
// platform gateway in front of this service.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/intake/messages", cfg.Intake.ReceiveMessage)

	app.Get("/tickets/:id", cfg.Tickets.GetTicket)
	app.Post("/tickets/:id/transition", cfg.Tickets.Transition)

	app.Get("/kb/search", cfg.KB.Search)
}
