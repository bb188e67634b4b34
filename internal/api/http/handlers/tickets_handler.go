package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-platform/intake-service/internal/api/dto"
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/service"
	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

// TicketsHandler exposes operator-facing ticket reads and status moves.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id := c.Params("id")
	ticket, err := h.tickets.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	triage, err := h.tickets.CurrentTriage(c.UserContext(), id)
	if err != nil {
		return err
	}
	msgs, err := h.tickets.Thread(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicketDetail(ticket, triage, msgs)})
}

// Transition POST /tickets/:id/transition.
func (h *TicketsHandler) Transition(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	status := domain.TicketStatus(strings.TrimSpace(req.Status))
	if status == "" {
		return errorutil.NewValidationError("status required", nil)
	}

	ticket, err := h.tickets.Transition(c.UserContext(), c.Params("id"), status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"id":     ticket.ID,
		"status": string(ticket.Status),
	}})
}
