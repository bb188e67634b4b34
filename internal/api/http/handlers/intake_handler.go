package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-platform/intake-service/internal/api/dto"
	"github.com/helpdesk-platform/intake-service/internal/service"
	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

// IntakeHandler receives inbound messages from channel adapters.
type IntakeHandler struct {
	intake *service.IntakeService
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(intake *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// ReceiveMessage POST /intake/messages.
func (h *IntakeHandler) ReceiveMessage(c *fiber.Ctx) error {
	var req dto.IntakeMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.SourceID) == "" {
		return errorutil.NewValidationError("source and source_id required", nil)
	}
	if strings.TrimSpace(req.User.ID) == "" {
		return errorutil.NewValidationError("user.id required", nil)
	}
	if strings.TrimSpace(req.Body) == "" {
		return errorutil.NewValidationError("body required", nil)
	}

	result, err := h.intake.Ingest(c.UserContext(), service.IntakeRequest{
		Source:    req.Source,
		SourceID:  req.SourceID,
		UserExtID: req.User.ID,
		UserName:  req.User.Name,
		UserEmail: req.User.Email,
		Subject:   req.Subject,
		Body:      req.Body,
		Language:  req.Language,
	})
	if err != nil {
		return err
	}

	status := http.StatusOK
	if result.IsNewTicket {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": dto.FromIntakeResult(result, req.Language)})
}
