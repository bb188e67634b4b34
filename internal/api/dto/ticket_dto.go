package dto

import (
	"time"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// TicketMessageResponse represents one thread entry.
type TicketMessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderType string    `json:"sender_type"`
	Content    string    `json:"content"`
	Seq        int       `json:"seq"`
	CreatedAt  time.Time `json:"created_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          string                  `json:"id"`
	ExternalKey string                  `json:"external_key"`
	Source      string                  `json:"source"`
	SourceID    string                  `json:"source_id"`
	UserID      string                  `json:"user_id"`
	Subject     string                  `json:"subject"`
	Body        string                  `json:"body"`
	Language    string                  `json:"language"`
	Status      string                  `json:"status"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Triage      *TriageResponse         `json:"triage,omitempty"`
	Messages    []TicketMessageResponse `json:"messages"`
}

// TransitionRequest asks for a status move.
type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// FromTicketDetail converts a ticket with its thread and triage.
func FromTicketDetail(ticket *domain.Ticket, triage *domain.TicketTriage, msgs []domain.TicketMessage) TicketDetailResponse {
	resp := TicketDetailResponse{
		ID:          ticket.ID,
		ExternalKey: ticket.ExternalKey,
		Source:      ticket.Source,
		SourceID:    ticket.SourceID,
		UserID:      ticket.UserID,
		Subject:     ticket.Subject,
		Body:        ticket.Body,
		Language:    ticket.Language,
		Status:      string(ticket.Status),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		Triage:      FromTriage(triage),
		Messages:    make([]TicketMessageResponse, 0, len(msgs)),
	}
	for _, msg := range msgs {
		resp.Messages = append(resp.Messages, TicketMessageResponse{
			ID:         msg.ID,
			SenderID:   msg.SenderID,
			SenderType: string(msg.SenderType),
			Content:    msg.Content,
			Seq:        msg.Seq,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return resp
}
