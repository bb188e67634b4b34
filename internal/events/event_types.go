package events

import (
	"time"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketReceived     EventType = "ticket_received"
	EventTicketMessageAdded EventType = "ticket_message_added"
	EventTicketTriaged      EventType = "ticket_triaged"
	EventTriageDegraded     EventType = "triage_degraded"
	EventTicketEscalated    EventType = "ticket_escalated"
)

// Event represents a domain event emitted by the intake pipeline.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketReceivedPayload payload.
type TicketReceivedPayload struct {
	Source   string `json:"source"`
	SourceID string `json:"source_id"`
	UserID   string `json:"user_id"`
	Subject  string `json:"subject"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string            `json:"message_id"`
	SenderType  domain.SenderType `json:"sender_type"`
	Seq         int               `json:"seq"`
	BodyPreview string            `json:"body_preview"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	Category        string                   `json:"category"`
	Priority        domain.TicketPriority    `json:"priority"`
	Disposition     domain.TriageDisposition `json:"disposition"`
	DispositionConf float64                  `json:"disposition_conf"`
}

// TriageDegradedPayload payload.
type TriageDegradedPayload struct {
	Reason string `json:"reason"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	FromStatus domain.TicketStatus `json:"from_status"`
	Reason     string              `json:"reason"`
}
