package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusTriaged    TicketStatus = "triaged"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusEscalated  TicketStatus = "escalated"
)

// Terminal reports whether no transition may leave the status.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusClosed
}

// AcceptsTriage reports whether a triage annotation may still be stored.
// Resolved and closed tickets reject further annotation.
func (s TicketStatus) AcceptsTriage() bool {
	return s != TicketStatusResolved && s != TicketStatusClosed
}

// Ticket is the aggregate for inbound support requests. (Source, SourceID) is
// the natural key: re-delivery of the same external message maps onto the
// same ticket.
type Ticket struct {
	ID          string
	ExternalKey string
	Source      string
	SourceID    string
	UserID      string
	Subject     string
	Body        string
	Language    string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
