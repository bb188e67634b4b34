package domain

import "time"

// SenderType indicates who authored a thread message.
type SenderType string

const (
	SenderTypeUser     SenderType = "user"
	SenderTypeOperator SenderType = "operator"
	SenderTypeSystem   SenderType = "system"
)

// TicketMessage is one append-only entry in a ticket's thread. Seq is the
// per-ticket arrival position assigned by the store; entries are never
// mutated or removed once written.
type TicketMessage struct {
	ID         string
	TicketID   string
	SenderID   string
	SenderType SenderType
	Content    string
	Seq        int
	CreatedAt  time.Time
}
