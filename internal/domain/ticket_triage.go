package domain

import "time"

// TicketPriority enumerates urgency levels assigned by classification.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TriageDisposition is the recommended handling path for a ticket.
type TriageDisposition string

const (
	DispositionAutoResolvable TriageDisposition = "auto_resolvable"
	DispositionNeedsOperator  TriageDisposition = "needs_operator"
	DispositionEscalate       TriageDisposition = "escalate"
)

// TicketTriage is the current classification attached to a ticket. At most
// one exists per ticket; re-classification replaces it. The three confidence
// scores are independent per dimension.
type TicketTriage struct {
	TicketID          string
	Category          string
	CategoryConf      float64
	Priority          TicketPriority
	PriorityConf      float64
	Disposition       TriageDisposition
	DispositionConf   float64
	Summary           string
	SuggestedResponse string
	Degraded          bool
	UpdatedAt         time.Time
}
