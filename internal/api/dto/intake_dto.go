package dto

import (
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/service"
)

// IntakeUser identifies the message author on the originating channel.
type IntakeUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// IntakeMessageRequest is the payload channel adapters deliver.
type IntakeMessageRequest struct {
	Source   string     `json:"source"`
	SourceID string     `json:"source_id"`
	User     IntakeUser `json:"user"`
	Subject  string     `json:"subject,omitempty"`
	Body     string     `json:"body"`
	Language string     `json:"language,omitempty"`
}

// TriageResponse mirrors the stored annotation.
type TriageResponse struct {
	Category          string  `json:"category"`
	CategoryConf      float64 `json:"category_conf"`
	Priority          string  `json:"priority"`
	PriorityConf      float64 `json:"priority_conf"`
	Disposition       string  `json:"disposition"`
	DispositionConf   float64 `json:"disposition_conf"`
	Summary           string  `json:"summary,omitempty"`
	SuggestedResponse string  `json:"suggested_response,omitempty"`
	Degraded          bool    `json:"degraded,omitempty"`
}

// KBSuggestionResponse references one proposed article.
type KBSuggestionResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// IntakeResponse is the ticket state relayed back to the channel.
type IntakeResponse struct {
	TicketID     string                 `json:"ticket_id"`
	ExternalKey  string                 `json:"external_key"`
	Status       string                 `json:"status"`
	IsNew        bool                   `json:"is_new"`
	ThreadLength int                    `json:"thread_length"`
	Triage       *TriageResponse        `json:"triage,omitempty"`
	Suggestions  []KBSuggestionResponse `json:"suggestions,omitempty"`
}

// FromIntakeResult converts the coordinator output.
func FromIntakeResult(result *service.IntakeResult, lang string) IntakeResponse {
	resp := IntakeResponse{
		TicketID:     result.Ticket.ID,
		ExternalKey:  result.Ticket.ExternalKey,
		Status:       string(result.Ticket.Status),
		IsNew:        result.IsNewTicket,
		ThreadLength: result.ThreadLength,
		Triage:       FromTriage(result.Triage),
	}
	for i := range result.Suggestions {
		resp.Suggestions = append(resp.Suggestions, fromSuggestion(&result.Suggestions[i], lang))
	}
	return resp
}

// FromTriage converts the annotation, tolerating its absence.
func FromTriage(triage *domain.TicketTriage) *TriageResponse {
	if triage == nil {
		return nil
	}
	return &TriageResponse{
		Category:          triage.Category,
		CategoryConf:      triage.CategoryConf,
		Priority:          string(triage.Priority),
		PriorityConf:      triage.PriorityConf,
		Disposition:       string(triage.Disposition),
		DispositionConf:   triage.DispositionConf,
		Summary:           triage.Summary,
		SuggestedResponse: triage.SuggestedResponse,
		Degraded:          triage.Degraded,
	}
}

func fromSuggestion(article *domain.KBArticle, lang string) KBSuggestionResponse {
	return KBSuggestionResponse{
		ID:       article.ID,
		Title:    article.Title(lang),
		Category: article.Category,
		Type:     string(article.Type),
	}
}
