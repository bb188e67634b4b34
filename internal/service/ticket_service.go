package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/events"
	"github.com/helpdesk-platform/intake-service/internal/repository"
	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

// TicketService owns ticket records, their append-only threads and the
// current triage annotation.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	triage     repository.TriageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.TicketMessageRepository
	TriageRepo  repository.TriageRepository
	Dispatcher  events.Dispatcher
}

// UpsertTicketInput describes an inbound ticket candidate.
type UpsertTicketInput struct {
	Source   string
	SourceID string
	UserID   string
	Subject  string
	Body     string
	Language string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies, logger *zap.Logger) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		triage:     deps.TriageRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// UpsertTicket returns the ticket for (source, sourceID), creating it in
// state new on first delivery. Re-delivery returns the existing ticket
// unchanged with isNew=false.
func (s *TicketService) UpsertTicket(ctx context.Context, input UpsertTicketInput) (*domain.Ticket, bool, error) {
	existing, err := s.tickets.GetBySource(ctx, input.Source, input.SourceID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, errorutil.NewStorageFailure(err)
	}

	ticket := &domain.Ticket{
		ExternalKey: generateTicketKey(),
		Source:      input.Source,
		SourceID:    input.SourceID,
		UserID:      input.UserID,
		Subject:     strings.TrimSpace(input.Subject),
		Body:        strings.TrimSpace(input.Body),
		Language:    input.Language,
		Status:      domain.TicketStatusNew,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Concurrent delivery of the same external message; serve the winner.
			winner, err := s.tickets.GetBySource(ctx, input.Source, input.SourceID)
			if err != nil {
				return nil, false, errorutil.NewStorageFailure(err)
			}
			return winner, false, nil
		}
		return nil, false, errorutil.NewStorageFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketReceived,
		TicketID: ticket.ID,
		Payload: events.TicketReceivedPayload{
			Source:   ticket.Source,
			SourceID: ticket.SourceID,
			UserID:   ticket.UserID,
			Subject:  ticket.Subject,
		},
	})
	return ticket, true, nil
}

// AppendMessage adds an entry to the ticket's thread. It always appends;
// duplicate suppression is intake policy, not store policy.
func (s *TicketService) AppendMessage(ctx context.Context, ticketID, senderID string, senderType domain.SenderType, content string) (*domain.TicketMessage, error) {
	msg := &domain.TicketMessage{
		TicketID:   ticketID,
		SenderID:   senderID,
		SenderType: senderType,
		Content:    content,
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, errorutil.NewStorageFailure(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticketID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			SenderType:  msg.SenderType,
			Seq:         msg.Seq,
			BodyPreview: stringPreview(msg.Content, 120),
		},
	})
	return msg, nil
}

// LastMessage returns the newest thread entry, or nil when the thread is empty.
func (s *TicketService) LastMessage(ctx context.Context, ticketID string) (*domain.TicketMessage, error) {
	msg, err := s.messages.LastByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, errorutil.NewStorageFailure(err)
	}
	return msg, nil
}

// Thread returns the full message sequence for a ticket in arrival order.
func (s *TicketService) Thread(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, errorutil.NewStorageFailure(err)
	}
	return msgs, nil
}

// ThreadLength returns the number of messages on a ticket.
func (s *TicketService) ThreadLength(ctx context.Context, ticketID string) (int, error) {
	count, err := s.messages.CountByTicket(ctx, ticketID)
	if err != nil {
		return 0, errorutil.NewStorageFailure(err)
	}
	return count, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.NewStorageFailure(err)
	}
	return ticket, nil
}

// CurrentTriage returns the ticket's triage annotation, or nil when the
// ticket has not been triaged yet.
func (s *TicketService) CurrentTriage(ctx context.Context, ticketID string) (*domain.TicketTriage, error) {
	triage, err := s.triage.GetByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, errorutil.NewStorageFailure(err)
	}
	return triage, nil
}

// SetTriage replaces the ticket's triage annotation and advances a new
// ticket to triaged. Resolved and closed tickets reject annotation.
func (s *TicketService) SetTriage(ctx context.Context, ticketID string, triage *domain.TicketTriage) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.AcceptsTriage() {
		return nil, errorutil.NewTicketClosed(ticketID)
	}

	triage.TicketID = ticketID
	if err := s.triage.Upsert(ctx, triage); err != nil {
		return nil, errorutil.NewStorageFailure(err)
	}

	if ticket.Status == domain.TicketStatusNew {
		ticket.Status = domain.TicketStatusTriaged
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, errorutil.NewStorageFailure(err)
		}
	}

	if triage.Degraded {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTriageDegraded,
			TicketID: ticketID,
			Payload:  events.TriageDegradedPayload{Reason: triage.Summary},
		})
	} else {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketTriaged,
			TicketID: ticketID,
			Payload: events.TicketTriagedPayload{
				Category:        triage.Category,
				Priority:        triage.Priority,
				Disposition:     triage.Disposition,
				DispositionConf: triage.DispositionConf,
			},
		})
	}
	return ticket, nil
}

// Transition moves a ticket to newStatus, enforcing the state machine. The
// ticket is left unchanged on rejection.
func (s *TicketService) Transition(ctx context.Context, ticketID string, newStatus domain.TicketStatus, reason string) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, errorutil.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}
	if newStatus == domain.TicketStatusTriaged {
		// Only reachable once a triage annotation exists.
		triage, err := s.CurrentTriage(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if triage == nil {
			return nil, errorutil.NewInvalidTransition(string(ticket.Status), string(newStatus))
		}
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, errorutil.NewStorageFailure(err)
	}

	if newStatus == domain.TicketStatusEscalated {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketEscalated,
			TicketID: ticketID,
			Payload: events.TicketEscalatedPayload{
				FromStatus: oldStatus,
				Reason:     reason,
			},
		})
	}

	s.logger.Info("ticket transitioned",
		zap.String("ticket_id", ticketID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)))
	return ticket, nil
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusTriaged, domain.TicketStatusEscalated},
	domain.TicketStatusTriaged:    {domain.TicketStatusInProgress, domain.TicketStatusEscalated},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusEscalated},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusEscalated},
	domain.TicketStatusEscalated:  {domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func generateTicketKey() string {
	return "HD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max-1]) + "…"
}
