package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helpdesk-platform/intake-service/internal/classify"
	"github.com/helpdesk-platform/intake-service/internal/config"
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/observability"
)

// DeliveryGuard records delivery keys with a TTL and reports whether a key
// was already present. persistence.Redis implements it via SET NX.
type DeliveryGuard interface {
	MarkDelivery(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// IntakeService is the entry point for inbound channel messages. It resolves
// the sender, upserts the ticket, appends to the thread, annotates, and
// proposes KB guidance. Only storage failures abort an ingest; everything
// else degrades into a successful-but-unclassified outcome.
type IntakeService struct {
	identity  *IdentityService
	tickets   *TicketService
	annotator *TriageService
	matcher   *KBService
	guard     DeliveryGuard
	metrics   *observability.Metrics
	logger    *zap.Logger
	cfg       config.IntakeConfig
}

// IntakeRequest is one inbound message as delivered by a channel adapter.
type IntakeRequest struct {
	Source    string
	SourceID  string
	UserExtID string
	UserName  string
	UserEmail string
	Subject   string
	Body      string
	Language  string
}

// IntakeResult is the ticket state returned to the channel adapter.
type IntakeResult struct {
	Ticket       *domain.Ticket
	Triage       *domain.TicketTriage
	Suggestions  []domain.KBArticle
	ThreadLength int
	IsNewTicket  bool
}

// NewIntakeService constructs the coordinator. guard may be nil; the
// delivery fast path is best-effort.
func NewIntakeService(identity *IdentityService, tickets *TicketService, annotator *TriageService, matcher *KBService, guard DeliveryGuard, cfg config.IntakeConfig, metrics *observability.Metrics, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		identity:  identity,
		tickets:   tickets,
		annotator: annotator,
		matcher:   matcher,
		guard:     guard,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Ingest processes one inbound message. The durable steps (identity, ticket
// upsert, message append) run detached from caller cancellation: once a
// channel has handed us a message it is recorded even if the channel hangs
// up. Classification and matching observe the caller's context.
func (s *IntakeService) Ingest(ctx context.Context, req IntakeRequest) (*IntakeResult, error) {
	s.metrics.Inc(observability.MetricIngests)
	durable := context.WithoutCancel(ctx)

	user, err := s.identity.Resolve(durable, req.Source, req.UserExtID, req.UserName, req.UserEmail)
	if err != nil {
		return nil, err
	}

	ticket, isNew, err := s.tickets.UpsertTicket(durable, UpsertTicketInput{
		Source:   req.Source,
		SourceID: req.SourceID,
		UserID:   user.ID,
		Subject:  req.Subject,
		Body:     req.Body,
		Language: req.Language,
	})
	if err != nil {
		return nil, err
	}
	if isNew {
		s.metrics.Inc(observability.MetricTicketsCreated)
	}

	if err := s.appendUnlessDuplicate(durable, ticket, user, req.Body); err != nil {
		return nil, err
	}

	triage, err := s.tickets.CurrentTriage(durable, ticket.ID)
	if err != nil {
		return nil, err
	}

	// Best-effort delivery guard: an identical delivery seen within the TTL
	// skips re-annotation and matching. Honored only once a triage record
	// exists, so a failed annotation write is retried on the next delivery.
	// Correctness never depends on the guard; the (source, source_id)
	// constraint is the source of truth.
	if s.deliverySeen(ctx, req) && triage != nil {
		s.metrics.Inc(observability.MetricDeliveriesSeen)
		return s.currentState(durable, ticket, isNew)
	}

	var suggestions []domain.KBArticle
	if isNew || triage == nil {
		triage = s.annotator.Annotate(ctx, ticket)

		suggestions = s.suggest(ctx, ticket, triage)
		if triage.SuggestedResponse == "" && len(suggestions) > 0 {
			triage.SuggestedResponse = composeSuggestedResponse(suggestions[0], ticket.Language)
		}

		if updated, err := s.tickets.SetTriage(durable, ticket.ID, triage); err != nil {
			// The message is already durably recorded; a failed annotation
			// write is re-attempted on the next delivery.
			s.logger.Error("failed to persist triage", zap.String("ticket_id", ticket.ID), zap.Error(err))
			triage = nil
		} else {
			ticket = updated
		}

		if triage != nil && triage.Disposition == domain.DispositionEscalate {
			s.metrics.Inc(observability.MetricEscalations)
			if escalated, err := s.tickets.Transition(durable, ticket.ID, domain.TicketStatusEscalated, "classifier disposition"); err == nil {
				ticket = escalated
			} else {
				s.logger.Warn("escalation transition failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
			}
		}
	} else {
		suggestions = s.suggest(ctx, ticket, triage)
	}

	length, err := s.tickets.ThreadLength(durable, ticket.ID)
	if err != nil {
		return nil, err
	}

	return &IntakeResult{
		Ticket:       ticket,
		Triage:       triage,
		Suggestions:  suggestions,
		ThreadLength: length,
		IsNewTicket:  isNew,
	}, nil
}

// appendUnlessDuplicate appends the delivered body to the thread unless the
// newest entry already carries identical content from the same sender, which
// is the signature of channel-level re-delivery. The inbound body is used,
// not the stored ticket's: on re-delivery the upsert returns the original
// ticket and follow-ups would otherwise never reach the thread.
func (s *IntakeService) appendUnlessDuplicate(ctx context.Context, ticket *domain.Ticket, user *domain.User, body string) error {
	content := strings.TrimSpace(body)

	last, err := s.tickets.LastMessage(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if last != nil && last.SenderID == user.ID && last.SenderType == domain.SenderTypeUser && last.Content == content {
		s.metrics.Inc(observability.MetricDedupSuppressed)
		s.logger.Debug("suppressed duplicate thread message",
			zap.String("ticket_id", ticket.ID),
			zap.Int("last_seq", last.Seq))
		return nil
	}

	_, err = s.tickets.AppendMessage(ctx, ticket.ID, user.ID, domain.SenderTypeUser, content)
	return err
}

func (s *IntakeService) deliverySeen(ctx context.Context, req IntakeRequest) bool {
	if s.guard == nil || s.cfg.DedupTTL() <= 0 {
		return false
	}
	sum := sha256.Sum256([]byte(req.Body))
	key := "intake:delivery:" + req.Source + ":" + req.SourceID + ":" + hex.EncodeToString(sum[:8])
	seen, err := s.guard.MarkDelivery(ctx, key, s.cfg.DedupTTL())
	if err != nil {
		s.logger.Debug("delivery guard unavailable", zap.Error(err))
		return false
	}
	return seen
}

func (s *IntakeService) suggest(ctx context.Context, ticket *domain.Ticket, triage *domain.TicketTriage) []domain.KBArticle {
	if triage == nil || triage.Degraded {
		return nil
	}

	keywords := classify.Keywords(ticket.Subject + " " + ticket.Body)
	matches, err := s.matcher.Match(ctx, MatchQuery{
		Category: triage.Category,
		Keywords: keywords,
		Language: ticket.Language,
		Limit:    s.cfg.SuggestionLimit,
	})
	if err != nil {
		s.logger.Warn("kb matching failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}
	return matches
}

func (s *IntakeService) currentState(ctx context.Context, ticket *domain.Ticket, isNew bool) (*IntakeResult, error) {
	triage, err := s.tickets.CurrentTriage(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	length, err := s.tickets.ThreadLength(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return &IntakeResult{
		Ticket:       ticket,
		Triage:       triage,
		ThreadLength: length,
		IsNewTicket:  isNew,
	}, nil
}

func composeSuggestedResponse(article domain.KBArticle, lang string) string {
	body := article.Body(lang)
	title := article.Title(lang)
	if title == "" {
		return body
	}
	return title + "\n\n" + body
}
