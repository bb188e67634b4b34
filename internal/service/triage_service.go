package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helpdesk-platform/intake-service/internal/classify"
	"github.com/helpdesk-platform/intake-service/internal/config"
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/observability"
)

// TriageService attaches classification output to tickets. The scoring
// service is treated as slow and fallible: every call carries a bounded
// timeout, and any failure produces a degraded annotation instead of an
// error. A ticket is never left without a triage record.
type TriageService struct {
	classifier classify.Classifier
	timeout    time.Duration
	threshold  float64
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewTriageService constructs the annotator.
func NewTriageService(classifier classify.Classifier, cfg config.TriageConfig, metrics *observability.Metrics, logger *zap.Logger) *TriageService {
	return &TriageService{
		classifier: classifier,
		timeout:    cfg.ClassifyTimeout(),
		threshold:  cfg.AutoResolveThreshold,
		metrics:    metrics,
		logger:     logger,
	}
}

// Annotate classifies the ticket and returns the resulting triage.
// auto_resolvable is only honored when the disposition confidence clears the
// configured threshold; otherwise the disposition is downgraded to
// needs_operator so low-confidence cases are never silently auto-closed.
func (s *TriageService) Annotate(ctx context.Context, ticket *domain.Ticket) *domain.TicketTriage {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.classifier.Classify(cctx, classifyText(ticket), ticket.Language)
	if err != nil {
		s.metrics.Inc(observability.MetricTriagesDegraded)
		s.logger.Warn("classification unavailable, storing degraded triage",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return degradedTriage(ticket.ID)
	}

	triage := &domain.TicketTriage{
		TicketID:        ticket.ID,
		Category:        result.Category,
		CategoryConf:    clampConf(result.CategoryConf),
		Priority:        result.Priority,
		PriorityConf:    clampConf(result.PriorityConf),
		Disposition:     result.Disposition,
		DispositionConf: clampConf(result.DispositionConf),
		Summary:         result.Summary,
	}
	if triage.Priority == "" {
		triage.Priority = domain.TicketPriorityMedium
	}

	if triage.Disposition == domain.DispositionAutoResolvable && triage.DispositionConf < s.threshold {
		s.metrics.Inc(observability.MetricTriagesDowngrade)
		s.logger.Debug("auto_resolvable below threshold, downgrading to needs_operator",
			zap.String("ticket_id", ticket.ID),
			zap.Float64("disposition_conf", triage.DispositionConf),
			zap.Float64("threshold", s.threshold))
		triage.Disposition = domain.DispositionNeedsOperator
	}

	return triage
}

// classifyText joins subject and body for classification. Users routinely put
// the distinguishing terms in the subject line only, so both fields feed the
// classifier, mirroring how article keywords are derived.
func classifyText(ticket *domain.Ticket) string {
	return strings.TrimSpace(strings.TrimSpace(ticket.Subject) + " " + strings.TrimSpace(ticket.Body))
}

// degradedTriage is the annotation stored when classification fails: the
// ticket goes to an operator with zero confidence on every dimension.
func degradedTriage(ticketID string) *domain.TicketTriage {
	return &domain.TicketTriage{
		TicketID:    ticketID,
		Category:    "",
		Priority:    domain.TicketPriorityMedium,
		Disposition: domain.DispositionNeedsOperator,
		Summary:     "classification unavailable",
		Degraded:    true,
	}
}

func clampConf(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
