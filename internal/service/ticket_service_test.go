package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/events"
	"github.com/helpdesk-platform/intake-service/internal/repository/memory"
	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

func newTicketService() *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo:  memory.NewTicketRepository(),
		MessageRepo: memory.NewTicketMessageRepository(),
		TriageRepo:  memory.NewTriageRepository(),
	}, zap.NewNop())
}

func createTicket(t *testing.T, svc *TicketService, source, sourceID string) *domain.Ticket {
	t.Helper()
	ticket, isNew, err := svc.UpsertTicket(context.Background(), UpsertTicketInput{
		Source:   source,
		SourceID: sourceID,
		UserID:   "u-1",
		Subject:  "VPN down",
		Body:     "cannot connect",
		Language: "en",
	})
	require.NoError(t, err)
	require.True(t, isNew)
	return ticket
}

func operatorTriage(disposition domain.TriageDisposition) *domain.TicketTriage {
	return &domain.TicketTriage{
		Category:        "access_vpn",
		CategoryConf:    0.8,
		Priority:        domain.TicketPriorityHigh,
		PriorityConf:    0.7,
		Disposition:     disposition,
		DispositionConf: 0.9,
		Summary:         "vpn outage",
	}
}

func TestUpsertTicketIdempotentOnSourceKey(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()

	first := createTicket(t, svc, "telegram", "tg:msg-1")
	assert.Equal(t, domain.TicketStatusNew, first.Status)
	assert.True(t, strings.HasPrefix(first.ExternalKey, "HD-"))

	second, isNew, err := svc.UpsertTicket(ctx, UpsertTicketInput{
		Source:   "telegram",
		SourceID: "tg:msg-1",
		UserID:   "u-2",
		Subject:  "different subject",
		Body:     "different body",
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "VPN down", second.Subject)
}

func TestAppendMessageAssignsSequentialSeq(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "email", "msg-7")

	for i := 1; i <= 3; i++ {
		msg, err := svc.AppendMessage(ctx, ticket.ID, "u-1", domain.SenderTypeUser, "update")
		require.NoError(t, err)
		assert.Equal(t, i, msg.Seq)
	}

	thread, err := svc.Thread(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	for i, msg := range thread {
		assert.Equal(t, i+1, msg.Seq)
	}

	length, err := svc.ThreadLength(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, length)
}

func TestLastMessageNilOnEmptyThread(t *testing.T) {
	svc := newTicketService()
	ticket := createTicket(t, svc, "portal", "p-1")

	last, err := svc.LastMessage(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSetTriageAdvancesNewToTriaged(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:1")

	updated, err := svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusTriaged, updated.Status)

	triage, err := svc.CurrentTriage(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, triage)
	assert.Equal(t, "access_vpn", triage.Category)
}

func TestSetTriageReplacesPreviousAnnotation(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:2")

	_, err := svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.NoError(t, err)

	second := operatorTriage(domain.DispositionAutoResolvable)
	second.Category = "network"
	_, err = svc.SetTriage(ctx, ticket.ID, second)
	require.NoError(t, err)

	triage, err := svc.CurrentTriage(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, triage)
	assert.Equal(t, "network", triage.Category)
	assert.Equal(t, domain.DispositionAutoResolvable, triage.Disposition)
}

func TestSetTriageRejectedOnResolvedAndClosed(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:3")

	_, err := svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.NoError(t, err)
	_, err = svc.Transition(ctx, ticket.ID, domain.TicketStatusInProgress, "")
	require.NoError(t, err)
	_, err = svc.Transition(ctx, ticket.ID, domain.TicketStatusResolved, "")
	require.NoError(t, err)

	_, err = svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, "TICKET_CLOSED"))

	_, err = svc.Transition(ctx, ticket.ID, domain.TicketStatusClosed, "")
	require.NoError(t, err)

	_, err = svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, "TICKET_CLOSED"))
}

func TestTransitionToTriagedRequiresAnnotation(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:4")

	_, err := svc.Transition(ctx, ticket.ID, domain.TicketStatusTriaged, "")
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, "INVALID_TRANSITION"))

	_, err = svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.NoError(t, err)

	got, err := svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusTriaged, got.Status)
}

func TestTransitionClosedIsTerminal(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:5")

	_, err := svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.NoError(t, err)
	for _, next := range []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	} {
		_, err = svc.Transition(ctx, ticket.ID, next, "")
		require.NoError(t, err)
	}

	targets := []domain.TicketStatus{
		domain.TicketStatusNew,
		domain.TicketStatusTriaged,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusEscalated,
		domain.TicketStatusClosed,
	}
	for _, target := range targets {
		_, err := svc.Transition(ctx, ticket.ID, target, "")
		require.Error(t, err, "closed ticket accepted transition to %s", target)
		assert.True(t, errorutil.IsCode(err, "INVALID_TRANSITION"))
	}

	got, err := svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, got.Status)
}

func TestTransitionEscalationAndReturn(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:6")

	escalated, err := svc.Transition(ctx, ticket.ID, domain.TicketStatusEscalated, "angry caller")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusEscalated, escalated.Status)

	back, err := svc.Transition(ctx, ticket.ID, domain.TicketStatusInProgress, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, back.Status)

	_, err = svc.Transition(ctx, ticket.ID, domain.TicketStatusClosed, "")
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, "INVALID_TRANSITION"))
}

func TestTransitionRejectionLeavesTicketUnchanged(t *testing.T) {
	svc := newTicketService()
	ctx := context.Background()
	ticket := createTicket(t, svc, "telegram", "tg:7")

	_, err := svc.Transition(ctx, ticket.ID, domain.TicketStatusResolved, "")
	require.Error(t, err)

	got, err := svc.GetTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusNew, got.Status)
}

func TestGetTicketNotFound(t *testing.T) {
	svc := newTicketService()

	_, err := svc.GetTicket(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, "NOT_FOUND"))
}

func TestSetTriagePublishesDegradedEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var degraded []events.Event
	var triaged []events.Event
	dispatcher.Subscribe(events.EventTriageDegraded, func(_ context.Context, e events.Event) error {
		degraded = append(degraded, e)
		return nil
	})
	dispatcher.Subscribe(events.EventTicketTriaged, func(_ context.Context, e events.Event) error {
		triaged = append(triaged, e)
		return nil
	})

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  memory.NewTicketRepository(),
		MessageRepo: memory.NewTicketMessageRepository(),
		TriageRepo:  memory.NewTriageRepository(),
		Dispatcher:  dispatcher,
	}, zap.NewNop())
	ctx := context.Background()
	ticket := createTicket(t, svc, "email", "msg-degraded")

	_, err := svc.SetTriage(ctx, ticket.ID, &domain.TicketTriage{
		Priority:    domain.TicketPriorityMedium,
		Disposition: domain.DispositionNeedsOperator,
		Summary:     "classification unavailable",
		Degraded:    true,
	})
	require.NoError(t, err)

	require.Len(t, degraded, 1)
	payload, ok := degraded[0].Payload.(events.TriageDegradedPayload)
	require.True(t, ok, "degraded annotations carry their own payload")
	assert.Equal(t, "classification unavailable", payload.Reason)
	assert.Empty(t, triaged)

	_, err = svc.SetTriage(ctx, ticket.ID, operatorTriage(domain.DispositionNeedsOperator))
	require.NoError(t, err)

	require.Len(t, triaged, 1)
	scored, ok := triaged[0].Payload.(events.TicketTriagedPayload)
	require.True(t, ok)
	assert.Equal(t, "access_vpn", scored.Category)
	assert.Len(t, degraded, 1)
}
