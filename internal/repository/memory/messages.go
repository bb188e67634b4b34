package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
)

type ticketMessageRepository struct {
	mu       sync.Mutex
	byTicket map[string][]domain.TicketMessage
}

// NewTicketMessageRepository returns an in-memory thread store. The store
// lock serializes concurrent appends; sequence numbers are assigned in
// arrival order.
func NewTicketMessageRepository() repository.TicketMessageRepository {
	return &ticketMessageRepository{byTicket: make(map[string][]domain.TicketMessage)}
}

func (r *ticketMessageRepository) Append(ctx context.Context, msg *domain.TicketMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	thread := r.byTicket[msg.TicketID]
	msg.ID = uuid.NewString()
	msg.Seq = len(thread) + 1
	msg.CreatedAt = time.Now()
	r.byTicket[msg.TicketID] = append(thread, *msg)
	return nil
}

func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	thread := r.byTicket[ticketID]
	out := make([]domain.TicketMessage, len(thread))
	copy(out, thread)
	return out, nil
}

func (r *ticketMessageRepository) LastByTicket(ctx context.Context, ticketID string) (*domain.TicketMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	thread := r.byTicket[ticketID]
	if len(thread) == 0 {
		return nil, repository.ErrNotFound
	}
	last := thread[len(thread)-1]
	return &last, nil
}

func (r *ticketMessageRepository) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byTicket[ticketID]), nil
}
