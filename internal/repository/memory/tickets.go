package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
)

type ticketRepository struct {
	mu       sync.Mutex
	tickets  map[string]*domain.Ticket
	bySource map[sourceKey]string
}

type sourceKey struct {
	source   string
	sourceID string
}

// NewTicketRepository returns an in-memory ticket store.
func NewTicketRepository() repository.TicketRepository {
	return &ticketRepository{
		tickets:  make(map[string]*domain.Ticket),
		bySource: make(map[sourceKey]string),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sourceKey{ticket.Source, ticket.SourceID}
	if _, exists := r.bySource[key]; exists {
		return repository.ErrDuplicate
	}

	now := time.Now()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	r.bySource[key] = ticket.ID
	return nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[ticket.ID]; !ok {
		return repository.ErrNotFound
	}
	ticket.UpdatedAt = time.Now()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *ticketRepository) GetBySource(ctx context.Context, source, sourceID string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.bySource[sourceKey{source, sourceID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r.tickets[id]
	return &copied, nil
}
