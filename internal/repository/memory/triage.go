package memory

import (
	"context"
	"sync"
	"time"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
)

type triageRepository struct {
	mu       sync.Mutex
	byTicket map[string]domain.TicketTriage
}

// NewTriageRepository returns an in-memory triage store.
func NewTriageRepository() repository.TriageRepository {
	return &triageRepository{byTicket: make(map[string]domain.TicketTriage)}
}

func (r *triageRepository) Upsert(ctx context.Context, triage *domain.TicketTriage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	triage.UpdatedAt = time.Now()
	r.byTicket[triage.TicketID] = *triage
	return nil
}

func (r *triageRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.TicketTriage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	triage, ok := r.byTicket[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &triage, nil
}
