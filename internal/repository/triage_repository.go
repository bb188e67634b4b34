package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// TriageRepository stores the single current triage annotation per ticket.
// Upsert replaces any existing record for the ticket.
type TriageRepository interface {
	Upsert(ctx context.Context, triage *domain.TicketTriage) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.TicketTriage, error)
}

type triageRepository struct {
	pool *pgxpool.Pool
}

// NewTriageRepository builds repository.
func NewTriageRepository(pool *pgxpool.Pool) TriageRepository {
	return &triageRepository{pool: pool}
}

func (r *triageRepository) Upsert(ctx context.Context, triage *domain.TicketTriage) error {
	const query = `
        INSERT INTO ticket_nlp (ticket_id, category, category_conf, priority, priority_conf,
            triage, triage_conf, summary, suggested_response, degraded, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
        ON CONFLICT (ticket_id) DO UPDATE SET
            category=EXCLUDED.category,
            category_conf=EXCLUDED.category_conf,
            priority=EXCLUDED.priority,
            priority_conf=EXCLUDED.priority_conf,
            triage=EXCLUDED.triage,
            triage_conf=EXCLUDED.triage_conf,
            summary=EXCLUDED.summary,
            suggested_response=EXCLUDED.suggested_response,
            degraded=EXCLUDED.degraded,
            updated_at=NOW()
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		triage.TicketID,
		triage.Category,
		triage.CategoryConf,
		triage.Priority,
		triage.PriorityConf,
		triage.Disposition,
		triage.DispositionConf,
		triage.Summary,
		triage.SuggestedResponse,
		triage.Degraded,
	).Scan(&triage.UpdatedAt)
	return mapPgError(err)
}

func (r *triageRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.TicketTriage, error) {
	const query = `
        SELECT ticket_id, category, category_conf, priority, priority_conf,
               triage, triage_conf, summary, suggested_response, degraded, updated_at
        FROM ticket_nlp WHERE ticket_id=$1`

	var triage domain.TicketTriage
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&triage.TicketID,
		&triage.Category,
		&triage.CategoryConf,
		&triage.Priority,
		&triage.PriorityConf,
		&triage.Disposition,
		&triage.DispositionConf,
		&triage.Summary,
		&triage.SuggestedResponse,
		&triage.Degraded,
		&triage.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &triage, nil
}
