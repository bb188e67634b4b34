package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// TicketMessageRepository manages the append-only ticket thread. Append
// assigns the next per-ticket sequence number; entries are never mutated.
type TicketMessageRepository interface {
	Append(ctx context.Context, msg *domain.TicketMessage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
	LastByTicket(ctx context.Context, ticketID string) (*domain.TicketMessage, error)
	CountByTicket(ctx context.Context, ticketID string) (int, error)
}

type ticketMessageRepository struct {
	pool *pgxpool.Pool
}

// NewTicketMessageRepository builds repository.
func NewTicketMessageRepository(pool *pgxpool.Pool) TicketMessageRepository {
	return &ticketMessageRepository{pool: pool}
}

const appendRetries = 3

// Append uses a compare-and-append on the (ticket_id, seq) unique constraint:
// concurrent writers for the same ticket race on MAX(seq)+1 and the loser
// retries with the next slot.
func (r *ticketMessageRepository) Append(ctx context.Context, msg *domain.TicketMessage) error {
	const query = `
        INSERT INTO ticket_messages (ticket_id, sender_id, sender_type, content, seq)
        VALUES ($1,$2,$3,$4,
            (SELECT COALESCE(MAX(seq),0)+1 FROM ticket_messages WHERE ticket_id=$1))
        RETURNING id, seq, created_at`

	var lastErr error
	for attempt := 0; attempt < appendRetries; attempt++ {
		err := r.pool.QueryRow(ctx, query,
			msg.TicketID,
			msg.SenderID,
			msg.SenderType,
			msg.Content,
		).Scan(&msg.ID, &msg.Seq, &msg.CreatedAt)
		if err == nil {
			return nil
		}
		lastErr = mapPgError(err)
		if !errors.Is(lastErr, ErrDuplicate) {
			return lastErr
		}
	}
	return fmt.Errorf("append message: exhausted retries: %w", lastErr)
}

func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, sender_id, sender_type, content, seq, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.SenderType,
			&msg.Content,
			&msg.Seq,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *ticketMessageRepository) LastByTicket(ctx context.Context, ticketID string) (*domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, sender_id, sender_type, content, seq, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY seq DESC LIMIT 1`

	var msg domain.TicketMessage
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&msg.ID,
		&msg.TicketID,
		&msg.SenderID,
		&msg.SenderType,
		&msg.Content,
		&msg.Seq,
		&msg.CreatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &msg, nil
}

func (r *ticketMessageRepository) CountByTicket(ctx context.Context, ticketID string) (int, error) {
	const query = `SELECT COUNT(*) FROM ticket_messages WHERE ticket_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(&count); err != nil {
		return 0, mapPgError(err)
	}
	return count, nil
}
