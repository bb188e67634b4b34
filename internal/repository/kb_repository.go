package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-platform/intake-service/internal/domain"
)

// KBRepository provides read/write access to knowledge-base articles. The
// matcher consumes it read-only.
type KBRepository interface {
	Create(ctx context.Context, article *domain.KBArticle) error
	GetByID(ctx context.Context, id string) (*domain.KBArticle, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.KBArticle, error)
}

type kbRepository struct {
	pool *pgxpool.Pool
}

// NewKBRepository builds repository.
func NewKBRepository(pool *pgxpool.Pool) KBRepository {
	return &kbRepository{pool: pool}
}

const kbColumns = `id, titles, bodies, category, type, keywords, is_published, owner_id, created_at, updated_at`

func (r *kbRepository) Create(ctx context.Context, article *domain.KBArticle) error {
	const query = `
        INSERT INTO kb_articles (titles, bodies, category, type, keywords, is_published, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.Titles,
		article.Bodies,
		article.Category,
		article.Type,
		article.Keywords,
		article.Published,
		nullableID(article.OwnerID),
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return mapPgError(err)
}

func (r *kbRepository) GetByID(ctx context.Context, id string) (*domain.KBArticle, error) {
	const query = `SELECT ` + kbColumns + ` FROM kb_articles WHERE id=$1`

	var article domain.KBArticle
	var owner *string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Titles,
		&article.Bodies,
		&article.Category,
		&article.Type,
		&article.Keywords,
		&article.Published,
		&owner,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	if owner != nil {
		article.OwnerID = *owner
	}
	return &article, nil
}

func (r *kbRepository) List(ctx context.Context, publishedOnly bool) ([]domain.KBArticle, error) {
	query := `SELECT ` + kbColumns + ` FROM kb_articles`
	if publishedOnly {
		query += ` WHERE is_published`
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.KBArticle
	for rows.Next() {
		var article domain.KBArticle
		var owner *string
		if err := rows.Scan(
			&article.ID,
			&article.Titles,
			&article.Bodies,
			&article.Category,
			&article.Type,
			&article.Keywords,
			&article.Published,
			&owner,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if owner != nil {
			article.OwnerID = *owner
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
