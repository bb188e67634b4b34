package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
)

type kbRepository struct {
	mu       sync.Mutex
	articles map[string]*domain.KBArticle
}

// NewKBRepository returns an in-memory knowledge-base store.
func NewKBRepository() repository.KBRepository {
	return &kbRepository{articles: make(map[string]*domain.KBArticle)}
}

func (r *kbRepository) Create(ctx context.Context, article *domain.KBArticle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	article.ID = uuid.NewString()
	article.CreatedAt = now
	article.UpdatedAt = now
	stored := *article
	r.articles[article.ID] = &stored
	return nil
}

func (r *kbRepository) GetByID(ctx context.Context, id string) (*domain.KBArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *article
	return &copied, nil
}

// List returns articles in id order so downstream ranking sees a stable
// input regardless of map iteration.
func (r *kbRepository) List(ctx context.Context, publishedOnly bool) ([]domain.KBArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.KBArticle, 0, len(r.articles))
	for _, article := range r.articles {
		if publishedOnly && !article.Published {
			continue
		}
		result = append(result, *article)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
