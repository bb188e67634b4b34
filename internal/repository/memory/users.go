// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back the service when no POSTGRES_DSN is
// configured and serve as the test substrate. Uniqueness invariants match
// the SQL schema.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
)

type userRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

// NewUserRepository returns an in-memory user store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{users: make(map[string]*domain.User)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return repository.ErrDuplicate
		}
		if user.HasExternalIdentity() && existing.HasExternalIdentity() &&
			*existing.Source == *user.Source && *existing.ExternalID == *user.ExternalID {
			return repository.ErrDuplicate
		}
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if user.Email != nil && existing.Email != nil && *existing.Email == *user.Email {
			return repository.ErrDuplicate
		}
		if user.HasExternalIdentity() && existing.HasExternalIdentity() &&
			*existing.Source == *user.Source && *existing.ExternalID == *user.ExternalID {
			return repository.ErrDuplicate
		}
	}

	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email != nil && *user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByExternalIdentity(ctx context.Context, source, externalID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.HasExternalIdentity() && *user.Source == source && *user.ExternalID == externalID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}
