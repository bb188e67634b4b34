package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
	"github.com/helpdesk-platform/intake-service/pkg/util/errorutil"
)

// IdentityService maps channel identities onto stable internal users,
// creating one on first contact. Concurrent resolutions for the same
// (source, externalID) collapse into a single flight; races that still reach
// the store resolve first-writer-wins, with the loser re-reading the winner.
type IdentityService struct {
	users  repository.UserRepository
	group  singleflight.Group
	logger *zap.Logger
}

// NewIdentityService constructs the resolver.
func NewIdentityService(users repository.UserRepository, logger *zap.Logger) *IdentityService {
	return &IdentityService{users: users, logger: logger}
}

// Resolve returns the user behind (source, externalID). Resolution order:
// existing channel identity, then email merge, then a fresh user with
// role=user.
func (s *IdentityService) Resolve(ctx context.Context, source, externalID, displayName, email string) (*domain.User, error) {
	source = strings.TrimSpace(source)
	externalID = strings.TrimSpace(externalID)
	if source == "" || externalID == "" {
		return nil, errorutil.NewValidationError("source and external id required", nil)
	}

	v, err, _ := s.group.Do(source+"|"+externalID, func() (any, error) {
		return s.resolve(ctx, source, externalID, strings.TrimSpace(displayName), strings.TrimSpace(email))
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

func (s *IdentityService) resolve(ctx context.Context, source, externalID, displayName, email string) (*domain.User, error) {
	user, err := s.users.GetByExternalIdentity(ctx, source, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewStorageFailure(err)
	}

	if email != "" {
		if user, err := s.users.GetByEmail(ctx, email); err == nil {
			return s.attachIdentity(ctx, user, source, externalID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewStorageFailure(err)
		}
	}

	fresh := &domain.User{
		Name:       displayName,
		Role:       domain.RoleUser,
		Source:     &source,
		ExternalID: &externalID,
		Active:     true,
	}
	if email != "" {
		fresh.Email = &email
	}
	if fresh.Name == "" {
		fresh.Name = externalID
	}

	if err := s.users.Create(ctx, fresh); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race; the winner's row is authoritative.
			return s.rereadWinner(ctx, source, externalID, email)
		}
		return nil, errorutil.NewStorageFailure(err)
	}

	s.logger.Info("created user for new channel identity",
		zap.String("source", source),
		zap.String("external_id", externalID),
		zap.String("user_id", fresh.ID))
	return fresh, nil
}

// attachIdentity links a channel identity to a user found by email
// (cross-channel identity merge).
func (s *IdentityService) attachIdentity(ctx context.Context, user *domain.User, source, externalID string) (*domain.User, error) {
	if user.HasExternalIdentity() {
		// Already bound to a channel identity; keep that binding.
		return user, nil
	}

	user.Source = &source
	user.ExternalID = &externalID
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.rereadWinner(ctx, source, externalID, "")
		}
		return nil, errorutil.NewStorageFailure(err)
	}

	s.logger.Info("merged channel identity into existing user",
		zap.String("source", source),
		zap.String("external_id", externalID),
		zap.String("user_id", user.ID))
	return user, nil
}

func (s *IdentityService) rereadWinner(ctx context.Context, source, externalID, email string) (*domain.User, error) {
	if user, err := s.users.GetByExternalIdentity(ctx, source, externalID); err == nil {
		return user, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewStorageFailure(err)
	}
	// The conflict was on email, not on the channel identity.
	if email != "" {
		if user, err := s.users.GetByEmail(ctx, email); err == nil {
			return s.attachIdentity(ctx, user, source, externalID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewStorageFailure(err)
		}
	}
	return nil, errorutil.NewStorageFailure(repository.ErrNotFound)
}
