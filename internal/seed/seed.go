// Package seed provisions baseline data at process start: the admin account
// and the knowledge-base fixtures. Provisioning is idempotent and driven by
// explicit configuration; existing rows are never overwritten.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk-platform/intake-service/internal/config"
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository"
)

// Run executes the bootstrap. A missing admin password skips admin
// provisioning rather than failing startup.
func Run(ctx context.Context, cfg config.SeedConfig, users repository.UserRepository, kb repository.KBRepository, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("seed disabled")
		return nil
	}

	adminID, err := ensureAdmin(ctx, cfg, users, logger)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if cfg.SeedKB {
		if err := ensureKBFixtures(ctx, kb, adminID, logger); err != nil {
			return fmt.Errorf("seed kb: %w", err)
		}
	}
	return nil
}

func ensureAdmin(ctx context.Context, cfg config.SeedConfig, users repository.UserRepository, logger *zap.Logger) (string, error) {
	existing, err := users.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	if cfg.AdminPassword == "" {
		logger.Warn("SEED_ADMIN_PASSWORD not set; skipping admin provisioning")
		return "", nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return "", err
	}

	email := cfg.AdminEmail
	hash := string(hashed)
	admin := &domain.User{
		Email:        &email,
		Name:         cfg.AdminName,
		Role:         domain.RoleAdmin,
		PasswordHash: &hash,
		Active:       true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Another instance won the bootstrap race.
			winner, err := users.GetByEmail(ctx, cfg.AdminEmail)
			if err != nil {
				return "", err
			}
			return winner.ID, nil
		}
		return "", err
	}

	logger.Info("provisioned admin user", zap.String("email", cfg.AdminEmail))
	return admin.ID, nil
}

func ensureKBFixtures(ctx context.Context, kb repository.KBRepository, ownerID string, logger *zap.Logger) error {
	existing, err := kb.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debug("kb already populated, skipping fixtures", zap.Int("articles", len(existing)))
		return nil
	}

	articles := kbFixtures(ownerID)
	for i := range articles {
		if err := kb.Create(ctx, &articles[i]); err != nil {
			return err
		}
	}
	logger.Info("seeded kb fixtures", zap.Int("articles", len(articles)))
	return nil
}
