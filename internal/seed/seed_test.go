package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk-platform/intake-service/internal/config"
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository/memory"
)

func seedConfig() config.SeedConfig {
	return config.SeedConfig{
		Enabled:       true,
		AdminEmail:    "admin@helpdesk.local",
		AdminName:     "Administrator",
		AdminPassword: "s3cret",
		BcryptCost:    bcrypt.MinCost,
		SeedKB:        true,
	}
}

func TestRunProvisionsAdminAndFixtures(t *testing.T) {
	users := memory.NewUserRepository()
	kb := memory.NewKBRepository()
	ctx := context.Background()

	require.NoError(t, Run(ctx, seedConfig(), users, kb, zap.NewNop()))

	admin, err := users.GetByEmail(ctx, "admin@helpdesk.local")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.Active)
	require.NotNil(t, admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte("s3cret")))

	articles, err := kb.List(ctx, false)
	require.NoError(t, err)
	assert.NotEmpty(t, articles)
	for _, a := range articles {
		assert.Equal(t, admin.ID, a.OwnerID)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	users := memory.NewUserRepository()
	kb := memory.NewKBRepository()
	ctx := context.Background()

	require.NoError(t, Run(ctx, seedConfig(), users, kb, zap.NewNop()))
	first, err := kb.List(ctx, false)
	require.NoError(t, err)

	require.NoError(t, Run(ctx, seedConfig(), users, kb, zap.NewNop()))
	second, err := kb.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}

func TestRunSkipsAdminWithoutPassword(t *testing.T) {
	users := memory.NewUserRepository()
	kb := memory.NewKBRepository()
	cfg := seedConfig()
	cfg.AdminPassword = ""

	require.NoError(t, Run(context.Background(), cfg, users, kb, zap.NewNop()))

	_, err := users.GetByEmail(context.Background(), cfg.AdminEmail)
	assert.Error(t, err)
}

func TestRunDisabled(t *testing.T) {
	users := memory.NewUserRepository()
	kb := memory.NewKBRepository()
	cfg := seedConfig()
	cfg.Enabled = false

	require.NoError(t, Run(context.Background(), cfg, users, kb, zap.NewNop()))

	articles, err := kb.List(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, articles)
}
