package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/repository/memory"
)

func newIdentityService() *IdentityService {
	return NewIdentityService(memory.NewUserRepository(), zap.NewNop())
}

func TestResolveCreatesUserOnFirstContact(t *testing.T) {
	svc := newIdentityService()

	user, err := svc.Resolve(context.Background(), "telegram", "tg:123456", "Ivan Petrov", "")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "Ivan Petrov", user.Name)
	require.True(t, user.HasExternalIdentity())
	assert.Equal(t, "telegram", *user.Source)
	assert.Equal(t, "tg:123456", *user.ExternalID)
	assert.True(t, user.Active)
}

func TestResolveReturnsExistingUserUnchanged(t *testing.T) {
	svc := newIdentityService()

	first, err := svc.Resolve(context.Background(), "telegram", "tg:123456", "Ivan", "")
	require.NoError(t, err)

	second, err := svc.Resolve(context.Background(), "telegram", "tg:123456", "Different Name", "other@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ivan", second.Name)
}

func TestResolveMergesByEmail(t *testing.T) {
	users := memory.NewUserRepository()
	svc := NewIdentityService(users, zap.NewNop())

	email := "ivan@example.com"
	existing := &domain.User{Email: &email, Name: "Ivan", Role: domain.RoleUser, Active: true}
	require.NoError(t, users.Create(context.Background(), existing))

	resolved, err := svc.Resolve(context.Background(), "portal", "p-77", "Ivan P", email)
	require.NoError(t, err)

	assert.Equal(t, existing.ID, resolved.ID)
	require.True(t, resolved.HasExternalIdentity())
	assert.Equal(t, "portal", *resolved.Source)
	assert.Equal(t, "p-77", *resolved.ExternalID)
}

func TestResolveRequiresSourceAndExternalID(t *testing.T) {
	svc := newIdentityService()

	_, err := svc.Resolve(context.Background(), "", "tg:1", "x", "")
	assert.Error(t, err)

	_, err = svc.Resolve(context.Background(), "telegram", "  ", "x", "")
	assert.Error(t, err)
}

func TestResolveConcurrentYieldsSingleUser(t *testing.T) {
	svc := newIdentityService()

	const callers = 32
	ids := make([]string, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			user, err := svc.Resolve(context.Background(), "telegram", "tg:race", "Racer", "")
			if err == nil {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, ids[0])
	for i := 1; i < callers; i++ {
		assert.Equal(t, ids[0], ids[i], "caller %d resolved a different user", i)
	}
}
