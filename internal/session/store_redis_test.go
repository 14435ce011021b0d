package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/ports"
	"github.com/target/hrportal-go/internal/testutil"
)

// newTestRedisStore builds a store with a unique prefix so parallel test
// runs sharing one Redis do not collide.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	prefix := "hrportal-test:" + uuid.NewString() + ":"
	store := NewRedisStore(client, prefix, 30*time.Minute)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = store.Clear(ctx)
		_ = store.DeleteFlag(ctx, ports.PrefRememberMe)
		_ = store.DeleteFlag(ctx, ports.PrefTheme)
	})
	return store
}

func TestRedisStore_WriteReadClear(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_, ok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	id := domainauth.Identity{ID: "u-42", DisplayName: "Robin Vega", Email: "robin@example.com", Role: domainauth.RoleHR, OrganizationID: "org-3"}
	require.NoError(t, store.Write(ctx, id))

	got, ok, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, got)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_ClearIsIdempotent(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
}

func TestRedisStore_FlagsSurviveClear(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFlag(ctx, ports.PrefTheme, "dark"))
	require.NoError(t, store.Write(ctx, domainauth.Identity{ID: "u-1"}))
	require.NoError(t, store.Clear(ctx))

	v, ok, err := store.Flag(ctx, ports.PrefTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, store.DeleteFlag(ctx, ports.PrefTheme))
	_, ok, err = store.Flag(ctx, ports.PrefTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}
