package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/config"
)

func exerciseSurface(t *testing.T, s Surface) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "nexus_tickets_v3")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "nexus_tickets_v3", `[]`))
	val, found, err := s.Get(ctx, "nexus_tickets_v3")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, val)

	require.NoError(t, s.Set(ctx, "nexus_tickets_v3", `[{"id":"INC-AAAAAA"}]`))
	val, _, err = s.Get(ctx, "nexus_tickets_v3")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"INC-AAAAAA"}]`, val)

	require.NoError(t, s.Delete(ctx, "nexus_tickets_v3"))
	_, found, err = s.Get(ctx, "nexus_tickets_v3")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent key is not an error
	require.NoError(t, s.Delete(ctx, "nexus_auth_v3"))
}

func TestMemorySurface(t *testing.T) {
	exerciseSurface(t, NewMemory())
}

func TestRedisSurface(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(r.Close)

	require.NoError(t, r.Ping(context.Background()))
	exerciseSurface(t, r)
}

func TestRedisSurfaceStoresWithoutExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	r := &Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(r.Close)

	require.NoError(t, r.Set(context.Background(), "nexus_auth_v3", `{"role":"user"}`))
	assert.Zero(t, mr.TTL("nexus_auth_v3"))
}

func TestUnconfiguredBackends(t *testing.T) {
	ctx := context.Background()
	var r *Redis
	_, _, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotConfigured)

	pg := &Postgres{}
	assert.ErrorIs(t, pg.Set(ctx, "k", "v"), ErrNotConfigured)
	assert.ErrorIs(t, pg.Ping(ctx), ErrNotConfigured)
}

func TestOpenMemory(t *testing.T) {
	backend, err := Open(context.Background(), config.Config{Storage: config.StorageConfig{Backend: config.StorageMemory}}, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close()
	require.NoError(t, backend.Ping(context.Background()))
	exerciseSurface(t, backend)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Config{Storage: config.StorageConfig{Backend: "etcd"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestMigrationNamesSorted(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_kv_slots.sql", names[0])
}
