package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymflow/portal/internal/session"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStorageRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	storages := NewRedisStorages(client, "gymflow:test", time.Hour, nil)
	storage := storages.For("browser-1")
	ctx := context.Background()

	_, err := storage.Get(ctx, session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, storage.Set(ctx, map[string]string{session.KeyToken: "t1", session.KeyUser: `{"id":1}`}))
	token, err := storage.Get(ctx, session.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	require.NoError(t, storage.Delete(ctx, session.KeyToken, session.KeyUser))
	require.NoError(t, storage.Delete(ctx, session.KeyToken, session.KeyUser))
	_, err = storage.Get(ctx, session.KeyUser)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisStorageIsolatesBrowsersAndHashesIDs(t *testing.T) {
	mr, client := newTestRedis(t)
	storages := NewRedisStorages(client, "gymflow:test", time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, storages.For("browser-a").Set(ctx, map[string]string{session.KeyToken: "a"}))
	_, err := storages.For("browser-b").Get(ctx, session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "browser-a")
		assert.Contains(t, key, "gymflow:test:")
	}
}

func TestRedisStorageTTLFollowsTokenExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	expiry := func(token string) (time.Time, bool) {
		if token == "short" {
			return time.Now().Add(10 * time.Minute), true
		}
		return time.Time{}, false
	}
	storages := NewRedisStorages(client, "gymflow:test", time.Hour, expiry)
	storage := storages.For("browser-1")
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, map[string]string{session.KeyToken: "short", session.KeyUser: "{}"}))
	for _, key := range mr.Keys() {
		ttl := mr.TTL(key)
		assert.LessOrEqual(t, ttl, 10*time.Minute)
		assert.Greater(t, ttl, 9*time.Minute)
	}

	mr.FastForward(11 * time.Minute)
	_, err := storage.Get(ctx, session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, storage.Set(ctx, map[string]string{session.KeyToken: "opaque"}))
	for _, key := range mr.Keys() {
		assert.Equal(t, time.Hour, mr.TTL(key))
	}
}

func TestSessionStoreOverRedis(t *testing.T) {
	_, client := newTestRedis(t)
	storages := NewRedisStorages(client, "gymflow:test", time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, storages.For("b1").Set(ctx, map[string]string{session.KeyToken: "bad"}))

	store := session.NewStore(session.Dependencies{Subject: "b1", Auth: rejectingAuth{}, Storage: storages.For("b1")})
	store.Hydrate(ctx)

	assert.False(t, store.IsAuthenticated())
	_, err := storages.For("b1").Get(ctx, session.KeyToken)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
