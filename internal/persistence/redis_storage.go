package persistence

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/gymflow/portal/internal/session"
)

// ExpiryFunc reports when a bearer token stops being valid, if that can be told from the token.
type ExpiryFunc func(token string) (time.Time, bool)

const minEntryTTL = time.Second

// RedisStorages hands out per-browser session storage backed by Redis. Browser ids are hashed
// before they become part of a key so raw cookie values never reach Redis.
type RedisStorages struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	expiry ExpiryFunc
	now    func() time.Time
}

// NewRedisStorages builds the factory. ttl caps every entry; expiry, when set, shortens it to the
// token's own lifetime.
func NewRedisStorages(client redis.Cmdable, prefix string, ttl time.Duration, expiry ExpiryFunc) *RedisStorages {
	return &RedisStorages{client: client, prefix: prefix, ttl: ttl, expiry: expiry, now: time.Now}
}

// For returns the storage of one browser.
func (s *RedisStorages) For(browserID string) session.Storage {
	return &RedisStorage{parent: s, namespace: s.prefix + ":" + BrowserKey(browserID)}
}

// BrowserKey is the stable, non-reversible name of a browser used in keys and logs.
func BrowserKey(browserID string) string {
	sum := blake2b.Sum256([]byte(browserID))
	return hex.EncodeToString(sum[:16])
}

// RedisStorage implements session.Storage for a single browser.
type RedisStorage struct {
	parent    *RedisStorages
	namespace string
}

func (r *RedisStorage) key(name string) string {
	return r.namespace + ":" + name
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	val, err := r.parent.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisStorage) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	ttl := r.parent.ttlFor(values)
	_, err := r.parent.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, val := range values {
			pipe.Set(ctx, r.key(name), val, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.key(k))
	}
	if err := r.parent.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStorages) ttlFor(values map[string]string) time.Duration {
	ttl := s.ttl
	token, ok := values[session.KeyToken]
	if !ok || s.expiry == nil {
		return ttl
	}
	exp, ok := s.expiry(token)
	if !ok {
		return ttl
	}
	remaining := exp.Sub(s.now())
	if remaining < minEntryTTL {
		remaining = minEntryTTL
	}
	if ttl <= 0 || remaining < ttl {
		return remaining
	}
	return ttl
}
