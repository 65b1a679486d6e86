package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gymflow/portal/internal/config"
)

const connectTimeout = 5 * time.Second

// Redis is the connection behind the redis session backend.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects and pings once. Session storage cannot work without Redis, so an unreachable
// server is an error rather than a warning.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return &Redis{Client: client}, nil
}

// SessionStorages builds the per-browser storages under the configured key prefix. Entries live
// for the session TTL, shortened to the token lifetime when expiry can tell it.
func (r *Redis) SessionStorages(cfg config.SessionConfig, expiry ExpiryFunc) *RedisStorages {
	return NewRedisStorages(r.Client, cfg.KeyPrefix, cfg.TTL(), expiry)
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping backs the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
