package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Slot = (*Redis)(nil)

// Redis shares a slot between processes. Expiry is delegated to Redis TTLs.
type Redis struct {
	rc     redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed slot. Keys are stored as prefix+key.
func NewRedis(rc redis.UniversalClient, prefix string) (*Redis, error) {
	if rc == nil {
		return nil, fmt.Errorf("[NewRedis] redis client is required")
	}
	return &Redis{rc: rc, prefix: prefix}, nil
}

// Key returns the namespaced redis key
func (r *Redis) Key(key string) string {
	return r.prefix + key
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rc.Get(ctx, r.Key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("Redis.Get %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.rc.Set(ctx, r.Key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("Redis.Set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.rc.Del(ctx, r.Key(key)).Err(); err != nil {
		return fmt.Errorf("Redis.Delete %s: %w", key, err)
	}
	return nil
}
