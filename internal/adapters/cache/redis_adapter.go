package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/campushub/internal/domain/providers"
	redisclient "github.com/zatekoja/campushub/internal/infrastructure/clients/redis"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

// RedisAdapter is the Redis-backed CacheProvider used for listing and
// category snapshots.
type RedisAdapter struct {
	rdb redis.UniversalClient
}

// NewRedisAdapter wraps a connected Redis client.
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{rdb: client.Client()}
}

func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, providers.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := a.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	observability.LoggerFromContext(ctx).Debug().
		Str("key", key).
		Int("bytes", len(value)).
		Dur("ttl", ttl).
		Msg("cached snapshot")
	return nil
}

// Delete unlinks keys so large snapshots are reclaimed off the request path.
func (a *RedisAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	removed, err := a.rdb.Unlink(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("cache delete %v: %w", keys, err)
	}
	observability.LoggerFromContext(ctx).Debug().
		Strs("keys", keys).
		Int64("removed", removed).
		Msg("invalidated cache keys")
	return nil
}
