package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/pkg/config"
	"github.com/zatekoja/campushub/pkg/retry"
)

// Client is the shared Redis connection behind the snapshot cache and the
// listing event bus.
type Client struct {
	client *redis.Client
}

// NewClient dials Redis and retries the first ping a handful of times.
// Callers treat an error as "run without cache and events".
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	addr := cfg.RedisAddr()
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = 5
	logger := observability.GetLogger()
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx).Err()
	}
	onRetry := func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).Str("addr", addr).Int("attempt", attempt).Dur("retry_in", nextDelay).
			Msg("redis not reachable yet")
	}
	if err := retry.DoWithLog(ctx, retryCfg, "Redis", ping, onRetry); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Int("db", cfg.DB).Msg("connected to Redis")
	return &Client{client: rdb}, nil
}

func (c *Client) Client() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
