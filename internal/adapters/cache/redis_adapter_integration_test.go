//go:build integration

package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/redis"
	"github.com/zatekoja/campushub/pkg/config"
)

func newTestAdapter(t *testing.T) providers.CacheProvider {
	t.Helper()
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if port == 0 {
		port = 6379
	}
	client, err := redis.NewClient(context.Background(), &config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewRedisAdapter(client)
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	key := "campushub:test:" + uuid.NewString()

	_, err := adapter.Get(ctx, key)
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, key, []byte(`[{"id":"1"}]`), time.Minute))
	data, err := adapter.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))

	require.NoError(t, adapter.Delete(ctx, key, key+":absent"))
	_, err = adapter.Get(ctx, key)
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	key := "campushub:test:" + uuid.NewString()

	require.NoError(t, adapter.Set(ctx, key, []byte("x"), 50*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := adapter.Get(ctx, key)
		return err == providers.ErrCacheMiss
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRedisAdapter_DeleteNothing(t *testing.T) {
	adapter := newTestAdapter(t)
	assert.NoError(t, adapter.Delete(context.Background()))
}
