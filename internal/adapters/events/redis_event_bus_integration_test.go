//go:build integration

package events

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/redis"
	"github.com/zatekoja/campushub/pkg/config"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	port, _ := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if port == 0 {
		port = 6379
	}
	client, err := redis.NewClient(context.Background(), &config.RedisConfig{
		Host:     os.Getenv("TEST_REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
	})
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { client.Close() })
	return client
}

func waitForEvent(t *testing.T, ch <-chan *entities.ListingEvent) *entities.ListingEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	bus := NewRedisEventBus(newTestRedisClient(t))
	defer bus.Close()

	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel1()
	defer cancel2()

	sub1, err := bus.Subscribe(ctx1, providers.EventChannelListings)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx2, providers.EventChannelListings)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := entities.NewListingEvent(entities.ListingEventCreated, entities.CollectionPG, "p1")
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelListings, event))

	assert.Equal(t, event.ID, waitForEvent(t, sub1).ID)
	received := waitForEvent(t, sub2)
	assert.Equal(t, entities.CollectionPG, received.Collection)
	assert.Equal(t, "p1", received.ListingID)
}

func TestRedisEventBusUnsubscribeIntegration(t *testing.T) {
	bus := NewRedisEventBus(newTestRedisClient(t))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := bus.Subscribe(ctx, providers.EventChannelListings)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestRedisEventBusCloseIntegration(t *testing.T) {
	bus := NewRedisEventBus(newTestRedisClient(t))

	sub, err := bus.Subscribe(context.Background(), providers.EventChannelListings)
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("subscription was not closed")
	}

	_, err = bus.Subscribe(context.Background(), providers.EventChannelListings)
	assert.Error(t, err)
	assert.NoError(t, bus.Close())
}
