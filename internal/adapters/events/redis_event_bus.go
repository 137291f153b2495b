package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	redisclient "github.com/zatekoja/campushub/internal/infrastructure/clients/redis"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

const subscriberBuffer = 64

// topic is one Redis channel and the local subscribers fed from it.
type topic struct {
	name   string
	pubsub *redis.PubSub
	subs   map[chan *entities.ListingEvent]struct{}
}

// RedisEventBus fans listing events published on Redis out to in-process
// subscribers. A Redis subscription is held only while a channel has
// local subscribers.
type RedisEventBus struct {
	rdb *redis.Client

	mu     sync.Mutex
	topics map[string]*topic
	closed bool
	done   chan struct{}
}

// NewRedisEventBus returns a bus publishing and subscribing through client
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{
		rdb:    client.Client(),
		topics: make(map[string]*topic),
		done:   make(chan struct{}),
	}
}

func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.ListingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode listing event: %w", err)
	}
	receivers, err := b.rdb.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("collection", string(event.Collection)).
		Int64("receivers", receivers).
		Msg("published listing event")
	return nil
}

// Subscribe registers a local subscriber on channel. The returned channel
// is closed once ctx is done or the bus is closed. Slow subscribers miss
// events rather than stall the others.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("subscribe to %s: event bus closed", channel)
	}

	t, ok := b.topics[channel]
	if !ok {
		t = &topic{
			name:   channel,
			pubsub: b.rdb.Subscribe(context.Background(), channel),
			subs:   make(map[chan *entities.ListingEvent]struct{}),
		}
		b.topics[channel] = t
		go b.fanout(t)
	}
	sub := make(chan *entities.ListingEvent, subscriberBuffer)
	t.subs[sub] = struct{}{}
	count := len(t.subs)
	b.mu.Unlock()

	observability.GetLogger().Info().Str("channel", channel).Int("subscribers", count).Msg("subscribed to listing events")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.unsubscribe(t, sub)
	}()
	return sub, nil
}

// fanout runs until the topic's Redis subscription is closed.
func (b *RedisEventBus) fanout(t *topic) {
	logger := observability.GetLogger().With().Str("channel", t.name).Logger()

	for msg := range t.pubsub.Channel() {
		event := new(entities.ListingEvent)
		if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
			logger.Warn().Err(err).Msg("dropping malformed listing event")
			continue
		}

		b.mu.Lock()
		for sub := range t.subs {
			select {
			case sub <- event:
			default:
				logger.Warn().Str("event_id", event.ID).Msg("subscriber buffer full, event dropped")
			}
		}
		b.mu.Unlock()
	}
	b.release(t)
}

func (b *RedisEventBus) unsubscribe(t *topic, sub chan *entities.ListingEvent) {
	b.mu.Lock()
	_, ok := t.subs[sub]
	if ok {
		delete(t.subs, sub)
		close(sub)
	}
	last := ok && len(t.subs) == 0
	b.mu.Unlock()

	if last {
		b.release(t)
	}
}

// release drops t from the bus, closes whatever subscribers remain and
// ends the Redis subscription. Safe to call more than once.
func (b *RedisEventBus) release(t *topic) error {
	b.mu.Lock()
	if b.topics[t.name] != t {
		b.mu.Unlock()
		return nil
	}
	delete(b.topics, t.name)
	for sub := range t.subs {
		close(sub)
	}
	t.subs = nil
	b.mu.Unlock()

	if err := t.pubsub.Close(); err != nil {
		return fmt.Errorf("close subscription %s: %w", t.name, err)
	}
	return nil
}

// Close ends every subscription. Publish keeps working on the shared
// client, which the caller owns.
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	topics := make([]*topic, 0, len(b.topics))
	for _, t := range b.topics {
		topics = append(topics, t)
	}
	b.mu.Unlock()

	var firstErr error
	for _, t := range topics {
		if err := b.release(t); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
