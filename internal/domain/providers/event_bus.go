package providers

import (
	"context"

	"github.com/zatekoja/campushub/internal/domain/entities"
)

// EventChannelListings carries every listing event
const EventChannelListings = "listings:events"

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ListingEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}
