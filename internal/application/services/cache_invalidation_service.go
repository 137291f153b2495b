package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

// CacheInvalidationService drops cached lists and refreshes the views when
// a listing event arrives, so every instance converges after a create.
type CacheInvalidationService struct {
	cache     providers.CacheProvider
	eventBus  providers.EventBus
	refresher CollectionRefresher
	keyFor    func(entities.Collection) string
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	started   bool
}

// NewCacheInvalidationService creates a new cache invalidation service.
// keyFor maps a collection to its cache key; refresher may be nil.
func NewCacheInvalidationService(
	cache providers.CacheProvider,
	eventBus providers.EventBus,
	refresher CollectionRefresher,
	keyFor func(entities.Collection) string,
) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:     cache,
		eventBus:  eventBus,
		refresher: refresher,
		keyFor:    keyFor,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start begins listening for listing events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelListings)
	if err != nil {
		return fmt.Errorf("failed to subscribe to listing events: %w", err)
	}

	s.started = true
	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.started {
		<-s.done
	}
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ListingEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event != nil {
				s.HandleEvent(event)
			}
		}
	}
}

// HandleEvent invalidates and refreshes the collection named by event
func (s *CacheInvalidationService) HandleEvent(event *entities.ListingEvent) {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	logger := observability.LoggerFromContext(ctx).With().
		Str("event_id", event.ID).
		Str("collection", string(event.Collection)).
		Str("listing_id", event.ListingID).
		Logger()

	if key := s.keyFor(event.Collection); key != "" {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate list cache")
		}
	}

	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx, event.Collection); err != nil {
			logger.Warn().Err(err).Msg("failed to refresh view after event")
			return
		}
	}
	logger.Debug().Msg("applied listing event")
}
