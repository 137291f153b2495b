package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

// warmedCollections are reloaded on every tick, categories first so the
// marketplace view sees them.
var warmedCollections = []entities.Collection{
	entities.CollectionCategories,
	entities.CollectionMarketplace,
	entities.CollectionPG,
}

// CacheWarmingService periodically reloads the views, which reads through
// and repopulates the list cache. With a cache attached, each collection's
// entry is dropped first so the reload reaches the backend.
type CacheWarmingService struct {
	refresher CollectionRefresher
	cache     providers.CacheProvider
	keyFor    func(entities.Collection) string
	cron      *cron.Cron
	timeout   time.Duration
}

// CacheWarmingOption configures a CacheWarmingService
type CacheWarmingOption func(*CacheWarmingService)

// WithWarmEviction deletes keyFor(collection) from cache before each
// collection is reloaded. An empty key skips the delete.
func WithWarmEviction(cache providers.CacheProvider, keyFor func(entities.Collection) string) CacheWarmingOption {
	return func(s *CacheWarmingService) {
		s.cache = cache
		s.keyFor = keyFor
	}
}

// NewCacheWarmingService creates a warming service refreshing on schedule
// (standard cron syntax or descriptors such as "@every 5m").
func NewCacheWarmingService(refresher CollectionRefresher, schedule string, opts ...CacheWarmingOption) (*CacheWarmingService, error) {
	s := &CacheWarmingService{
		refresher: refresher,
		cron:      cron.New(),
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid cache warm schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins the schedule in the background
func (s *CacheWarmingService) Start() {
	s.cron.Start()
	observability.GetLogger().Info().Int("jobs", len(s.cron.Entries())).Msg("cache warming service started")
}

// Stop halts the schedule and waits for a running tick to finish
func (s *CacheWarmingService) Stop() {
	<-s.cron.Stop().Done()
	observability.GetLogger().Info().Msg("cache warming service stopped")
}

func (s *CacheWarmingService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.WarmCache(ctx)
}

// WarmCache refreshes every collection once. Failures are logged and the
// remaining collections are still warmed; the first error is returned.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	var firstErr error
	for _, c := range warmedCollections {
		s.evict(ctx, c)
		if err := s.refresher.Refresh(ctx, c); err != nil {
			logger.Warn().Err(err).Str("collection", string(c)).Msg("failed to warm collection")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	logger.Debug().Dur("took", time.Since(start)).Msg("cache warming completed")
	return firstErr
}

func (s *CacheWarmingService) evict(ctx context.Context, c entities.Collection) {
	if s.cache == nil || s.keyFor == nil {
		return
	}
	key := s.keyFor(c)
	if key == "" {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to evict cache entry before warming")
	}
}
