package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
)

// Cache keys for whole-collection lists
const (
	MarketplaceListCacheKey = "campushub:marketplace_listings:list"
	PGListCacheKey          = "campushub:pg_accommodations:list"
	CategoryListCacheKey    = "campushub:categories:list"
)

// ListCacheKey returns the list cache key of a collection, or "" if the
// collection is not cached.
func ListCacheKey(collection entities.Collection) string {
	switch collection {
	case entities.CollectionMarketplace:
		return MarketplaceListCacheKey
	case entities.CollectionPG:
		return PGListCacheKey
	case entities.CollectionCategories:
		return CategoryListCacheKey
	}
	return ""
}

// listCache is the read-through logic shared by the cached adapters
type listCache struct {
	cache   providers.CacheProvider
	metrics *observability.Metrics
	ttl     time.Duration
}

func (c listCache) get(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		observability.RecordCacheMiss(ctx, c.metrics, key)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		observability.RecordCacheMiss(ctx, c.metrics, key)
		return false
	}
	observability.RecordCacheHit(ctx, c.metrics, key)
	return true
}

func (c listCache) put(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c listCache) invalidate(ctx context.Context, key string) {
	if err := c.cache.Delete(ctx, key); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}

// CachedMarketplaceAdapter wraps a MarketplaceRepository with a list cache
type CachedMarketplaceAdapter struct {
	adapter repositories.MarketplaceRepository
	listCache
}

// NewCachedMarketplaceAdapter creates a new cached marketplace adapter
func NewCachedMarketplaceAdapter(adapter repositories.MarketplaceRepository, cache providers.CacheProvider, metrics *observability.Metrics, ttl time.Duration) repositories.MarketplaceRepository {
	return &CachedMarketplaceAdapter{
		adapter:   adapter,
		listCache: listCache{cache: cache, metrics: metrics, ttl: ttl},
	}
}

// List returns the cached collection, loading it on a miss
func (a *CachedMarketplaceAdapter) List(ctx context.Context) ([]*entities.MarketplaceListing, error) {
	var listings []*entities.MarketplaceListing
	if a.get(ctx, MarketplaceListCacheKey, &listings) {
		return listings, nil
	}

	listings, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	a.put(ctx, MarketplaceListCacheKey, listings)
	return listings, nil
}

// Create inserts through and drops the cached list
func (a *CachedMarketplaceAdapter) Create(ctx context.Context, listing *entities.MarketplaceListing) error {
	if err := a.adapter.Create(ctx, listing); err != nil {
		return err
	}
	a.invalidate(ctx, MarketplaceListCacheKey)
	return nil
}

// CachedPGAdapter wraps a PGRepository with a list cache
type CachedPGAdapter struct {
	adapter repositories.PGRepository
	listCache
}

// NewCachedPGAdapter creates a new cached PG adapter
func NewCachedPGAdapter(adapter repositories.PGRepository, cache providers.CacheProvider, metrics *observability.Metrics, ttl time.Duration) repositories.PGRepository {
	return &CachedPGAdapter{
		adapter:   adapter,
		listCache: listCache{cache: cache, metrics: metrics, ttl: ttl},
	}
}

// List returns the cached collection, loading it on a miss
func (a *CachedPGAdapter) List(ctx context.Context) ([]*entities.PGAccommodation, error) {
	var accommodations []*entities.PGAccommodation
	if a.get(ctx, PGListCacheKey, &accommodations) {
		return accommodations, nil
	}

	accommodations, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	a.put(ctx, PGListCacheKey, accommodations)
	return accommodations, nil
}

// Create inserts through and drops the cached list
func (a *CachedPGAdapter) Create(ctx context.Context, pg *entities.PGAccommodation) error {
	if err := a.adapter.Create(ctx, pg); err != nil {
		return err
	}
	a.invalidate(ctx, PGListCacheKey)
	return nil
}

// CachedCategoryAdapter caches the category list. Lookups by id go straight
// to the wrapped repository.
type CachedCategoryAdapter struct {
	adapter repositories.CategoryRepository
	listCache
}

// NewCachedCategoryAdapter creates a new cached category adapter
func NewCachedCategoryAdapter(adapter repositories.CategoryRepository, cache providers.CacheProvider, metrics *observability.Metrics, ttl time.Duration) repositories.CategoryRepository {
	return &CachedCategoryAdapter{
		adapter:   adapter,
		listCache: listCache{cache: cache, metrics: metrics, ttl: ttl},
	}
}

// List returns the cached categories, loading them on a miss
func (a *CachedCategoryAdapter) List(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	if a.get(ctx, CategoryListCacheKey, &categories) {
		return categories, nil
	}

	categories, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	a.put(ctx, CategoryListCacheKey, categories)
	return categories, nil
}

// GetByIDs delegates to the wrapped repository
func (a *CachedCategoryAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Category, error) {
	return a.adapter.GetByIDs(ctx, ids)
}
