package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type countingMarketplaceRepo struct {
	listCalls int
	listings  []*entities.MarketplaceListing
	createErr error
}

func (r *countingMarketplaceRepo) List(context.Context) ([]*entities.MarketplaceListing, error) {
	r.listCalls++
	return r.listings, nil
}

func (r *countingMarketplaceRepo) Create(_ context.Context, l *entities.MarketplaceListing) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.listings = append([]*entities.MarketplaceListing{l}, r.listings...)
	return nil
}

func TestCachedMarketplaceAdapter_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingMarketplaceRepo{listings: []*entities.MarketplaceListing{{ID: "m1", Title: "Desk"}}}
	cache := newMemoryCache()
	repo := NewCachedMarketplaceAdapter(inner, cache, nil, time.Minute)

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.listCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Title, second[0].Title)
}

func TestCachedMarketplaceAdapter_CreateInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingMarketplaceRepo{}
	cache := newMemoryCache()
	repo := NewCachedMarketplaceAdapter(inner, cache, nil, time.Minute)

	_, err := repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, &entities.MarketplaceListing{ID: "m9"}))
	_, err = cache.Get(ctx, MarketplaceListCacheKey)
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	listings, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)
	require.Len(t, listings, 1)
	assert.Equal(t, "m9", listings[0].ID)
}

func TestCachedMarketplaceAdapter_CreateFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingMarketplaceRepo{createErr: errors.New("insert failed")}
	cache := newMemoryCache()
	repo := NewCachedMarketplaceAdapter(inner, cache, nil, time.Minute)

	_, err := repo.List(ctx)
	require.NoError(t, err)

	assert.Error(t, repo.Create(ctx, &entities.MarketplaceListing{ID: "m9"}))
	_, err = cache.Get(ctx, MarketplaceListCacheKey)
	assert.NoError(t, err)
}

func TestCachedMarketplaceAdapter_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	inner := &countingMarketplaceRepo{listings: []*entities.MarketplaceListing{{ID: "m1"}}}
	cache := newMemoryCache()
	require.NoError(t, cache.Set(ctx, MarketplaceListCacheKey, []byte("not json"), time.Minute))

	listings, err := NewCachedMarketplaceAdapter(inner, cache, nil, time.Minute).List(ctx)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 1, inner.listCalls)
}

func TestListCacheKey(t *testing.T) {
	assert.Equal(t, MarketplaceListCacheKey, ListCacheKey(entities.CollectionMarketplace))
	assert.Equal(t, PGListCacheKey, ListCacheKey(entities.CollectionPG))
	assert.Equal(t, CategoryListCacheKey, ListCacheKey(entities.CollectionCategories))
	assert.Equal(t, "", ListCacheKey("profiles"))
}
