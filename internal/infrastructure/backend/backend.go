// Package backend opens the listing repositories for the configured data
// backend, either a direct Postgres connection or the hosted Supabase API.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/campushub/internal/adapters/database"
	"github.com/zatekoja/campushub/internal/adapters/supabase"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/pkg/config"
)

// Repositories is the set of repository ports the services need
type Repositories struct {
	Marketplace repositories.MarketplaceRepository
	PG          repositories.PGRepository
	Categories  repositories.CategoryRepository
	Profiles    repositories.ProfileRepository

	close func() error
}

// Close releases the backend connection, if any
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open connects to the backend named by cfg.Backend
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Backend {
	case config.BackendSupabase:
		client := supabase.NewClient(&cfg.Supabase)
		observability.GetLogger().Info().Str("url", cfg.Supabase.URL).Msg("using Supabase backend")
		return &Repositories{
			Marketplace: supabase.NewMarketplaceRepository(client),
			PG:          supabase.NewPGRepository(client),
			Categories:  supabase.NewCategoryRepository(client),
			Profiles:    supabase.NewProfileRepository(client),
		}, nil

	case config.BackendPostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Marketplace: database.NewMarketplaceAdapter(client),
			PG:          database.NewPGAdapter(client),
			Categories:  database.NewCategoryAdapter(client),
			Profiles:    database.NewProfileAdapter(client),
			close:       client.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// WithCache wraps the list reads in a read-through cache. Profiles are
// batched per request by the dataloaders and stay uncached.
func (r *Repositories) WithCache(cache providers.CacheProvider, metrics *observability.Metrics, ttl time.Duration) {
	r.Marketplace = database.NewCachedMarketplaceAdapter(r.Marketplace, cache, metrics, ttl)
	r.PG = database.NewCachedPGAdapter(r.PG, cache, metrics, ttl)
	r.Categories = database.NewCachedCategoryAdapter(r.Categories, cache, metrics, ttl)
}
