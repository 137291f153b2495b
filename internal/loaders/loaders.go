package loaders

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders batches the read-time joins of a listing page. A key with no row
// resolves to nil, not an error.
type Loaders struct {
	ProfileLoader  *dataloader.Loader[string, *entities.UserProfile]
	CategoryLoader *dataloader.Loader[string, *entities.Category]
}

// NewLoaders creates a new instance of Loaders. Loaders cache per instance,
// so build one per request.
func NewLoaders(profileRepo repositories.ProfileRepository, categoryRepo repositories.CategoryRepository) *Loaders {
	return &Loaders{
		ProfileLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.UserProfile] {
			profiles, err := profileRepo.GetByIDs(ctx, keys)
			byID := make(map[string]*entities.UserProfile, len(profiles))
			for _, p := range profiles {
				byID[p.ID] = p
			}
			return results(keys, byID, err)
		}),
		CategoryLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Category] {
			categories, err := categoryRepo.GetByIDs(ctx, keys)
			byID := make(map[string]*entities.Category, len(categories))
			for _, c := range categories {
				byID[c.ID] = c
			}
			return results(keys, byID, err)
		}),
	}
}

func results[V any](keys []string, byID map[string]V, err error) []*dataloader.Result[V] {
	out := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if err != nil {
			out[i] = &dataloader.Result[V]{Error: err}
			continue
		}
		out[i] = &dataloader.Result[V]{Data: byID[key]}
	}
	return out
}

// Profiles resolves owner profiles for ids, keyed by id. Missing ids are
// absent from the map.
func (l *Loaders) Profiles(ctx context.Context, ids []string) (map[string]*entities.UserProfile, error) {
	return loadMap(ctx, l.ProfileLoader, ids)
}

// Categories resolves categories for ids, keyed by id
func (l *Loaders) Categories(ctx context.Context, ids []string) (map[string]*entities.Category, error) {
	return loadMap(ctx, l.CategoryLoader, ids)
}

func loadMap[V comparable](ctx context.Context, loader *dataloader.Loader[string, V], ids []string) (map[string]V, error) {
	out := make(map[string]V, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	values, errs := loader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var zero V
	for i, id := range ids {
		if values[i] != zero {
			out[id] = values[i]
		}
	}
	return out, nil
}

// For returns the loaders attached to ctx, or nil
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}
