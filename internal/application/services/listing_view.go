package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/pkg/utils"
)

// MarketplaceSource loads the marketplace view's collections
type MarketplaceSource interface {
	ListMarketplace(ctx context.Context) ([]*entities.MarketplaceListing, error)
	ListCategories(ctx context.Context) ([]*entities.Category, error)
}

// PGSource loads the PG view's collection
type PGSource interface {
	ListPG(ctx context.Context) ([]*entities.PGAccommodation, error)
}

// MarketplaceCard is a listing as rendered in the marketplace grid
type MarketplaceCard struct {
	*entities.MarketplaceListing
	TimeAgo string `json:"time_ago"`
}

// PGCard is an accommodation as rendered in the PG grid
type PGCard struct {
	*entities.PGAccommodation
	TimeAgo string `json:"time_ago"`
}

// MarketplaceView holds the fully loaded marketplace collection. Filtering
// happens in memory and never touches the source.
type MarketplaceView struct {
	source MarketplaceSource

	mu         sync.RWMutex
	listings   []*entities.MarketplaceListing
	categories []*entities.Category
	inFlight   int
	loaded     bool
}

// NewMarketplaceView creates an empty, not yet loaded view
func NewMarketplaceView(source MarketplaceSource) *MarketplaceView {
	return &MarketplaceView{source: source}
}

// Load fetches listings and categories. On failure the previous collection
// is kept.
func (v *MarketplaceView) Load(ctx context.Context) error {
	v.track(1)
	defer v.track(-1)

	listings, err := v.source.ListMarketplace(ctx)
	if err != nil {
		return err
	}
	categories, err := v.source.ListCategories(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.listings = listings
	v.categories = categories
	v.loaded = true
	v.mu.Unlock()
	return nil
}

// Refresh reloads the view when collection is one it shows
func (v *MarketplaceView) Refresh(ctx context.Context, collection entities.Collection) error {
	if collection != entities.CollectionMarketplace && collection != entities.CollectionCategories {
		return nil
	}
	return v.Load(ctx)
}

// Loading reports whether a load is in flight
func (v *MarketplaceView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.inFlight > 0
}

// Categories returns the filter bar's categories, ordered by name
func (v *MarketplaceView) Categories() []*entities.Category {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]*entities.Category(nil), v.categories...)
}

// Visible returns the cards matching f, labelled relative to now. Nothing
// is visible until the first load succeeds.
func (v *MarketplaceView) Visible(f MarketplaceFilter, now time.Time) []MarketplaceCard {
	v.mu.RLock()
	listings, loaded := v.listings, v.loaded
	v.mu.RUnlock()

	cards := []MarketplaceCard{}
	if !loaded {
		return cards
	}
	for _, l := range FilterMarketplace(listings, f) {
		cards = append(cards, MarketplaceCard{MarketplaceListing: l, TimeAgo: utils.TimeAgo(l.CreatedAt, now)})
	}
	return cards
}

func (v *MarketplaceView) track(delta int) {
	v.mu.Lock()
	v.inFlight += delta
	v.mu.Unlock()
}

// PGView holds the fully loaded PG collection
type PGView struct {
	source PGSource

	mu             sync.RWMutex
	accommodations []*entities.PGAccommodation
	inFlight       int
	loaded         bool
}

// NewPGView creates an empty, not yet loaded view
func NewPGView(source PGSource) *PGView {
	return &PGView{source: source}
}

// Load fetches the accommodations. On failure the previous collection is
// kept.
func (v *PGView) Load(ctx context.Context) error {
	v.track(1)
	defer v.track(-1)

	accommodations, err := v.source.ListPG(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.accommodations = accommodations
	v.loaded = true
	v.mu.Unlock()
	return nil
}

// Refresh reloads the view when collection is the PG collection
func (v *PGView) Refresh(ctx context.Context, collection entities.Collection) error {
	if collection != entities.CollectionPG {
		return nil
	}
	return v.Load(ctx)
}

// Loading reports whether a load is in flight
func (v *PGView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.inFlight > 0
}

// Visible returns the cards matching f, labelled relative to now
func (v *PGView) Visible(f PGFilter, now time.Time) []PGCard {
	v.mu.RLock()
	accommodations, loaded := v.accommodations, v.loaded
	v.mu.RUnlock()

	cards := []PGCard{}
	if !loaded {
		return cards
	}
	for _, pg := range FilterPG(accommodations, f) {
		cards = append(cards, PGCard{PGAccommodation: pg, TimeAgo: utils.TimeAgo(pg.CreatedAt, now)})
	}
	return cards
}

func (v *PGView) track(delta int) {
	v.mu.Lock()
	v.inFlight += delta
	v.mu.Unlock()
}

// Refreshers fans a refresh out to every member
type Refreshers []CollectionRefresher

// Refresh calls every refresher and joins their errors
func (rs Refreshers) Refresh(ctx context.Context, collection entities.Collection) error {
	var errs []error
	for _, r := range rs {
		if err := r.Refresh(ctx, collection); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
