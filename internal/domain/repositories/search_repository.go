package repositories

import (
	"context"

	"github.com/zatekoja/campushub/internal/domain/entities"
)

// ListingSearchRepository defines the interface for the listing search index
type ListingSearchRepository interface {
	// IndexMarketplace upserts a marketplace listing
	IndexMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error

	// IndexPG upserts a PG accommodation
	IndexPG(ctx context.Context, pg *entities.PGAccommodation) error

	// Search runs a text query across both collections
	Search(ctx context.Context, params SearchParams) ([]SearchHit, error)
}

// SearchParams defines parameters for listing search
type SearchParams struct {
	Query      string
	Collection entities.Collection // empty searches both
	Limit      int
}

// SearchHit is one index match
type SearchHit struct {
	ID         string              `json:"id"`
	Collection entities.Collection `json:"collection"`
	Title      string              `json:"title"`
	Price      float64             `json:"price"`
}
