package repositories

import (
	"context"

	"github.com/zatekoja/campushub/internal/domain/entities"
)

// MarketplaceRepository defines data operations on marketplace listings.
// List returns raw rows, newest first; joins are composed by the caller.
type MarketplaceRepository interface {
	// List retrieves the whole collection
	List(ctx context.Context) ([]*entities.MarketplaceListing, error)

	// Create inserts a new listing
	Create(ctx context.Context, listing *entities.MarketplaceListing) error
}

// PGRepository defines data operations on PG accommodations
type PGRepository interface {
	// List retrieves the whole collection, newest first
	List(ctx context.Context) ([]*entities.PGAccommodation, error)

	// Create inserts a new accommodation
	Create(ctx context.Context, pg *entities.PGAccommodation) error
}

// CategoryRepository reads marketplace categories
type CategoryRepository interface {
	// List retrieves all categories ordered by name
	List(ctx context.Context) ([]*entities.Category, error)

	// GetByIDs retrieves the categories with the given ids, in any order
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Category, error)
}

// ProfileRepository reads user profiles
type ProfileRepository interface {
	// GetByID retrieves one profile
	GetByID(ctx context.Context, id string) (*entities.UserProfile, error)

	// GetByIDs retrieves the profiles with the given ids, in any order
	GetByIDs(ctx context.Context, ids []string) ([]*entities.UserProfile, error)
}
