package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

// Embedded selects mirror what the hosted schema's foreign keys expose.
const (
	marketplaceSelect = "*,profiles(full_name,college_name),categories(name)"
	pgSelect          = "*,profiles(full_name,college_name)"
)

// MarketplaceRepository reads and writes marketplace_listings over REST
type MarketplaceRepository struct {
	client *Client
}

var _ repositories.MarketplaceRepository = (*MarketplaceRepository)(nil)

// NewMarketplaceRepository creates a REST-backed marketplace repository
func NewMarketplaceRepository(client *Client) *MarketplaceRepository {
	return &MarketplaceRepository{client: client}
}

// List returns every listing with owner and category joined, newest first
func (r *MarketplaceRepository) List(ctx context.Context) ([]*entities.MarketplaceListing, error) {
	q := url.Values{}
	q.Set("select", marketplaceSelect)
	q.Set("order", "created_at.desc")

	listings := []*entities.MarketplaceListing{}
	if err := r.client.selectRows(ctx, string(entities.CollectionMarketplace), q, &listings); err != nil {
		return nil, apperrors.NewExternalError("failed to load marketplace listings", err)
	}
	for _, l := range listings {
		if l.Images == nil {
			l.Images = []string{}
		}
	}
	return listings, nil
}

// Create inserts one listing
func (r *MarketplaceRepository) Create(ctx context.Context, listing *entities.MarketplaceListing) error {
	row := *listing
	row.Owner, row.Category = nil, nil
	if err := r.client.insertRow(ctx, string(entities.CollectionMarketplace), &row); err != nil {
		return apperrors.NewExternalError("failed to create listing", err)
	}
	return nil
}

// PGRepository reads and writes pg_accommodations over REST
type PGRepository struct {
	client *Client
}

var _ repositories.PGRepository = (*PGRepository)(nil)

// NewPGRepository creates a REST-backed PG repository
func NewPGRepository(client *Client) *PGRepository {
	return &PGRepository{client: client}
}

// List returns every accommodation with owner joined, newest first
func (r *PGRepository) List(ctx context.Context) ([]*entities.PGAccommodation, error) {
	q := url.Values{}
	q.Set("select", pgSelect)
	q.Set("order", "created_at.desc")

	accommodations := []*entities.PGAccommodation{}
	if err := r.client.selectRows(ctx, string(entities.CollectionPG), q, &accommodations); err != nil {
		return nil, apperrors.NewExternalError("failed to load accommodations", err)
	}
	for _, pg := range accommodations {
		if pg.Amenities == nil {
			pg.Amenities = []string{}
		}
		if pg.Images == nil {
			pg.Images = []string{}
		}
	}
	return accommodations, nil
}

// Create inserts one accommodation
func (r *PGRepository) Create(ctx context.Context, pg *entities.PGAccommodation) error {
	row := *pg
	row.Owner = nil
	if err := r.client.insertRow(ctx, string(entities.CollectionPG), &row); err != nil {
		return apperrors.NewExternalError("failed to create accommodation", err)
	}
	return nil
}

// CategoryRepository reads categories over REST
type CategoryRepository struct {
	client *Client
}

var _ repositories.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a REST-backed category repository
func NewCategoryRepository(client *Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name.asc")
	return r.fetch(ctx, q)
}

// GetByIDs returns the categories with the given ids
func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Category, error) {
	if len(ids) == 0 {
		return []*entities.Category{}, nil
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", inFilter(ids))
	return r.fetch(ctx, q)
}

func (r *CategoryRepository) fetch(ctx context.Context, q url.Values) ([]*entities.Category, error) {
	categories := []*entities.Category{}
	if err := r.client.selectRows(ctx, string(entities.CollectionCategories), q, &categories); err != nil {
		return nil, apperrors.NewExternalError("failed to load categories", err)
	}
	return categories, nil
}

// ProfileRepository reads profiles over REST
type ProfileRepository struct {
	client *Client
}

var _ repositories.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a REST-backed profile repository
func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// GetByID returns one profile
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	profiles, err := r.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile %s not found", id))
	}
	return profiles[0], nil
}

// GetByIDs returns the profiles with the given ids
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.UserProfile, error) {
	if len(ids) == 0 {
		return []*entities.UserProfile{}, nil
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", inFilter(ids))

	profiles := []*entities.UserProfile{}
	if err := r.client.selectRows(ctx, "profiles", q, &profiles); err != nil {
		return nil, apperrors.NewExternalError("failed to load profiles", err)
	}
	return profiles, nil
}
