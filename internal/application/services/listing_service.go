package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/internal/loaders"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

// ListingService is the application layer over the listing repositories.
// Search and events are optional and best effort.
type ListingService struct {
	marketplace repositories.MarketplaceRepository
	pg          repositories.PGRepository
	categories  repositories.CategoryRepository
	profiles    repositories.ProfileRepository
	search      repositories.ListingSearchRepository
	events      providers.EventBus
	metrics     *observability.Metrics
	now         func() time.Time
}

// ListingServiceOption configures optional collaborators
type ListingServiceOption func(*ListingService)

// WithSearchIndex indexes every created listing
func WithSearchIndex(search repositories.ListingSearchRepository) ListingServiceOption {
	return func(s *ListingService) { s.search = search }
}

// WithEventBus publishes a listing.created event for every created listing
func WithEventBus(bus providers.EventBus) ListingServiceOption {
	return func(s *ListingService) { s.events = bus }
}

// WithMetrics records created listings
func WithMetrics(m *observability.Metrics) ListingServiceOption {
	return func(s *ListingService) { s.metrics = m }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) ListingServiceOption {
	return func(s *ListingService) { s.now = now }
}

// NewListingService creates a new listing service
func NewListingService(
	marketplace repositories.MarketplaceRepository,
	pg repositories.PGRepository,
	categories repositories.CategoryRepository,
	profiles repositories.ProfileRepository,
	opts ...ListingServiceOption,
) *ListingService {
	s := &ListingService{
		marketplace: marketplace,
		pg:          pg,
		categories:  categories,
		profiles:    profiles,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMarketplace assigns identity and timestamps, validates and persists
// a marketplace listing.
func (s *ListingService) CreateMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error {
	if err := validateMarketplace(listing); err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, "ListingService.CreateMarketplace")
	defer span.End()

	now := s.now().UTC()
	listing.ID = uuid.NewString()
	listing.CreatedAt, listing.UpdatedAt = now, now
	if listing.Status == "" {
		listing.Status = entities.MarketplaceStatusAvailable
	}
	if listing.Images == nil {
		listing.Images = []string{}
	}

	if err := s.marketplace.Create(ctx, listing); err != nil {
		observability.RecordError(span, err)
		return err
	}

	if s.search != nil {
		if err := s.search.IndexMarketplace(ctx, listing); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("listing_id", listing.ID).Msg("failed to index listing")
		}
	}
	s.created(ctx, entities.CollectionMarketplace, listing.ID)
	return nil
}

// CreatePG assigns identity and timestamps, validates and persists an
// accommodation.
func (s *ListingService) CreatePG(ctx context.Context, pg *entities.PGAccommodation) error {
	if err := validatePG(pg); err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, "ListingService.CreatePG")
	defer span.End()

	now := s.now().UTC()
	pg.ID = uuid.NewString()
	pg.CreatedAt, pg.UpdatedAt = now, now
	if pg.Status == "" {
		pg.Status = entities.PGStatusAvailable
	}
	if pg.Amenities == nil {
		pg.Amenities = []string{}
	}
	if pg.Images == nil {
		pg.Images = []string{}
	}

	if err := s.pg.Create(ctx, pg); err != nil {
		observability.RecordError(span, err)
		return err
	}

	if s.search != nil {
		if err := s.search.IndexPG(ctx, pg); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("listing_id", pg.ID).Msg("failed to index accommodation")
		}
	}
	s.created(ctx, entities.CollectionPG, pg.ID)
	return nil
}

func (s *ListingService) created(ctx context.Context, collection entities.Collection, id string) {
	observability.RecordListingCreated(ctx, s.metrics, string(collection))
	observability.LoggerFromContext(ctx).Info().
		Str("collection", string(collection)).
		Str("listing_id", id).
		Msg("listing created")

	if s.events == nil {
		return
	}
	event := entities.NewListingEvent(entities.ListingEventCreated, collection, id)
	if err := s.events.Publish(ctx, providers.EventChannelListings, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("listing_id", id).Msg("failed to publish listing event")
	}
}

// ListMarketplace returns every listing, newest first, with owner and
// category joined where the rows exist.
func (s *ListingService) ListMarketplace(ctx context.Context) ([]*entities.MarketplaceListing, error) {
	listings, err := s.marketplace.List(ctx)
	if err != nil {
		return nil, err
	}

	var ownerIDs, categoryIDs []string
	for _, l := range listings {
		if l.Owner == nil {
			ownerIDs = append(ownerIDs, l.UserID)
		}
		if l.Category == nil {
			categoryIDs = append(categoryIDs, l.CategoryID)
		}
	}

	ld := s.loaders(ctx)
	owners, err := ld.Profiles(ctx, unique(ownerIDs))
	if err != nil {
		return nil, err
	}
	categories, err := ld.Categories(ctx, unique(categoryIDs))
	if err != nil {
		return nil, err
	}

	for _, l := range listings {
		if l.Owner == nil {
			l.Owner = owners[l.UserID].Summary()
		}
		if c, ok := categories[l.CategoryID]; ok && l.Category == nil {
			l.Category = &entities.CategorySummary{Name: c.Name}
		}
	}
	return listings, nil
}

// ListPG returns every accommodation, newest first, with owner joined
func (s *ListingService) ListPG(ctx context.Context) ([]*entities.PGAccommodation, error) {
	accommodations, err := s.pg.List(ctx)
	if err != nil {
		return nil, err
	}

	var ownerIDs []string
	for _, pg := range accommodations {
		if pg.Owner == nil {
			ownerIDs = append(ownerIDs, pg.UserID)
		}
	}

	owners, err := s.loaders(ctx).Profiles(ctx, unique(ownerIDs))
	if err != nil {
		return nil, err
	}
	for _, pg := range accommodations {
		if pg.Owner == nil {
			pg.Owner = owners[pg.UserID].Summary()
		}
	}
	return accommodations, nil
}

// ListCategories returns all categories ordered by name
func (s *ListingService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return s.categories.List(ctx)
}

// Search runs a text query against the listing index
func (s *ListingService) Search(ctx context.Context, params repositories.SearchParams) ([]repositories.SearchHit, error) {
	if s.search == nil {
		return nil, apperrors.NewExternalError("search is not configured", nil)
	}
	hits, err := s.search.Search(ctx, params)
	if err != nil {
		return nil, apperrors.NewExternalError("search failed", err)
	}
	return hits, nil
}

// Profile returns a user's profile
func (s *ListingService) Profile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	return s.profiles.GetByID(ctx, userID)
}

func (s *ListingService) loaders(ctx context.Context) *loaders.Loaders {
	if l := loaders.For(ctx); l != nil {
		return l
	}
	return loaders.NewLoaders(s.profiles, s.categories)
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateMarketplace(l *entities.MarketplaceListing) error {
	switch {
	case l == nil:
		return apperrors.NewValidationError("listing is required")
	case l.UserID == "":
		return apperrors.NewUnauthorizedError("listing has no owner")
	case strings.TrimSpace(l.Title) == "":
		return apperrors.NewFieldError("title", "title is required")
	case l.CategoryID == "":
		return apperrors.NewFieldError("category_id", "category_id is required")
	case l.Price < 0:
		return apperrors.NewFieldError("price", "price cannot be negative")
	case !l.Condition.Valid():
		return apperrors.NewFieldError("condition", "unknown condition")
	case l.Status != "" && !l.Status.Valid():
		return apperrors.NewFieldError("status", "unknown status")
	}
	return nil
}

func validatePG(pg *entities.PGAccommodation) error {
	switch {
	case pg == nil:
		return apperrors.NewValidationError("accommodation is required")
	case pg.UserID == "":
		return apperrors.NewUnauthorizedError("accommodation has no owner")
	case strings.TrimSpace(pg.Title) == "":
		return apperrors.NewFieldError("title", "title is required")
	case !pg.Location().Valid():
		return apperrors.NewFieldError("latitude", "coordinates are out of range")
	case pg.RentPerMonth < 0:
		return apperrors.NewFieldError("rent_per_month", "rent_per_month cannot be negative")
	case !pg.RoomType.Valid():
		return apperrors.NewFieldError("room_type", "unknown room type")
	case pg.GenderPreference != nil && !pg.GenderPreference.Valid():
		return apperrors.NewFieldError("gender_preference", "unknown gender preference")
	case pg.Status != "" && !pg.Status.Valid():
		return apperrors.NewFieldError("status", "unknown status")
	}
	return nil
}
