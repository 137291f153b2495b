package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campushub/internal/application/services"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

type listingServiceDeps struct {
	marketplace *MockMarketplaceRepository
	pg          *MockPGRepository
	categories  *MockCategoryRepository
	profiles    *MockProfileRepository
	search      *MockSearchRepository
	events      *MockEventBus
}

func newListingService(now time.Time) (*services.ListingService, listingServiceDeps) {
	d := listingServiceDeps{
		marketplace: new(MockMarketplaceRepository),
		pg:          new(MockPGRepository),
		categories:  new(MockCategoryRepository),
		profiles:    new(MockProfileRepository),
		search:      new(MockSearchRepository),
		events:      new(MockEventBus),
	}
	svc := services.NewListingService(d.marketplace, d.pg, d.categories, d.profiles,
		services.WithSearchIndex(d.search),
		services.WithEventBus(d.events),
		services.WithClock(func() time.Time { return now }),
	)
	return svc, d
}

func TestListingService_CreateMarketplace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, d := newListingService(now)

	listing := &entities.MarketplaceListing{
		UserID: "u1", CategoryID: "c1", Title: "Desk", Price: 40, Condition: entities.ConditionGood,
	}

	d.marketplace.On("Create", mock.Anything, listing).Return(nil).Once()
	d.search.On("IndexMarketplace", mock.Anything, listing).Return(errors.New("typesense down")).Once()
	d.events.On("Publish", mock.Anything, providers.EventChannelListings, mock.MatchedBy(func(e *entities.ListingEvent) bool {
		return e.Type == entities.ListingEventCreated && e.Collection == entities.CollectionMarketplace && e.ListingID == listing.ID
	})).Return(nil).Once()

	require.NoError(t, svc.CreateMarketplace(ctx, listing))

	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, now, listing.CreatedAt)
	assert.Equal(t, now, listing.UpdatedAt)
	assert.Equal(t, entities.MarketplaceStatusAvailable, listing.Status)
	assert.Equal(t, []string{}, listing.Images)

	d.marketplace.AssertExpectations(t)
	d.search.AssertExpectations(t)
	d.events.AssertExpectations(t)
}

func TestListingService_CreateMarketplaceRejectsInvalid(t *testing.T) {
	svc, d := newListingService(time.Now())

	err := svc.CreateMarketplace(context.Background(), &entities.MarketplaceListing{
		UserID: "u1", CategoryID: "c1", Title: "Desk", Price: -1, Condition: entities.ConditionGood,
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = svc.CreateMarketplace(context.Background(), &entities.MarketplaceListing{
		CategoryID: "c1", Title: "Desk", Condition: entities.ConditionGood,
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))

	d.marketplace.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListingService_CreatePGRepositoryFailure(t *testing.T) {
	svc, d := newListingService(time.Now())
	pg := &entities.PGAccommodation{
		UserID: "u2", Title: "Sunrise PG", Latitude: 12.9, Longitude: 77.6, RoomType: entities.RoomTypeDouble,
	}

	d.pg.On("Create", mock.Anything, pg).Return(apperrors.NewExternalError("failed to create accommodation", errors.New("rls violation"))).Once()

	err := svc.CreatePG(context.Background(), pg)
	require.Error(t, err)
	assert.Equal(t, "rls violation", apperrors.UserMessage(err))
	d.search.AssertNotCalled(t, "IndexPG", mock.Anything, mock.Anything)
	d.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestListingService_CreatePGDefaults(t *testing.T) {
	svc, d := newListingService(time.Now())
	pg := &entities.PGAccommodation{
		UserID: "u2", Title: "Sunrise PG", Latitude: 12.9, Longitude: 77.6, RoomType: entities.RoomTypeDouble,
	}

	d.pg.On("Create", mock.Anything, pg).Return(nil).Once()
	d.search.On("IndexPG", mock.Anything, pg).Return(nil).Once()
	d.events.On("Publish", mock.Anything, providers.EventChannelListings, mock.Anything).Return(errors.New("redis down")).Once()

	require.NoError(t, svc.CreatePG(context.Background(), pg))
	assert.Equal(t, entities.PGStatusAvailable, pg.Status)
	assert.Equal(t, []string{}, pg.Amenities)
	assert.NotEmpty(t, pg.ID)
}

func TestListingService_ListMarketplaceJoins(t *testing.T) {
	svc, d := newListingService(time.Now())

	d.marketplace.On("List", mock.Anything).Return([]*entities.MarketplaceListing{
		{ID: "m1", UserID: "u1", CategoryID: "c1"},
		{ID: "m2", UserID: "u1", CategoryID: "c9"},
		{ID: "m3", UserID: "u-gone", CategoryID: "c1", Owner: &entities.OwnerSummary{FullName: "Preloaded"}},
	}, nil)
	d.profiles.On("GetByIDs", mock.Anything, []string{"u1"}).Return([]*entities.UserProfile{
		{ID: "u1", FullName: "Asha Rao", CollegeName: "RVCE"},
	}, nil).Once()
	d.categories.On("GetByIDs", mock.Anything, mock.Anything).Return([]*entities.Category{
		{ID: "c1", Name: "Furniture"},
	}, nil).Once()

	listings, err := svc.ListMarketplace(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, &entities.OwnerSummary{FullName: "Asha Rao", CollegeName: "RVCE"}, listings[0].Owner)
	assert.Equal(t, &entities.CategorySummary{Name: "Furniture"}, listings[0].Category)
	assert.Nil(t, listings[1].Category, "missing category leaves the join empty")
	assert.Equal(t, "Preloaded", listings[2].Owner.FullName)

	d.profiles.AssertExpectations(t)
	d.categories.AssertExpectations(t)
}

func TestListingService_ListPGMissingOwner(t *testing.T) {
	svc, d := newListingService(time.Now())

	d.pg.On("List", mock.Anything).Return([]*entities.PGAccommodation{{ID: "p1", UserID: "u-gone"}}, nil)
	d.profiles.On("GetByIDs", mock.Anything, []string{"u-gone"}).Return([]*entities.UserProfile{}, nil)

	list, err := svc.ListPG(context.Background())
	require.NoError(t, err)
	assert.Nil(t, list[0].Owner)
}

func TestListingService_ListError(t *testing.T) {
	svc, d := newListingService(time.Now())
	d.pg.On("List", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.ListPG(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestListingService_Search(t *testing.T) {
	svc, d := newListingService(time.Now())
	params := repositories.SearchParams{Query: "desk", Limit: 10}
	d.search.On("Search", mock.Anything, params).Return([]repositories.SearchHit{{ID: "m1", Title: "Desk"}}, nil)

	hits, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	bare := services.NewListingService(d.marketplace, d.pg, d.categories, d.profiles)
	_, err = bare.Search(context.Background(), params)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
