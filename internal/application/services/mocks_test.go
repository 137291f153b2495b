package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
)

type MockMarketplaceRepository struct {
	mock.Mock
}

func (m *MockMarketplaceRepository) List(ctx context.Context) ([]*entities.MarketplaceListing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]*entities.MarketplaceListing)
	return listings, args.Error(1)
}

func (m *MockMarketplaceRepository) Create(ctx context.Context, listing *entities.MarketplaceListing) error {
	return m.Called(ctx, listing).Error(0)
}

type MockPGRepository struct {
	mock.Mock
}

func (m *MockPGRepository) List(ctx context.Context) ([]*entities.PGAccommodation, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entities.PGAccommodation)
	return list, args.Error(1)
}

func (m *MockPGRepository) Create(ctx context.Context, pg *entities.PGAccommodation) error {
	return m.Called(ctx, pg).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]*entities.Category)
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Category, error) {
	args := m.Called(ctx, ids)
	categories, _ := args.Get(0).([]*entities.Category)
	return categories, args.Error(1)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	args := m.Called(ctx, id)
	profile, _ := args.Get(0).(*entities.UserProfile)
	return profile, args.Error(1)
}

func (m *MockProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.UserProfile, error) {
	args := m.Called(ctx, ids)
	profiles, _ := args.Get(0).([]*entities.UserProfile)
	return profiles, args.Error(1)
}

type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) IndexMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockSearchRepository) IndexPG(ctx context.Context, pg *entities.PGAccommodation) error {
	return m.Called(ctx, pg).Error(0)
}

func (m *MockSearchRepository) Search(ctx context.Context, params repositories.SearchParams) ([]repositories.SearchHit, error) {
	args := m.Called(ctx, params)
	hits, _ := args.Get(0).([]repositories.SearchHit)
	return hits, args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ListingEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ListingEvent, error) {
	args := m.Called(ctx, channel)
	ch, _ := args.Get(0).(<-chan *entities.ListingEvent)
	return ch, args.Error(1)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}

type MockListingCreator struct {
	mock.Mock
}

func (m *MockListingCreator) CreateMarketplace(ctx context.Context, listing *entities.MarketplaceListing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingCreator) CreatePG(ctx context.Context, pg *entities.PGAccommodation) error {
	return m.Called(ctx, pg).Error(0)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context, collection entities.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

type MockChatProvider struct {
	mock.Mock
}

func (m *MockChatProvider) Send(ctx context.Context, req entities.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func signedIn(userID string) *entities.Session {
	return &entities.Session{User: &entities.AuthUser{ID: userID}}
}
