package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientFromDB(db), mock
}

func TestMarketplaceAdapter_List(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMarketplaceAdapter(client)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "category_id", "title", "description", "price",
		"images", "condition", "status", "location", "created_at", "updated_at",
	}).
		AddRow("m2", "u1", "c1", "Chair", "Plastic", 15.0, "{}", "fair", "available", nil, now, now).
		AddRow("m1", "u1", "c1", "Desk", "Oak study desk", 40.0, "{https://img/1.jpg}", "good", "sold", "Hostel B", now.Add(-time.Hour), now)

	mock.ExpectQuery(`SELECT .* FROM "marketplace_listings" ORDER BY "created_at" DESC`).WillReturnRows(rows)

	listings, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "m2", listings[0].ID)
	assert.Nil(t, listings[0].Location)
	assert.Equal(t, []string{}, listings[0].Images)

	assert.Equal(t, entities.ConditionGood, listings[1].Condition)
	assert.Equal(t, entities.MarketplaceStatusSold, listings[1].Status)
	require.NotNil(t, listings[1].Location)
	assert.Equal(t, "Hostel B", *listings[1].Location)
	assert.Equal(t, []string{"https://img/1.jpg"}, listings[1].Images)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketplaceAdapter_ListError(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMarketplaceAdapter(client)

	mock.ExpectQuery(`FROM "marketplace_listings"`).WillReturnError(errors.New("connection reset"))

	_, err := adapter.List(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketplaceAdapter_Create(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMarketplaceAdapter(client)

	mock.ExpectExec(`INSERT INTO "marketplace_listings"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Create(context.Background(), &entities.MarketplaceListing{
		ID: "m1", UserID: "u1", CategoryID: "c1", Title: "Desk", Price: 40,
		Images: []string{}, Condition: entities.ConditionGood, Status: entities.MarketplaceStatusAvailable,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketplaceAdapter_CreateFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewMarketplaceAdapter(client)

	mock.ExpectExec(`INSERT INTO "marketplace_listings"`).WillReturnError(errors.New(`violates foreign key constraint "category_id"`))

	err := adapter.Create(context.Background(), &entities.MarketplaceListing{ID: "m1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign key")
}

func TestPGAdapter_List(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewPGAdapter(client)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "address", "latitude", "longitude",
		"rent_per_month", "amenities", "room_type", "images", "contact_phone",
		"available_from", "gender_preference", "status", "created_at", "updated_at",
	}).
		AddRow("p1", "u2", "Sunrise PG", "Near campus", "MG Road", 12.97, 77.59,
			8000.0, "{WiFi,AC}", "double", nil, "+91 98450 00000",
			"2024-06-01", nil, "available", now, now).
		AddRow("p2", "u2", "Lotus PG", "Girls only", "Ring Road", 12.9, 77.6,
			6500.0, nil, "shared", "{}", "+91 98450 11111",
			nil, "female", "occupied", now, now)

	mock.ExpectQuery(`SELECT .*to_char\("available_from", 'YYYY-MM-DD'\).* FROM "pg_accommodations" ORDER BY "created_at" DESC`).
		WillReturnRows(rows)

	list, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, []string{"WiFi", "AC"}, list[0].Amenities)
	assert.Equal(t, []string{}, list[0].Images)
	assert.Nil(t, list[0].GenderPreference)
	assert.Equal(t, entities.GenderAny, list[0].EffectiveGender())
	require.NotNil(t, list[0].AvailableFrom)
	assert.Equal(t, "2024-06-01", *list[0].AvailableFrom)

	assert.Equal(t, []string{}, list[1].Amenities)
	require.NotNil(t, list[1].GenderPreference)
	assert.Equal(t, entities.GenderFemale, *list[1].GenderPreference)
	assert.Equal(t, entities.PGStatusOccupied, list[1].Status)
	assert.Nil(t, list[1].AvailableFrom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAdapter_Create(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewPGAdapter(client)

	mock.ExpectExec(`INSERT INTO "pg_accommodations"`).WillReturnResult(sqlmock.NewResult(0, 1))

	gender := entities.GenderMale
	err := adapter.Create(context.Background(), &entities.PGAccommodation{
		ID: "p1", UserID: "u2", Title: "Sunrise PG", Amenities: []string{"WiFi"}, Images: []string{},
		RoomType: entities.RoomTypeSingle, GenderPreference: &gender, Status: entities.PGStatusAvailable,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryAdapter_List(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewCategoryAdapter(client)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM "categories" ORDER BY "name" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "created_at"}).
			AddRow("c1", "Books", "book", now).
			AddRow("c2", "Furniture", nil, now))

	categories, err := adapter.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Books", categories[0].Name)
	require.NotNil(t, categories[0].Icon)
	assert.Equal(t, "book", *categories[0].Icon)
	assert.Nil(t, categories[1].Icon)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryAdapter_GetByIDsEmpty(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewCategoryAdapter(client)

	categories, err := adapter.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileAdapter_GetByIDs(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewProfileAdapter(client)

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM "profiles" WHERE .*"id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "full_name", "college_name", "phone", "avatar_url", "created_at", "updated_at",
		}).AddRow("u1", "asha@example.edu", "Asha Rao", "RVCE", nil, nil, now, now))

	profiles, err := adapter.GetByIDs(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Asha Rao", profiles[0].FullName)
	assert.Nil(t, profiles[0].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileAdapter_GetByIDNotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewProfileAdapter(client)

	mock.ExpectQuery(`FROM "profiles" WHERE`).WillReturnError(sql.ErrNoRows)

	_, err := adapter.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSeedCategories(t *testing.T) {
	client, mock := setupMockDB(t)
	icon := "book"
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO "categories" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	added, err := SeedCategories(context.Background(), client, []*entities.Category{
		{ID: "c1", Name: "Books", Icon: &icon, CreatedAt: now},
		{ID: "c2", Name: "Furniture", CreatedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCategories_Empty(t *testing.T) {
	client, mock := setupMockDB(t)

	added, err := SeedCategories(context.Background(), client, nil)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}
