package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

// available_from is a DATE column; it is read back as YYYY-MM-DD text.
var pgColumns = []interface{}{
	"id", "user_id", "title", "description", "address", "latitude", "longitude",
	"rent_per_month", "amenities", "room_type", "images", "contact_phone",
	goqu.L(`to_char("available_from", 'YYYY-MM-DD')`).As("available_from"),
	"gender_preference", "status", "created_at", "updated_at",
}

// PGAdapter implements PGRepository
type PGAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPGAdapter creates a new PG accommodation adapter
func NewPGAdapter(client *postgres.Client) repositories.PGRepository {
	return &PGAdapter{
		client: client,
		db:     client.Builder(),
	}
}

// Create inserts a new accommodation
func (a *PGAdapter) Create(ctx context.Context, pg *entities.PGAccommodation) error {
	var gender sql.NullString
	if pg.GenderPreference != nil {
		gender = sql.NullString{String: string(*pg.GenderPreference), Valid: true}
	}

	record := goqu.Record{
		"id":                pg.ID,
		"user_id":           pg.UserID,
		"title":             pg.Title,
		"description":       pg.Description,
		"address":           pg.Address,
		"latitude":          pg.Latitude,
		"longitude":         pg.Longitude,
		"rent_per_month":    pg.RentPerMonth,
		"amenities":         pq.Array(pg.Amenities),
		"room_type":         string(pg.RoomType),
		"images":            pq.Array(pg.Images),
		"contact_phone":     pg.ContactPhone,
		"available_from":    nullString(pg.AvailableFrom),
		"gender_preference": gender,
		"status":            string(pg.Status),
		"created_at":        pg.CreatedAt,
		"updated_at":        pg.UpdatedAt,
	}

	query, args, err := a.db.Insert(string(entities.CollectionPG)).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create accommodation", err)
	}
	return nil
}

// List retrieves every accommodation, newest first
func (a *PGAdapter) List(ctx context.Context) ([]*entities.PGAccommodation, error) {
	query, args, err := a.db.Select(pgColumns...).
		From(string(entities.CollectionPG)).
		Order(goqu.C("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list accommodations", err)
	}
	defer rows.Close()

	accommodations := []*entities.PGAccommodation{}
	for rows.Next() {
		pg := &entities.PGAccommodation{}
		var roomType, status string
		var availableFrom, gender sql.NullString

		err := rows.Scan(
			&pg.ID,
			&pg.UserID,
			&pg.Title,
			&pg.Description,
			&pg.Address,
			&pg.Latitude,
			&pg.Longitude,
			&pg.RentPerMonth,
			pq.Array(&pg.Amenities),
			&roomType,
			pq.Array(&pg.Images),
			&pg.ContactPhone,
			&availableFrom,
			&gender,
			&status,
			&pg.CreatedAt,
			&pg.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan accommodation", err)
		}

		pg.RoomType = entities.RoomType(roomType)
		pg.Status = entities.PGStatus(status)
		pg.AvailableFrom = stringPtr(availableFrom)
		if gender.Valid {
			g := entities.GenderPreference(gender.String)
			pg.GenderPreference = &g
		}
		if pg.Amenities == nil {
			pg.Amenities = []string{}
		}
		if pg.Images == nil {
			pg.Images = []string{}
		}
		accommodations = append(accommodations, pg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate accommodations", err)
	}

	return accommodations, nil
}
