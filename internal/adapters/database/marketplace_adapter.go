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

var marketplaceColumns = []interface{}{
	"id", "user_id", "category_id", "title", "description", "price",
	"images", "condition", "status", "location", "created_at", "updated_at",
}

// MarketplaceAdapter implements MarketplaceRepository
type MarketplaceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMarketplaceAdapter creates a new marketplace adapter
func NewMarketplaceAdapter(client *postgres.Client) repositories.MarketplaceRepository {
	return &MarketplaceAdapter{
		client: client,
		db:     client.Builder(),
	}
}

// Create inserts a new listing
func (a *MarketplaceAdapter) Create(ctx context.Context, listing *entities.MarketplaceListing) error {
	record := goqu.Record{
		"id":          listing.ID,
		"user_id":     listing.UserID,
		"category_id": listing.CategoryID,
		"title":       listing.Title,
		"description": listing.Description,
		"price":       listing.Price,
		"images":      pq.Array(listing.Images),
		"condition":   string(listing.Condition),
		"status":      string(listing.Status),
		"location":    nullString(listing.Location),
		"created_at":  listing.CreatedAt,
		"updated_at":  listing.UpdatedAt,
	}

	query, args, err := a.db.Insert(string(entities.CollectionMarketplace)).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create listing", err)
	}
	return nil
}

// List retrieves every listing, newest first
func (a *MarketplaceAdapter) List(ctx context.Context) ([]*entities.MarketplaceListing, error) {
	query, args, err := a.db.Select(marketplaceColumns...).
		From(string(entities.CollectionMarketplace)).
		Order(goqu.C("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list marketplace listings", err)
	}
	defer rows.Close()

	listings := []*entities.MarketplaceListing{}
	for rows.Next() {
		l := &entities.MarketplaceListing{}
		var condition, status string
		var location sql.NullString

		err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.CategoryID,
			&l.Title,
			&l.Description,
			&l.Price,
			pq.Array(&l.Images),
			&condition,
			&status,
			&location,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan listing", err)
		}

		l.Condition = entities.ItemCondition(condition)
		l.Status = entities.MarketplaceStatus(status)
		l.Location = stringPtr(location)
		if l.Images == nil {
			l.Images = []string{}
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate listings", err)
	}

	return listings, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
