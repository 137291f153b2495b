package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

// CategoryAdapter implements CategoryRepository. Rows map onto the entity's
// db tags through sqlx.
type CategoryAdapter struct {
	db *sqlx.DB
	qb *goqu.Database
}

// NewCategoryAdapter creates a new category adapter
func NewCategoryAdapter(client *postgres.Client) repositories.CategoryRepository {
	return &CategoryAdapter{
		db: client.Scanner(),
		qb: client.Builder(),
	}
}

func (a *CategoryAdapter) selectCategories() *goqu.SelectDataset {
	return a.qb.Select("id", "name", "icon", "created_at").
		From(string(entities.CollectionCategories)).
		Order(goqu.C("name").Asc())
}

// List retrieves all categories ordered by name
func (a *CategoryAdapter) List(ctx context.Context) ([]*entities.Category, error) {
	query, args, err := a.selectCategories().ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	categories := []*entities.Category{}
	if err := a.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list categories", err)
	}
	return categories, nil
}

// GetByIDs retrieves the categories with the given ids
func (a *CategoryAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Category, error) {
	if len(ids) == 0 {
		return []*entities.Category{}, nil
	}

	query, args, err := a.selectCategories().Where(goqu.Ex{"id": ids}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	categories := []*entities.Category{}
	if err := a.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get categories by ids", err)
	}
	return categories, nil
}

// SeedCategories inserts categories, skipping ids that already exist, and
// returns how many rows were added.
func SeedCategories(ctx context.Context, client *postgres.Client, categories []*entities.Category) (int64, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	rows := make([]interface{}, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, goqu.Record{
			"id":         c.ID,
			"name":       c.Name,
			"icon":       nullString(c.Icon),
			"created_at": c.CreatedAt,
		})
	}

	query, args, err := client.Builder().
		Insert(string(entities.CollectionCategories)).
		Prepared(true).
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build insert query", err)
	}

	res, err := client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to seed categories", err)
	}
	return res.RowsAffected()
}
