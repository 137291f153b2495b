package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/campushub/internal/domain/entities"
	"github.com/zatekoja/campushub/internal/domain/repositories"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

const profilesTable = "profiles"

// ProfileAdapter implements ProfileRepository
type ProfileAdapter struct {
	db *sqlx.DB
	qb *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		db: client.Scanner(),
		qb: client.Builder(),
	}
}

func (a *ProfileAdapter) selectProfiles() *goqu.SelectDataset {
	return a.qb.Select(
		"id", "email", "full_name", "college_name", "phone", "avatar_url", "created_at", "updated_at",
	).From(profilesTable)
}

// GetByID retrieves one profile
func (a *ProfileAdapter) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	query, args, err := a.selectProfiles().Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	profile := &entities.UserProfile{}
	err = a.db.GetContext(ctx, profile, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}
	return profile, nil
}

// GetByIDs retrieves the profiles with the given ids
func (a *ProfileAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.UserProfile, error) {
	if len(ids) == 0 {
		return []*entities.UserProfile{}, nil
	}

	query, args, err := a.selectProfiles().Where(goqu.Ex{"id": ids}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	profiles := []*entities.UserProfile{}
	if err := a.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get profiles by ids", err)
	}
	return profiles, nil
}
