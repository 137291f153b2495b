package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/pkg/config"
	"github.com/zatekoja/campushub/pkg/retry"
)

const dialect = "postgres"

// Client owns the Postgres connection pool and hands out the query
// builder and the struct-scanning handle the adapters work through.
type Client struct {
	db      *sql.DB
	builder *goqu.Database
	scanner *sqlx.DB
}

// NewClient opens the pool and retries until the server answers a ping.
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open(dialect, cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger := observability.GetLogger()
	err = retry.DoWithLog(ctx, retry.DefaultConfig(), "PostgreSQL",
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return db.PingContext(pingCtx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Err(err).
				Str("host", cfg.Host).
				Int("attempt", attempt).
				Dur("retry_in", nextDelay).
				Msg("database not reachable yet")
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL %s: %w", cfg.Host, err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Int("max_open_conns", maxOpen).
		Msg("connected to PostgreSQL")
	return NewClientFromDB(db), nil
}

// NewClientFromDB wraps an already opened handle, e.g. a sqlmock connection
func NewClientFromDB(db *sql.DB) *Client {
	return &Client{
		db:      db,
		builder: goqu.New(dialect, db),
		scanner: sqlx.NewDb(db, dialect),
	}
}

func (c *Client) DB() *sql.DB {
	return c.db
}

// Builder returns the goqu query builder bound to the pool.
func (c *Client) Builder() *goqu.Database {
	return c.builder
}

// Scanner returns the sqlx handle used for struct scanning.
func (c *Client) Scanner() *sqlx.DB {
	return c.scanner
}

func (c *Client) Close() error {
	return c.db.Close()
}
