package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zatekoja/campushub/internal/adapters/search"
	"github.com/zatekoja/campushub/internal/infrastructure/backend"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("campushub-indexer", cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil || interval <= 0 {
			logger.Fatal().Str("interval", intervalValue).Msg("interval must be a positive duration")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			logger.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		logger.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			logger.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	logger := observability.LoggerFromContext(ctx)

	repos, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		logger.Info().Str("collection", typesense.ListingsCollection).Msg("deleting collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.ListingsCollection).Delete(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}
	index := search.NewTypesenseAdapter(tsClient)

	listings, err := repos.Marketplace.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list marketplace listings: %w", err)
	}
	accommodations, err := repos.PG.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accommodations: %w", err)
	}

	logger.Info().Int("marketplace", len(listings)).Int("pg", len(accommodations)).Msg("indexing listings")

	var failed int
	for _, l := range listings {
		if err := index.IndexMarketplace(ctx, l); err != nil {
			failed++
			logger.Warn().Err(err).Str("listing_id", l.ID).Msg("failed to index listing")
		}
	}
	for _, pg := range accommodations {
		if err := index.IndexPG(ctx, pg); err != nil {
			failed++
			logger.Warn().Err(err).Str("listing_id", pg.ID).Msg("failed to index accommodation")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to index", failed, len(listings)+len(accommodations))
	}
	return nil
}
