package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zatekoja/campushub/internal/adapters/database"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/pkg/config"
)

func main() {
	var path string
	flag.StringVar(&path, "file", "seeds/categories.yaml", "category seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("campushub-seed", cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	f, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("failed to open seed file")
	}
	defer f.Close()

	categories, err := parseCategories(f, time.Now().UTC())
	if err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("invalid seed file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer client.Close()

	added, err := database.SeedCategories(ctx, client, categories)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed categories")
	}
	logger.Info().Int("listed", len(categories)).Int64("added", added).Msg("categories seeded")
}
