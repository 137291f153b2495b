package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zatekoja/campushub/internal/adapters/cache"
	"github.com/zatekoja/campushub/internal/adapters/database"
	"github.com/zatekoja/campushub/internal/adapters/events"
	"github.com/zatekoja/campushub/internal/adapters/providers/chat"
	"github.com/zatekoja/campushub/internal/adapters/search"
	"github.com/zatekoja/campushub/internal/api/handlers"
	"github.com/zatekoja/campushub/internal/api/routes"
	"github.com/zatekoja/campushub/internal/application/services"
	"github.com/zatekoja/campushub/internal/domain/providers"
	"github.com/zatekoja/campushub/internal/infrastructure/backend"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/redis"
	"github.com/zatekoja/campushub/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	"github.com/zatekoja/campushub/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	repos, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend).Msg("failed to open backend")
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing backend")
		}
	}()

	// Redis is optional: without it lists are read straight from the
	// backend and other instances are not notified of creates.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without list cache and events")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		repos.WithCache(cacheProvider, metrics, cfg.Cache.ListTTL)
	}

	opts := []services.ListingServiceOption{services.WithMetrics(metrics)}
	if eventBus != nil {
		opts = append(opts, services.WithEventBus(eventBus))
	}
	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("Typesense unavailable, search disabled")
	} else if err := tsClient.InitSchema(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Typesense schema, search disabled")
	} else {
		opts = append(opts, services.WithSearchIndex(search.NewTypesenseAdapter(tsClient)))
	}

	listingService := services.NewListingService(repos.Marketplace, repos.PG, repos.Categories, repos.Profiles, opts...)

	marketplaceView := services.NewMarketplaceView(listingService)
	pgView := services.NewPGView(listingService)
	refreshers := services.Refreshers{marketplaceView, pgView}

	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := marketplaceView.Load(loadCtx); err != nil {
		logger.Warn().Err(err).Msg("initial marketplace load failed")
	}
	if err := pgView.Load(loadCtx); err != nil {
		logger.Warn().Err(err).Msg("initial PG load failed")
	}
	loadCancel()

	var warmOpts []services.CacheWarmingOption
	if cacheProvider != nil {
		warmOpts = append(warmOpts, services.WithWarmEviction(cacheProvider, database.ListCacheKey))
	}
	warming, err := services.NewCacheWarmingService(refreshers, cfg.Cache.WarmSchedule, warmOpts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create cache warming service")
	}
	warming.Start()
	defer warming.Stop()

	var invalidation *services.CacheInvalidationService
	if eventBus != nil {
		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus, refreshers, database.ListCacheKey)
		if err := invalidation.Start(); err != nil {
			logger.Warn().Err(err).Msg("failed to start cache invalidation service")
			invalidation = nil
		}
	}

	chatService := services.NewChatService(chat.NewChatProvider(cfg.Chat), metrics,
		services.WithSessionLimits(cfg.Chat.MaxSessions, cfg.Chat.SessionTTL))

	router := routes.NewRouter(
		handlers.NewListingHandler(marketplaceView, pgView, listingService, refreshers),
		handlers.NewSearchHandler(listingService),
		handlers.NewChatHandler(func(id string) handlers.ChatTranscript { return chatService.Session(id) }),
		handlers.NewSessionHandler(),
		routes.Config{
			Profiles:       repos.Profiles,
			Categories:     repos.Categories,
			JWTSecret:      cfg.Auth.JWTSecret,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Metrics:        metrics,
		},
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Chat.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Str("backend", cfg.Backend).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if invalidation != nil {
		invalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
