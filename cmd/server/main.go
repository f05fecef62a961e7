package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/freshmart/storefront/config"
	httpDelivery "github.com/freshmart/storefront/internal/delivery/http"
	"github.com/freshmart/storefront/internal/domain"
	"github.com/freshmart/storefront/internal/infrastructure/cache"
	"github.com/freshmart/storefront/internal/infrastructure/catalog"
	"github.com/freshmart/storefront/internal/infrastructure/logging"
	"github.com/freshmart/storefront/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("catalog_source", cfg.Catalog.Source).
		Str("cache_type", cfg.Cache.Type).
		Msg("starting storefront assistant backend v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	snapshotCache, closeCache, err := newSnapshotCache(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache")
	}
	defer closeCache()

	source := newCatalogSource(cfg, logger)

	// Initialize usecase layer
	matcher := usecase.NewRelevanceMatcher(
		usecase.NewScorer(usecase.ScorerConfig{
			FuzzyCandidates: cfg.Matcher.FuzzyCandidates,
			MaxFuzzyQueries: cfg.Matcher.MaxFuzzyQueries,
		}, logger),
		cache.NewFIFOCache[string, []domain.ScoredMatch](cfg.Matcher.CacheSize),
		usecase.MatcherConfig{
			MinScore: cfg.Matcher.MinScore,
			TopK:     cfg.Matcher.TopK,
		},
		logger,
	)

	catalogService := usecase.NewCatalogService(
		source,
		snapshotCache,
		usecase.NewCatalogIndexer(cfg.Matcher.FuzzyThreshold, logger),
		matcher,
		usecase.CatalogServiceConfig{SnapshotTTL: cfg.Cache.TTL},
		logger,
	)

	// A missing catalog at startup is not fatal; the reload endpoint and the
	// refresh loop retry later
	if stats, err := catalogService.Load(ctx); err != nil {
		logger.Error().Err(err).Msg("initial catalog load failed")
	} else {
		logger.Info().
			Uint64("version", stats.Version).
			Int("products", stats.ProductCount).
			Bool("fuzzy", stats.FuzzyEnabled).
			Msg("catalog ready")
	}
	go catalogService.Run(ctx, cfg.Catalog.RefreshInterval)

	handler := httpDelivery.NewHandler(matcher, catalogService)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newSnapshotCache builds the catalog snapshot cache selected by configuration
func newSnapshotCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.Cache.RedisURL})
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	}
	return cache.NewMemoryCache(ctx, 10*time.Minute), func() {}, nil
}

// newCatalogSource builds the catalog source selected by configuration
func newCatalogSource(cfg *config.Config, logger zerolog.Logger) domain.CatalogSource {
	if cfg.Catalog.Source == "file" {
		return catalog.NewFileSource(cfg.Catalog.Path, logger)
	}
	return catalog.NewClient(catalog.ClientConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		PageSize:          cfg.Catalog.PageSize,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
	}, logger)
}
