package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/freshmart/storefront/internal/domain"
)

// catalogSnapshotKey is the cache key of the last fetched product list
const catalogSnapshotKey = "catalog:snapshot"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SnapshotTTL time.Duration
}

// CatalogService loads the product catalog, indexes it and publishes the
// index to the relevance matcher.
type CatalogService struct {
	source      domain.CatalogSource
	cache       domain.CacheRepository
	indexer     *CatalogIndexer
	matcher     *RelevanceMatcher
	snapshotTTL time.Duration
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service with dependencies.
// cache may be nil, in which case every load hits the source.
func NewCatalogService(
	source domain.CatalogSource,
	cache domain.CacheRepository,
	indexer *CatalogIndexer,
	matcher *RelevanceMatcher,
	config CatalogServiceConfig,
	logger zerolog.Logger,
) *CatalogService {
	ttl := config.SnapshotTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	return &CatalogService{
		source:      source,
		cache:       cache,
		indexer:     indexer,
		matcher:     matcher,
		snapshotTTL: ttl,
		logger:      logger.With().Str("component", "catalog").Logger(),
	}
}

// Load indexes the catalog, preferring a cached snapshot over the source.
// Flow: check cache -> fetch source -> cache snapshot -> index -> publish
func (s *CatalogService) Load(ctx context.Context) (domain.CatalogStats, error) {
	products, err := s.getSnapshot(ctx)
	if err == nil {
		s.logger.Debug().Int("products", len(products)).Msg("catalog loaded from snapshot cache")
		return s.publish(products), nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("catalog snapshot unreadable, fetching from source")
	}

	return s.Reload(ctx)
}

// Reload fetches the catalog from the source, bypassing the snapshot cache,
// and publishes a new index.
func (s *CatalogService) Reload(ctx context.Context) (domain.CatalogStats, error) {
	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if len(products) == 0 {
		return domain.CatalogStats{}, domain.ErrCatalogNotFound
	}

	if err := s.setSnapshot(ctx, products); err != nil {
		// Caching failures never fail a load
		s.logger.Warn().Err(err).Msg("failed to cache catalog snapshot")
	}

	return s.publish(products), nil
}

// Run reloads the catalog every interval until ctx is cancelled.
// Failed reloads keep the previous index in place.
func (s *CatalogService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := s.Reload(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("scheduled catalog reload failed")
				continue
			}
			s.logger.Info().
				Uint64("version", stats.Version).
				Int("products", stats.ProductCount).
				Msg("catalog reloaded")
		}
	}
}

// Stats describes the currently published index
func (s *CatalogService) Stats() (domain.CatalogStats, error) {
	index := s.matcher.Index()
	if index == nil {
		return domain.CatalogStats{}, domain.ErrIndexNotReady
	}
	return s.statsOf(index), nil
}

func (s *CatalogService) publish(products []domain.Product) domain.CatalogStats {
	index := s.indexer.Index(products)
	s.matcher.SetIndex(index)
	return s.statsOf(index)
}

func (s *CatalogService) statsOf(index *CatalogIndex) domain.CatalogStats {
	entries, capacity := s.matcher.CacheUsage()
	return domain.CatalogStats{
		Version:            index.Version,
		ProductCount:       index.Len(),
		FuzzyEnabled:       index.FuzzyEnabled(),
		LoadedAt:           index.LoadedAt,
		MatchCacheEntries:  entries,
		MatchCacheCapacity: capacity,
	}
}

// getSnapshot retrieves the cached product list
func (s *CatalogService) getSnapshot(ctx context.Context) ([]domain.Product, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, catalogSnapshotKey)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog snapshot: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}

// setSnapshot stores the product list in the cache
func (s *CatalogService) setSnapshot(ctx context.Context, products []domain.Product) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}
	return s.cache.Set(ctx, catalogSnapshotKey, data, s.snapshotTTL)
}
