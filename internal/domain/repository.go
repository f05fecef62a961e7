package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSource defines the interface for loading the product catalog
// (the storefront product API or a seed file)
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// FuzzySearcher defines the interface of an approximate-match index over the catalog
type FuzzySearcher interface {
	Search(query string, limit int) ([]FuzzyHit, error)
}

// MatchCache defines the bounded memo of matcher results keyed by chat turn
type MatchCache interface {
	Get(key string) ([]ScoredMatch, bool)
	Put(key string, value []ScoredMatch)
	Len() int
	Capacity() int
	Clear()
}
