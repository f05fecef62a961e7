package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrCatalogUnavailable is returned when the catalog source cannot be reached
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrCatalogNotFound is returned when the catalog source has no products
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrMalformedCatalog is returned when catalog entries cannot be indexed
	ErrMalformedCatalog = errors.New("malformed catalog")

	// ErrEmptyQuery is returned when a fuzzy search is given an empty query
	ErrEmptyQuery = errors.New("empty fuzzy query")

	// ErrIndexNotReady is returned when no catalog has been indexed yet
	ErrIndexNotReady = errors.New("catalog index not ready")
)
