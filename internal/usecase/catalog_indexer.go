package usecase

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/freshmart/storefront/internal/domain"
)

// CatalogIndex is the read-only, precomputed view of a catalog load.
// A new index is built for every reload; it is never patched in place.
type CatalogIndex struct {
	Products []domain.IndexedProduct
	// Fuzzy is nil when the fuzzy index could not be built
	Fuzzy    domain.FuzzySearcher
	Version  uint64
	LoadedAt time.Time

	byID map[string]int
}

// Product returns the indexed product with the given id
func (c *CatalogIndex) Product(id string) (*domain.IndexedProduct, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.Products[i], true
}

// Len returns the number of indexed products
func (c *CatalogIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}

// FuzzyEnabled reports whether fuzzy matching is available for this index
func (c *CatalogIndex) FuzzyEnabled() bool {
	return c != nil && c.Fuzzy != nil
}

// CatalogIndexer precomputes per-product match fields and the fuzzy index
type CatalogIndexer struct {
	fuzzyThreshold float64
	logger         zerolog.Logger
	versions       atomic.Uint64
}

// NewCatalogIndexer creates an indexer; threshold <= 0 selects DefaultFuzzyThreshold
func NewCatalogIndexer(fuzzyThreshold float64, logger zerolog.Logger) *CatalogIndexer {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &CatalogIndexer{
		fuzzyThreshold: fuzzyThreshold,
		logger:         logger.With().Str("component", "indexer").Logger(),
	}
}

// Index computes the derived fields of every product and builds the fuzzy
// index. Products with an empty or repeated id are skipped and mark the
// catalog malformed, which disables fuzzy matching for this index. A fuzzy
// index failure never fails the catalog load.
func (ix *CatalogIndexer) Index(products []domain.Product) *CatalogIndex {
	index := &CatalogIndex{
		Products: make([]domain.IndexedProduct, 0, len(products)),
		Version:  ix.versions.Add(1),
		LoadedAt: time.Now(),
		byID:     make(map[string]int, len(products)),
	}

	skipped := 0
	for _, p := range products {
		if _, dup := index.byID[p.ID]; p.ID == "" || dup {
			ix.logger.Warn().
				Str("id", p.ID).
				Str("name", p.Name).
				Msg("skipping product with empty or duplicate id")
			skipped++
			continue
		}
		index.byID[p.ID] = len(index.Products)
		index.Products = append(index.Products, IndexProduct(p))
	}

	if skipped > 0 {
		ix.logger.Warn().
			Err(domain.ErrMalformedCatalog).
			Int("skipped", skipped).
			Msg("fuzzy index unavailable, fuzzy matching disabled")
	} else if fuzzyIndex, err := NewFuzzyIndex(index.Products, ix.fuzzyThreshold); err != nil {
		ix.logger.Warn().Err(err).Int("products", len(products)).Msg("fuzzy index unavailable, fuzzy matching disabled")
	} else {
		index.Fuzzy = fuzzyIndex
	}

	ix.logger.Debug().
		Uint64("version", index.Version).
		Int("products", len(index.Products)).
		Bool("fuzzy", index.FuzzyEnabled()).
		Msg("catalog indexed")

	return index
}

// IndexProduct computes the normalized name, name tokens and keyword set of a product
func IndexProduct(p domain.Product) domain.IndexedProduct {
	normalizedName := Normalize(p.Name)
	nameTokens := Tokenize(p.Name)

	extra := make([]string, 0, len(p.Keywords)+len(p.Synonyms))
	for _, k := range p.Keywords {
		extra = append(extra, Normalize(k))
	}
	for _, s := range p.Synonyms {
		extra = append(extra, Normalize(s))
	}

	return domain.IndexedProduct{
		Product:            p,
		NormalizedName:     normalizedName,
		NameTokens:         nameTokens,
		KeywordSet:         uniqueStrings([]string{normalizedName}, nameTokens, extra),
		NormalizedCategory: Normalize(p.CategoryName()),
	}
}
