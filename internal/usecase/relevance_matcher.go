package usecase

import (
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/freshmart/storefront/internal/domain"
)

// MatcherConfig holds configuration for the relevance matcher
type MatcherConfig struct {
	MinScore int // products scoring below are dropped
	TopK     int // maximum number of products returned
}

// RelevanceMatcher is the entry point of the product relevance engine.
// Results are memoized per literal (question, answer) pair.
type RelevanceMatcher struct {
	scorer   ProductScorer
	cache    domain.MatchCache
	index    atomic.Pointer[CatalogIndex]
	minScore int
	topK     int
	logger   zerolog.Logger
}

// NewRelevanceMatcher creates a matcher over the given scorer and result cache
func NewRelevanceMatcher(
	scorer ProductScorer,
	cache domain.MatchCache,
	config MatcherConfig,
	logger zerolog.Logger,
) *RelevanceMatcher {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	topK := config.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &RelevanceMatcher{
		scorer:   scorer,
		cache:    cache,
		minScore: minScore,
		topK:     topK,
		logger:   logger.With().Str("component", "matcher").Logger(),
	}
}

// SetIndex publishes a freshly built catalog index. Memoized results refer to
// the previous catalog, so the cache is cleared.
func (m *RelevanceMatcher) SetIndex(index *CatalogIndex) {
	m.index.Store(index)
	m.cache.Clear()

	m.logger.Info().
		Uint64("version", index.Version).
		Int("products", index.Len()).
		Bool("fuzzy", index.FuzzyEnabled()).
		Msg("catalog index published")
}

// Index returns the currently published catalog index, or nil before the first load
func (m *RelevanceMatcher) Index() *CatalogIndex {
	return m.index.Load()
}

// CacheUsage reports the number of memoized turns and the memo capacity
func (m *RelevanceMatcher) CacheUsage() (entries, capacity int) {
	return m.cache.Len(), m.cache.Capacity()
}

// CacheKey is the memo key of a chat turn: the literal question and answer
func CacheKey(question, answer string) string {
	return question + "|" + answer
}

// FindRelevantProducts returns at most TopK products relevant to the chat
// turn, highest score first. Repeated turns are served from the cache
// without rescoring. An empty result is a normal outcome.
func (m *RelevanceMatcher) FindRelevantProducts(question, answer string) []domain.ScoredMatch {
	key := CacheKey(question, answer)
	if cached, ok := m.cache.Get(key); ok {
		m.logger.Debug().Int("results", len(cached)).Msg("match cache hit")
		return cloneMatches(cached)
	}

	index := m.index.Load()
	if index == nil {
		m.logger.Warn().Msg("no catalog index published, returning no products")
		return []domain.ScoredMatch{}
	}

	scores := m.scorer.Score(index, question, answer)
	matches := Rank(index, scores, m.minScore, m.topK)

	if m.logger.GetLevel() <= zerolog.DebugLevel {
		for _, match := range matches {
			m.logger.Debug().
				Str("product", match.Product.Name).
				Int("score", match.Score).
				Strs("matched", match.MatchedTokens).
				Msg("relevant product")
		}
	}

	// A concurrent reload makes this result stale; serve it but do not memoize it
	if m.index.Load() == index {
		m.cache.Put(key, matches)
	}

	return cloneMatches(matches)
}

// cloneMatches deep-copies matches so callers never share slices with the cache
func cloneMatches(matches []domain.ScoredMatch) []domain.ScoredMatch {
	out := make([]domain.ScoredMatch, len(matches))
	for i, m := range matches {
		m.MatchedTokens = slices.Clone(m.MatchedTokens)
		m.Product.Keywords = slices.Clone(m.Product.Keywords)
		m.Product.Synonyms = slices.Clone(m.Product.Synonyms)
		if m.Product.Category != nil {
			category := *m.Product.Category
			m.Product.Category = &category
		}
		out[i] = m
	}
	return out
}
