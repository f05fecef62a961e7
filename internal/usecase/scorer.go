package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freshmart/storefront/internal/domain"
)

// Signal weights. Signals are independent and every one that fires is added.
const (
	weightNameInSection    = 100 // product name found in an ingredient/nutrient line
	weightNameInQuestion   = 80  // product name matches a question token
	weightNameTokenInPool  = 70  // a name token matches the keyword pool
	weightKeywordInSection = 50  // a keyword-set member found in a section line
	weightTokenInQuestion  = 40  // per name token equal to a question token
	weightTokenInSection   = 30  // per name token found in a section line
	weightTokenInPoolExact = 15  // per name token present in the keyword pool
	weightFuzzyMax         = 40  // scaled by fuzzy distance
	weightNameInText       = 10  // product name found in the whole conversation
	weightTokenInText      = 5   // per name token found in the whole conversation
	weightCategoryInText   = 5   // category name found in the whole conversation
)

// Ranking defaults
const (
	DefaultMinScore        = 10
	DefaultTopK            = 5
	DefaultFuzzyCandidates = 3
	DefaultMaxFuzzyQueries = 64
)

// ProductScore accumulates the relevance of one product for one chat turn
type ProductScore struct {
	Score         int
	MatchedTokens map[string]bool
}

func (ps *ProductScore) add(weight int, tokens ...string) {
	ps.Score += weight
	for _, t := range tokens {
		if t != "" {
			ps.MatchedTokens[t] = true
		}
	}
}

// ProductScorer scores every catalog product against a chat turn
type ProductScorer interface {
	Score(index *CatalogIndex, question, answer string) map[string]*ProductScore
}

// ScorerConfig holds configuration for the scorer
type ScorerConfig struct {
	FuzzyCandidates int // candidates requested per fuzzy query
	MaxFuzzyQueries int // upper bound on fuzzy queries per chat turn
}

// Scorer computes weighted multi-signal relevance scores
type Scorer struct {
	fuzzyCandidates int
	maxFuzzyQueries int
	logger          zerolog.Logger
}

// NewScorer creates a scorer with the given configuration
func NewScorer(config ScorerConfig, logger zerolog.Logger) *Scorer {
	candidates := config.FuzzyCandidates
	if candidates <= 0 {
		candidates = DefaultFuzzyCandidates
	}

	maxQueries := config.MaxFuzzyQueries
	if maxQueries <= 0 {
		maxQueries = DefaultMaxFuzzyQueries
	}

	return &Scorer{
		fuzzyCandidates: candidates,
		maxFuzzyQueries: maxQueries,
		logger:          logger.With().Str("component", "scorer").Logger(),
	}
}

// turnSignals is everything extracted once per chat turn
type turnSignals struct {
	questionTokens []string
	questionSet    map[string]bool
	pool           []string
	poolSet        map[string]bool
	sectionLines   []string
	fullText       string
}

func extractTurnSignals(question, answer string) turnSignals {
	sig := turnSignals{
		questionTokens: Tokenize(question),
		pool:           ExtractAllKeywords(question, answer),
		sectionLines: uniqueStrings(
			ExtractSection(SectionIngredients, answer),
			ExtractSection(SectionNutrients, answer),
		),
		fullText: Normalize(question + " " + answer),
	}
	sig.questionSet = toSet(sig.questionTokens)
	sig.poolSet = toSet(sig.pool)
	return sig
}

// fuzzyHit is the best fuzzy contribution recorded for a product
type fuzzyHit struct {
	score int
	token string
}

// Score returns the accumulated score of every product that triggered at
// least one signal, keyed by product id. Filtering and ranking happen in Rank.
func (s *Scorer) Score(index *CatalogIndex, question, answer string) map[string]*ProductScore {
	scores := make(map[string]*ProductScore)
	if index.Len() == 0 {
		return scores
	}

	sig := extractTurnSignals(question, answer)
	fuzzyBest := s.fuzzyScores(index, sig)

	for i := range index.Products {
		p := &index.Products[i]
		if p.NormalizedName == "" {
			continue
		}

		ps := &ProductScore{MatchedTokens: make(map[string]bool)}
		scoreProduct(ps, p, sig)
		if hit, ok := fuzzyBest[p.ID]; ok && hit.score > 0 {
			ps.add(hit.score, hit.token)
		}

		if ps.Score > 0 {
			scores[p.ID] = ps
		}
	}

	return scores
}

// scoreProduct applies every non-fuzzy signal to one product
func scoreProduct(ps *ProductScore, p *domain.IndexedProduct, sig turnSignals) {
	name := p.NormalizedName

	for _, line := range sig.sectionLines {
		if hit, ok := containedEitherWay(line, name); ok {
			ps.add(weightNameInSection, hit)
			break
		}
	}

	var poolHits []string
	for _, token := range p.NameTokens {
		for _, keyword := range sig.pool {
			if hit, ok := containedEitherWay(keyword, token); ok {
				poolHits = append(poolHits, hit)
			}
		}
	}
	if len(poolHits) > 0 {
		ps.add(weightNameTokenInPool, poolHits...)
	}

	var keywordHits []string
	for _, keyword := range p.KeywordSet {
		for _, line := range sig.sectionLines {
			if strings.Contains(line, keyword) {
				keywordHits = append(keywordHits, keyword)
				break
			}
		}
	}
	if len(keywordHits) > 0 {
		ps.add(weightKeywordInSection, keywordHits...)
	}

	var questionHits []string
	for _, qt := range sig.questionTokens {
		if hit, ok := containedEitherWay(qt, name); ok {
			questionHits = append(questionHits, hit)
		}
	}
	if len(questionHits) > 0 {
		ps.add(weightNameInQuestion, questionHits...)
	}

	for _, token := range uniqueStrings(p.NameTokens) {
		if sig.questionSet[token] {
			ps.add(weightTokenInQuestion, token)
		}
		for _, line := range sig.sectionLines {
			if strings.Contains(line, token) {
				ps.add(weightTokenInSection, token)
				break
			}
		}
		if sig.poolSet[token] {
			ps.add(weightTokenInPoolExact, token)
		}
		if strings.Contains(sig.fullText, token) {
			ps.add(weightTokenInText, token)
		}
	}

	if strings.Contains(sig.fullText, name) {
		ps.add(weightNameInText, name)
	}

	if p.NormalizedCategory != "" && strings.Contains(sig.fullText, p.NormalizedCategory) {
		ps.add(weightCategoryInText, p.NormalizedCategory)
	}
}

// fuzzyScores queries the fuzzy index once per distinct pool/question token
// and keeps the best score per product. Search failures only drop that token.
func (s *Scorer) fuzzyScores(index *CatalogIndex, sig turnSignals) map[string]fuzzyHit {
	best := make(map[string]fuzzyHit)
	if !index.FuzzyEnabled() {
		return best
	}

	queries := uniqueStrings(sig.pool, sig.questionTokens)
	if len(queries) > s.maxFuzzyQueries {
		s.logger.Debug().
			Int("queries", len(queries)).
			Int("cap", s.maxFuzzyQueries).
			Msg("fuzzy queries truncated")
		queries = queries[:s.maxFuzzyQueries]
	}

	for _, q := range queries {
		hits, err := index.Fuzzy.Search(q, s.fuzzyCandidates)
		if err != nil {
			s.logger.Warn().Err(err).Str("token", q).Msg("fuzzy search failed")
			continue
		}
		for _, h := range hits {
			score := int(math.Round((1 - h.Distance) * weightFuzzyMax))
			if score <= 0 {
				continue
			}
			if prev, ok := best[h.ProductID]; !ok || score > prev.score {
				best[h.ProductID] = fuzzyHit{score: score, token: q}
			}
		}
	}

	return best
}

// Rank drops products under minScore, sorts by descending score (ties by
// product id) and keeps the topK best.
func Rank(index *CatalogIndex, scores map[string]*ProductScore, minScore, topK int) []domain.ScoredMatch {
	matches := make([]domain.ScoredMatch, 0, len(scores))
	for id, ps := range scores {
		if ps.Score < minScore {
			continue
		}
		p, ok := index.Product(id)
		if !ok {
			continue
		}
		matches = append(matches, domain.ScoredMatch{
			Product:       p.Product,
			MatchedTokens: sortedKeys(ps.MatchedTokens),
			Score:         ps.Score,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Product.ID < matches[j].Product.ID
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// containedEitherWay reports whether a contains b or b contains a, returning
// the shorter (contained) string, which is the one present in both.
func containedEitherWay(a, b string) (string, bool) {
	if a == "" || b == "" {
		return "", false
	}
	if strings.Contains(a, b) {
		return b, true
	}
	if strings.Contains(b, a) {
		return a, true
	}
	return "", false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
