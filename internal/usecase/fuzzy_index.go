package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/freshmart/storefront/internal/domain"
)

const (
	// DefaultFuzzyThreshold is the largest distance a fuzzy hit may have
	DefaultFuzzyThreshold = 0.4

	// minEditQueryLength keeps edit-distance matching off short tokens to avoid false positives
	minEditQueryLength = 4
)

// fuzzyEntry is one searchable field of one product
type fuzzyEntry struct {
	text      string
	productID string
}

// FuzzyIndex is an approximate-match index over product names, keyword sets
// and category names. Candidates come from subsequence matching plus an
// edit-distance scan, so both abbreviations and misspellings are found.
// It is read-only after construction.
type FuzzyIndex struct {
	entries   []fuzzyEntry
	threshold float64
}

// NewFuzzyIndex builds a fuzzy index over indexed products.
// It fails with ErrMalformedCatalog when a product has no id or ids repeat.
func NewFuzzyIndex(products []domain.IndexedProduct, threshold float64) (*FuzzyIndex, error) {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}

	idx := &FuzzyIndex{threshold: threshold}
	ids := make(map[string]bool, len(products))

	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: product at position %d has no id", domain.ErrMalformedCatalog, i)
		}
		if ids[p.ID] {
			return nil, fmt.Errorf("%w: duplicate product id %q", domain.ErrMalformedCatalog, p.ID)
		}
		ids[p.ID] = true

		for _, field := range uniqueStrings([]string{p.NormalizedName}, p.KeywordSet, []string{p.NormalizedCategory}) {
			idx.entries = append(idx.entries, fuzzyEntry{text: field, productID: p.ID})
		}
	}

	return idx, nil
}

// String implements fuzzy.Source
func (f *FuzzyIndex) String(i int) string {
	return f.entries[i].text
}

// Len implements fuzzy.Source
func (f *FuzzyIndex) Len() int {
	return len(f.entries)
}

// Search returns up to limit products whose fields approximately match query,
// best (lowest distance) first. Only the best distance per product is kept.
func (f *FuzzyIndex) Search(query string, limit int) ([]domain.FuzzyHit, error) {
	q := Normalize(query)
	if q == "" {
		return nil, domain.ErrEmptyQuery
	}

	best := make(map[string]float64)
	consider := func(entry int, distance float64) {
		if distance > f.threshold {
			return
		}
		id := f.entries[entry].productID
		if d, ok := best[id]; !ok || distance < d {
			best[id] = distance
		}
	}

	for _, m := range fuzzy.FindFrom(q, f) {
		consider(m.Index, subsequenceDistance(q, m))
	}
	if len(q) >= minEditQueryLength {
		for i, e := range f.entries {
			consider(i, editDistanceRatio(q, e.text))
		}
	}

	hits := make([]domain.FuzzyHit, 0, len(best))
	for id, d := range best {
		hits = append(hits, domain.FuzzyHit{ProductID: id, Distance: d})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ProductID < hits[j].ProductID
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// subsequenceDistance scores a subsequence match by the characters the match
// had to skip, relative to the query length.
func subsequenceDistance(query string, m fuzzy.Match) float64 {
	if strings.Contains(m.Str, query) {
		return 0
	}
	if len(m.MatchedIndexes) == 0 {
		return 1
	}

	first := m.MatchedIndexes[0]
	last := m.MatchedIndexes[len(m.MatchedIndexes)-1]
	gaps := (last - first + 1) - len(m.MatchedIndexes)
	return clampDistance(float64(gaps) / float64(len(query)))
}

// editDistanceRatio is the smallest edit distance between query and the text,
// any of its words or any window of as many words as the query has,
// relative to the query length.
func editDistanceRatio(query, text string) float64 {
	if strings.Contains(text, query) {
		return 0
	}

	words := strings.Fields(text)
	width := len(strings.Fields(query))
	candidates := append([]string{text}, words...)
	if width > 1 {
		for i := 0; i+width <= len(words); i++ {
			candidates = append(candidates, strings.Join(words[i:i+width], " "))
		}
	}

	bestEdits := -1
	for _, c := range candidates {
		// Quick length check - cannot beat the current best
		lenDiff := len(c) - len(query)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if bestEdits >= 0 && lenDiff >= bestEdits {
			continue
		}
		if d := levenshteinDistance(query, c); bestEdits < 0 || d < bestEdits {
			bestEdits = d
		}
	}

	return clampDistance(float64(bestEdits) / float64(len(query)))
}

func clampDistance(d float64) float64 {
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
