package usecase

import (
	"testing"

	"github.com/sahilm/fuzzy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmart/storefront/internal/domain"
)

func indexedProduct(id, name, category string, keywords ...string) domain.IndexedProduct {
	p := domain.Product{ID: id, Name: name, Keywords: keywords}
	if category != "" {
		p.Category = &domain.Category{ID: "c-" + id, Name: category}
	}
	return IndexProduct(p)
}

func testFuzzyIndex(t *testing.T) *FuzzyIndex {
	t.Helper()
	idx, err := NewFuzzyIndex([]domain.IndexedProduct{
		indexedProduct("p1", "Cà chua", "Rau củ"),
		indexedProduct("p2", "Tomato Sauce", "Sauces"),
		indexedProduct("p3", "Rau cần", "Rau củ"),
	}, DefaultFuzzyThreshold)
	require.NoError(t, err)
	return idx
}

func TestNewFuzzyIndex(t *testing.T) {
	t.Run("indexes name keywords and category", func(t *testing.T) {
		idx := testFuzzyIndex(t)
		texts := make([]string, 0, idx.Len())
		for i := 0; i < idx.Len(); i++ {
			texts = append(texts, idx.String(i))
		}
		assert.Contains(t, texts, "ca chua")
		assert.Contains(t, texts, "sauces")
		assert.Contains(t, texts, "rau cu")
	})

	t.Run("rejects missing id", func(t *testing.T) {
		_, err := NewFuzzyIndex([]domain.IndexedProduct{indexedProduct(" ", "Cà chua", "")}, 0.4)
		assert.ErrorIs(t, err, domain.ErrMalformedCatalog)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		_, err := NewFuzzyIndex([]domain.IndexedProduct{
			indexedProduct("p1", "Cà chua", ""),
			indexedProduct("p1", "Rau cần", ""),
		}, 0.4)
		assert.ErrorIs(t, err, domain.ErrMalformedCatalog)
	})

	t.Run("invalid threshold falls back to default", func(t *testing.T) {
		idx, err := NewFuzzyIndex(nil, 3)
		require.NoError(t, err)
		assert.Equal(t, DefaultFuzzyThreshold, idx.threshold)
	})
}

func TestFuzzyIndex_Search(t *testing.T) {
	idx := testFuzzyIndex(t)

	t.Run("substring hit has zero distance", func(t *testing.T) {
		hits, err := idx.Search("chua", 3)
		require.NoError(t, err)
		assert.Equal(t, []domain.FuzzyHit{{ProductID: "p1", Distance: 0}}, hits)
	})

	t.Run("misspelling is found by edit distance", func(t *testing.T) {
		hits, err := idx.Search("tomatto", 3)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "p2", hits[0].ProductID)
		assert.InDelta(t, 1.0/7.0, hits[0].Distance, 1e-9)
	})

	t.Run("category is searchable", func(t *testing.T) {
		hits, err := idx.Search("Sauces", 3)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, "p2", hits[0].ProductID)
	})

	t.Run("diacritics in query are folded", func(t *testing.T) {
		hits, err := idx.Search("Cần", 3)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, "p3", hits[0].ProductID)
	})

	t.Run("unrelated query has no hits", func(t *testing.T) {
		hits, err := idx.Search("xyz", 3)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := idx.Search("  !! ", 3)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})

	t.Run("every hit is within threshold", func(t *testing.T) {
		for _, q := range []string{"rau", "tomato", "chuaa", "sauce", "can"} {
			hits, err := idx.Search(q, 10)
			require.NoError(t, err)
			for _, h := range hits {
				assert.LessOrEqual(t, h.Distance, DefaultFuzzyThreshold, "query %q hit %s", q, h.ProductID)
			}
		}
	})
}

func TestFuzzyIndex_SearchLimitAndOrder(t *testing.T) {
	idx, err := NewFuzzyIndex([]domain.IndexedProduct{
		indexedProduct("t3", "Táo Fuji", ""),
		indexedProduct("t1", "Táo đỏ", ""),
		indexedProduct("t2", "Táo xanh", ""),
	}, DefaultFuzzyThreshold)
	require.NoError(t, err)

	hits, err := idx.Search("tao", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.FuzzyHit{
		{ProductID: "t1", Distance: 0},
		{ProductID: "t2", Distance: 0},
	}, hits)
}

func TestSubsequenceDistance(t *testing.T) {
	tests := []struct {
		name  string
		query string
		match fuzzy.Match
		want  float64
	}{
		{
			name:  "contiguous",
			query: "rau",
			match: fuzzy.Match{Str: "rau can", MatchedIndexes: []int{0, 1, 2}},
			want:  0,
		},
		{
			name:  "one gap",
			query: "rauc",
			match: fuzzy.Match{Str: "rau can", MatchedIndexes: []int{0, 1, 2, 4}},
			want:  0.25,
		},
		{
			name:  "no indexes",
			query: "abc",
			match: fuzzy.Match{Str: "xyz"},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, subsequenceDistance(tt.query, tt.match), 1e-9)
		})
	}
}

func TestEditDistanceRatio(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{name: "contained", query: "chua", text: "ca chua", want: 0},
		{name: "closest word", query: "tomatto", text: "tomato sauce", want: 1.0 / 7.0},
		{name: "word window", query: "rau cna", text: "bo rau can", want: 2.0 / 7.0},
		{name: "clamped", query: "abcd", text: "zzzzzzzzzzzzz", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, editDistanceRatio(tt.query, tt.text), 1e-9)
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"tomato", "tomatto", 1},
		{"rau can", "rau can", 0},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}
