package domain

import "time"

// Category represents the catalog category a product belongs to
type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Product represents a storefront catalog product as consumed by the matcher
type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Category *Category `json:"category,omitempty"`
	Keywords []string  `json:"keywords,omitempty"`
	Synonyms []string  `json:"synonyms,omitempty"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

// CategoryName returns the category name or an empty string when the product has none
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// IndexedProduct is a Product with the derived fields computed at catalog load time
type IndexedProduct struct {
	Product

	NormalizedName     string
	NameTokens         []string
	KeywordSet         []string // normalized name, name tokens, keywords and synonyms; deduplicated
	NormalizedCategory string
}

// ScoredMatch is a product returned by the relevance matcher
type ScoredMatch struct {
	Product       Product  `json:"product"`
	MatchedTokens []string `json:"matchedTokens"`
	Score         int      `json:"score"`
}

// MatchQuery is one chat turn submitted to the matcher
type MatchQuery struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HighlightRun is a slice of original text, emphasized when it matched a token
type HighlightRun struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized"`
}

// HighlightRequest represents a request to highlight matched tokens in a text
type HighlightRequest struct {
	Text          string   `json:"text"`
	MatchedTokens []string `json:"matchedTokens"`
}

// FuzzyHit is a candidate returned by a fuzzy searcher.
// Distance ranges from 0 (perfect) to 1 (worst).
type FuzzyHit struct {
	ProductID string
	Distance  float64
}

// CatalogStats describes the currently indexed catalog
type CatalogStats struct {
	Version      uint64    `json:"version"`
	ProductCount int       `json:"productCount"`
	FuzzyEnabled bool      `json:"fuzzyEnabled"`
	LoadedAt     time.Time `json:"loadedAt"`

	// Memoized matcher results for the current index
	MatchCacheEntries  int `json:"matchCacheEntries"`
	MatchCacheCapacity int `json:"matchCacheCapacity"`
}
