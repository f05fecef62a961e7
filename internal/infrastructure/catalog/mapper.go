package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freshmart/storefront/internal/domain"
)

// rawProduct is a product as served by the storefront product API.
// Several fields have more than one accepted shape.
type rawProduct struct {
	MongoID  string            `json:"_id"`
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Category json.RawMessage   `json:"category"`
	Keywords []string          `json:"keywords"`
	Synonyms []string          `json:"synonyms"`
	Images   []json.RawMessage `json:"images"`
	Image    string            `json:"image"`
}

// rawCategory is the populated form of a product category
type rawCategory struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// rawImage is the object form of a product image
type rawImage struct {
	URL string `json:"url"`
}

// productEnvelope is the paginated response form of the product API
type productEnvelope struct {
	Products []rawProduct `json:"products"`
}

// decodeProducts parses a product list given either as a bare JSON array or
// as an object with a "products" field.
func decodeProducts(data []byte) ([]rawProduct, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedCatalog)
	}

	if trimmed[0] == '[' {
		var products []rawProduct
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
		}
		return products, nil
	}

	var envelope productEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	return envelope.Products, nil
}

// mapProducts converts raw products to domain products, applying the
// defaulting rules. Products without a name are skipped.
func mapProducts(raws []rawProduct, logger zerolog.Logger) []domain.Product {
	products := make([]domain.Product, 0, len(raws))
	for i, raw := range raws {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			logger.Warn().Int("position", i).Str("id", firstNonEmpty(raw.MongoID, raw.ID)).Msg("skipping product without name")
			continue
		}
		products = append(products, mapProduct(raw))
	}
	return products
}

// mapProduct converts one raw product to our domain Product
func mapProduct(raw rawProduct) domain.Product {
	return domain.Product{
		ID:       firstNonEmpty(raw.MongoID, raw.ID),
		Name:     strings.TrimSpace(raw.Name),
		Price:    raw.Price,
		Category: mapCategory(raw.Category),
		Keywords: cleanList(raw.Keywords),
		Synonyms: cleanList(raw.Synonyms),
		ImageURL: firstImage(raw.Images, raw.Image),
	}
}

// mapCategory accepts a populated category object or a bare category id
func mapCategory(data json.RawMessage) *domain.Category {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		if id == "" {
			return nil
		}
		return &domain.Category{ID: id}
	}

	var category rawCategory
	if err := json.Unmarshal(data, &category); err != nil {
		return nil
	}
	if category.Name == "" && firstNonEmpty(category.MongoID, category.ID) == "" {
		return nil
	}
	return &domain.Category{
		ID:   firstNonEmpty(category.MongoID, category.ID),
		Name: strings.TrimSpace(category.Name),
	}
}

// firstImage returns the first usable image url; images may be url strings or {url} objects
func firstImage(images []json.RawMessage, fallback string) string {
	for _, data := range images {
		var url string
		if err := json.Unmarshal(data, &url); err == nil && url != "" {
			return url
		}
		var img rawImage
		if err := json.Unmarshal(data, &img); err == nil && img.URL != "" {
			return img.URL
		}
	}
	return strings.TrimSpace(fallback)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
