package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/freshmart/storefront/internal/domain"
)

// FileSource loads the catalog from a YAML or JSON seed file
type FileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a catalog source reading from path
func NewFileSource(path string, logger zerolog.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger.With().Str("component", "catalog-file").Logger(),
	}
}

// FetchProducts reads and maps the products of the seed file.
// The document is a product list or an object with a "products" list.
func (s *FileSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, s.path)
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	// YAML is a superset of JSON; re-encode as JSON so one mapper handles both
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}

	raws, err := decodeProducts(asJSON)
	if err != nil {
		return nil, err
	}

	products := mapProducts(raws, s.logger)
	s.logger.Info().Str("path", s.path).Int("products", len(products)).Msg("catalog file loaded")
	return products, nil
}
