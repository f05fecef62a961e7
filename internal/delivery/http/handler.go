package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freshmart/storefront/internal/domain"
	"github.com/freshmart/storefront/internal/usecase"
)

// ProductMatcher finds catalog products relevant to a chat turn
type ProductMatcher interface {
	FindRelevantProducts(question, answer string) []domain.ScoredMatch
}

// CatalogManager reloads and describes the indexed catalog
type CatalogManager interface {
	Reload(ctx context.Context) (domain.CatalogStats, error)
	Stats() (domain.CatalogStats, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher ProductMatcher
	catalog CatalogManager
}

// NewHandler creates a new HTTP handler. Nil dependencies make the
// corresponding endpoints answer 501.
func NewHandler(matcher ProductMatcher, catalog CatalogManager) *Handler {
	return &Handler{
		matcher: matcher,
		catalog: catalog,
	}
}

// productResponse is one relevant product with the answer highlighted for it
type productResponse struct {
	domain.ScoredMatch
	Highlights []domain.HighlightRun `json:"highlights"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront-assistant",
		"version": "1.0.0",
	})
}

// FindProducts handles relevant product requests for a chat turn
func (h *Handler) FindProducts(c *gin.Context) {
	if h.matcher == nil || h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "product matcher not configured"})
		return
	}

	var query domain.MatchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(query.Question) == "" && strings.TrimSpace(query.Answer) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error() + ": question or answer is required"})
		return
	}

	if _, err := h.catalog.Stats(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	matches := h.matcher.FindRelevantProducts(query.Question, query.Answer)
	products := make([]productResponse, 0, len(matches))
	for _, m := range matches {
		products = append(products, productResponse{
			ScoredMatch: m,
			Highlights:  usecase.Highlight(query.Answer, m.MatchedTokens),
		})
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Highlight splits a text into plain and emphasized runs
func (h *Handler) Highlight(c *gin.Context) {
	var req domain.HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": usecase.Highlight(req.Text, req.MatchedTokens)})
}

// ReloadCatalog fetches the catalog from its source and rebuilds the index
func (h *Handler) ReloadCatalog(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "catalog not configured"})
		return
	}

	stats, err := h.catalog.Reload(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CatalogStats describes the currently indexed catalog
func (h *Handler) CatalogStats(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "catalog not configured"})
		return
	}

	stats, err := h.catalog.Stats()
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIndexNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrMalformedCatalog):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
