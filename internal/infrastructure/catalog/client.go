package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/freshmart/storefront/internal/domain"
)

const maxAttempts = 3

// ClientConfig holds the storefront product API client configuration
type ClientConfig struct {
	BaseURL           string
	PageSize          int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client fetches the product catalog from the storefront product API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new product API client
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		pageSize:    pageSize,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 3),
		logger:      logger.With().Str("component", "catalog-client").Logger(),
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "storefront-assistant/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return resp, nil
}

// FetchProducts loads the full product list
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	params := url.Values{}
	params.Add("limit", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/api/v1/products?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.get(ctx, reqURL)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("product request failed")
			lastErr = err
		case status == http.StatusNotFound:
			return nil, domain.ErrCatalogNotFound
		case status != http.StatusOK:
			c.logger.Warn().Int("status", status).Int("attempt", attempt).Msg("product API error")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, status)
		default:
			raws, err := decodeProducts(body)
			if err != nil {
				return nil, err
			}
			products := mapProducts(raws, c.logger)
			c.logger.Info().Int("products", len(products)).Msg("catalog fetched")
			return products, nil
		}

		if attempt < maxAttempts {
			if err := sleepContext(ctx, exponentialBackoff(attempt)); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Error().Err(lastErr).Msg("all product requests failed")
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
