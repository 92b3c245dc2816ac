package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobsift/internal/config"
	"jobsift/internal/logging"
	"jobsift/pkg/models"
	"jobsift/pkg/utils"
)

// HTTPFetcher retrieves server-rendered pages with a plain HTTP client
type HTTPFetcher struct {
	config *config.Config
	client *http.Client
	logger logging.Logger
}

// NewHTTPFetcher creates a new HTTP fetcher instance
func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	return &HTTPFetcher{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Fetcher.RequestTimeout,
		},
		logger: logging.GetGlobalLogger(),
	}
}

// Fetch retrieves the page at the given URL, retrying transient failures
func (hf *HTTPFetcher) Fetch(ctx context.Context, url string, options *models.FetchOptions) (*models.Page, error) {
	userAgent := hf.config.Fetcher.UserAgent
	if options != nil && options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	var lastErr error
	for attempt := 0; attempt <= hf.config.Fetcher.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		page, err := hf.fetchOnce(ctx, url, userAgent)
		if err == nil {
			return page, nil
		}
		lastErr = err

		hf.logger.Debug("HTTP fetch attempt failed", map[string]interface{}{
			"url":     url,
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}

	return nil, utils.NewFetchError(fmt.Sprintf("failed to fetch %s after %d attempts: %v", url, hf.config.Fetcher.MaxRetries+1, lastErr))
}

func (hf *HTTPFetcher) fetchOnce(ctx context.Context, url, userAgent string) (*models.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := hf.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("client error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, hf.config.Fetcher.MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &models.Page{
		URL:        url,
		FinalURL:   finalURL,
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		Engine:     "http",
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// Cleanup releases resources (no-op for the HTTP client)
func (hf *HTTPFetcher) Cleanup() {
	hf.client.CloseIdleConnections()
}

// IsHealthy returns true; the HTTP client has no persistent state to fail
func (hf *HTTPFetcher) IsHealthy() bool {
	return true
}
