package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/mendableai/firecrawl-go"

	"jobsift/internal/config"
	"jobsift/internal/logging"
	"jobsift/pkg/models"
	"jobsift/pkg/utils"
)

// FirecrawlFetcher retrieves pages through the hosted Firecrawl rendering API
type FirecrawlFetcher struct {
	config *config.Config
	app    *firecrawl.FirecrawlApp
	logger logging.Logger
}

// NewFirecrawlFetcher creates a new Firecrawl fetcher instance. Returns nil
// when the client cannot be initialized.
func NewFirecrawlFetcher(cfg *config.Config) *FirecrawlFetcher {
	logger := logging.GetGlobalLogger()

	app, err := firecrawl.NewFirecrawlApp(
		cfg.Firecrawl.APIKey,
		cfg.Firecrawl.APIURL,
	)
	if err != nil {
		logger.Error("Failed to initialize Firecrawl", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	logger.Info("Firecrawl fetcher initialized", map[string]interface{}{
		"api_url": cfg.Firecrawl.APIURL,
	})

	return &FirecrawlFetcher{
		config: cfg,
		app:    app,
		logger: logger,
	}
}

// Fetch scrapes the URL via Firecrawl and returns the page HTML
func (ff *FirecrawlFetcher) Fetch(ctx context.Context, url string, options *models.FetchOptions) (*models.Page, error) {
	formats := ff.config.Firecrawl.Formats
	if len(formats) == 0 {
		formats = []string{"html"}
	}

	scrapeParams := &firecrawl.ScrapeParams{
		Formats: formats,
	}

	var doc *firecrawl.FirecrawlDocument
	var err error

	// The Firecrawl client has no context support, so honor cancellation
	// around the call
	done := make(chan struct{})
	go func() {
		doc, err = ff.app.ScrapeURL(url, scrapeParams)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}

	if err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("firecrawl scrape failed for %s: %v", url, err))
	}
	if doc == nil {
		return nil, utils.NewFetchError(fmt.Sprintf("firecrawl returned no document for %s", url))
	}

	html := doc.HTML
	if html == "" {
		html = doc.RawHTML
	}
	if html == "" && doc.Markdown != "" {
		// Markdown-only responses still let the classifier and AI fallback work
		html = doc.Markdown
	}
	if html == "" {
		return nil, utils.NewFetchError(fmt.Sprintf("firecrawl returned empty content for %s", url))
	}

	return &models.Page{
		URL:        url,
		FinalURL:   url,
		HTML:       html,
		StatusCode: 200,
		Engine:     "firecrawl",
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// Cleanup releases resources (no-op for the hosted API client)
func (ff *FirecrawlFetcher) Cleanup() {}

// IsHealthy reports whether the client is configured
func (ff *FirecrawlFetcher) IsHealthy() bool {
	return ff.app != nil && ff.config.Firecrawl.APIKey != ""
}
