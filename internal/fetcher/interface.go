package fetcher

import (
	"context"
	"fmt"

	"jobsift/internal/config"
	"jobsift/pkg/models"
)

// Fetcher retrieves a page's rendered HTML. Engines differ in capability:
// plain HTTP for static pages, a headless browser for JS-rendered SPAs, and
// Firecrawl as a hosted rendering service.
type Fetcher interface {
	// Fetch retrieves the page at the given URL
	Fetch(ctx context.Context, url string, options *models.FetchOptions) (*models.Page, error)

	// Cleanup releases any resources used by the fetcher
	Cleanup()

	// IsHealthy returns true if the fetcher is ready to process requests
	IsHealthy() bool
}

// NewFetcher creates a fetcher for the given engine type. "auto" selects the
// plain HTTP engine; callers retry through the browser engine when a source
// is marked as an SPA.
func NewFetcher(engine string, cfg *config.Config) (Fetcher, error) {
	switch engine {
	case "http", "auto", "":
		return NewHTTPFetcher(cfg), nil
	case "browser":
		return NewBrowserFetcher(cfg), nil
	case "firecrawl":
		f := NewFirecrawlFetcher(cfg)
		if f == nil {
			return nil, fmt.Errorf("failed to initialize firecrawl fetcher")
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported fetch engine: %s", engine)
	}
}

// EngineForSource maps a source type to its default fetch engine
func EngineForSource(sourceType string) string {
	switch sourceType {
	case models.SourceTypeSPA:
		return "browser"
	default:
		return "http"
	}
}

// SupportedEngines returns the engine names NewFetcher accepts
func SupportedEngines() []string {
	return []string{"http", "browser", "firecrawl", "auto"}
}
