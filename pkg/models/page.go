package models

import "time"

// Page is the raw result of fetching a URL with one of the fetch engines
type Page struct {
	URL        string    `json:"url"`
	FinalURL   string    `json:"final_url"`
	HTML       string    `json:"html"`
	StatusCode int       `json:"status_code"`
	Engine     string    `json:"engine"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// FetchOptions provides per-request configuration for fetch engines
type FetchOptions struct {
	Engine    string        `json:"engine,omitempty"` // "http", "browser", "firecrawl", "auto"
	Timeout   time.Duration `json:"timeout,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
}
