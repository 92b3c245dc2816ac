package models

import "time"

// SourceType identifies how an organization's career page is fetched
const (
	SourceTypeHTML = "html" // server-rendered listing page
	SourceTypeSPA  = "spa"  // JS-rendered page, needs a browser engine
	SourceTypeRSS  = "rss"  // RSS/Atom feed of postings
)

// Source is an organization's career-page definition. The pipeline consumes
// it read-only; ownership lives with the orchestrator configuration.
type Source struct {
	OrgName    string `json:"org_name" yaml:"org_name" validate:"required"`
	CareersURL string `json:"careers_url" yaml:"careers_url" validate:"required,url"`
	SourceType string `json:"source_type" yaml:"source_type" validate:"omitempty,oneof=html spa rss"`
	// ParserHint is an optional CSS selector narrowing where the extractor
	// looks on this source's pages. The pipeline must work without it.
	ParserHint string `json:"parser_hint,omitempty" yaml:"parser_hint"`
	Schedule   string `json:"schedule,omitempty" yaml:"schedule"`
}

// CrawlOutcome summarizes one crawl run of a source
type CrawlOutcome struct {
	OrgName       string        `json:"org_name"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	LinksFound    int           `json:"links_found"`
	PagesFetched  int           `json:"pages_fetched"`
	JobsExtracted int           `json:"jobs_extracted"`
	JobsPersisted int           `json:"jobs_persisted"`
	Failures      int           `json:"failures"`
	Error         string        `json:"error,omitempty"`
}
