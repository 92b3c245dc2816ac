package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"jobsift/internal/config"
	"jobsift/internal/fetcher"
	"jobsift/internal/logging"
	"jobsift/internal/metrics"
	"jobsift/internal/pipeline/linkscore"
	"jobsift/internal/pipeline/quality"
	"jobsift/internal/store"
	"jobsift/internal/workers"
	"jobsift/pkg/models"
)

// Orchestrator drives per-source crawls: fetch the listing page, score and
// select candidate links, fan detail pages out through the worker pool, and
// persist quality-scored records. It is coordination glue; the pipeline
// packages do the real work.
type Orchestrator struct {
	config    *config.Config
	pool      *workers.WorkerPool
	postgres  *store.PostgresStore
	cache     *store.RedisCache
	collector *metrics.Collector
	logger    logging.Logger

	mu       sync.Mutex
	lastRuns map[string]*models.CrawlOutcome
}

// New creates an orchestrator. postgres, cache and collector may be nil in
// degraded deployments; crawling then runs without persistence or metrics.
func New(cfg *config.Config, pool *workers.WorkerPool, pg *store.PostgresStore, cache *store.RedisCache, collector *metrics.Collector) *Orchestrator {
	return &Orchestrator{
		config:    cfg,
		pool:      pool,
		postgres:  pg,
		cache:     cache,
		collector: collector,
		logger:    logging.GetGlobalLogger().WithField("component", "orchestrator"),
		lastRuns:  make(map[string]*models.CrawlOutcome),
	}
}

// CrawlSource runs one full crawl of a source and returns its outcome. The
// source-level timeout bounds the whole run; pages cancelled mid-extraction
// are not persisted.
func (o *Orchestrator) CrawlSource(ctx context.Context, source models.Source) *models.CrawlOutcome {
	outcome := &models.CrawlOutcome{
		OrgName:   source.OrgName,
		StartedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, o.config.Crawler.SourceTimeout)
	defer cancel()

	o.logger.Info("Starting source crawl", map[string]interface{}{
		"org":  source.OrgName,
		"url":  source.CareersURL,
		"type": source.SourceType,
	})

	links, err := o.collectCandidateLinks(ctx, source)
	if err != nil {
		outcome.Error = err.Error()
		o.finishCrawl(ctx, outcome)
		return outcome
	}
	outcome.LinksFound = len(links)

	engine := fetcher.EngineForSource(source.SourceType)
	options := &models.FetchOptions{Engine: engine}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Crawler.DetailConcurrency)

	for _, link := range links {
		url := link
		g.Go(func() error {
			result, err := o.pool.SubmitPage(gctx, url, source.OrgName, source.ParserHint, options)

			mu.Lock()
			defer mu.Unlock()

			if err != nil || result.Error != nil {
				outcome.Failures++
				if err == nil {
					err = result.Error
				}
				o.logger.Debug("Detail page failed", map[string]interface{}{
					"org":   source.OrgName,
					"url":   url,
					"error": err.Error(),
				})
				// One bad page never aborts the source crawl
				return nil
			}

			outcome.PagesFetched++
			if o.persistResult(gctx, source, result.Result, outcome) {
				outcome.JobsPersisted++
			}
			return nil
		})
	}
	g.Wait()

	o.finishCrawl(ctx, outcome)
	return outcome
}

// collectCandidateLinks fetches the listing page and returns the detail URLs
// worth crawling, already capped at MaxLinksPerListing
func (o *Orchestrator) collectCandidateLinks(ctx context.Context, source models.Source) ([]string, error) {
	engine := fetcher.EngineForSource(source.SourceType)
	f, err := fetcher.NewFetcher(engine, o.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing fetcher: %w", err)
	}
	defer f.Cleanup()

	page, err := f.Fetch(ctx, source.CareersURL, &models.FetchOptions{Engine: engine})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	maxLinks := o.config.Crawler.MaxLinksPerListing

	if source.SourceType == models.SourceTypeRSS {
		return parseFeedLinks(page.HTML, source.CareersURL, maxLinks), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	scored := linkscore.FilterJobLinks(doc, page.FinalURL, maxLinks)
	links := make([]string, 0, len(scored))
	for _, link := range scored {
		links = append(links, link.Href)
	}
	return links, nil
}

// persistResult stores one extraction if it cleared classification and was
// not cancelled. Returns true when a record was written.
func (o *Orchestrator) persistResult(ctx context.Context, source models.Source, result *models.ExtractionResult, outcome *models.CrawlOutcome) bool {
	if result == nil {
		return false
	}
	// All-or-nothing per page: a cancelled extraction is never persisted
	if ctx.Err() != nil {
		return false
	}

	if !result.IsJob || result.ClassifierScore < o.config.Pipeline.MinClassifierScore {
		return false
	}
	outcome.JobsExtracted++

	if o.cache != nil && o.cache.WasSeen(ctx, result.DedupeHash) {
		if o.collector != nil {
			o.collector.RecordDuplicate()
		}
		return false
	}

	rec := models.RecordFromResult(result, source.OrgName)
	enrichGeo(rec)

	assessment := quality.Score(rec)
	rec.QualityScore = assessment.Score
	rec.QualityGrade = assessment.Grade
	rec.QualityFactors = assessment.Factors
	rec.QualityIssues = assessment.Issues
	rec.NeedsReview = assessment.NeedsReview

	if o.collector != nil {
		o.collector.RecordStore(assessment)
	}

	if o.postgres == nil {
		return false
	}

	inserted, err := o.postgres.UpsertJob(ctx, rec)
	if err != nil {
		o.logger.Error("Failed to persist job record", map[string]interface{}{
			"org":         source.OrgName,
			"dedupe_hash": rec.DedupeHash,
			"error":       err.Error(),
		})
		outcome.Failures++
		return false
	}

	if o.cache != nil {
		o.cache.MarkSeen(ctx, rec.DedupeHash)
	}

	o.logger.Info("Job record persisted", map[string]interface{}{
		"org":         source.OrgName,
		"title":       rec.Title,
		"grade":       string(rec.QualityGrade),
		"inserted":    inserted,
		"dedupe_hash": rec.DedupeHash,
	})
	return true
}

// finishCrawl records the outcome and logs the crawl summary
func (o *Orchestrator) finishCrawl(ctx context.Context, outcome *models.CrawlOutcome) {
	outcome.Duration = time.Since(outcome.StartedAt)

	o.mu.Lock()
	o.lastRuns[outcome.OrgName] = outcome
	o.mu.Unlock()

	if o.cache != nil {
		o.cache.StoreCrawlOutcome(context.WithoutCancel(ctx), outcome)
	}

	fields := map[string]interface{}{
		"org":            outcome.OrgName,
		"duration":       outcome.Duration.String(),
		"links_found":    outcome.LinksFound,
		"pages_fetched":  outcome.PagesFetched,
		"jobs_extracted": outcome.JobsExtracted,
		"jobs_persisted": outcome.JobsPersisted,
		"failures":       outcome.Failures,
	}
	if outcome.Error != "" {
		fields["error"] = outcome.Error
		o.logger.Warn("Source crawl finished with error", fields)
	} else {
		o.logger.Info("Source crawl finished", fields)
	}
}

// CrawlAll crawls every configured source sequentially
func (o *Orchestrator) CrawlAll(ctx context.Context) []*models.CrawlOutcome {
	outcomes := make([]*models.CrawlOutcome, 0, len(o.config.Sources))
	for _, source := range o.config.Sources {
		if ctx.Err() != nil {
			break
		}
		outcomes = append(outcomes, o.CrawlSource(ctx, source))
	}
	return outcomes
}

// LastOutcome returns the most recent crawl outcome for an organization
func (o *Orchestrator) LastOutcome(orgName string) *models.CrawlOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRuns[orgName]
}
