package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobsift/internal/config"
	"jobsift/internal/fetcher"
	"jobsift/internal/logging"
	"jobsift/internal/metrics"
	"jobsift/internal/pipeline/extract"
	"jobsift/internal/pipeline/urlnorm"
	"jobsift/pkg/models"
	"jobsift/pkg/utils"
)

// PageResult is the outcome of fetching and extracting one detail page
type PageResult struct {
	Result    *models.ExtractionResult
	Page      *models.Page
	Error     error
	RequestID string
	Duration  time.Duration
}

// PageJob is one detail-page unit of work submitted to the pool
type PageJob struct {
	ID         string
	URL        string
	OrgName    string
	ParserHint string
	Options    *models.FetchOptions
	ResultChan chan PageResult
	Context    context.Context
	CreatedAt  time.Time
}

// Worker is a single worker goroutine
type Worker struct {
	ID       int
	JobChan  chan PageJob
	QuitChan chan bool
	Pool     *WorkerPool
	logger   logging.Logger
}

// WorkerPool fans page jobs out across worker goroutines, applying per-domain
// rate limits. Each job produces an independent ExtractionResult; workers
// share no mutable extraction state.
type WorkerPool struct {
	config      *config.Config
	workers     []*Worker
	jobQueue    chan PageJob
	dispatcher  *Dispatcher
	rateLimiter *RateLimiter
	extractor   *extract.Extractor
	collector   *metrics.Collector
	logger      logging.Logger
	mu          sync.RWMutex
	running     bool
	stats       *PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	mu                    sync.RWMutex
	JobsQueued            int64
	JobsProcessed         int64
	JobsSuccessful        int64
	JobsFailed            int64
	TotalProcessingTime   time.Duration
	AverageProcessingTime time.Duration
}

// NewWorkerPool creates a new worker pool instance
func NewWorkerPool(cfg *config.Config, extractor *extract.Extractor, collector *metrics.Collector) *WorkerPool {
	logger := logging.GetGlobalLogger()

	pool := &WorkerPool{
		config:      cfg,
		jobQueue:    make(chan PageJob, cfg.Workers.QueueSize),
		rateLimiter: NewRateLimiter(cfg),
		extractor:   extractor,
		collector:   collector,
		logger:      logger,
		stats:       &PoolStats{},
	}

	pool.workers = make([]*Worker, cfg.Workers.PoolSize)
	for i := 0; i < cfg.Workers.PoolSize; i++ {
		pool.workers[i] = &Worker{
			ID:       i + 1,
			JobChan:  make(chan PageJob),
			QuitChan: make(chan bool),
			Pool:     pool,
			logger:   logger.WithField("worker_id", i+1),
		}
	}

	pool.dispatcher = NewDispatcher(pool.jobQueue, pool.workers)

	logger.Info("Worker pool initialized", map[string]interface{}{
		"pool_size": cfg.Workers.PoolSize,
	})
	return pool
}

// Start starts the worker pool
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return fmt.Errorf("worker pool is already running")
	}

	wp.dispatcher.Start()
	for _, worker := range wp.workers {
		go worker.Start()
	}

	wp.running = true
	wp.logger.Info("Worker pool started", map[string]interface{}{
		"workers": len(wp.workers),
	})
	return nil
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return nil
	}

	wp.dispatcher.Stop()
	for _, worker := range wp.workers {
		worker.Stop()
	}
	wp.rateLimiter.Stop()

	wp.running = false
	wp.logger.Info("Worker pool stopped")
	return nil
}

// SubmitPage submits a detail-page job and blocks until it completes, the
// configured timeout elapses, or the context is cancelled
func (wp *WorkerPool) SubmitPage(ctx context.Context, url, orgName, parserHint string, options *models.FetchOptions) (*PageResult, error) {
	if !wp.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	domain := urlnorm.Domain(url)
	if !wp.rateLimiter.Allow(domain) {
		return nil, fmt.Errorf("rate limit exceeded for domain: %s", domain)
	}

	job := PageJob{
		ID:         utils.GenerateRequestID(),
		URL:        url,
		OrgName:    orgName,
		ParserHint: parserHint,
		Options:    options,
		ResultChan: make(chan PageResult, 1),
		Context:    ctx,
		CreatedAt:  time.Now(),
	}

	wp.stats.mu.Lock()
	wp.stats.JobsQueued++
	wp.stats.mu.Unlock()

	select {
	case wp.jobQueue <- job:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("job queue is full, request timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	timeout := wp.config.Workers.Timeout
	if options != nil && options.Timeout > 0 {
		timeout = options.Timeout
	}

	select {
	case result := <-job.ResultChan:
		return &result, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("page processing timed out after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsRunning returns true if the worker pool is running
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

// GetStats returns current pool statistics
func (wp *WorkerPool) GetStats() PoolStats {
	wp.stats.mu.RLock()
	defer wp.stats.mu.RUnlock()

	stats := PoolStats{
		JobsQueued:          wp.stats.JobsQueued,
		JobsProcessed:       wp.stats.JobsProcessed,
		JobsSuccessful:      wp.stats.JobsSuccessful,
		JobsFailed:          wp.stats.JobsFailed,
		TotalProcessingTime: wp.stats.TotalProcessingTime,
	}
	if stats.JobsProcessed > 0 {
		stats.AverageProcessingTime = stats.TotalProcessingTime / time.Duration(stats.JobsProcessed)
	}

	return stats
}

// GetRateLimiterStats returns per-domain limiter statistics
func (wp *WorkerPool) GetRateLimiterStats() map[string]map[string]interface{} {
	return wp.rateLimiter.GetAllStats()
}

// Start starts the worker goroutine
func (w *Worker) Start() {
	for {
		select {
		case job := <-w.JobChan:
			w.processJob(job)
		case <-w.QuitChan:
			return
		}
	}
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.QuitChan <- true
}

// processJob fetches and extracts a single page, updating stats and sending
// the result back
func (w *Worker) processJob(job PageJob) {
	startTime := time.Now()

	w.Pool.stats.mu.Lock()
	w.Pool.stats.JobsProcessed++
	w.Pool.stats.mu.Unlock()

	result := w.extractPage(job)
	result.Duration = time.Since(startTime)

	w.Pool.stats.mu.Lock()
	w.Pool.stats.TotalProcessingTime += result.Duration
	if result.Error != nil {
		w.Pool.stats.JobsFailed++
	} else {
		w.Pool.stats.JobsSuccessful++
	}
	w.Pool.stats.mu.Unlock()

	select {
	case job.ResultChan <- result:
	case <-time.After(100 * time.Millisecond):
		w.logger.Debug("Result channel timeout - submitter may have given up", map[string]interface{}{
			"job_id": job.ID,
		})
	}
}

// extractPage performs the fetch and extraction work for one job
func (w *Worker) extractPage(job PageJob) PageResult {
	result := PageResult{RequestID: job.ID}

	engine := "http"
	if job.Options != nil && job.Options.Engine != "" {
		engine = job.Options.Engine
	}

	domain := urlnorm.Domain(job.URL)

	f, err := fetcher.NewFetcher(engine, w.Pool.config)
	if err != nil {
		result.Error = fmt.Errorf("failed to create fetcher: %w", err)
		w.Pool.rateLimiter.RecordFailure(domain, err)
		return result
	}
	defer f.Cleanup()

	page, err := f.Fetch(job.Context, job.URL, job.Options)
	if err != nil {
		result.Error = err
		w.Pool.rateLimiter.RecordFailure(domain, err)
		return result
	}
	w.Pool.rateLimiter.RecordSuccess(domain)
	if w.Pool.collector != nil {
		w.Pool.collector.RecordFetch()
	}

	result.Page = page
	result.Result = w.Pool.extractor.Extract(job.Context, page.HTML, page.FinalURL, job.ParserHint)

	// A cancelled page must not look like a complete extraction
	if job.Context.Err() != nil {
		result.Result = nil
		result.Error = job.Context.Err()
	}

	return result
}
