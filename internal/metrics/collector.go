package metrics

import (
	"sync"
	"time"

	"jobsift/internal/logging"
	"jobsift/pkg/models"
)

// Collector aggregates pipeline counters. Every method is safe for
// concurrent use and never returns an error: metrics failures must not
// affect extraction.
type Collector struct {
	mu sync.RWMutex

	startedAt time.Time

	pagesFetched    int64
	pagesClassified int64
	pagesAccepted   int64
	pagesRejected   int64

	fieldExtracted map[models.FieldName]int64
	fieldAbsent    map[models.FieldName]int64
	fieldBySource  map[models.FieldSource]int64
	lowConfidence  int64

	aiCalls     int64
	aiFailures  int64
	aiFieldFill int64

	recordsStored    int64
	duplicatesSeen   int64
	qualityByGrade   map[models.QualityGrade]int64
	recordsForReview int64

	flushStop chan struct{}
	flushOnce sync.Once
}

// Snapshot is a point-in-time copy of all counters
type Snapshot struct {
	UptimeSeconds   float64                      `json:"uptime_seconds"`
	PagesFetched    int64                        `json:"pages_fetched"`
	PagesClassified int64                        `json:"pages_classified"`
	PagesAccepted   int64                        `json:"pages_accepted"`
	PagesRejected   int64                        `json:"pages_rejected"`
	FieldExtracted  map[string]int64             `json:"field_extracted"`
	FieldAbsent     map[string]int64             `json:"field_absent"`
	FieldBySource   map[string]int64             `json:"field_by_source"`
	LowConfidence   int64                        `json:"low_confidence_fields"`
	AICalls         int64                        `json:"ai_calls"`
	AIFailures      int64                        `json:"ai_failures"`
	AIFieldsFilled  int64                        `json:"ai_fields_filled"`
	RecordsStored   int64                        `json:"records_stored"`
	DuplicatesSeen  int64                        `json:"duplicates_seen"`
	QualityByGrade  map[models.QualityGrade]int64 `json:"quality_by_grade"`
	RecordsToReview int64                        `json:"records_needing_review"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		startedAt:      time.Now(),
		fieldExtracted: make(map[models.FieldName]int64),
		fieldAbsent:    make(map[models.FieldName]int64),
		fieldBySource:  make(map[models.FieldSource]int64),
		qualityByGrade: make(map[models.QualityGrade]int64),
		flushStop:      make(chan struct{}),
	}
}

// RecordFetch counts a fetched page
func (c *Collector) RecordFetch() {
	c.mu.Lock()
	c.pagesFetched++
	c.mu.Unlock()
}

// RecordClassification counts a classifier decision
func (c *Collector) RecordClassification(isJob bool) {
	c.mu.Lock()
	c.pagesClassified++
	if isJob {
		c.pagesAccepted++
	} else {
		c.pagesRejected++
	}
	c.mu.Unlock()
}

// RecordField counts the outcome of a single field extraction
func (c *Collector) RecordField(name models.FieldName, field models.ExtractedField) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if field.IsAbsent() {
		c.fieldAbsent[name]++
		return
	}

	c.fieldExtracted[name]++
	c.fieldBySource[field.Source]++
	if field.Confidence < 0.5 {
		c.lowConfidence++
	}
}

// RecordAICall counts an AI enrichment attempt and how many fields it filled
func (c *Collector) RecordAICall(err error, fieldsFilled int) {
	c.mu.Lock()
	c.aiCalls++
	if err != nil {
		c.aiFailures++
	} else {
		c.aiFieldFill += int64(fieldsFilled)
	}
	c.mu.Unlock()
}

// RecordStore counts a stored record and its quality grade
func (c *Collector) RecordStore(assessment models.QualityAssessment) {
	c.mu.Lock()
	c.recordsStored++
	c.qualityByGrade[assessment.Grade]++
	if assessment.NeedsReview {
		c.recordsForReview++
	}
	c.mu.Unlock()
}

// RecordDuplicate counts a record skipped because its hash was already seen
func (c *Collector) RecordDuplicate() {
	c.mu.Lock()
	c.duplicatesSeen++
	c.mu.Unlock()
}

// GetSnapshot returns a copy of all counters
func (c *Collector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds:   time.Since(c.startedAt).Seconds(),
		PagesFetched:    c.pagesFetched,
		PagesClassified: c.pagesClassified,
		PagesAccepted:   c.pagesAccepted,
		PagesRejected:   c.pagesRejected,
		FieldExtracted:  make(map[string]int64, len(c.fieldExtracted)),
		FieldAbsent:     make(map[string]int64, len(c.fieldAbsent)),
		FieldBySource:   make(map[string]int64, len(c.fieldBySource)),
		LowConfidence:   c.lowConfidence,
		AICalls:         c.aiCalls,
		AIFailures:      c.aiFailures,
		AIFieldsFilled:  c.aiFieldFill,
		RecordsStored:   c.recordsStored,
		DuplicatesSeen:  c.duplicatesSeen,
		QualityByGrade:  make(map[models.QualityGrade]int64, len(c.qualityByGrade)),
		RecordsToReview: c.recordsForReview,
	}

	for k, v := range c.fieldExtracted {
		snap.FieldExtracted[string(k)] = v
	}
	for k, v := range c.fieldAbsent {
		snap.FieldAbsent[string(k)] = v
	}
	for k, v := range c.fieldBySource {
		snap.FieldBySource[string(k)] = v
	}
	for k, v := range c.qualityByGrade {
		snap.QualityByGrade[k] = v
	}

	return snap
}

// StartFlusher periodically logs a metrics snapshot until Stop is called
func (c *Collector) StartFlusher(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger := logging.GetGlobalLogger()
		for {
			select {
			case <-ticker.C:
				snap := c.GetSnapshot()
				logger.Info("Pipeline metrics", map[string]interface{}{
					"pages_fetched":    snap.PagesFetched,
					"pages_classified": snap.PagesClassified,
					"pages_accepted":   snap.PagesAccepted,
					"records_stored":   snap.RecordsStored,
					"duplicates_seen":  snap.DuplicatesSeen,
					"ai_calls":         snap.AICalls,
					"ai_failures":      snap.AIFailures,
				})
			case <-c.flushStop:
				return
			}
		}
	}()
}

// Stop stops the periodic flusher
func (c *Collector) Stop() {
	c.flushOnce.Do(func() {
		close(c.flushStop)
	})
}
