package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobsift/internal/config"
	"jobsift/internal/llm"
	"jobsift/internal/logging"
	"jobsift/internal/metrics"
	"jobsift/internal/pipeline/classify"
	"jobsift/internal/pipeline/dedupe"
	"jobsift/internal/pipeline/urlnorm"
	"jobsift/pkg/models"
)

// Extractor turns a job page's HTML into an ExtractionResult. Strategies are
// attempted in priority order per field; the first source yielding a value
// wins. Extraction never returns an error: malformed input degrades to
// all-absent fields with is_job=false.
type Extractor struct {
	config     *config.Config
	strategies []Strategy
	llmManager *llm.Manager
	collector  *metrics.Collector
	logger     logging.Logger
}

// NewExtractor creates an extractor. llmManager and collector may be nil;
// extraction then runs without AI fallback or metrics.
func NewExtractor(cfg *config.Config, llmManager *llm.Manager, collector *metrics.Collector) *Extractor {
	return &Extractor{
		config: cfg,
		strategies: []Strategy{
			NewStructuredStrategy(),
			NewHeuristicStrategy(),
		},
		llmManager: llmManager,
		collector:  collector,
		logger:     logging.GetGlobalLogger(),
	}
}

// Extract runs classification and the full strategy chain against a page
func (e *Extractor) Extract(ctx context.Context, html, pageURL, parserHint string) *models.ExtractionResult {
	result := models.NewEmptyResult(pageURL)

	isJob, score := classify.Classify(html, pageURL)
	result.IsJob = isJob
	result.ClassifierScore = score
	if e.collector != nil {
		e.collector.RecordClassification(isJob)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Warn("Failed to parse page HTML, returning empty extraction", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		result.IsJob = false
		result.ClassifierScore = 0
		e.finalize(result)
		return result
	}

	in := &Input{Doc: doc, URL: pageURL, ParserHint: parserHint}

	// First successful source per field wins
	for _, strategy := range e.strategies {
		candidates := strategy.Extract(in)
		for name, field := range candidates {
			if field.IsAbsent() {
				continue
			}
			if existing := result.Field(name); !existing.IsAbsent() {
				continue
			}
			result.Fields[name] = field
		}
	}

	e.handleMailtoApply(result)

	if missing := e.missingFields(result); len(missing) > 0 {
		e.enrichWithAI(ctx, html, result, missing)
	}

	// Identity first: the hash must key on the raw field values, so display
	// normalization cannot re-key stored records between pipeline versions
	e.finalize(result)
	e.normalizeDisplayFields(result)

	if e.collector != nil {
		for _, name := range models.RequiredFieldNames {
			e.collector.RecordField(name, result.Field(name))
		}
	}

	if err := result.Validate(); err != nil {
		// Contract violation in the extractor itself, not messy input
		e.logger.Error("Extraction result violates schema contract", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
	}

	return result
}

// handleMailtoApply moves a mailto application URL to contact_email, leaving
// application_url absent. An apply link means "a page a user can visit", and
// a mailto target never satisfies that even when it is the only lead.
func (e *Extractor) handleMailtoApply(result *models.ExtractionResult) {
	field := result.Field(models.FieldApplicationURL)
	if field.IsAbsent() || !urlnorm.IsMailto(field.Value) {
		return
	}

	if addr := urlnorm.MailtoAddress(field.Value); addr != "" {
		result.ContactEmail = addr
	}
	result.Fields[models.FieldApplicationURL] = models.EmptyField()
}

// missingFields lists required fields that are still absent
func (e *Extractor) missingFields(result *models.ExtractionResult) []models.FieldName {
	var missing []models.FieldName
	for _, name := range models.RequiredFieldNames {
		if result.Field(name).IsAbsent() {
			missing = append(missing, name)
		}
	}
	return missing
}

// normalizeDisplayFields applies display normalization to title and
// description, keeping the raw text in RawSnippet
func (e *Extractor) normalizeDisplayFields(result *models.ExtractionResult) {
	if title := result.Field(models.FieldTitle); !title.IsAbsent() {
		if title.RawSnippet == "" {
			title.RawSnippet = title.Value
		}
		title.Value = NormalizeTitle(title.Value)
		result.Fields[models.FieldTitle] = title
	}

	if desc := result.Field(models.FieldDescription); !desc.IsAbsent() {
		if desc.RawSnippet == "" {
			desc.RawSnippet = desc.Value
		}
		desc.Value = CollapseWhitespace(desc.Value)
		result.Fields[models.FieldDescription] = desc
	}
}

// finalize computes identity fields once the field set is settled. It runs
// before normalizeDisplayFields: hashing sees the raw title, not the
// display-cased one.
func (e *Extractor) finalize(result *models.ExtractionResult) {
	result.DedupeHash = dedupe.CanonicalHash(
		result.Field(models.FieldTitle).Value,
		result.Field(models.FieldApplicationURL).Value,
		result.ContactEmail,
	)
	result.CanonicalID = result.DedupeHash
}
