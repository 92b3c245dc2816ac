package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobsift/internal/config"
	"jobsift/internal/llm"
	"jobsift/internal/pipeline/dedupe"
	"jobsift/internal/pipeline/extract"
	"jobsift/pkg/models"
)

func newExtractor() *extract.Extractor {
	return extract.NewExtractor(&config.Config{}, nil, nil)
}

func newAIConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pipeline.AITimeout = 5 * time.Second
	cfg.Pipeline.AIMaxConfidence = 0.85
	return cfg
}

// stubProvider returns canned enrichment fields, or an error when err is set
type stubProvider struct {
	fields     map[models.FieldName]string
	confidence float64
	err        error
}

func (p *stubProvider) EnrichJobFields(ctx context.Context, req *models.EnrichmentRequest) (*models.EnrichmentResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &models.EnrichmentResponse{Fields: p.fields, Confidence: p.confidence}, nil
}

func (p *stubProvider) IsHealthy(ctx context.Context) error { return nil }

func (p *stubProvider) GetProviderName() string { return "stub" }

const structuredHTML = `<html>
<head>
<title>Senior Accountant | Example Relief</title>
<script type="application/ld+json">
{
	"@context": "https://schema.org",
	"@type": "JobPosting",
	"title": "Senior Accountant",
	"hiringOrganization": {"@type": "Organization", "name": "Example Relief"},
	"jobLocation": {"@type": "Place", "address": {"addressLocality": "Geneva", "addressCountry": "Switzerland"}},
	"datePosted": "2026-08-01",
	"validThrough": "2026-09-15T23:59:59Z",
	"description": "<p>Oversee financial reporting for the regional office and manage the audit cycle end to end.</p>",
	"qualifications": "CPA qualification and five years of experience.",
	"url": "https://example.org/jobs/55/senior-accountant"
}
</script>
</head>
<body>
	<h1>a completely different heading</h1>
	<div class="job-description"><p>Apply for this position before the closing date. Responsibilities include financial reporting, audit preparation and donor compliance across the regional portfolio of programmes.</p></div>
	<a href="/jobs/55/apply">Apply Now</a>
</body>
</html>`

func TestExtractStructuredDataWins(t *testing.T) {
	e := newExtractor()
	result := e.Extract(context.Background(), structuredHTML, "https://example.org/jobs/55", "")

	title := result.Field(models.FieldTitle)
	if title.Value != "Senior Accountant" {
		t.Errorf("title = %q, want Senior Accountant", title.Value)
	}
	if title.Source != models.SourceStructuredData {
		t.Errorf("title source = %s, want structured_data (must beat the h1 heuristic)", title.Source)
	}
	if title.Confidence < 0.9 {
		t.Errorf("structured title confidence = %v, want >= 0.9", title.Confidence)
	}

	if got := result.Field(models.FieldEmployer).Value; got != "Example Relief" {
		t.Errorf("employer = %q, want Example Relief", got)
	}
	if got := result.Field(models.FieldLocation).Value; got != "Geneva, Switzerland" {
		t.Errorf("location = %q, want Geneva, Switzerland", got)
	}
	if got := result.Field(models.FieldPostedOn).Value; got != "2026-08-01" {
		t.Errorf("posted_on = %q, want 2026-08-01", got)
	}
	if got := result.Field(models.FieldDeadline).Value; got != "2026-09-15" {
		t.Errorf("deadline = %q, want 2026-09-15 (normalized from RFC3339)", got)
	}

	if !result.IsJob {
		t.Error("structured JobPosting page should classify as a job")
	}
	if err := result.Validate(); err != nil {
		t.Errorf("result violates schema contract: %v", err)
	}
}

const heuristicHTML = `<html>
<head><title>programme assistant - Example Relief</title></head>
<body>
	<h1>programme assistant</h1>
	<p>Location: Nairobi, Kenya</p>
	<p>Closing date: 30 September 2026</p>
	<div class="job-description">
		<p>Support the country office with logistics, travel arrangements and procurement follow-up.
		The role reports to the Operations Manager and requires close coordination with field teams.</p>
	</div>
	<h2>Requirements</h2>
	<ul><li>Three years of administrative experience.</li></ul>
	<a href="/jobs/77/apply">Apply now</a>
</body>
</html>`

func TestExtractHeuristicFallback(t *testing.T) {
	e := newExtractor()
	result := e.Extract(context.Background(), heuristicHTML, "https://example.org/jobs/77", "")

	title := result.Field(models.FieldTitle)
	if title.Value != "Programme Assistant" {
		t.Errorf("title = %q, want Programme Assistant (normalized from h1)", title.Value)
	}
	if title.Source != models.SourceDOMHeuristic {
		t.Errorf("title source = %s, want dom_heuristic", title.Source)
	}
	if title.Confidence < 0.5 || title.Confidence > 0.8 {
		t.Errorf("heuristic confidence %v outside [0.5, 0.8]", title.Confidence)
	}
	if title.RawSnippet != "programme assistant" {
		t.Errorf("raw snippet = %q, want the un-normalized h1 text", title.RawSnippet)
	}

	if got := result.Field(models.FieldLocation).Value; got != "Nairobi, Kenya" {
		t.Errorf("location = %q, want Nairobi, Kenya", got)
	}
	if got := result.Field(models.FieldDeadline).Value; got != "2026-09-30" {
		t.Errorf("deadline = %q, want 2026-09-30", got)
	}
	if got := result.Field(models.FieldApplicationURL).Value; got != "https://example.org/jobs/77/apply" {
		t.Errorf("application_url = %q, want resolved absolute URL", got)
	}
}

func TestExtractMailtoApply(t *testing.T) {
	html := `<html><body>
		<h1>Grants Officer</h1>
		<p>Send your CV to the address below.</p>
		<a href="mailto:hr@example.org?subject=Grants%20Officer">Apply now</a>
	</body></html>`

	e := newExtractor()
	result := e.Extract(context.Background(), html, "https://example.org/jobs/grants-officer", "")

	apply := result.Field(models.FieldApplicationURL)
	if !apply.IsAbsent() {
		t.Errorf("application_url should stay absent for mailto targets, got %q", apply.Value)
	}
	if apply.Source != models.SourceNone || apply.Confidence != 0 {
		t.Errorf("absent application_url carries source=%s confidence=%v", apply.Source, apply.Confidence)
	}
	if result.ContactEmail != "hr@example.org" {
		t.Errorf("contact email = %q, want hr@example.org", result.ContactEmail)
	}
}

func TestExtractEmptyHTMLKeepsSchema(t *testing.T) {
	e := newExtractor()
	result := e.Extract(context.Background(), "", "https://example.org/empty", "")

	if len(result.Fields) != len(models.RequiredFieldNames) {
		t.Errorf("got %d field keys, want %d", len(result.Fields), len(models.RequiredFieldNames))
	}
	for _, name := range models.RequiredFieldNames {
		f, ok := result.Fields[name]
		if !ok {
			t.Errorf("required field key %q missing from result", name)
			continue
		}
		if !f.IsAbsent() {
			t.Errorf("field %q has value %q on an empty page", name, f.Value)
		}
		if f.Source != models.SourceNone || f.Confidence != 0 {
			t.Errorf("absent field %q carries source=%s confidence=%v", name, f.Source, f.Confidence)
		}
	}
	if result.IsJob {
		t.Error("empty page should not classify as a job")
	}
	if err := result.Validate(); err != nil {
		t.Errorf("empty result violates schema contract: %v", err)
	}
}

func TestExtractDedupeHashMatchesFields(t *testing.T) {
	e := newExtractor()
	result := e.Extract(context.Background(), heuristicHTML, "https://example.org/jobs/77", "")

	want := dedupe.CanonicalHash(
		result.Field(models.FieldTitle).RawSnippet,
		result.Field(models.FieldApplicationURL).Value,
		result.ContactEmail,
	)
	if result.DedupeHash != want {
		t.Errorf("dedupe hash %q does not match recomputation %q", result.DedupeHash, want)
	}
	if result.CanonicalID != result.DedupeHash {
		t.Error("canonical ID should equal the dedupe hash")
	}
	if result.PipelineVersion != models.PipelineVersion {
		t.Errorf("pipeline version = %q, want %q", result.PipelineVersion, models.PipelineVersion)
	}
}

func TestExtractDedupeHashUsesRawTitle(t *testing.T) {
	e := newExtractor()
	result := e.Extract(context.Background(), heuristicHTML, "https://example.org/jobs/77", "")

	title := result.Field(models.FieldTitle)
	if title.Value != "Programme Assistant" || title.RawSnippet != "programme assistant" {
		t.Fatalf("fixture drift: value=%q raw=%q", title.Value, title.RawSnippet)
	}
	applyURL := result.Field(models.FieldApplicationURL).Value

	fromRaw := dedupe.CanonicalHash("programme assistant", applyURL, "")
	fromDisplay := dedupe.CanonicalHash("Programme Assistant", applyURL, "")
	if result.DedupeHash != fromRaw {
		t.Errorf("dedupe hash %q not keyed on the raw page title", result.DedupeHash)
	}
	if result.DedupeHash == fromDisplay {
		t.Error("dedupe hash keyed on the display-cased title; title-casing changes would re-key stored records")
	}
}

func TestExtractSurvivesAIProviderFailure(t *testing.T) {
	cfg := newAIConfig()
	manager := llm.NewManagerWithProvider(cfg, &stubProvider{err: errors.New("upstream timeout")})
	e := extract.NewExtractor(cfg, manager, nil)

	result := e.Extract(context.Background(), heuristicHTML, "https://example.org/jobs/77", "")

	title := result.Field(models.FieldTitle)
	if title.Value != "Programme Assistant" || title.Source != models.SourceDOMHeuristic {
		t.Errorf("heuristic title lost after provider failure: %+v", title)
	}
	if got := result.Field(models.FieldLocation).Value; got != "Nairobi, Kenya" {
		t.Errorf("heuristic location lost after provider failure: %q", got)
	}

	// The fields the provider was asked to fill stay canonically absent
	employer := result.Field(models.FieldEmployer)
	if !employer.IsAbsent() || employer.Source != models.SourceNone || employer.Confidence != 0 {
		t.Errorf("employer after failed enrichment = %+v, want canonical absent", employer)
	}
	if err := result.Validate(); err != nil {
		t.Errorf("result violates schema contract after provider failure: %v", err)
	}
}

func TestExtractAIFillsMissingFieldsOnly(t *testing.T) {
	cfg := newAIConfig()
	manager := llm.NewManagerWithProvider(cfg, &stubProvider{
		fields: map[models.FieldName]string{
			models.FieldEmployer: "Example Relief",
			models.FieldTitle:    "A Different Title The Model Made Up",
		},
		confidence: 0.99,
	})
	e := extract.NewExtractor(cfg, manager, nil)

	result := e.Extract(context.Background(), heuristicHTML, "https://example.org/jobs/77", "")

	employer := result.Field(models.FieldEmployer)
	if employer.Value != "Example Relief" || employer.Source != models.SourceAIFallback {
		t.Errorf("employer = %+v, want AI-filled Example Relief", employer)
	}
	if employer.Confidence != 0.85 {
		t.Errorf("AI confidence = %v, want capped at 0.85", employer.Confidence)
	}
	// The heuristic title was already present and is never overwritten
	if got := result.Field(models.FieldTitle); got.Source != models.SourceDOMHeuristic {
		t.Errorf("title source = %s, AI response overwrote a found field", got.Source)
	}
}

func TestExtractParserHintWins(t *testing.T) {
	html := `<html><body>
		<h1>Welcome to our careers portal</h1>
		<div class="posting-title">Monitoring and Evaluation Specialist</div>
	</body></html>`

	e := newExtractor()
	result := e.Extract(context.Background(), html, "https://example.org/jobs/90", ".posting-title")

	title := result.Field(models.FieldTitle)
	if title.Value != "Monitoring and Evaluation Specialist" {
		t.Errorf("title = %q, want the hint-selected text", title.Value)
	}
	if title.Confidence != 0.8 {
		t.Errorf("hint-selected title confidence = %v, want 0.8", title.Confidence)
	}
}

func TestExtractInvalidParserHintFallsBack(t *testing.T) {
	html := `<html><body><h1>data analyst</h1></body></html>`

	e := newExtractor()
	result := e.Extract(context.Background(), html, "https://example.org/jobs/91", "[[[not-a-selector")

	if got := result.Field(models.FieldTitle).Value; got != "Data Analyst" {
		t.Errorf("title = %q, want fallback to the h1", got)
	}
}
