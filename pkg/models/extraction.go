package models

import (
	"fmt"
	"time"
)

// PipelineVersion is stamped on every ExtractionResult so downstream consumers
// can detect records produced by an older extraction pipeline.
const PipelineVersion = "1.4.0"

// FieldName identifies one of the fixed extraction schema fields
type FieldName string

const (
	FieldTitle          FieldName = "title"
	FieldEmployer       FieldName = "employer"
	FieldLocation       FieldName = "location"
	FieldPostedOn       FieldName = "posted_on"
	FieldDeadline       FieldName = "deadline"
	FieldDescription    FieldName = "description"
	FieldRequirements   FieldName = "requirements"
	FieldApplicationURL FieldName = "application_url"
)

// RequiredFieldNames is the fixed key set every ExtractionResult must carry,
// even when a field's value is absent
var RequiredFieldNames = []FieldName{
	FieldTitle,
	FieldEmployer,
	FieldLocation,
	FieldPostedOn,
	FieldDeadline,
	FieldDescription,
	FieldRequirements,
	FieldApplicationURL,
}

// FieldSource identifies which extraction strategy produced a field value
type FieldSource string

const (
	SourceStructuredData FieldSource = "structured_data"
	SourceDOMHeuristic   FieldSource = "dom_heuristic"
	SourceAIFallback     FieldSource = "ai_fallback"
	SourceNone           FieldSource = "none"
)

// ExtractedField represents one field's extraction outcome. Dates are stored
// normalized to ISO 8601 (2006-01-02); URLs are stored in canonical form.
type ExtractedField struct {
	Value      string      `json:"value"`
	Source     FieldSource `json:"source"`
	Confidence float64     `json:"confidence"`
	RawSnippet string      `json:"raw_snippet,omitempty"`
}

// IsAbsent reports whether the field has no extracted value
func (f ExtractedField) IsAbsent() bool {
	return f.Value == ""
}

// EmptyField returns the canonical absent-field value (source=none, confidence 0)
func EmptyField() ExtractedField {
	return ExtractedField{Source: SourceNone, Confidence: 0}
}

// ExtractionResult represents one page's full extraction. It is created fresh
// per fetch and immutable once built; the persistence layer decides insert vs.
// update based on DedupeHash.
type ExtractionResult struct {
	URL             string                       `json:"url"`
	CanonicalID     string                       `json:"canonical_id"`
	ExtractedAt     time.Time                    `json:"extracted_at"`
	PipelineVersion string                       `json:"pipeline_version"`
	Fields          map[FieldName]ExtractedField `json:"fields"`
	IsJob           bool                         `json:"is_job"`
	ClassifierScore float64                      `json:"classifier_score"`
	DedupeHash      string                       `json:"dedupe_hash"`
	// ContactEmail holds a mailto address found where an application URL was
	// expected; the application_url field stays absent in that case.
	ContactEmail string `json:"contact_email,omitempty"`
}

// NewEmptyResult creates an ExtractionResult with every required field key
// present and absent-valued
func NewEmptyResult(url string) *ExtractionResult {
	fields := make(map[FieldName]ExtractedField, len(RequiredFieldNames))
	for _, name := range RequiredFieldNames {
		fields[name] = EmptyField()
	}
	return &ExtractionResult{
		URL:             url,
		ExtractedAt:     time.Now().UTC(),
		PipelineVersion: PipelineVersion,
		Fields:          fields,
	}
}

// Field returns the named field, or an empty field when the key is somehow
// missing (which Validate treats as a contract violation)
func (r *ExtractionResult) Field(name FieldName) ExtractedField {
	if f, ok := r.Fields[name]; ok {
		return f
	}
	return EmptyField()
}

// Validate enforces the extraction schema contract. A missing required key or
// an absent value carrying confidence/source is a programming error in the
// extractor itself, not messy input, so this fails loudly.
func (r *ExtractionResult) Validate() error {
	if r.Fields == nil {
		return fmt.Errorf("extraction result has no fields map")
	}
	for _, name := range RequiredFieldNames {
		f, ok := r.Fields[name]
		if !ok {
			return fmt.Errorf("extraction result missing required field %q", name)
		}
		if f.IsAbsent() && (f.Confidence != 0 || f.Source != SourceNone) {
			return fmt.Errorf("field %q is absent but carries source=%s confidence=%v", name, f.Source, f.Confidence)
		}
	}
	if r.ClassifierScore < 0 || r.ClassifierScore > 1 {
		return fmt.Errorf("classifier score %v out of range [0,1]", r.ClassifierScore)
	}
	return nil
}
