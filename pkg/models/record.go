package models

import "time"

// JobRecord is the flat persisted job record produced from an ExtractionResult
// plus enrichment. The dedupe hash is the upsert key: insert when absent,
// update in place when present, never duplicate.
type JobRecord struct {
	DedupeHash         string    `json:"dedupe_hash"`
	Title              string    `json:"title"`
	ApplyURL           string    `json:"apply_url,omitempty"`
	ContactEmail       string    `json:"contact_email,omitempty"`
	LocationRaw        string    `json:"location_raw"`
	Deadline           string    `json:"deadline"`
	PostedOn           string    `json:"posted_on"`
	OrgName            string    `json:"org_name"`
	DescriptionSnippet string    `json:"description_snippet"`
	Requirements       string    `json:"requirements"`
	SourceURL          string    `json:"source_url"`
	PipelineVersion    string    `json:"pipeline_version"`
	ExtractedAt        time.Time `json:"extracted_at"`

	// Geo enrichment; zero values mean "not geocoded"
	Country    string  `json:"country,omitempty"`
	CountryISO string  `json:"country_iso,omitempty"`
	City       string  `json:"city,omitempty"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	IsRemote   bool    `json:"is_remote"`

	// Quality assessment, overwritten on each recomputation
	QualityScore   float64            `json:"quality_score"`
	QualityGrade   QualityGrade       `json:"quality_grade"`
	QualityFactors map[string]float64 `json:"quality_factors,omitempty"`
	QualityIssues  []string           `json:"quality_issues,omitempty"`
	NeedsReview    bool               `json:"needs_review"`
}

// RecordFromResult flattens an ExtractionResult into the persisted schema.
// Quality fields are filled in separately by the quality scorer.
func RecordFromResult(r *ExtractionResult, orgName string) *JobRecord {
	rec := &JobRecord{
		DedupeHash:         r.DedupeHash,
		Title:              r.Field(FieldTitle).Value,
		ApplyURL:           r.Field(FieldApplicationURL).Value,
		ContactEmail:       r.ContactEmail,
		LocationRaw:        r.Field(FieldLocation).Value,
		Deadline:           r.Field(FieldDeadline).Value,
		PostedOn:           r.Field(FieldPostedOn).Value,
		OrgName:            orgName,
		DescriptionSnippet: r.Field(FieldDescription).Value,
		Requirements:       r.Field(FieldRequirements).Value,
		SourceURL:          r.URL,
		PipelineVersion:    r.PipelineVersion,
		ExtractedAt:        r.ExtractedAt,
	}
	return rec
}
