package models_test

import (
	"testing"

	"jobsift/pkg/models"
)

func TestNewEmptyResultCarriesAllKeys(t *testing.T) {
	r := models.NewEmptyResult("https://example.org/jobs/1")

	if len(r.Fields) != len(models.RequiredFieldNames) {
		t.Fatalf("got %d keys, want %d", len(r.Fields), len(models.RequiredFieldNames))
	}
	for _, name := range models.RequiredFieldNames {
		f, ok := r.Fields[name]
		if !ok {
			t.Errorf("missing key %q", name)
			continue
		}
		if !f.IsAbsent() || f.Source != models.SourceNone || f.Confidence != 0 {
			t.Errorf("field %q not canonically absent: %+v", name, f)
		}
	}
	if r.PipelineVersion != models.PipelineVersion {
		t.Errorf("pipeline version = %q, want %q", r.PipelineVersion, models.PipelineVersion)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("empty result should validate: %v", err)
	}
}

func TestValidateRejectsMissingKey(t *testing.T) {
	r := models.NewEmptyResult("https://example.org/jobs/1")
	delete(r.Fields, models.FieldDeadline)
	if err := r.Validate(); err == nil {
		t.Error("missing required key should fail validation")
	}
}

func TestValidateRejectsAbsentWithConfidence(t *testing.T) {
	r := models.NewEmptyResult("https://example.org/jobs/1")
	r.Fields[models.FieldTitle] = models.ExtractedField{Value: "", Source: models.SourceDOMHeuristic, Confidence: 0.7}
	if err := r.Validate(); err == nil {
		t.Error("absent value carrying source and confidence should fail validation")
	}
}

func TestValidateRejectsOutOfRangeScore(t *testing.T) {
	r := models.NewEmptyResult("https://example.org/jobs/1")
	r.ClassifierScore = 1.2
	if err := r.Validate(); err == nil {
		t.Error("classifier score above 1 should fail validation")
	}
	r.ClassifierScore = -0.1
	if err := r.Validate(); err == nil {
		t.Error("classifier score below 0 should fail validation")
	}
}

func TestFieldReturnsEmptyForUnknownKey(t *testing.T) {
	r := models.NewEmptyResult("https://example.org/jobs/1")
	delete(r.Fields, models.FieldTitle)
	f := r.Field(models.FieldTitle)
	if !f.IsAbsent() || f.Source != models.SourceNone {
		t.Errorf("Field on deleted key = %+v, want canonical empty", f)
	}
}

func TestRecordFromResult(t *testing.T) {
	r := models.NewEmptyResult("https://example.org/jobs/9")
	r.Fields[models.FieldTitle] = models.ExtractedField{Value: "Logistics Coordinator", Source: models.SourceDOMHeuristic, Confidence: 0.75}
	r.Fields[models.FieldLocation] = models.ExtractedField{Value: "Amman, Jordan", Source: models.SourceDOMHeuristic, Confidence: 0.7}
	r.ContactEmail = "hr@example.org"
	r.DedupeHash = "abc123"

	rec := models.RecordFromResult(r, "Example Relief")
	if rec.Title != "Logistics Coordinator" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.LocationRaw != "Amman, Jordan" {
		t.Errorf("LocationRaw = %q", rec.LocationRaw)
	}
	if rec.OrgName != "Example Relief" {
		t.Errorf("OrgName = %q", rec.OrgName)
	}
	if rec.ContactEmail != "hr@example.org" {
		t.Errorf("ContactEmail = %q", rec.ContactEmail)
	}
	if rec.DedupeHash != "abc123" {
		t.Errorf("DedupeHash = %q", rec.DedupeHash)
	}
	if rec.SourceURL != "https://example.org/jobs/9" {
		t.Errorf("SourceURL = %q", rec.SourceURL)
	}
}
