package quality_test

import (
	"reflect"
	"strings"
	"testing"

	"jobsift/internal/pipeline/quality"
	"jobsift/pkg/models"
)

func completeRecord() *models.JobRecord {
	return &models.JobRecord{
		Title:              "Senior Programme Officer",
		ApplyURL:           "https://example.org/jobs/1234/apply",
		LocationRaw:        "Nairobi, Kenya",
		Deadline:           "2026-09-30",
		PostedOn:           "2026-08-20",
		OrgName:            "Example Relief",
		DescriptionSnippet: strings.Repeat("Programme management across the region. ", 8),
		Latitude:           -1.28,
		Longitude:          36.82,
	}
}

func TestScoreCompleteRecord(t *testing.T) {
	a := quality.Score(completeRecord())

	if a.Score != 100 {
		t.Errorf("complete record score = %v, want 100", a.Score)
	}
	if a.Grade != models.GradeA {
		t.Errorf("complete record grade = %v, want A", a.Grade)
	}
	if a.NeedsReview {
		t.Error("complete record should not need review")
	}
	if len(a.Issues) != 0 {
		t.Errorf("complete record has issues: %v", a.Issues)
	}
}

func TestScoreIdempotent(t *testing.T) {
	rec := completeRecord()
	rec.ApplyURL = ""
	rec.ContactEmail = "hr@example.org"

	first := quality.Score(rec)
	second := quality.Score(rec)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-scoring an unchanged record changed the assessment:\n%+v\n%+v", first, second)
	}
}

func TestScoreHardFailNoApplyTarget(t *testing.T) {
	rec := completeRecord()
	rec.ApplyURL = ""
	rec.ContactEmail = ""

	a := quality.Score(rec)
	if !a.NeedsReview {
		t.Error("record with no way to apply must need review regardless of score")
	}
	found := false
	for _, issue := range a.Issues {
		if issue == "missing_apply_link" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing_apply_link not reported: %v", a.Issues)
	}
}

func TestScoreEmailOnlyHalfCredit(t *testing.T) {
	withURL := quality.Score(completeRecord())

	rec := completeRecord()
	rec.ApplyURL = ""
	rec.ContactEmail = "hr@example.org"
	emailOnly := quality.Score(rec)

	gotFull := withURL.Factors["has_valid_apply_link"]
	gotHalf := emailOnly.Factors["has_valid_apply_link"]
	if gotHalf != gotFull/2 {
		t.Errorf("email-only apply factor = %v, want half of %v", gotHalf, gotFull)
	}
	if emailOnly.NeedsReview {
		t.Error("email-only apply target is usable, should not hard-fail")
	}

	found := false
	for _, issue := range emailOnly.Issues {
		if issue == "apply_via_email_only" {
			found = true
		}
	}
	if !found {
		t.Errorf("apply_via_email_only not reported: %v", emailOnly.Issues)
	}
}

func TestScoreInvalidApplyURL(t *testing.T) {
	rec := completeRecord()
	rec.ApplyURL = "javascript:void(0)"
	rec.ContactEmail = ""

	a := quality.Score(rec)
	if a.Factors["has_valid_apply_link"] != 0 {
		t.Errorf("non-http apply URL scored %v, want 0", a.Factors["has_valid_apply_link"])
	}
}

func TestScoreDescriptionTiers(t *testing.T) {
	long := completeRecord()
	mid := completeRecord()
	mid.DescriptionSnippet = strings.Repeat("x", 120)
	short := completeRecord()
	short.DescriptionSnippet = "Too short."

	full := quality.Score(long).Factors["description_length_adequate"]
	half := quality.Score(mid).Factors["description_length_adequate"]
	none := quality.Score(short).Factors["description_length_adequate"]

	if !(full > half && half > none) {
		t.Errorf("description tiers not ordered: full %v, half %v, none %v", full, half, none)
	}
	if half != full/2 {
		t.Errorf("mid-length description = %v, want half of %v", half, full)
	}
	if none != 0 {
		t.Errorf("short description = %v, want 0", none)
	}
}

func TestGradeMonotonicWithCompleteness(t *testing.T) {
	// Strip fields one at a time; the score must never increase
	recs := []*models.JobRecord{completeRecord()}

	r2 := completeRecord()
	r2.Deadline = ""
	recs = append(recs, r2)

	r3 := completeRecord()
	r3.Deadline = ""
	r3.LocationRaw = ""
	r3.Latitude, r3.Longitude = 0, 0
	recs = append(recs, r3)

	r4 := completeRecord()
	r4.Deadline = ""
	r4.LocationRaw = ""
	r4.Latitude, r4.Longitude = 0, 0
	r4.DescriptionSnippet = ""
	r4.PostedOn = ""
	recs = append(recs, r4)

	var prev float64 = 101
	for i, rec := range recs {
		a := quality.Score(rec)
		if a.Score > prev {
			t.Errorf("record %d scored %v, higher than less-complete predecessor %v", i, a.Score, prev)
		}
		prev = a.Score
	}
}

func TestScoreRemoteCountsAsLocated(t *testing.T) {
	rec := completeRecord()
	rec.LocationRaw = ""
	rec.Latitude, rec.Longitude = 0, 0
	rec.IsRemote = true

	a := quality.Score(rec)
	if a.Factors["has_remote_flag"] == 0 {
		t.Error("remote record should earn the remote-flag factor without a location")
	}
	if a.Factors["has_location"] != 0 {
		t.Error("remote flag should not fake a raw location")
	}
}
