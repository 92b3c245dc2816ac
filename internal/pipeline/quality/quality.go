// Package quality scores the completeness and trustworthiness of a persisted
// job record. Scoring is a pure function of the record: re-scoring an
// unchanged record always yields an identical assessment.
package quality

import (
	"net/url"
	"sort"
	"strings"

	"jobsift/pkg/models"
)

// Factor weights; the maximum total is 100
const (
	weightTitle       = 15.0
	weightApplyLink   = 25.0
	weightLocation    = 10.0
	weightGeocoded    = 5.0
	weightDeadline    = 10.0
	weightOrgName     = 10.0
	weightDescription = 15.0
	weightRemoteFlag  = 5.0
	weightPostedDate  = 5.0
)

const (
	descriptionFullLength = 200
	descriptionHalfLength = 80
	reviewThreshold       = 40.0
)

// Score computes the QualityAssessment for a record. Each contributing factor
// is independently computable and reported in Factors; Issues lists
// human-readable deficiency tags; NeedsReview is set below the threshold or
// when a hard-fail issue (no way to apply at all) is present.
func Score(rec *models.JobRecord) models.QualityAssessment {
	factors := make(map[string]float64)
	var issues []string
	hardFail := false

	if strings.TrimSpace(rec.Title) != "" {
		factors["has_title"] = weightTitle
	} else {
		factors["has_title"] = 0
		issues = append(issues, "missing_title")
	}

	switch {
	case isValidApplyURL(rec.ApplyURL):
		factors["has_valid_apply_link"] = weightApplyLink
	case strings.TrimSpace(rec.ContactEmail) != "":
		// A contact email is a usable but weaker apply target
		factors["has_valid_apply_link"] = weightApplyLink / 2
		issues = append(issues, "apply_via_email_only")
	default:
		factors["has_valid_apply_link"] = 0
		issues = append(issues, "missing_apply_link")
		hardFail = true
	}

	if strings.TrimSpace(rec.LocationRaw) != "" {
		factors["has_location"] = weightLocation
	} else {
		factors["has_location"] = 0
		issues = append(issues, "missing_location")
	}

	if rec.Latitude != 0 || rec.Longitude != 0 {
		factors["has_geocoded_location"] = weightGeocoded
	} else {
		factors["has_geocoded_location"] = 0
	}

	if strings.TrimSpace(rec.Deadline) != "" {
		factors["has_deadline"] = weightDeadline
	} else {
		factors["has_deadline"] = 0
		issues = append(issues, "no_deadline")
	}

	if strings.TrimSpace(rec.OrgName) != "" {
		factors["has_org_name"] = weightOrgName
	} else {
		factors["has_org_name"] = 0
		issues = append(issues, "missing_org_name")
	}

	descLen := len(strings.TrimSpace(rec.DescriptionSnippet))
	switch {
	case descLen >= descriptionFullLength:
		factors["description_length_adequate"] = weightDescription
	case descLen >= descriptionHalfLength:
		factors["description_length_adequate"] = weightDescription / 2
		issues = append(issues, "short_description")
	default:
		factors["description_length_adequate"] = 0
		issues = append(issues, "short_description")
	}

	if rec.IsRemote || strings.TrimSpace(rec.LocationRaw) != "" {
		factors["has_remote_flag"] = weightRemoteFlag
	} else {
		factors["has_remote_flag"] = 0
	}

	if strings.TrimSpace(rec.PostedOn) != "" {
		factors["has_posted_date"] = weightPostedDate
	} else {
		factors["has_posted_date"] = 0
	}

	var total float64
	for _, v := range factors {
		total += v
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	sort.Strings(issues)

	return models.QualityAssessment{
		Score:       total,
		Grade:       gradeFor(total),
		Factors:     factors,
		Issues:      issues,
		NeedsReview: total < reviewThreshold || hardFail,
	}
}

// gradeFor buckets a score into an ordinal grade; monotonic in score
func gradeFor(score float64) models.QualityGrade {
	switch {
	case score >= 85:
		return models.GradeA
	case score >= 70:
		return models.GradeB
	case score >= 55:
		return models.GradeC
	case score >= 40:
		return models.GradeD
	default:
		return models.GradeF
	}
}

func isValidApplyURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
