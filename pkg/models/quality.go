package models

// QualityGrade is an ordinal bucket summarizing a record's completeness score
type QualityGrade string

const (
	GradeA QualityGrade = "A"
	GradeB QualityGrade = "B"
	GradeC QualityGrade = "C"
	GradeD QualityGrade = "D"
	GradeF QualityGrade = "F"
)

// QualityAssessment is attached to a persisted job record post-extraction.
// It is recomputable idempotently from the same input record and overwritten
// on recomputation.
type QualityAssessment struct {
	Score       float64            `json:"score"`
	Grade       QualityGrade       `json:"grade"`
	Factors     map[string]float64 `json:"factors"`
	Issues      []string           `json:"issues"`
	NeedsReview bool               `json:"needs_review"`
}
