package models

// EnrichmentRequest is the AI-fallback boundary input: the fields the
// heuristic strategies already found plus the cleaned page content, and the
// list of required fields still missing.
type EnrichmentRequest struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	OrgName     string      `json:"org_name"`
	Location    string      `json:"location"`
	Content     string      `json:"content"`
	Missing     []FieldName `json:"missing"`
}

// EnrichmentResponse carries the provider's structured enrichment fields and
// its self-reported confidence in [0,1]
type EnrichmentResponse struct {
	Fields     map[FieldName]string `json:"fields"`
	Confidence float64              `json:"confidence"`
}
