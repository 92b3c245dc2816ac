package models

// ExtractRequest represents the request payload for an ad-hoc extraction run.
// Either URL or HTML must be provided; when HTML is given it is extracted as-is
// without fetching.
type ExtractRequest struct {
	URL        string        `json:"url" validate:"omitempty,url"`
	HTML       string        `json:"html,omitempty"`
	OrgName    string        `json:"org_name,omitempty"`
	ParserHint string        `json:"parser_hint,omitempty"`
	Options    *FetchOptions `json:"options,omitempty"`
}

// ClassifyRequest represents the request payload for a classification-only run
type ClassifyRequest struct {
	URL  string `json:"url" validate:"omitempty,url"`
	HTML string `json:"html,omitempty"`
}
