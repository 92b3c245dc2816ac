package models

// ScoredLink is a listing-page link candidate with its heuristic relevance
// score. Score is unbounded above; 0 is the floor for "exclude from candidates".
// Mailto and blocklisted anchors are dropped before construction.
type ScoredLink struct {
	Href       string  `json:"href"`
	AnchorText string  `json:"anchor_text"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}
