package models

import "time"

// ExtractResponse represents the response from an extract request
type ExtractResponse struct {
	Success        bool              `json:"success"`
	Result         *ExtractionResult `json:"result,omitempty"`
	Error          string            `json:"error,omitempty"`
	ProcessingTime time.Duration     `json:"processing_time"`
	Engine         string            `json:"engine_used,omitempty"`
	RequestID      string            `json:"request_id"`
}

// ClassifyResponse represents the response from a classify request
type ClassifyResponse struct {
	IsJob     bool    `json:"is_job"`
	Score     float64 `json:"score"`
	RequestID string  `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
