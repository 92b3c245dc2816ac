package llm

import (
	"context"

	"jobsift/pkg/models"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// EnrichJobFields fills in missing extraction fields from page content
	EnrichJobFields(ctx context.Context, req *models.EnrichmentRequest) (*models.EnrichmentResponse, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
