package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobsift/internal/config"
	"jobsift/internal/llm/processors"
	"jobsift/internal/logging"
	"jobsift/pkg/models"
)

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client      anthropic.Client
	config      *config.Config
	htmlCleaner *processors.HTMLCleaner
	logger      logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client:      client,
		config:      cfg,
		htmlCleaner: processors.NewHTMLCleaner(),
		logger:      logging.GetGlobalLogger(),
	}
}

// EnrichJobFields asks Claude to fill in the required fields the heuristic
// strategies could not extract
func (cp *ClaudeProvider) EnrichJobFields(ctx context.Context, req *models.EnrichmentRequest) (*models.EnrichmentResponse, error) {
	startTime := time.Now()

	cp.logger.Info("Starting field enrichment with Claude", map[string]interface{}{
		"url":            req.URL,
		"missing_fields": len(req.Missing),
		"provider":       "claude",
	})

	content := req.Content
	maxContentLength := cp.config.LLM.MaxTokens * 3 // Rough estimation: 3 chars per token
	if len(content) > maxContentLength {
		content = content[:maxContentLength] + "..."
		cp.logger.Debug("Content truncated to fit token limits", map[string]interface{}{"url": req.URL})
	}

	prompt := cp.buildEnrichmentPrompt(req, content)

	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	enrichment, err := cp.parseClaudeResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude response: %w", err)
	}

	cp.logger.Info("Field enrichment completed", map[string]interface{}{
		"url":             req.URL,
		"fields_returned": len(enrichment.Fields),
		"confidence":      enrichment.Confidence,
		"processing_time": time.Since(startTime).String(),
		"provider":        "claude",
	})

	return enrichment, nil
}

// buildEnrichmentPrompt creates the prompt for Claude to fill missing fields
func (cp *ClaudeProvider) buildEnrichmentPrompt(req *models.EnrichmentRequest, content string) string {
	missing := make([]string, 0, len(req.Missing))
	for _, name := range req.Missing {
		missing = append(missing, string(name))
	}

	return fmt.Sprintf(`You are a job posting analyzer. The fields below were already extracted from a job posting page; fill in ONLY the missing fields listed and return a JSON object.

Known fields:
- title: %q
- employer: %q
- location: %q
- description: %q

Missing fields to extract: %s

Return a valid JSON object with exactly this shape:

{
  "fields": {
    "<field_name>": "string value for each missing field you can determine"
  },
  "confidence": number between 0 and 1 reflecting how certain you are overall
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. Omit a field from "fields" entirely when the content does not support a value - never guess
3. Dates (posted_on, deadline) must be formatted as YYYY-MM-DD
4. application_url must be a full URL the applicant can visit; use an empty string for none
5. Keep description to a brief 2-3 sentence summary

PAGE CONTENT:
%s`, req.Title, req.OrgName, req.Location, req.Description, strings.Join(missing, ", "), content)
}

// parseClaudeResponse parses the Claude API response into an enrichment result
func (cp *ClaudeProvider) parseClaudeResponse(response *anthropic.Message) (*models.EnrichmentResponse, error) {
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text content in Claude response")
	}

	// Remove markdown code fences if present
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	cp.logger.Debug("Claude response received", map[string]interface{}{"response_text": responseText})

	var enrichment models.EnrichmentResponse
	if err := json.Unmarshal([]byte(responseText), &enrichment); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w, response: %s", err, responseText)
	}

	if enrichment.Confidence < 0 {
		enrichment.Confidence = 0
	}
	if enrichment.Confidence > 1 {
		enrichment.Confidence = 1
	}
	if enrichment.Fields == nil {
		enrichment.Fields = map[models.FieldName]string{}
	}

	return &enrichment, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "ping"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
