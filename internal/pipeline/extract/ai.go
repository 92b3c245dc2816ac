package extract

import (
	"context"

	"jobsift/internal/llm/processors"
	"jobsift/internal/pipeline/urlnorm"
	"jobsift/pkg/models"
)

// enrichWithAI asks the LLM provider to fill fields the structured and
// heuristic strategies left absent. Any failure (provider down, timeout,
// unparseable response) means "no value from this source" - extraction
// continues with the fields it already has.
func (e *Extractor) enrichWithAI(ctx context.Context, html string, result *models.ExtractionResult, missing []models.FieldName) {
	if e.llmManager == nil || !e.llmManager.IsHealthy() {
		return
	}

	cleaner := processors.NewHTMLCleaner()
	content := cleaner.ExtractJobContent(html)
	if content == "" {
		return
	}

	req := &models.EnrichmentRequest{
		URL:         result.URL,
		Title:       result.Field(models.FieldTitle).Value,
		Description: result.Field(models.FieldDescription).Value,
		OrgName:     result.Field(models.FieldEmployer).Value,
		Location:    result.Field(models.FieldLocation).Value,
		Content:     content,
		Missing:     missing,
	}

	aiCtx, cancel := context.WithTimeout(ctx, e.config.Pipeline.AITimeout)
	defer cancel()

	resp, err := e.llmManager.EnrichJobFields(aiCtx, req)
	if e.collector != nil {
		filled := 0
		if resp != nil {
			filled = len(resp.Fields)
		}
		e.collector.RecordAICall(err, filled)
	}
	if err != nil {
		e.logger.Warn("AI enrichment unavailable, continuing without it", map[string]interface{}{
			"url":   result.URL,
			"error": err.Error(),
		})
		return
	}

	confidence := resp.Confidence
	if confidence > e.config.Pipeline.AIMaxConfidence {
		confidence = e.config.Pipeline.AIMaxConfidence
	}

	for _, name := range missing {
		value, ok := resp.Fields[name]
		if !ok {
			continue
		}
		if field := e.buildAIField(name, value, confidence, result); !field.IsAbsent() {
			result.Fields[name] = field
		}
	}

	// The model may return a mailto where we asked for an apply URL
	e.handleMailtoApply(result)
}

// buildAIField validates and normalizes a single AI-provided value. Values
// that fail validation are dropped rather than stored at low quality.
func (e *Extractor) buildAIField(name models.FieldName, value string, confidence float64, result *models.ExtractionResult) models.ExtractedField {
	raw := value
	value = CollapseWhitespace(value)
	if value == "" {
		return models.EmptyField()
	}

	switch name {
	case models.FieldPostedOn, models.FieldDeadline:
		date := NormalizeDate(value)
		if date == "" {
			return models.EmptyField()
		}
		value = date
	case models.FieldApplicationURL:
		if !urlnorm.IsMailto(value) {
			resolved := urlnorm.Resolve(result.URL, value)
			if resolved == "" {
				return models.EmptyField()
			}
			value = resolved
		}
	}

	return models.ExtractedField{
		Value:      value,
		Source:     models.SourceAIFallback,
		Confidence: confidence,
		RawSnippet: raw,
	}
}
