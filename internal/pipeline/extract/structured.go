package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobsift/internal/pipeline/urlnorm"
	"jobsift/pkg/models"
)

// StructuredStrategy extracts fields from embedded schema.org JobPosting
// JSON-LD. It is the highest-confidence source when present and well-formed.
type StructuredStrategy struct{}

// NewStructuredStrategy creates the structured-data strategy
func NewStructuredStrategy() *StructuredStrategy {
	return &StructuredStrategy{}
}

// Source returns the provenance tag for this strategy
func (s *StructuredStrategy) Source() models.FieldSource {
	return models.SourceStructuredData
}

// Extract scans every ld+json script for a JobPosting node and maps its
// properties onto the extraction schema
func (s *StructuredStrategy) Extract(in *Input) map[models.FieldName]models.ExtractedField {
	fields := make(map[models.FieldName]models.ExtractedField)

	in.Doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		posting := findJobPosting(sel.Text())
		if posting == nil {
			return true
		}

		s.mapPosting(posting, in, fields)
		return false
	})

	return fields
}

// findJobPosting unmarshals a JSON-LD blob and locates the first JobPosting
// node, looking inside @graph containers and top-level arrays
func findJobPosting(raw string) map[string]interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}

	return searchNode(parsed)
}

func searchNode(node interface{}) map[string]interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		if isJobPostingType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return searchNode(graph)
		}
	case []interface{}:
		for _, item := range v {
			if found := searchNode(item); found != nil {
				return found
			}
		}
	}
	return nil
}

// isJobPostingType handles @type as either a string or an array of strings
func isJobPostingType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return strings.EqualFold(v, "JobPosting")
	case []interface{}:
		for _, item := range v {
			if str, ok := item.(string); ok && strings.EqualFold(str, "JobPosting") {
				return true
			}
		}
	}
	return false
}

// mapPosting converts JobPosting properties to extraction fields
func (s *StructuredStrategy) mapPosting(posting map[string]interface{}, in *Input, fields map[models.FieldName]models.ExtractedField) {
	if title := jsonString(posting["title"]); title != "" {
		fields[models.FieldTitle] = structuredField(title, 0.95)
	}

	if org, ok := posting["hiringOrganization"].(map[string]interface{}); ok {
		if name := jsonString(org["name"]); name != "" {
			fields[models.FieldEmployer] = structuredField(name, 0.95)
		}
	} else if name := jsonString(posting["hiringOrganization"]); name != "" {
		fields[models.FieldEmployer] = structuredField(name, 0.9)
	}

	if loc := extractJobLocation(posting["jobLocation"]); loc != "" {
		fields[models.FieldLocation] = structuredField(loc, 0.9)
	}

	if posted := NormalizeDate(jsonString(posting["datePosted"])); posted != "" {
		fields[models.FieldPostedOn] = structuredField(posted, 0.95)
	}

	if deadline := NormalizeDate(jsonString(posting["validThrough"])); deadline != "" {
		fields[models.FieldDeadline] = structuredField(deadline, 0.95)
	}

	if desc := jsonString(posting["description"]); desc != "" {
		text := stripMarkup(desc)
		if text != "" {
			fields[models.FieldDescription] = models.ExtractedField{
				Value:      text,
				Source:     models.SourceStructuredData,
				Confidence: 0.9,
				RawSnippet: desc,
			}
		}
	}

	for _, key := range []string{"qualifications", "experienceRequirements", "skills"} {
		if req := jsonString(posting[key]); req != "" {
			text := stripMarkup(req)
			if text != "" {
				fields[models.FieldRequirements] = models.ExtractedField{
					Value:      text,
					Source:     models.SourceStructuredData,
					Confidence: 0.9,
					RawSnippet: req,
				}
				break
			}
		}
	}

	applyURL := jsonString(posting["directApply"])
	if applyURL == "" || applyURL == "true" || applyURL == "false" {
		applyURL = jsonString(posting["url"])
	}
	if applyURL != "" {
		resolved := urlnorm.Resolve(in.URL, applyURL)
		if resolved != "" {
			fields[models.FieldApplicationURL] = structuredField(resolved, 0.9)
		}
	}
}

// structuredField builds an ExtractedField with structured-data provenance
func structuredField(value string, confidence float64) models.ExtractedField {
	clean := CollapseWhitespace(value)
	return models.ExtractedField{
		Value:      clean,
		Source:     models.SourceStructuredData,
		Confidence: confidence,
		RawSnippet: value,
	}
}

// extractJobLocation flattens a jobLocation node (Place with a PostalAddress,
// or an array of them) into "City, Region, Country"
func extractJobLocation(node interface{}) string {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			if loc := extractJobLocation(item); loc != "" {
				return loc
			}
		}
	case map[string]interface{}:
		if addr, ok := v["address"].(map[string]interface{}); ok {
			parts := make([]string, 0, 3)
			for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
				if part := jsonString(addr[key]); part != "" {
					parts = append(parts, part)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
		if name := jsonString(v["name"]); name != "" {
			return name
		}
	case string:
		return CollapseWhitespace(v)
	}
	return ""
}

// jsonString coerces a JSON value to a trimmed string, returning "" for
// anything that is not a string or a name-bearing object
func jsonString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]interface{}:
		// Some publishers wrap country/org values as {"@type": ..., "name": ...}
		if name, ok := val["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// stripMarkup removes HTML tags from structured-data rich text fields
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return CollapseWhitespace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseWhitespace(s)
	}
	return CollapseWhitespace(doc.Text())
}
