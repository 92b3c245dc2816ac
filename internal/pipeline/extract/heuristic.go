package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobsift/internal/pipeline/urlnorm"
	"jobsift/pkg/models"
	"jobsift/pkg/utils"
)

// HeuristicStrategy extracts fields by pattern-matching headings, labeled
// fields, meta tags and apply links. Confidence reflects how distinctive the
// matched pattern is, between 0.5 and 0.8.
type HeuristicStrategy struct{}

// NewHeuristicStrategy creates the DOM-heuristic strategy
func NewHeuristicStrategy() *HeuristicStrategy {
	return &HeuristicStrategy{}
}

// Source returns the provenance tag for this strategy
func (h *HeuristicStrategy) Source() models.FieldSource {
	return models.SourceDOMHeuristic
}

// Extract applies all per-field heuristics against the parsed page
func (h *HeuristicStrategy) Extract(in *Input) map[models.FieldName]models.ExtractedField {
	fields := make(map[models.FieldName]models.ExtractedField)

	h.extractTitle(in, fields)
	h.extractEmployer(in, fields)
	h.extractLabeledFields(in, fields)
	h.extractDescription(in, fields)
	h.extractRequirements(in, fields)
	h.extractApplyURL(in, fields)

	return fields
}

func (h *HeuristicStrategy) extractTitle(in *Input, fields map[models.FieldName]models.ExtractedField) {
	// A source-supplied selector is the most distinctive signal we have
	if in.ParserHint != "" {
		if text := firstText(in.Doc, in.ParserHint); text != "" {
			fields[models.FieldTitle] = heuristicField(text, 0.8)
			return
		}
	}

	if text := firstText(in.Doc, "h1"); text != "" {
		fields[models.FieldTitle] = heuristicField(text, 0.75)
		return
	}

	if content, ok := in.Doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if text := CollapseWhitespace(content); text != "" {
			fields[models.FieldTitle] = heuristicField(text, 0.7)
			return
		}
	}

	// Page <title> often carries "Job Title - Org Name"
	if text := firstText(in.Doc, "title"); text != "" {
		for _, sep := range []string{" | ", " - ", " – "} {
			if idx := strings.Index(text, sep); idx > 0 {
				text = text[:idx]
				break
			}
		}
		fields[models.FieldTitle] = heuristicField(CollapseWhitespace(text), 0.5)
	}
}

func (h *HeuristicStrategy) extractEmployer(in *Input, fields map[models.FieldName]models.ExtractedField) {
	if text := firstText(in.Doc, `[itemprop="hiringOrganization"]`); text != "" {
		fields[models.FieldEmployer] = heuristicField(text, 0.7)
		return
	}

	if content, ok := in.Doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		if text := CollapseWhitespace(content); text != "" {
			fields[models.FieldEmployer] = heuristicField(text, 0.6)
		}
	}
}

// fieldLabels maps schema fields to the page labels that commonly precede
// their values
var fieldLabels = map[models.FieldName][]string{
	models.FieldLocation: {"location", "duty station", "place of work", "based in"},
	models.FieldPostedOn: {"posted", "date posted", "published", "posting date"},
	models.FieldDeadline: {"closing date", "deadline", "apply by", "applications close", "valid through"},
}

// extractLabeledFields walks dt/dd pairs and short labeled text nodes looking
// for "Label: value" patterns
func (h *HeuristicStrategy) extractLabeledFields(in *Input, fields map[models.FieldName]models.ExtractedField) {
	values := make(map[models.FieldName]string)

	in.Doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(CollapseWhitespace(dt.Text()))
		value := CollapseWhitespace(dt.Next().Filter("dd").Text())
		if value == "" {
			return
		}
		for name, labels := range fieldLabels {
			if _, done := values[name]; done {
				continue
			}
			for _, l := range labels {
				if strings.Contains(label, l) {
					values[name] = value
					break
				}
			}
		}
	})

	in.Doc.Find("li, p, span, div").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Size() > 2 {
			return
		}
		text := CollapseWhitespace(sel.Text())
		if text == "" || len(text) > 120 {
			return
		}
		lower := strings.ToLower(text)
		for name, labels := range fieldLabels {
			if _, done := values[name]; done {
				continue
			}
			for _, l := range labels {
				prefix := l + ":"
				if strings.HasPrefix(lower, prefix) {
					value := CollapseWhitespace(text[len(prefix):])
					if value != "" {
						values[name] = value
					}
					break
				}
			}
		}
	})

	if loc, ok := values[models.FieldLocation]; ok {
		fields[models.FieldLocation] = heuristicField(loc, 0.7)
	}
	if posted, ok := values[models.FieldPostedOn]; ok {
		if date := NormalizeDate(posted); date != "" {
			fields[models.FieldPostedOn] = models.ExtractedField{
				Value:      date,
				Source:     models.SourceDOMHeuristic,
				Confidence: 0.7,
				RawSnippet: posted,
			}
		}
	}
	if deadline, ok := values[models.FieldDeadline]; ok {
		if date := NormalizeDate(deadline); date != "" {
			fields[models.FieldDeadline] = models.ExtractedField{
				Value:      date,
				Source:     models.SourceDOMHeuristic,
				Confidence: 0.7,
				RawSnippet: deadline,
			}
		}
	}

	// <time datetime="..."> is machine-readable and beats label scraping
	in.Doc.Find("time[datetime]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if _, done := fields[models.FieldPostedOn]; done {
			return false
		}
		datetime, _ := sel.Attr("datetime")
		if date := NormalizeDate(datetime); date != "" {
			fields[models.FieldPostedOn] = models.ExtractedField{
				Value:      date,
				Source:     models.SourceDOMHeuristic,
				Confidence: 0.75,
				RawSnippet: datetime,
			}
		}
		return false
	})
}

// jobBodySelectors are tried in order for the main posting text
var jobBodySelectors = []string{
	".job-description",
	".job-details",
	".job-content",
	"[class*='job-posting']",
	".vacancy-description",
	"article",
	"main",
}

func (h *HeuristicStrategy) extractDescription(in *Input, fields map[models.FieldName]models.ExtractedField) {
	for _, selector := range jobBodySelectors {
		text := CollapseWhitespace(in.Doc.Find(selector).First().Text())
		if len(text) >= 120 {
			fields[models.FieldDescription] = models.ExtractedField{
				Value:      utils.Truncate(text, 2000),
				Source:     models.SourceDOMHeuristic,
				Confidence: 0.65,
				RawSnippet: utils.Truncate(text, 2000),
			}
			return
		}
	}

	if content, ok := in.Doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if text := CollapseWhitespace(content); len(text) >= 40 {
			fields[models.FieldDescription] = heuristicField(text, 0.5)
		}
	}
}

func (h *HeuristicStrategy) extractRequirements(in *Input, fields map[models.FieldName]models.ExtractedField) {
	in.Doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		label := strings.ToLower(CollapseWhitespace(heading.Text()))
		if !strings.Contains(label, "requirement") && !strings.Contains(label, "qualification") {
			return true
		}

		// Collect the content block that follows the heading
		var parts []string
		for next := heading.Next(); next.Size() > 0; next = next.Next() {
			if next.Is("h1, h2, h3, h4") {
				break
			}
			if text := CollapseWhitespace(next.Text()); text != "" {
				parts = append(parts, text)
			}
			if len(parts) >= 5 {
				break
			}
		}

		if len(parts) > 0 {
			text := strings.Join(parts, " ")
			fields[models.FieldRequirements] = models.ExtractedField{
				Value:      utils.Truncate(text, 2000),
				Source:     models.SourceDOMHeuristic,
				Confidence: 0.65,
				RawSnippet: utils.Truncate(text, 2000),
			}
			return false
		}
		return true
	})
}

func (h *HeuristicStrategy) extractApplyURL(in *Input, fields map[models.FieldName]models.ExtractedField) {
	var best string
	var bestConfidence float64

	in.Doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}

		text := strings.ToLower(CollapseWhitespace(anchor.Text()))
		confidence := 0.0
		switch {
		case text == "apply" || text == "apply now" || text == "apply here" || text == "apply online":
			confidence = 0.75
		case strings.Contains(text, "apply"):
			confidence = 0.6
		case strings.Contains(strings.ToLower(href), "/apply"):
			confidence = 0.55
		}

		if confidence > bestConfidence {
			bestConfidence = confidence
			best = href
		}
	})

	if best == "" {
		return
	}

	value := best
	if !urlnorm.IsMailto(best) {
		value = urlnorm.Resolve(in.URL, best)
		if value == "" {
			return
		}
	}

	// Mailto values flow through; the extractor moves them to contact_email
	fields[models.FieldApplicationURL] = models.ExtractedField{
		Value:      value,
		Source:     models.SourceDOMHeuristic,
		Confidence: bestConfidence,
		RawSnippet: best,
	}
}

// heuristicField builds an ExtractedField with DOM-heuristic provenance
func heuristicField(value string, confidence float64) models.ExtractedField {
	return models.ExtractedField{
		Value:      value,
		Source:     models.SourceDOMHeuristic,
		Confidence: confidence,
		RawSnippet: value,
	}
}

// firstText returns the collapsed text of the first node matching the
// selector. Invalid selectors are treated as no match.
func firstText(doc *goquery.Document, selector string) string {
	defer func() { recover() }()
	return CollapseWhitespace(doc.Find(selector).First().Text())
}
