package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLCleaner strips page chrome and boilerplate so the AI fallback sees only
// text likely to describe the posting
type HTMLCleaner struct {
	removeTags []string
}

// NewHTMLCleaner creates a new HTML cleaner instance
func NewHTMLCleaner() *HTMLCleaner {
	return &HTMLCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"form", "input", "button", "select", "textarea",
			"nav", "header", "footer", "aside", "menu",
			"svg", "path", "g", "defs", "use", "symbol",
			"meta", "link", "base",
		},
	}
}

// jobContentSelectors are common containers for posting text, tried before
// falling back to the whole body
var jobContentSelectors = []string{
	"main", "[role='main']", "#main", ".main",
	".job", ".job-posting", ".job-detail", ".job-description",
	".posting", ".position", ".vacancy", ".opportunity",
	".content", ".description", ".details",
	"article", "section[class*='job']", "section[class*='posting']",
	"[data-testid*='job']", "[data-qa*='job']",
}

// ExtractJobContent returns the text most likely to contain job information.
// Parse failures yield the raw input collapsed to plain text rather than an
// error: the fallback must never abort extraction.
func (hc *HTMLCleaner) ExtractJobContent(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanExtractedText(html)
	}

	for _, tag := range hc.removeTags {
		doc.Find(tag).Remove()
	}

	var parts []string
	for _, selector := range jobContentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); len(text) > 50 {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			break
		}
	}

	if len(parts) == 0 {
		if bodyText := strings.TrimSpace(doc.Find("body").Text()); bodyText != "" {
			parts = append(parts, bodyText)
		}
	}

	return cleanExtractedText(strings.Join(parts, "\n\n"))
}

var (
	whitespaceRe = regexp.MustCompile(`[ \t]+`)
	newlineRe    = regexp.MustCompile(`\n{3,}`)

	// Boilerplate injected by JS-disabled fallbacks and cookie banners
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bJavaScript\s+is\s+disabled\b[^.]*\.`),
		regexp.MustCompile(`(?i)\bPlease\s+enable\s+JavaScript\b[^.]*\.?`),
		regexp.MustCompile(`(?i)\bThis\s+site\s+(?:requires|uses)\s+cookies\b[^.]*\.?`),
	}
)

func cleanExtractedText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = newlineRe.ReplaceAllString(text, "\n\n")
	for _, re := range noisePatterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// EstimateTokens returns the approximate token count for the cleaned text
func (hc *HTMLCleaner) EstimateTokens(text string) int {
	// Rough estimation: ~4 characters per token
	return len(text) / 4
}
