// Package linkscore ranks candidate anchors on listing pages so the crawler
// follows job detail links instead of site chrome. Scores are heuristic
// points: unbounded above, with 0 as the floor for exclusion.
package linkscore

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobsift/internal/pipeline/urlnorm"
	"jobsift/pkg/models"
)

// pathKeywords are URL path segments that suggest a job detail page
var pathKeywords = []string{
	"job", "jobs", "career", "careers", "position", "positions",
	"vacancy", "vacancies", "opportunity", "opportunities",
	"opening", "openings", "recruit", "recruitment", "employment",
}

// roleTokens are occupation words commonly found in job titles
var roleTokens = []string{
	"officer", "manager", "engineer", "director", "specialist",
	"coordinator", "analyst", "advisor", "adviser", "assistant",
	"consultant", "intern", "internship", "fellow", "associate",
	"developer", "designer", "accountant", "administrator", "expert",
	"head of", "lead", "secretary", "economist", "researcher",
}

// seniorityTokens refine role matches
var seniorityTokens = []string{
	"senior", "junior", "principal", "chief", "deputy", "executive",
}

var numericIDSegment = regexp.MustCompile(`/\d{2,}(?:[/-]|$)`)

// ScoreLink assigns a heuristic relevance score to a single anchor. The
// returned reason records which signals fired, for debuggability. Mailto and
// blocklisted anchors are forced to 0.
func ScoreLink(anchorText, href, baseURL string) (float64, string) {
	if urlnorm.IsMailto(href) {
		return 0, "mailto"
	}
	text := collapse(strings.ToLower(anchorText))
	if IsBlocklisted(anchorText, href) {
		return 0, "blocklisted"
	}

	resolved := strings.ToLower(urlnorm.Resolve(baseURL, href))
	var score float64
	var reasons []string

	for _, kw := range pathKeywords {
		if strings.Contains(resolved, "/"+kw+"/") || strings.Contains(resolved, "/"+kw+"-") ||
			strings.HasSuffix(resolved, "/"+kw) || strings.Contains(resolved, kw+"=") {
			score += 25
			reasons = append(reasons, "path_keyword")
			break
		}
	}

	if numericIDSegment.MatchString(resolved) {
		score += 15
		reasons = append(reasons, "numeric_id")
	}

	for _, tok := range roleTokens {
		if strings.Contains(text, tok) {
			score += 20
			reasons = append(reasons, "role_token")
			break
		}
	}

	for _, tok := range seniorityTokens {
		if strings.Contains(text, tok) {
			score += 10
			reasons = append(reasons, "seniority_token")
			break
		}
	}

	if strings.Contains(text, "apply") {
		score += 10
		reasons = append(reasons, "apply_text")
	}

	switch {
	case text == "":
		score -= 10
		reasons = append(reasons, "empty_anchor")
	case len(text) < 3:
		score -= 10
		reasons = append(reasons, "short_anchor")
	case len(text) >= 15:
		score += 5
		reasons = append(reasons, "long_anchor")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no_signal")
	}
	return score, strings.Join(reasons, "+")
}

// FilterJobLinks scores every anchor in the document, drops mailto and
// zero/negative-scored candidates, deduplicates by normalized URL and returns
// at most maxLinks entries sorted by score descending. Ties keep original
// document order, which bounds listing-page fan-out deterministically.
func FilterJobLinks(doc *goquery.Document, baseURL string, maxLinks int) []models.ScoredLink {
	if doc == nil || maxLinks <= 0 {
		return nil
	}

	var links []models.ScoredLink
	seen := make(map[string]int) // normalized href -> index in links

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}
		anchorText := strings.TrimSpace(s.Text())

		score, reason := ScoreLink(anchorText, href, baseURL)
		if urlnorm.IsMailto(href) || score <= 0 {
			return
		}

		normalized := urlnorm.Normalize(urlnorm.Resolve(baseURL, href))
		if idx, dup := seen[normalized]; dup {
			// Keep the better-scored occurrence of a repeated URL
			if score > links[idx].Score {
				links[idx].Score = score
				links[idx].AnchorText = anchorText
				links[idx].Reason = reason
			}
			return
		}

		seen[normalized] = len(links)
		links = append(links, models.ScoredLink{
			Href:       normalized,
			AnchorText: anchorText,
			Score:      score,
			Reason:     reason,
		})
	})

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Score > links[j].Score
	})

	if len(links) > maxLinks {
		links = links[:maxLinks]
	}
	return links
}
