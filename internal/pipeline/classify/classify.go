// Package classify decides whether a fetched page is a job posting. The
// classifier is a pure additive heuristic: each signal contributes points to a
// raw score that is normalized into [0,1]. It never fails: empty or
// unparseable HTML simply produces a low score.
package classify

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Decision threshold on the normalized score
const threshold = 0.5

// rawCeiling normalizes the additive raw score into [0,1]
const rawCeiling = 10.0

// bodyKeywords are job-domain terms counted once each in title+body text
var bodyKeywords = []string{
	"apply", "position", "vacancy", "job opening", "duty station",
	"closing date", "responsibilities", "qualifications", "salary",
	"hiring", "job description", "deadline for application",
	"terms of reference", "employment type",
}

// genericPathWords mark pages that are almost never postings
var genericPathWords = []string{
	"/about", "/contact", "/login", "/signin", "/sign-in", "/register",
	"/privacy", "/terms", "/news", "/blog", "/donate", "/faq",
}

var jobPathWords = []string{
	"job", "career", "position", "vacanc", "opportunit", "opening", "recruit",
}

var loginPhrases = []string{
	"sign in", "log in", "login", "forgot password", "create account",
	"candidate login",
}

// Classify scores raw HTML plus its URL and returns the decision and the
// normalized score. A nil-safe, state-free function: safe for concurrent use.
func Classify(html, pageURL string) (bool, float64) {
	raw := urlSignal(pageURL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil && strings.TrimSpace(html) != "" {
		raw += lexicalSignal(doc)
		raw += structuralSignal(doc)
		raw += loginSignal(doc)
	}

	score := clamp01(raw / rawCeiling)
	return score >= threshold, score
}

// lexicalSignal counts distinct job-domain keywords in the title and body,
// capped so keyword stuffing cannot dominate
func lexicalSignal(doc *goquery.Document) float64 {
	text := strings.ToLower(doc.Find("title").Text() + " " + doc.Find("body").Text())
	text = strings.Join(strings.Fields(text), " ")

	var hits float64
	for _, kw := range bodyKeywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	if hits > 4 {
		hits = 4
	}

	// An explicit call-to-action phrase is worth more than a bare keyword
	if strings.Contains(text, "apply now") || strings.Contains(text, "apply today") ||
		strings.Contains(text, "how to apply") {
		hits += 1.5
	}
	return hits
}

// structuralSignal looks for job-listing markup: container class/id patterns,
// an apply call-to-action element and embedded JobPosting structured data
func structuralSignal(doc *goquery.Document) float64 {
	var raw float64

	containers := doc.Find("[class*='job'], [class*='vacanc'], [class*='posting'], [class*='position'], [id*='job'], [id*='vacanc']")
	if containers.Length() > 0 {
		raw += 1.5
	}

	applyCTA := false
	doc.Find("a, button").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(strings.TrimSpace(s.Text())), "apply") {
			applyCTA = true
			return false
		}
		return true
	})
	if applyCTA {
		raw += 2
	}

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "JobPosting") {
			raw += 3
			return false
		}
		return true
	})

	return raw
}

// loginSignal strongly suppresses credential pages
func loginSignal(doc *goquery.Document) float64 {
	var raw float64

	if doc.Find("input[type='password']").Length() > 0 {
		raw -= 3
	}

	text := strings.ToLower(doc.Find("title").Text() + " " + doc.Find("h1").Text() + " " + doc.Find("h2").Text())
	for _, phrase := range loginPhrases {
		if strings.Contains(text, phrase) {
			raw -= 2
			break
		}
	}
	return raw
}

// urlSignal boosts job-path URLs and penalizes generic site pages
func urlSignal(pageURL string) float64 {
	lu := strings.ToLower(pageURL)
	var raw float64

	for _, w := range jobPathWords {
		if strings.Contains(lu, w) {
			raw += 2
			break
		}
	}
	for _, w := range genericPathWords {
		if strings.Contains(lu, w) {
			raw -= 2
			break
		}
	}
	return raw
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
