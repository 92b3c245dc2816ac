package linkscore

import "strings"

// blockPhrases are navigational anchor texts that must never be treated as
// job links, matched as a substring of the collapsed, lower-cased anchor.
var blockPhrases = []string{
	"more jobs",
	"all jobs",
	"view all",
	"where we work",
	"what we do",
	"who we are",
	"about us",
	"contact us",
	"privacy policy",
	"terms of",
	"cookie",
	"sign in",
	"log in",
	"register",
	"subscribe",
	"newsletter",
	"back to top",
	"read more",
	"learn more",
	"follow us",
	"our story",
	"job alerts",
}

// blockExact are short navigation words matched only as the whole anchor, so
// that e.g. "Next" pagination is blocked but "Next Generation Fellow" is not.
var blockExact = []string{
	"next",
	"previous",
	"prev",
	"global",
	"home",
	"menu",
	"search",
	"filter",
	"login",
	"blog",
	"news",
	"events",
	"donate",
	"faq",
	"»",
	"«",
	">",
	"<",
}

// IsBlocklisted reports whether an anchor is listing/navigation chrome rather
// than a job link. Matching is case-insensitive on whitespace-collapsed text.
func IsBlocklisted(anchorText, href string) bool {
	text := collapse(strings.ToLower(anchorText))
	if text == "" {
		return false
	}
	for _, phrase := range blockPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	for _, word := range blockExact {
		if text == word {
			return true
		}
	}
	// Pagination anchors like "2" or "10"
	if len(text) <= 3 && isAllDigits(text) && !strings.Contains(strings.ToLower(href), "job") {
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
