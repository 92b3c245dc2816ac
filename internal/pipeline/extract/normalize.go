package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims the string and folds internal whitespace runs
// (including newlines) into single spaces
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// lowercase words that stay lowercase mid-title
var titleSmallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "in": true, "of": true,
	"on": true, "or": true, "the": true, "to": true, "with": true,
}

// NormalizeTitle collapses whitespace and title-cases the string while
// preserving acronyms and embedded mixed-case words (UNHCR, iOS, PhD). Words
// that already carry an uppercase letter beyond the first, or any internal
// capital, are left untouched.
func NormalizeTitle(s string) string {
	s = CollapseWhitespace(s)
	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" || hasInternalCapital(word) {
			continue
		}

		lower := strings.ToLower(word)
		if i > 0 && i < len(words)-1 && titleSmallWords[lower] {
			words[i] = lower
			continue
		}

		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}

// hasInternalCapital reports whether any rune after the first is uppercase,
// which marks acronyms and mixed-case proper nouns
func hasInternalCapital(word string) bool {
	for i, r := range word {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// isLabel reports whether the string is a textual label (letters and spaces
// only), so "Posted" qualifies but "2026-08-28T10" does not
func isLabel(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return len(s) > 0
}

// dateLayouts lists the date formats seen across career pages, tried in order
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
}

// NormalizeDate parses a free-form date string and returns it as ISO 8601
// (2006-01-02). Returns "" when no layout matches.
func NormalizeDate(s string) string {
	s = CollapseWhitespace(s)
	if s == "" {
		return ""
	}

	// Strip label prefixes like "Posted:" or "Closing date:"
	if idx := strings.Index(s, ":"); idx > 0 && isLabel(s[:idx]) {
		candidate := CollapseWhitespace(s[idx+1:])
		if candidate != "" {
			s = candidate
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}
