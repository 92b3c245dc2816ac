package extract_test

import (
	"testing"

	"jobsift/internal/pipeline/extract"
)

func TestCollapseWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"line\none\n\nline two", "line one line two"},
		{"tabs\t\tand spaces", "tabs and spaces"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := extract.CollapseWhitespace(tc.in); got != tc.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase input", "senior programme officer", "Senior Programme Officer"},
		{"small words stay lowercase mid-title", "head of finance and operations", "Head of Finance and Operations"},
		{"leading small word is capitalized", "the hague liaison officer", "The Hague Liaison Officer"},
		{"acronym preserved", "UNHCR protection officer", "UNHCR Protection Officer"},
		{"mixed-case word preserved", "iOS developer", "iOS Developer"},
		{"embedded capital preserved", "PhD researcher", "PhD Researcher"},
		{"internal whitespace collapsed", "finance   \n officer", "Finance Officer"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extract.NormalizeTitle(tc.in); got != tc.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"iso date", "2026-09-30", "2026-09-30"},
		{"rfc3339", "2026-09-15T23:59:59Z", "2026-09-15"},
		{"long month", "September 30, 2026", "2026-09-30"},
		{"day first", "30 September 2026", "2026-09-30"},
		{"short month", "Sep 30, 2026", "2026-09-30"},
		{"slashes", "2026/09/30", "2026-09-30"},
		{"label prefix stripped", "Closing date: 30 September 2026", "2026-09-30"},
		{"posted label", "Posted: 2026-08-20", "2026-08-20"},
		{"timestamp colon not treated as label", "2026-08-28T10:00:00Z", "2026-08-28"},
		{"unparseable", "as soon as possible", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extract.NormalizeDate(tc.in); got != tc.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
