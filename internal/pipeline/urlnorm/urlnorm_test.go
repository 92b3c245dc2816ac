package urlnorm_test

import (
	"testing"

	"jobsift/internal/pipeline/urlnorm"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://Jobs.Example.COM/openings",
			want: "https://jobs.example.com/openings",
		},
		{
			name: "preserves path case",
			in:   "https://example.com/Jobs/Senior-Engineer",
			want: "https://example.com/Jobs/Senior-Engineer",
		},
		{
			name: "strips utm parameters keeping the rest in order",
			in:   "https://example.com/jobs?ref=board&utm_source=news&page=2&utm_campaign=x",
			want: "https://example.com/jobs?ref=board&page=2",
		},
		{
			name: "strips gclid and fbclid",
			in:   "https://example.com/jobs?gclid=abc&id=42&fbclid=def",
			want: "https://example.com/jobs?id=42",
		},
		{
			name: "drops fragment",
			in:   "https://example.com/jobs/12#apply",
			want: "https://example.com/jobs/12",
		},
		{
			name: "removes single trailing slash",
			in:   "https://example.com/jobs/",
			want: "https://example.com/jobs",
		},
		{
			name: "keeps root slash",
			in:   "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "empty query removed entirely when all params are tracking",
			in:   "https://example.com/jobs?utm_source=a&utm_medium=b",
			want: "https://example.com/jobs",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := urlnorm.Normalize(tc.in)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://Jobs.Example.COM/Openings/?utm_source=x&page=3#top",
		"https://example.com/jobs?a=1&b=2",
		"https://example.com/",
		"not a url at all",
	}
	for _, in := range inputs {
		once := urlnorm.Normalize(in)
		twice := urlnorm.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIsMailto(t *testing.T) {
	if !urlnorm.IsMailto("mailto:hr@example.org") {
		t.Error("expected mailto link to be detected")
	}
	if !urlnorm.IsMailto("  MAILTO:hr@example.org") {
		t.Error("expected case-insensitive match with surrounding whitespace")
	}
	if urlnorm.IsMailto("https://example.com/contact") {
		t.Error("https link should not be mailto")
	}
	if urlnorm.IsMailto("") {
		t.Error("empty href should not be mailto")
	}
}

func TestMailtoAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mailto:hr@example.org", "hr@example.org"},
		{"mailto:hr@example.org?subject=Application", "hr@example.org"},
		{"MAILTO:HR@Example.org", "HR@Example.org"},
		{"https://example.com", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := urlnorm.MailtoAddress(tc.in); got != tc.want {
			t.Errorf("MailtoAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDomain(t *testing.T) {
	if got := urlnorm.Domain("https://Jobs.Example.com:8080/path"); got != "jobs.example.com" {
		t.Errorf("Domain = %q, want jobs.example.com", got)
	}
	if got := urlnorm.Domain("://bad"); got != "" {
		t.Errorf("Domain of malformed URL = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		base string
		href string
		want string
	}{
		{"https://example.com/careers/", "/jobs/42", "https://example.com/jobs/42"},
		{"https://example.com/careers/", "42", "https://example.com/careers/42"},
		{"https://example.com", "https://other.com/x", "https://other.com/x"},
		{"https://example.com", "", ""},
	}
	for _, tc := range cases {
		if got := urlnorm.Resolve(tc.base, tc.href); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.base, tc.href, got, tc.want)
		}
	}
}
