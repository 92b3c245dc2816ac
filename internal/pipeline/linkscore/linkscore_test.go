package linkscore_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"jobsift/internal/pipeline/linkscore"
)

const baseURL = "https://example.org/careers"

func TestScoreLinkMailtoIsZero(t *testing.T) {
	score, reason := linkscore.ScoreLink("Apply now", "mailto:hr@example.org", baseURL)
	if score != 0 {
		t.Errorf("mailto score = %v, want 0", score)
	}
	if reason != "mailto" {
		t.Errorf("mailto reason = %q, want mailto", reason)
	}
}

func TestScoreLinkBlocklisted(t *testing.T) {
	cases := []struct {
		anchor string
		href   string
	}{
		{"Privacy Policy", "/privacy"},
		{"About Us", "/about"},
		{"Next", "/careers?page=2"},
		{"2", "/careers?page=2"},
		{"Sign in", "/auth"},
	}
	for _, tc := range cases {
		score, reason := linkscore.ScoreLink(tc.anchor, tc.href, baseURL)
		if score != 0 || reason != "blocklisted" {
			t.Errorf("ScoreLink(%q, %q) = (%v, %q), want (0, blocklisted)", tc.anchor, tc.href, score, reason)
		}
	}
}

func TestScoreLinkExactBlockDoesNotOvermatch(t *testing.T) {
	// "Next" alone is pagination chrome, but a title containing it is not
	score, _ := linkscore.ScoreLink("Next Generation Fellow", "/jobs/1234/next-generation-fellow", baseURL)
	if score <= 0 {
		t.Errorf("job title containing a block word scored %v, want > 0", score)
	}
}

func TestScoreLinkSignals(t *testing.T) {
	strong, strongReason := linkscore.ScoreLink(
		"Senior Software Engineer", "/jobs/8841/senior-software-engineer", baseURL)
	weak, _ := linkscore.ScoreLink("click here", "/page", baseURL)

	if strong <= weak {
		t.Errorf("job detail link (%v) should outscore generic link (%v)", strong, weak)
	}
	for _, want := range []string{"path_keyword", "numeric_id", "role_token", "seniority_token"} {
		if !strings.Contains(strongReason, want) {
			t.Errorf("reason %q missing signal %q", strongReason, want)
		}
	}
}

func TestFilterJobLinks(t *testing.T) {
	html := `<html><body>
		<a href="/jobs/101/program-officer">Program Officer, Education</a>
		<a href="/jobs/102/finance-manager">Finance Manager</a>
		<a href="/about">About Us</a>
		<a href="mailto:hr@example.org">Email us</a>
		<a href="#main">Skip to content</a>
		<a href="javascript:void(0)">Toggle</a>
		<a href="/jobs/101/program-officer?utm_source=board">Program Officer, Education</a>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	links := linkscore.FilterJobLinks(doc, baseURL, 25)

	if len(links) != 2 {
		t.Fatalf("got %d links, want 2 (deduplicated job links only): %+v", len(links), links)
	}
	for _, l := range links {
		if strings.HasPrefix(l.Href, "mailto:") {
			t.Errorf("mailto link leaked into results: %q", l.Href)
		}
		if l.Score <= 0 {
			t.Errorf("non-positive score in results: %+v", l)
		}
		if !strings.HasPrefix(l.Href, "https://example.org/") {
			t.Errorf("href not resolved against base: %q", l.Href)
		}
		if strings.Contains(l.Href, "utm_") {
			t.Errorf("tracking params survived normalization: %q", l.Href)
		}
	}
}

func TestFilterJobLinksSortedAndCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString(`<a href="/jobs/1/weak">Opening</a>`)
	b.WriteString(`<a href="/jobs/2/strong">Senior Programme Manager, Health Systems</a>`)
	b.WriteString(`<a href="/jobs/3/mid">Research Analyst</a>`)
	b.WriteString("</body></html>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	links := linkscore.FilterJobLinks(doc, baseURL, 25)
	for i := 1; i < len(links); i++ {
		if links[i-1].Score < links[i].Score {
			t.Errorf("links not sorted descending: %v before %v", links[i-1].Score, links[i].Score)
		}
	}

	capped := linkscore.FilterJobLinks(doc, baseURL, 2)
	if len(capped) != 2 {
		t.Errorf("maxLinks cap not applied: got %d links", len(capped))
	}
	if len(capped) > 0 && len(links) > 0 && capped[0].Href != links[0].Href {
		t.Error("capping should keep the highest-scored links")
	}
}

func TestFilterJobLinksNilDoc(t *testing.T) {
	if got := linkscore.FilterJobLinks(nil, baseURL, 10); got != nil {
		t.Errorf("nil document should yield nil, got %+v", got)
	}
}

func TestIsBlocklisted(t *testing.T) {
	if !linkscore.IsBlocklisted("  Read   More  ", "/posts/1") {
		t.Error("whitespace-collapsed phrase match failed")
	}
	if linkscore.IsBlocklisted("Grants Officer", "/jobs/1") {
		t.Error("job title wrongly blocklisted")
	}
	if !linkscore.IsBlocklisted("12", "/careers?page=12") {
		t.Error("numeric pagination anchor should be blocklisted")
	}
	if linkscore.IsBlocklisted("12", "/jobs?page=12") {
		t.Error("numeric anchor pointing at a job URL should pass")
	}
}
