package processors_test

import (
	"strings"
	"testing"

	"jobsift/internal/llm/processors"
)

func TestExtractJobContentStripsChrome(t *testing.T) {
	html := `<html><body>
		<nav>Home | Jobs | About | Contact</nav>
		<script>window.dataLayer = [];</script>
		<main>
			<h1>Programme Officer</h1>
			<p>Lead the education portfolio across three country offices, coordinating with partners and donors.</p>
		</main>
		<footer>Copyright Example Relief</footer>
	</body></html>`

	cleaner := processors.NewHTMLCleaner()
	content := cleaner.ExtractJobContent(html)

	if !strings.Contains(content, "Programme Officer") {
		t.Error("main content lost during cleaning")
	}
	if !strings.Contains(content, "education portfolio") {
		t.Error("posting body lost during cleaning")
	}
	if strings.Contains(content, "dataLayer") {
		t.Error("script content survived cleaning")
	}
	if strings.Contains(content, "Copyright") {
		t.Error("footer content survived cleaning")
	}
}

func TestExtractJobContentFallsBackToBody(t *testing.T) {
	html := `<html><body><p>Short page without a recognizable job container.</p></body></html>`

	cleaner := processors.NewHTMLCleaner()
	content := cleaner.ExtractJobContent(html)
	if !strings.Contains(content, "recognizable job container") {
		t.Errorf("body fallback failed, got %q", content)
	}
}

func TestExtractJobContentRemovesNoise(t *testing.T) {
	html := `<html><body><main>
		<p>JavaScript is disabled in your browser.</p>
		<p>Finance Manager position based in Copenhagen, responsible for budgeting, forecasting and statutory reporting.</p>
	</main></body></html>`

	cleaner := processors.NewHTMLCleaner()
	content := cleaner.ExtractJobContent(html)
	if strings.Contains(content, "JavaScript is disabled") {
		t.Error("JS-disabled boilerplate survived cleaning")
	}
	if !strings.Contains(content, "Finance Manager") {
		t.Error("posting text lost while removing noise")
	}
}

func TestEstimateTokens(t *testing.T) {
	cleaner := processors.NewHTMLCleaner()
	if got := cleaner.EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("EstimateTokens = %d, want 100", got)
	}
	if got := cleaner.EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens of empty = %d, want 0", got)
	}
}
