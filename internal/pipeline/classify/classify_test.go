package classify_test

import (
	"testing"

	"jobsift/internal/pipeline/classify"
)

const jobPostingHTML = `<html>
<head><title>Senior Programme Officer - Example Careers</title></head>
<body>
	<div class="job-description">
		<h1>Senior Programme Officer</h1>
		<p>This position is based in Nairobi. Duty station: Nairobi, Kenya.</p>
		<h2>Responsibilities</h2>
		<p>Lead the regional programme portfolio.</p>
		<h2>Qualifications</h2>
		<p>Advanced degree and seven years of experience.</p>
		<p>Closing date: 30 September 2026. See below for how to apply.</p>
		<a href="/jobs/1234/apply">Apply Now</a>
	</div>
</body>
</html>`

const loginHTML = `<html>
<head><title>Sign in - Example Careers Portal</title></head>
<body>
	<h1>Log in to your account</h1>
	<form method="post">
		<input type="email" name="email">
		<input type="password" name="password">
		<button type="submit">Sign in</button>
	</form>
	<a href="/forgot">Forgot password?</a>
</body>
</html>`

func TestClassifyJobPosting(t *testing.T) {
	isJob, score := classify.Classify(jobPostingHTML, "https://example.org/jobs/1234/senior-programme-officer")
	if !isJob {
		t.Errorf("job posting classified as non-job, score %v", score)
	}
	if score < 0.5 {
		t.Errorf("job posting score = %v, want >= 0.5", score)
	}
}

func TestClassifyLoginPage(t *testing.T) {
	isJob, score := classify.Classify(loginHTML, "https://example.org/login")
	if isJob {
		t.Errorf("login page classified as job, score %v", score)
	}
	if score >= 0.5 {
		t.Errorf("login page score = %v, want < 0.5", score)
	}
}

func TestClassifyScoreBounds(t *testing.T) {
	inputs := []struct {
		html string
		url  string
	}{
		{jobPostingHTML, "https://example.org/jobs/1234"},
		{loginHTML, "https://example.org/login"},
		{"", ""},
		{"<html><body></body></html>", "https://example.org/about"},
		{"not html at all", "https://example.org/careers"},
	}
	for _, in := range inputs {
		_, score := classify.Classify(in.html, in.url)
		if score < 0 || score > 1 {
			t.Errorf("Classify(%q) score %v outside [0,1]", in.url, score)
		}
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	isJob, score := classify.Classify("", "")
	if isJob {
		t.Error("empty input should not classify as a job")
	}
	if score != 0 {
		t.Errorf("empty input score = %v, want 0", score)
	}
}

func TestClassifyStructuredDataBoost(t *testing.T) {
	plain := `<html><body><p>An opening at our organization. Apply.</p></body></html>`
	withLD := `<html><body><p>An opening at our organization. Apply.</p>
		<script type="application/ld+json">{"@type":"JobPosting","title":"Engineer"}</script>
	</body></html>`

	_, plainScore := classify.Classify(plain, "https://example.org/page")
	_, ldScore := classify.Classify(withLD, "https://example.org/page")
	if ldScore <= plainScore {
		t.Errorf("JobPosting structured data should raise the score: %v vs %v", ldScore, plainScore)
	}
}
