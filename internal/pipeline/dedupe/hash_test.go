package dedupe_test

import (
	"testing"

	"jobsift/internal/pipeline/dedupe"
)

func TestCanonicalHashDeterministic(t *testing.T) {
	a := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply/42", "")
	b := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply/42", "")
	if a != b {
		t.Errorf("same inputs produced different hashes: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256 (64 chars), got %d chars", len(a))
	}
}

func TestCanonicalHashURLNormalization(t *testing.T) {
	a := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply/42?utm_source=board", "")
	b := dedupe.CanonicalHash("Senior Engineer", "HTTPS://Example.com/apply/42", "")
	if a != b {
		t.Error("tracking params and host case should not change the hash")
	}
}

func TestCanonicalHashDifferentURLsDiffer(t *testing.T) {
	a := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply/42", "")
	b := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply/43", "")
	if a == b {
		t.Error("different apply URLs should produce different hashes")
	}
}

func TestCanonicalHashEmailFallback(t *testing.T) {
	withEmail := dedupe.CanonicalHash("Senior Engineer", "", "HR@Example.org")
	lowered := dedupe.CanonicalHash("Senior Engineer", "", "hr@example.org")
	if withEmail != lowered {
		t.Error("contact email should be case-insensitive in the hash")
	}

	titleOnly := dedupe.CanonicalHash("Senior Engineer", "", "")
	if withEmail == titleOnly {
		t.Error("email-keyed hash should differ from title-only hash")
	}
}

func TestCanonicalHashURLWinsOverEmail(t *testing.T) {
	urlAndEmail := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply", "hr@example.org")
	urlOnly := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply", "")
	if urlAndEmail != urlOnly {
		t.Error("apply URL should take precedence over contact email")
	}
}

func TestCanonicalHashTrimsTitle(t *testing.T) {
	a := dedupe.CanonicalHash("  Senior Engineer  ", "https://example.com/apply", "")
	b := dedupe.CanonicalHash("Senior Engineer", "https://example.com/apply", "")
	if a != b {
		t.Error("surrounding whitespace in the title should not change the hash")
	}
}
