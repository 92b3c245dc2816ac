// Package dedupe computes the stable canonical identity of a job posting
// across crawl runs. The hash is the upsert key downstream: insert when
// absent, update in place when present, never duplicate.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"jobsift/internal/pipeline/urlnorm"
)

// keySeparator keeps the hash input unambiguous when parts are concatenated
const keySeparator = "\x1f"

// CanonicalHash returns a deterministic content hash over the normalized
// identity key (title, apply target). Title normalization here is deliberately
// lighter than display normalization (trim only, case preserved) so the hash
// stays stable across pipeline versions. When no application URL exists
// the contact email is used as the apply target; when neither exists the hash
// degrades to the title alone.
func CanonicalHash(title, applicationURL, contactEmail string) string {
	key := strings.TrimSpace(title)

	switch {
	case strings.TrimSpace(applicationURL) != "":
		key += keySeparator + urlnorm.Normalize(applicationURL)
	case strings.TrimSpace(contactEmail) != "":
		key += keySeparator + strings.ToLower(strings.TrimSpace(contactEmail))
	}

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
