// Package urlnorm canonicalizes URLs before they become crawl candidates or
// dedupe-hash inputs. Normalize is idempotent and never fails: malformed input
// is returned unchanged.
package urlnorm

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped during normalization. utm_* is
// handled as a prefix match.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"msclkid": true,
	"mc_cid":  true,
	"mc_eid":  true,
	"mkt_tok": true,
	"igshid":  true,
}

func isTrackingParam(key string) bool {
	lk := strings.ToLower(key)
	return strings.HasPrefix(lk, "utm_") || trackingParams[lk]
}

// Normalize canonicalizes a URL: lower-cases scheme and host (path and query
// case preserved), strips tracking query parameters while keeping the rest in
// their original order, drops the fragment, and removes a single trailing
// slash from the path (root "/" is preserved).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		u.RawQuery = stripTracking(u.RawQuery)
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		if u.RawPath != "" {
			u.RawPath = strings.TrimSuffix(u.RawPath, "/")
		}
	}

	return u.String()
}

// stripTracking removes tracking parameters from a raw query string without
// reordering the remaining parameters. url.Values.Encode sorts keys, which
// would break order preservation, so the query is rebuilt segment by segment.
func stripTracking(rawQuery string) string {
	segments := strings.Split(rawQuery, "&")
	kept := segments[:0]
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		key := seg
		if idx := strings.Index(seg, "="); idx >= 0 {
			key = seg[:idx]
		}
		if isTrackingParam(key) {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, "&")
}

// IsMailto reports whether the trimmed href is a mailto link,
// case-insensitively. Empty input returns false.
func IsMailto(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(href), "mailto:")
}

// MailtoAddress extracts the address portion of a mailto href, dropping any
// header parameters ("?subject=..."). Returns "" for non-mailto input.
func MailtoAddress(href string) string {
	href = strings.TrimSpace(href)
	if !IsMailto(href) {
		return ""
	}
	addr := href[len("mailto:"):]
	if idx := strings.Index(addr, "?"); idx >= 0 {
		addr = addr[:idx]
	}
	return strings.TrimSpace(addr)
}

// Domain extracts the lower-cased hostname for rate limiting and grouping.
// Malformed URLs yield "".
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Resolve resolves a possibly-relative href against a base URL. Malformed
// input returns the href unchanged.
func Resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	rel, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(rel).String()
}
