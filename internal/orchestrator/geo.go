package orchestrator

import (
	"strings"

	"jobsift/pkg/models"
)

// countryISO maps lower-cased country names seen in location strings to their
// ISO 3166-1 alpha-2 codes. Deliberately small: it covers the countries that
// appear in practice, and an unmapped country simply stays un-geocoded.
var countryISO = map[string]string{
	"united states":  "US",
	"usa":            "US",
	"united kingdom": "GB",
	"uk":             "GB",
	"canada":         "CA",
	"germany":        "DE",
	"france":         "FR",
	"netherlands":    "NL",
	"switzerland":    "CH",
	"austria":        "AT",
	"belgium":        "BE",
	"spain":          "ES",
	"italy":          "IT",
	"denmark":        "DK",
	"sweden":         "SE",
	"norway":         "NO",
	"ireland":        "IE",
	"australia":      "AU",
	"new zealand":    "NZ",
	"india":          "IN",
	"singapore":      "SG",
	"japan":          "JP",
	"kenya":          "KE",
	"ethiopia":       "ET",
	"south africa":   "ZA",
	"nigeria":        "NG",
	"brazil":         "BR",
	"mexico":         "MX",
}

var remoteMarkers = []string{
	"remote",
	"work from home",
	"anywhere",
	"home-based",
	"home based",
	"telecommute",
}

// enrichGeo fills the record's geo fields from its raw location text. This is
// text-pattern enrichment, not a geocoding service call: it detects remote
// markers and resolves a trailing country name to its ISO code.
func enrichGeo(rec *models.JobRecord) {
	location := strings.ToLower(strings.TrimSpace(rec.LocationRaw))
	title := strings.ToLower(rec.Title)

	for _, marker := range remoteMarkers {
		if strings.Contains(location, marker) || strings.Contains(title, marker) {
			rec.IsRemote = true
			break
		}
	}

	if location == "" {
		return
	}

	// "City, Region, Country" - the country is the last comma segment
	parts := strings.Split(rec.LocationRaw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	last := strings.ToLower(parts[len(parts)-1])
	if iso, ok := countryISO[last]; ok {
		rec.Country = parts[len(parts)-1]
		rec.CountryISO = iso
		if len(parts) > 1 && parts[0] != "" && !isRemoteMarker(parts[0]) {
			rec.City = parts[0]
		}
		return
	}

	// Single-segment location that is not a country name is treated as a city
	if len(parts) == 1 && parts[0] != "" && !rec.IsRemote {
		rec.City = parts[0]
	}
}

func isRemoteMarker(s string) bool {
	ls := strings.ToLower(strings.TrimSpace(s))
	for _, marker := range remoteMarkers {
		if strings.Contains(ls, marker) {
			return true
		}
	}
	return false
}
