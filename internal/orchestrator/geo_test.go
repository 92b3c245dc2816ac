package orchestrator

import (
	"testing"

	"jobsift/pkg/models"
)

func TestEnrichGeoCountryResolution(t *testing.T) {
	cases := []struct {
		name     string
		location string
		wantISO  string
		wantCity string
	}{
		{"city and country", "Nairobi, Kenya", "KE", "Nairobi"},
		{"city region country", "Geneva, Geneva, Switzerland", "CH", "Geneva"},
		{"country only", "Germany", "DE", ""},
		{"unknown country", "Port Vila, Vanuatu", "", ""},
		{"city only", "Springfield", "", "Springfield"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &models.JobRecord{Title: "Officer", LocationRaw: tc.location}
			enrichGeo(rec)
			if rec.CountryISO != tc.wantISO {
				t.Errorf("CountryISO = %q, want %q", rec.CountryISO, tc.wantISO)
			}
			if rec.City != tc.wantCity {
				t.Errorf("City = %q, want %q", rec.City, tc.wantCity)
			}
		})
	}
}

func TestEnrichGeoRemoteDetection(t *testing.T) {
	rec := &models.JobRecord{Title: "Data Analyst", LocationRaw: "Remote"}
	enrichGeo(rec)
	if !rec.IsRemote {
		t.Error("location 'Remote' should set the remote flag")
	}
	if rec.City != "" {
		t.Errorf("remote marker treated as a city: %q", rec.City)
	}

	rec = &models.JobRecord{Title: "Software Engineer (Remote)", LocationRaw: ""}
	enrichGeo(rec)
	if !rec.IsRemote {
		t.Error("remote marker in the title should set the remote flag")
	}

	rec = &models.JobRecord{Title: "Officer", LocationRaw: "Remote, United Kingdom"}
	enrichGeo(rec)
	if !rec.IsRemote {
		t.Error("remote-with-country should set the remote flag")
	}
	if rec.CountryISO != "GB" {
		t.Errorf("remote-with-country CountryISO = %q, want GB", rec.CountryISO)
	}
	if rec.City != "" {
		t.Errorf("remote marker treated as a city: %q", rec.City)
	}
}

func TestEnrichGeoEmptyLocation(t *testing.T) {
	rec := &models.JobRecord{Title: "Officer"}
	enrichGeo(rec)
	if rec.IsRemote || rec.City != "" || rec.CountryISO != "" {
		t.Errorf("empty location enriched unexpectedly: %+v", rec)
	}
}
