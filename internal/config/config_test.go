package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobsift/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Workers.PoolSize != 10 {
		t.Errorf("default pool size = %d, want 10", cfg.Workers.PoolSize)
	}
	if cfg.Crawler.MaxLinksPerListing != 25 {
		t.Errorf("default max links = %d, want 25", cfg.Crawler.MaxLinksPerListing)
	}
	if cfg.Pipeline.MinClassifierScore != 0.5 {
		t.Errorf("default classifier threshold = %v, want 0.5", cfg.Pipeline.MinClassifierScore)
	}
	if cfg.Pipeline.AIMaxConfidence != 0.85 {
		t.Errorf("default AI confidence cap = %v, want 0.85", cfg.Pipeline.AIMaxConfidence)
	}
	if cfg.Crawler.DefaultSchedule != "@every 6h" {
		t.Errorf("default schedule = %q, want @every 6h", cfg.Crawler.DefaultSchedule)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.LoadConfig("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("missing config file should not fail: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	content := `
server:
  port: 9090
workers:
  pool_size: 4
crawler:
  max_links_per_listing: 10
  detail_concurrency: 2
sources:
  - org_name: "Example Relief"
    careers_url: "https://example.org/careers"
    source_type: "html"
    schedule: "@every 12h"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Workers.PoolSize != 4 {
		t.Errorf("pool size = %d, want 4", cfg.Workers.PoolSize)
	}
	if cfg.Crawler.MaxLinksPerListing != 10 {
		t.Errorf("max links = %d, want 10", cfg.Crawler.MaxLinksPerListing)
	}
	// Untouched keys keep their defaults
	if cfg.Workers.Timeout != 60*time.Second {
		t.Errorf("worker timeout = %v, want default 60s", cfg.Workers.Timeout)
	}
	if len(cfg.Sources) != 1 {
		t.Fatalf("got %d sources, want 1", len(cfg.Sources))
	}
	if cfg.Sources[0].OrgName != "Example Relief" {
		t.Errorf("source org = %q", cfg.Sources[0].OrgName)
	}
	if cfg.Sources[0].Schedule != "@every 12h" {
		t.Errorf("source schedule = %q", cfg.Sources[0].Schedule)
	}
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_JOBSIFT_DSN", "postgres://crawler:secret@db:5432/jobs")

	content := `
postgres:
  dsn: "${TEST_JOBSIFT_DSN}"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Postgres.DSN != "postgres://crawler:secret@db:5432/jobs" {
		t.Errorf("DSN = %q, env var not expanded", cfg.Postgres.DSN)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7001")
	t.Setenv("WORKERS_POOL_SIZE", "3")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("port = %d, want env override 7001", cfg.Server.Port)
	}
	if cfg.Workers.PoolSize != 3 {
		t.Errorf("pool size = %d, want env override 3", cfg.Workers.PoolSize)
	}
	if cfg.Metrics.Enabled {
		t.Error("METRICS_ENABLED=false should disable metrics")
	}
}
