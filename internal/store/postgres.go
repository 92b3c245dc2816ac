package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobsift/internal/config"
	"jobsift/internal/logging"
	"jobsift/pkg/models"
)

// schema holds the job_records table. dedupe_hash is the upsert key: a second
// extraction of the same job updates in place, never duplicates.
const schema = `
CREATE TABLE IF NOT EXISTS job_records (
	dedupe_hash         TEXT PRIMARY KEY,
	title               TEXT NOT NULL,
	apply_url           TEXT NOT NULL DEFAULT '',
	contact_email       TEXT NOT NULL DEFAULT '',
	location_raw        TEXT NOT NULL DEFAULT '',
	deadline            TEXT NOT NULL DEFAULT '',
	posted_on           TEXT NOT NULL DEFAULT '',
	org_name            TEXT NOT NULL DEFAULT '',
	description_snippet TEXT NOT NULL DEFAULT '',
	requirements        TEXT NOT NULL DEFAULT '',
	source_url          TEXT NOT NULL,
	pipeline_version    TEXT NOT NULL,
	extracted_at        TIMESTAMPTZ NOT NULL,
	country             TEXT NOT NULL DEFAULT '',
	country_iso         TEXT NOT NULL DEFAULT '',
	city                TEXT NOT NULL DEFAULT '',
	latitude            DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude           DOUBLE PRECISION NOT NULL DEFAULT 0,
	is_remote           BOOLEAN NOT NULL DEFAULT FALSE,
	quality_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
	quality_grade       TEXT NOT NULL DEFAULT '',
	quality_factors     JSONB NOT NULL DEFAULT '{}',
	quality_issues      JSONB NOT NULL DEFAULT '[]',
	needs_review        BOOLEAN NOT NULL DEFAULT FALSE,
	first_seen_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_job_records_org ON job_records (org_name);
CREATE INDEX IF NOT EXISTS idx_job_records_review ON job_records (needs_review) WHERE needs_review;
`

// PostgresStore persists job records via a pgx connection pool
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewPostgresStore creates and verifies a pgx pool, then ensures the schema
// exists
func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
	poolCfg.ConnConfig.ConnectTimeout = cfg.Postgres.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// UpsertJob inserts a record or updates it in place when the dedupe hash
// already exists. Returns true when a new row was inserted.
func (s *PostgresStore) UpsertJob(ctx context.Context, rec *models.JobRecord) (bool, error) {
	factors, err := json.Marshal(orEmptyMap(rec.QualityFactors))
	if err != nil {
		return false, fmt.Errorf("failed to marshal quality factors: %w", err)
	}
	issues, err := json.Marshal(orEmptySlice(rec.QualityIssues))
	if err != nil {
		return false, fmt.Errorf("failed to marshal quality issues: %w", err)
	}

	var inserted bool
	err = s.pool.QueryRow(ctx, `
		INSERT INTO job_records (
			dedupe_hash, title, apply_url, contact_email, location_raw,
			deadline, posted_on, org_name, description_snippet, requirements,
			source_url, pipeline_version, extracted_at,
			country, country_iso, city, latitude, longitude, is_remote,
			quality_score, quality_grade, quality_factors, quality_issues, needs_review
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24
		)
		ON CONFLICT (dedupe_hash) DO UPDATE SET
			title = EXCLUDED.title,
			apply_url = EXCLUDED.apply_url,
			contact_email = EXCLUDED.contact_email,
			location_raw = EXCLUDED.location_raw,
			deadline = EXCLUDED.deadline,
			posted_on = EXCLUDED.posted_on,
			org_name = EXCLUDED.org_name,
			description_snippet = EXCLUDED.description_snippet,
			requirements = EXCLUDED.requirements,
			source_url = EXCLUDED.source_url,
			pipeline_version = EXCLUDED.pipeline_version,
			extracted_at = EXCLUDED.extracted_at,
			country = EXCLUDED.country,
			country_iso = EXCLUDED.country_iso,
			city = EXCLUDED.city,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			is_remote = EXCLUDED.is_remote,
			quality_score = EXCLUDED.quality_score,
			quality_grade = EXCLUDED.quality_grade,
			quality_factors = EXCLUDED.quality_factors,
			quality_issues = EXCLUDED.quality_issues,
			needs_review = EXCLUDED.needs_review,
			updated_at = now()
		RETURNING (xmax = 0)`,
		rec.DedupeHash, rec.Title, rec.ApplyURL, rec.ContactEmail, rec.LocationRaw,
		rec.Deadline, rec.PostedOn, rec.OrgName, rec.DescriptionSnippet, rec.Requirements,
		rec.SourceURL, rec.PipelineVersion, rec.ExtractedAt,
		rec.Country, rec.CountryISO, rec.City, rec.Latitude, rec.Longitude, rec.IsRemote,
		rec.QualityScore, string(rec.QualityGrade), factors, issues, rec.NeedsReview,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert job record: %w", err)
	}

	return inserted, nil
}

// GetByHash fetches a record by its dedupe hash. Returns (nil, nil) when no
// record exists.
func (s *PostgresStore) GetByHash(ctx context.Context, hash string) (*models.JobRecord, error) {
	rec := &models.JobRecord{}
	var grade string
	var factors, issues []byte
	var extractedAt time.Time

	err := s.pool.QueryRow(ctx, `
		SELECT dedupe_hash, title, apply_url, contact_email, location_raw,
			deadline, posted_on, org_name, description_snippet, requirements,
			source_url, pipeline_version, extracted_at,
			country, country_iso, city, latitude, longitude, is_remote,
			quality_score, quality_grade, quality_factors, quality_issues, needs_review
		FROM job_records WHERE dedupe_hash = $1`, hash,
	).Scan(
		&rec.DedupeHash, &rec.Title, &rec.ApplyURL, &rec.ContactEmail, &rec.LocationRaw,
		&rec.Deadline, &rec.PostedOn, &rec.OrgName, &rec.DescriptionSnippet, &rec.Requirements,
		&rec.SourceURL, &rec.PipelineVersion, &extractedAt,
		&rec.Country, &rec.CountryISO, &rec.City, &rec.Latitude, &rec.Longitude, &rec.IsRemote,
		&rec.QualityScore, &grade, &factors, &issues, &rec.NeedsReview,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job record: %w", err)
	}

	rec.ExtractedAt = extractedAt
	rec.QualityGrade = models.QualityGrade(grade)
	if err := json.Unmarshal(factors, &rec.QualityFactors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quality factors: %w", err)
	}
	if err := json.Unmarshal(issues, &rec.QualityIssues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quality issues: %w", err)
	}

	return rec, nil
}

// CountByOrg returns the number of stored records for an organization
func (s *PostgresStore) CountByOrg(ctx context.Context, orgName string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM job_records WHERE org_name = $1`, orgName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records for %s: %w", orgName, err)
	}
	return count, nil
}

// Ping verifies database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func orEmptyMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
