package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobsift/internal/config"
	"jobsift/internal/logging"
	"jobsift/pkg/models"
)

const (
	seenKeyPrefix     = "jobsift:seen:"
	outcomesListKey   = "jobsift:crawl_outcomes"
	maxStoredOutcomes = 200
)

// RedisCache tracks recently-seen dedupe hashes and recent crawl outcomes.
// Seen-hash entries expire after SeenTTL so delisted jobs eventually get
// re-extracted if they reappear.
type RedisCache struct {
	client *redis.Client
	config *config.Config
	logger logging.Logger
}

// NewRedisCache creates and verifies a Redis connection
func NewRedisCache(ctx context.Context, cfg *config.Config) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	opts.DialTimeout = cfg.Redis.Timeout

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// WasSeen reports whether the dedupe hash was stored within the TTL window.
// Errors degrade to "not seen" so a Redis outage never blocks persistence.
func (rc *RedisCache) WasSeen(ctx context.Context, hash string) bool {
	exists, err := rc.client.Exists(ctx, seenKeyPrefix+hash).Result()
	if err != nil {
		rc.logger.Warn("Redis seen-check failed, treating as unseen", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return exists > 0
}

// MarkSeen records the dedupe hash with the configured TTL
func (rc *RedisCache) MarkSeen(ctx context.Context, hash string) {
	if err := rc.client.Set(ctx, seenKeyPrefix+hash, 1, rc.config.Redis.SeenTTL).Err(); err != nil {
		rc.logger.Warn("Failed to mark hash as seen", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// StoreCrawlOutcome pushes a crawl outcome onto the capped recent-outcomes
// list
func (rc *RedisCache) StoreCrawlOutcome(ctx context.Context, outcome *models.CrawlOutcome) {
	data, err := json.Marshal(outcome)
	if err != nil {
		rc.logger.Warn("Failed to marshal crawl outcome", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	pipe := rc.client.Pipeline()
	pipe.LPush(ctx, outcomesListKey, data)
	pipe.LTrim(ctx, outcomesListKey, 0, maxStoredOutcomes-1)
	if _, err := pipe.Exec(ctx); err != nil {
		rc.logger.Warn("Failed to store crawl outcome", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// RecentCrawlOutcomes returns up to limit recent crawl outcomes, newest first
func (rc *RedisCache) RecentCrawlOutcomes(ctx context.Context, limit int) ([]*models.CrawlOutcome, error) {
	if limit <= 0 || limit > maxStoredOutcomes {
		limit = maxStoredOutcomes
	}

	raw, err := rc.client.LRange(ctx, outcomesListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read crawl outcomes: %w", err)
	}

	outcomes := make([]*models.CrawlOutcome, 0, len(raw))
	for _, item := range raw {
		outcome := &models.CrawlOutcome{}
		if err := json.Unmarshal([]byte(item), outcome); err != nil {
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// Ping verifies Redis connectivity
func (rc *RedisCache) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close releases the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
