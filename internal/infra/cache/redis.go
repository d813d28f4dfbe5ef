// Package cache provides Redis-backed caching for the insight engine.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/budgetwise/backend/config"
	"github.com/budgetwise/backend/internal/application/adapter"
	"github.com/budgetwise/backend/internal/domain/entity"
)

// NewClient creates a Redis client from configuration.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	opts.DB = cfg.DB

	return redis.NewClient(opts), nil
}

// InsightCache stores per-user insight results in Redis with a TTL.
type InsightCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInsightCache creates a Redis-backed insight cache.
func NewInsightCache(client *redis.Client, ttl time.Duration) *InsightCache {
	return &InsightCache{
		client: client,
		ttl:    ttl,
	}
}

func insightKey(userID uuid.UUID) string {
	return "insights:" + userID.String()
}

// GetResults returns the cached alerts for a user. A missing key is a plain
// miss, not an error.
func (c *InsightCache) GetResults(ctx context.Context, userID uuid.UUID) ([]entity.RuleResult, bool, error) {
	payload, err := c.client.Get(ctx, insightKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insight cache: %w", err)
	}

	var results []entity.RuleResult
	if err := json.Unmarshal(payload, &results); err != nil {
		// A corrupt entry is treated as a miss so the engine recomputes.
		return nil, false, nil
	}

	return results, true, nil
}

// SetResults stores the alerts for a user.
func (c *InsightCache) SetResults(ctx context.Context, userID uuid.UUID, results []entity.RuleResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal insight results: %w", err)
	}

	if err := c.client.Set(ctx, insightKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write insight cache: %w", err)
	}

	return nil
}

// Invalidate drops the cached alerts for a user.
func (c *InsightCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, insightKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate insight cache: %w", err)
	}
	return nil
}

// Ensure InsightCache implements adapter.InsightCache.
var _ adapter.InsightCache = (*InsightCache)(nil)
