// Package cache stores score reports in Redis keyed by a digest of the inputs
// that produced them. Validation is deterministic, so a cached report is
// always identical to a recomputed one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/grant-assist/internal/config"
	"github.com/jonathan/grant-assist/internal/metrics"
	"github.com/jonathan/grant-assist/internal/types"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "grant:report:"

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// ReportCache is a Redis-backed cache of score reports.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps client. A zero ttl stores entries without expiry.
func New(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Key derives the cache key for one validation request.
func Key(template *types.Template, draft *types.Draft, reference string) (string, error) {
	payload, err := json.Marshal(struct {
		Template  *types.Template `json:"template"`
		Draft     *types.Draft    `json:"draft"`
		Reference string          `json:"reference"`
	}{template, draft, reference})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached report for key, or nil, nil on a miss.
func (c *ReportCache) Get(ctx context.Context, key string) (*types.ScoreReport, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report types.ScoreReport
	if err := json.Unmarshal(data, &report); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &report, nil
}

// Put stores report under key.
func (c *ReportCache) Put(ctx context.Context, key string, report *types.ScoreReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Ping tests the Redis connection.
func (c *ReportCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *ReportCache) Close() error {
	return c.client.Close()
}
