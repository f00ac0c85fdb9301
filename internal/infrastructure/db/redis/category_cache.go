package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/essentialtimes/newsroom/internal/api/metrics"
	"github.com/essentialtimes/newsroom/internal/core/domain"
)

const (
	generationKey      = "categories:generation"
	defaultCategoryTTL = 10 * time.Minute
)

// categoryKey is where the list for one generation lives.
func categoryKey(generation int64) string {
	return fmt.Sprintf("categories:all:%d", generation)
}

// CategoryCache keeps the ordered category list in Redis as a single JSON
// value per generation. Invalidate bumps the generation counter, so a list
// written under an older generation is never read again and expires on its TTL.
//
// Key format: categories:generation, categories:all:<generation>
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache wraps the given Redis client. A non-positive ttl falls back
// to defaultCategoryTTL.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = defaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the list cached for the current generation. hit is false on a
// miss; the generation is still reported so the caller can fill it.
func (c *CategoryCache) Get(ctx context.Context) ([]domain.Category, int64, bool, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CategoryCacheTotal.WithLabelValues("error").Inc()
		return nil, 0, false, fmt.Errorf("category cache generation: %w", err)
	}

	raw, err := c.client.Get(ctx, categoryKey(generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CategoryCacheTotal.WithLabelValues("miss").Inc()
		return nil, generation, false, nil
	}
	if err != nil {
		metrics.CategoryCacheTotal.WithLabelValues("error").Inc()
		return nil, 0, false, fmt.Errorf("category cache get: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		metrics.CategoryCacheTotal.WithLabelValues("error").Inc()
		return nil, 0, false, fmt.Errorf("category cache decode: %w", err)
	}
	metrics.CategoryCacheTotal.WithLabelValues("hit").Inc()
	return categories, generation, true, nil
}

func (c *CategoryCache) Set(ctx context.Context, generation int64, categories []domain.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	return c.client.Set(ctx, categoryKey(generation), raw, c.ttl).Err()
}

func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}
