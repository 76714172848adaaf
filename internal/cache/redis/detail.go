package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

const keyPrefix = "catalog:product:"

// DetailCache stores resolved product views in Redis.
type DetailCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewDetailCache creates a Redis-backed product detail cache.
func NewDetailCache(client redis.Cmdable, ttl time.Duration) *DetailCache {
	return &DetailCache{client: client, ttl: ttl}
}

// Get returns the cached view for partID. A miss is (nil, nil).
func (c *DetailCache) Get(ctx context.Context, partID string) (*domain.ProductDetail, error) {
	data, err := c.client.Get(ctx, keyPrefix+partID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get product detail: %w", err)
	}

	var detail domain.ProductDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("unmarshal product detail: %w", err)
	}
	return &detail, nil
}

// Set caches detail for partID with the configured TTL.
func (c *DetailCache) Set(ctx context.Context, partID string, detail *domain.ProductDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal product detail: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+partID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product detail: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (c *DetailCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
