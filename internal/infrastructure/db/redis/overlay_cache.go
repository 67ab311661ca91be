package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
	"github.com/grical/overlay-service/internal/pkg/metrics"
)

const defaultOverlayTTL = time.Minute

// OverlayCache keeps recently built overlays in Redis.
// Key format: overlay:<viewport key>
type OverlayCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOverlayCache creates an OverlayCache whose entries expire after ttl.
func NewOverlayCache(client *redis.Client, ttl time.Duration) *OverlayCache {
	if ttl <= 0 {
		ttl = defaultOverlayTTL
	}
	return &OverlayCache{client: client, ttl: ttl}
}

// Get returns the overlay stored under key or domain.ErrCacheMiss.
func (c *OverlayCache) Get(ctx context.Context, key string) (*ports.BuildResult, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("overlay cache get: %w", err)
	}

	var res ports.BuildResult
	if err := json.Unmarshal(raw, &res); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("overlay cache decode: %w", err)
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &res, nil
}

// Set stores result under key until the TTL elapses.
func (c *OverlayCache) Set(ctx context.Context, key string, result *ports.BuildResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("overlay cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *OverlayCache) key(viewport string) string {
	return "overlay:" + viewport
}
