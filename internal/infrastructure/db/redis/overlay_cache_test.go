package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grical/overlay-service/internal/core/domain"
)

func TestOverlayCache_KeyAndDefaultTTL(t *testing.T) {
	c := NewOverlayCache(nil, 0)
	if c.ttl != defaultOverlayTTL {
		t.Errorf("expected default ttl, got %s", c.ttl)
	}
	if got := c.key("@13,14,53,52/50"); got != "overlay:@13,14,53,52/50" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestOverlayCache_UnreachableServerIsNotAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewOverlayCache(client, time.Minute)
	_, err := c.Get(context.Background(), "@13,14,53,52/50")
	if err == nil || errors.Is(err, domain.ErrCacheMiss) {
		t.Fatalf("expected a connection error, got: %v", err)
	}
}
