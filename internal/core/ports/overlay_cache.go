package ports

import "context"

// OverlayCache stores recently built overlays keyed by viewport.
// Get returns domain.ErrCacheMiss when nothing is stored under key.
type OverlayCache interface {
	Get(ctx context.Context, key string) (*BuildResult, error)
	Set(ctx context.Context, key string, result *BuildResult) error
}
