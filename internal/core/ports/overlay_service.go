package ports

import (
	"context"

	"github.com/grical/overlay-service/internal/core/domain"
)

// BuildResult is the outcome of building one overlay: the markers that were
// produced and every record that was discarded, both in input order.
type BuildResult struct {
	Overlay   *domain.Overlay        `json:"overlay"`
	Skipped   []domain.SkippedRecord `json:"skipped"`
	FromCache bool                   `json:"-"`
}

// OverlaySource is the capability a map view calls once, when it is created,
// to obtain an overlay for its viewport.
type OverlaySource interface {
	CreateOverlay(ctx context.Context, vp domain.Viewport) (*BuildResult, error)
}

// OverlayService builds event overlays for map clients.
type OverlayService interface {
	OverlaySource
	// BuildFromPayload builds an overlay from an already retrieved event array.
	BuildFromPayload(ctx context.Context, payload []byte) (*BuildResult, error)
}
