package mapview

import (
	"context"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

// PayloadSource draws an event array that was retrieved beforehand, such as
// a saved GriCal search result. The viewport is ignored.
type PayloadSource struct {
	payload []byte
	service ports.OverlayService
}

func NewPayloadSource(payload []byte, service ports.OverlayService) *PayloadSource {
	return &PayloadSource{payload: payload, service: service}
}

func (s *PayloadSource) CreateOverlay(ctx context.Context, _ domain.Viewport) (*ports.BuildResult, error) {
	return s.service.BuildFromPayload(ctx, s.payload)
}
