package ports

import (
	"context"
	"encoding/json"

	"github.com/grical/overlay-service/internal/core/domain"
)

// EventFetcher retrieves the raw event array for a viewport from the
// calendar service. The payload is returned undecoded.
type EventFetcher interface {
	Retrieve(ctx context.Context, vp domain.Viewport) (json.RawMessage, error)
}
