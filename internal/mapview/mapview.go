// Package mapview is the host map component. A MapView owns a viewport and
// the overlays drawn on it; a Viewer fills the view from OverlaySources once,
// when the view is created.
package mapview

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

// MapView holds the overlays of a single map for its whole lifetime.
type MapView struct {
	viewport domain.Viewport
	overlays []*domain.Overlay
}

// New returns an empty map view showing vp.
func New(vp domain.Viewport) *MapView {
	return &MapView{viewport: vp}
}

func (m *MapView) Viewport() domain.Viewport {
	return m.viewport
}

// Overlays returns the overlays in the order they were added.
func (m *MapView) Overlays() []*domain.Overlay {
	return m.overlays
}

// AddOverlay appends o on top of the existing overlays.
func (m *MapView) AddOverlay(o *domain.Overlay) {
	m.overlays = append(m.overlays, o)
}

// Viewer composes overlay sources into a map view.
type Viewer struct {
	view    *MapView
	sources []ports.OverlaySource
	created bool
	log     zerolog.Logger
}

// NewViewer returns a Viewer that will draw sources onto view, in order.
func NewViewer(view *MapView, log zerolog.Logger, sources ...ports.OverlaySource) *Viewer {
	return &Viewer{view: view, sources: sources, log: log}
}

// View returns the map view being filled.
func (v *Viewer) View() *MapView {
	return v.view
}

// Create asks every source for its overlay and adds the results to the map
// view. It runs once; later calls return domain.ErrAlreadyCreated. A failing
// source is logged and skipped so the remaining sources are still drawn.
// The skipped records of every source are returned in source order.
func (v *Viewer) Create(ctx context.Context) ([]domain.SkippedRecord, error) {
	if v.created {
		return nil, domain.ErrAlreadyCreated
	}
	v.created = true

	var skipped []domain.SkippedRecord
	vp := v.view.Viewport()
	for i, src := range v.sources {
		res, err := src.CreateOverlay(ctx, vp)
		if err != nil {
			v.log.Error().Err(err).Int("source", i).Str("viewport", vp.Query()).
				Msg("overlay source failed")
			continue
		}
		v.view.AddOverlay(res.Overlay)
		skipped = append(skipped, res.Skipped...)
	}

	v.log.Info().Int("overlays", len(v.view.Overlays())).Int("skipped", len(skipped)).
		Msg("map view created")
	return skipped, nil
}
