package handler

import (
	"time"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
)

type overlayQuery struct {
	West   float64 `query:"west"   validate:"min=-180,max=180,ltefield=East"`
	East   float64 `query:"east"   validate:"min=-180,max=180"`
	North  float64 `query:"north"  validate:"min=-90,max=90,gtefield=South"`
	South  float64 `query:"south"  validate:"min=-90,max=90"`
	Limit  int     `query:"limit"  validate:"min=0,max=50"`
	Format string  `query:"format" validate:"omitempty,oneof=json geojson"`
}

func (q overlayQuery) viewport() domain.Viewport {
	return domain.Viewport{West: q.West, East: q.East, North: q.North, South: q.South, Limit: q.Limit}
}

type markerItemResponse struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
	Tags  string  `json:"tags"`
}

type skippedResponse struct {
	Index   int      `json:"index"`
	Reason  string   `json:"reason"`
	Detail  string   `json:"detail"`
	Missing []string `json:"missing,omitempty"`
}

type overlayResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Markers   domain.MarkerSet     `json:"markers"`
	CreatedAt string               `json:"created_at"`
	Count     int                  `json:"count"`
	Items     []markerItemResponse `json:"items"`
	Skipped   []skippedResponse    `json:"skipped"`
	Cached    bool                 `json:"cached"`
}

// GeoJSON output: Point geometries carry [lon, lat].
type geoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   geoJSONGeometry   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type geoJSONFeatureCollection struct {
	Type      string           `json:"type"`
	OverlayID string           `json:"overlay_id"`
	Features  []geoJSONFeature `json:"features"`
}

type skipAuditResponse struct {
	OverlayID  string   `json:"overlay_id"`
	Source     string   `json:"source"`
	Index      int      `json:"index"`
	Reason     string   `json:"reason"`
	Detail     string   `json:"detail"`
	Missing    []string `json:"missing,omitempty"`
	Record     string   `json:"record"`
	RecordedAt string   `json:"recorded_at"`
}

type skipListResponse struct {
	Count int                 `json:"count"`
	Items []skipAuditResponse `json:"items"`
}

func toOverlayResponse(res *ports.BuildResult) overlayResponse {
	o := res.Overlay
	items := make([]markerItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, markerItemResponse{Lat: it.Point.Lat, Lon: it.Point.Lon, Label: it.Label, Tags: it.Tags})
	}
	skipped := make([]skippedResponse, 0, len(res.Skipped))
	for _, sk := range res.Skipped {
		skipped = append(skipped, skippedResponse{Index: sk.Index, Reason: string(sk.Reason), Detail: sk.Detail, Missing: sk.Missing})
	}
	return overlayResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Markers:   o.Markers,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		Count:     len(items),
		Items:     items,
		Skipped:   skipped,
		Cached:    res.FromCache,
	}
}

func toGeoJSON(o *domain.Overlay) geoJSONFeatureCollection {
	features := make([]geoJSONFeature, 0, len(o.Items))
	for _, it := range o.Items {
		features = append(features, geoJSONFeature{
			Type:       "Feature",
			Geometry:   geoJSONGeometry{Type: "Point", Coordinates: []float64{it.Point.Lon, it.Point.Lat}},
			Properties: map[string]string{"label": it.Label, "tags": it.Tags},
		})
	}
	return geoJSONFeatureCollection{Type: "FeatureCollection", OverlayID: o.ID.String(), Features: features}
}

func toSkipAuditResponse(a domain.SkipAudit) skipAuditResponse {
	return skipAuditResponse{
		OverlayID:  a.OverlayID,
		Source:     a.Source,
		Index:      a.Index,
		Reason:     string(a.Reason),
		Detail:     a.Detail,
		Missing:    a.Missing,
		Record:     a.Record,
		RecordedAt: a.RecordedAt.Format(time.RFC3339),
	}
}
