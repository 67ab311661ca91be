package service

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

// DefaultOverlayName is the name given to event overlays.
const DefaultOverlayName = "grical-events"

// OverlayBuilder converts event records into a marker overlay. Records that
// cannot become a marker are skipped and reported, never fatal to the batch.
type OverlayBuilder struct {
	decoder *RecordDecoder
	name    string
	markers domain.MarkerSet
	log     zerolog.Logger
}

// NewOverlayBuilder returns a builder drawing overlays with markers.
func NewOverlayBuilder(name string, markers domain.MarkerSet, log zerolog.Logger) *OverlayBuilder {
	if name == "" {
		name = DefaultOverlayName
	}
	return &OverlayBuilder{
		decoder: NewRecordDecoder(),
		name:    name,
		markers: markers,
		log:     log,
	}
}

// BuildPayload splits a JSON array and builds an overlay from its elements.
func (b *OverlayBuilder) BuildPayload(payload []byte) (*ports.BuildResult, error) {
	records, err := b.decoder.SplitPayload(payload)
	if err != nil {
		return nil, err
	}
	return b.Build(records), nil
}

// Build creates one marker per valid record, in input order.
func (b *OverlayBuilder) Build(records []json.RawMessage) *ports.BuildResult {
	overlay := domain.NewOverlay(b.name, b.markers)
	result := &ports.BuildResult{
		Overlay: overlay,
		Skipped: []domain.SkippedRecord{},
	}

	for i, raw := range records {
		item, skip := b.buildItem(i, raw)
		if skip != nil {
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		overlay.AddItem(item)
	}

	b.log.Info().
		Str("overlay_id", overlay.ID.String()).
		Int("records", len(records)).
		Int("markers", overlay.Len()).
		Int("skipped", len(result.Skipped)).
		Msg("overlay built")

	return result
}

func (b *OverlayBuilder) buildItem(index int, raw json.RawMessage) (domain.MarkerItem, *domain.SkippedRecord) {
	fields, derr := b.decoder.Decode(raw)
	if derr != nil {
		if derr.Reason == domain.SkipMissingField {
			b.log.Warn().Int("index", index).Strs("missing", derr.Missing).
				RawJSON("record", raw).Msg("incomplete fields, record skipped")
		} else {
			b.log.Warn().Int("index", index).Str("detail", derr.Detail).
				Msg("malformed record skipped")
		}
		return domain.MarkerItem{}, &domain.SkippedRecord{
			Index:   index,
			Record:  raw,
			Reason:  derr.Reason,
			Detail:  derr.Detail,
			Missing: derr.Missing,
		}
	}

	coord := fields.Coordinates.String()
	b.log.Trace().Int("index", index).Str("coordinates", coord).
		Strs("tokens", domain.SplitPoint(coord)).Msg("cleaned coordinates")

	point, err := domain.ParsePoint(coord)
	if err != nil {
		reason := domain.SkipCoordinateValue
		if errors.Is(err, domain.ErrCoordinateShape) {
			reason = domain.SkipCoordinateShape
		}
		b.log.Warn().Err(err).Int("index", index).RawJSON("record", raw).
			Msg("incomplete coordinates, record skipped")
		return domain.MarkerItem{}, &domain.SkippedRecord{
			Index:  index,
			Record: raw,
			Reason: reason,
			Detail: err.Error(),
		}
	}

	item := domain.MarkerItem{
		Point: point,
		Label: fields.Label(),
		Tags:  fields.Tags.String(),
	}
	b.log.Debug().Int("index", index).Str("label", item.Label).
		Str("point", point.String()).Msg("marker added")
	return item, nil
}
