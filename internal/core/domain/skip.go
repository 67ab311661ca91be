package domain

import (
	"encoding/json"
	"time"
)

// SkipReason tells why an event record produced no marker.
type SkipReason string

const (
	SkipMalformedRecord SkipReason = "malformed_record"
	SkipMissingField    SkipReason = "missing_field"
	SkipCoordinateShape SkipReason = "invalid_coordinate_shape"
	SkipCoordinateValue SkipReason = "invalid_coordinate_value"
)

// SkipReasons lists every reason in a stable order.
var SkipReasons = []SkipReason{
	SkipMalformedRecord,
	SkipMissingField,
	SkipCoordinateShape,
	SkipCoordinateValue,
}

// SkippedRecord pairs a discarded input record with the reason it was dropped.
type SkippedRecord struct {
	Index   int             `json:"index"`
	Record  json.RawMessage `json:"record"`
	Reason  SkipReason      `json:"reason"`
	Detail  string          `json:"detail"`
	Missing []string        `json:"missing,omitempty"`
}

// SkipAudit is a skipped record as kept in the audit trail.
type SkipAudit struct {
	OverlayID  string     `json:"overlay_id"`
	Source     string     `json:"source"`
	Index      int        `json:"index"`
	Reason     SkipReason `json:"reason"`
	Detail     string     `json:"detail"`
	Missing    []string   `json:"missing,omitempty"`
	Record     string     `json:"record"`
	RecordedAt time.Time  `json:"recorded_at"`
}
