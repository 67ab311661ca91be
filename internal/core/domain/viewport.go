package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultLimit is the largest number of events GriCal returns per search.
const DefaultLimit = 50

// Viewport is the visible map area events are requested for.
type Viewport struct {
	West  float64 `json:"west"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
	South float64 `json:"south"`
	Limit int     `json:"limit"`
}

// Validate checks the bounding box and the event limit.
func (v Viewport) Validate() error {
	for _, f := range []float64{v.West, v.East, v.North, v.South} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: bounds must be finite numbers", ErrInvalidViewport)
		}
	}
	switch {
	case v.West < -180 || v.West > 180 || v.East < -180 || v.East > 180:
		return fmt.Errorf("%w: longitude out of range", ErrInvalidViewport)
	case v.North < -90 || v.North > 90 || v.South < -90 || v.South > 90:
		return fmt.Errorf("%w: latitude out of range", ErrInvalidViewport)
	case v.West > v.East:
		return fmt.Errorf("%w: west is greater than east", ErrInvalidViewport)
	case v.South > v.North:
		return fmt.Errorf("%w: south is greater than north", ErrInvalidViewport)
	case v.Limit < 0 || v.Limit > DefaultLimit:
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidViewport, DefaultLimit)
	}
	return nil
}

// Normalized returns v with a zero limit replaced by DefaultLimit.
func (v Viewport) Normalized() Viewport {
	if v.Limit == 0 {
		v.Limit = DefaultLimit
	}
	return v
}

// Query renders the GriCal location query "@west,east,north,south".
func (v Viewport) Query() string {
	return "@" + strings.Join([]string{
		formatDegrees(v.West),
		formatDegrees(v.East),
		formatDegrees(v.North),
		formatDegrees(v.South),
	}, ",")
}

// Key identifies the viewport in caches and audit records.
func (v Viewport) Key() string {
	return v.Query() + "/" + strconv.Itoa(v.Limit)
}

func formatDegrees(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
