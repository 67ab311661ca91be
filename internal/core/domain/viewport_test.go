package domain

import (
	"errors"
	"math"
	"testing"
)

func TestViewport_Validate(t *testing.T) {
	valid := Viewport{West: 13.0, East: 14.0, North: 53.0, South: 52.0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid viewport, got: %v", err)
	}

	cases := map[string]Viewport{
		"west out of range":  {West: -181, East: 14, North: 53, South: 52},
		"north out of range": {West: 13, East: 14, North: 91, South: 52},
		"west after east":    {West: 15, East: 14, North: 53, South: 52},
		"south above north":  {West: 13, East: 14, North: 52, South: 53},
		"negative limit":     {West: 13, East: 14, North: 53, South: 52, Limit: -1},
		"limit too large":    {West: 13, East: 14, North: 53, South: 52, Limit: 51},
	}
	for name, vp := range cases {
		t.Run(name, func(t *testing.T) {
			if err := vp.Validate(); !errors.Is(err, ErrInvalidViewport) {
				t.Errorf("expected ErrInvalidViewport, got: %v", err)
			}
		})
	}
}

func TestViewport_Validate_NonFiniteBounds(t *testing.T) {
	cases := map[string]Viewport{
		"NaN west":      {West: math.NaN(), East: 10, North: 10, South: 0},
		"NaN east":      {West: 0, East: math.NaN(), North: 10, South: 0},
		"NaN north":     {West: 0, East: 10, North: math.NaN(), South: 0},
		"NaN south":     {West: 0, East: 10, North: 10, South: math.NaN()},
		"infinite east": {West: 0, East: math.Inf(1), North: 10, South: 0},
		"infinite west": {West: math.Inf(-1), East: 10, North: 10, South: 0},
	}
	for name, vp := range cases {
		t.Run(name, func(t *testing.T) {
			if err := vp.Validate(); !errors.Is(err, ErrInvalidViewport) {
				t.Errorf("expected ErrInvalidViewport, got: %v", err)
			}
		})
	}
}

func TestViewport_Query(t *testing.T) {
	vp := Viewport{West: 13.25, East: 13.5, North: 52.6, South: -0.5}
	if got := vp.Query(); got != "@13.25,13.5,52.6,-0.5" {
		t.Errorf("unexpected query: %s", got)
	}
}

func TestViewport_NormalizedAndKey(t *testing.T) {
	vp := Viewport{West: 1, East: 2, North: 4, South: 3}.Normalized()
	if vp.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", vp.Limit)
	}
	if got := vp.Key(); got != "@1,2,4,3/50" {
		t.Errorf("unexpected key: %s", got)
	}
}
