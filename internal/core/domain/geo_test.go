package domain

import (
	"errors"
	"testing"
)

func TestParsePoint_Valid(t *testing.T) {
	p, err := ParsePoint("POINT (13.4 52.5)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 52.5 || p.Lon != 13.4 {
		t.Errorf("expected lat=52.5 lon=13.4, got %+v", p)
	}
}

func TestParsePoint_Negative(t *testing.T) {
	p, err := ParsePoint("POINT (-99.1332 19.4326)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 19.4326 || p.Lon != -99.1332 {
		t.Errorf("unexpected point: %+v", p)
	}
}

func TestParsePoint_TrailingSpaceIgnored(t *testing.T) {
	p, err := ParsePoint("POINT (13.4 52.5 )")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 52.5 || p.Lon != 13.4 {
		t.Errorf("unexpected point: %+v", p)
	}
}

func TestParsePoint_Shape(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"prefix only":     "POINT ()",
		"one token":       "POINT (13.4)",
		"three tokens":    "POINT (13.4 52.5 9.0)",
		"double space":    "POINT (13.4  52.5)",
		"leading space":   "POINT ( 13.4 52.5)",
		"comma separated": "POINT (13.4,52.5)",
	}
	for name, wkt := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePoint(wkt)
			if !errors.Is(err, ErrCoordinateShape) {
				t.Errorf("expected ErrCoordinateShape for %q, got: %v", wkt, err)
			}
		})
	}
}

func TestParsePoint_Value(t *testing.T) {
	cases := map[string]string{
		"letters":      "POINT (abc 52.5)",
		"bad latitude": "POINT (13.4 north)",
		"nan":          "POINT (NaN 52.5)",
		"infinity":     "POINT (13.4 Inf)",
	}
	for name, wkt := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePoint(wkt)
			if !errors.Is(err, ErrCoordinateValue) {
				t.Errorf("expected ErrCoordinateValue for %q, got: %v", wkt, err)
			}
		})
	}
}

func TestParsePoint_WithoutPrefix(t *testing.T) {
	// The cleaning step only strips the literal prefix; bare pairs still parse.
	p, err := ParsePoint("13.4 52.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 52.5 || p.Lon != 13.4 {
		t.Errorf("unexpected point: %+v", p)
	}
}
