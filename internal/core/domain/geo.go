package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	wktPointPrefix = "POINT ("
	wktPointSuffix = ")"
)

// GeoPoint represents a geographic point in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lon float64 `json:"lon" bson:"lon"`
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lon)
}

// ParsePoint converts a WKT point string "POINT (lon lat)" into a GeoPoint.
//
// The prefix and suffix are removed literally and the rest is split on a
// single space; trailing empty tokens are dropped. Exactly two tokens must
// remain: the first is the longitude, the second the latitude.
func ParsePoint(wkt string) (GeoPoint, error) {
	tokens := SplitPoint(wkt)
	if len(tokens) != 2 {
		return GeoPoint{}, fmt.Errorf("%w: %q has %d", ErrCoordinateShape, wkt, len(tokens))
	}

	lat, err := parseDegrees(tokens[1])
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: latitude %q", ErrCoordinateValue, tokens[1])
	}
	lon, err := parseDegrees(tokens[0])
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: longitude %q", ErrCoordinateValue, tokens[0])
	}
	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// SplitPoint cleans a WKT point string and returns its coordinate tokens.
func SplitPoint(wkt string) []string {
	clean := strings.ReplaceAll(wkt, wktPointPrefix, "")
	clean = strings.ReplaceAll(clean, wktPointSuffix, "")

	tokens := strings.Split(clean, " ")
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func parseDegrees(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
