package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/grical/overlay-service/internal/core/domain"
)

// Built-in marker assets, used when no markers file is configured.
const (
	DefaultMarker    = "marker_red.png"
	IndividualMarker = "marker_green.png"
)

// MarkersFile is the YAML layout of the markers file:
//
//	overlay: grical-events
//	markers:
//	  default: marker_red.png
//	  individual: marker_green.png
type MarkersFile struct {
	Overlay string           `yaml:"overlay"`
	Markers domain.MarkerSet `yaml:"markers"`
}

// DefaultMarkers returns the built-in marker set.
func DefaultMarkers() MarkersFile {
	return MarkersFile{
		Markers: domain.MarkerSet{Default: DefaultMarker, Individual: IndividualMarker},
	}
}

// LoadMarkers reads the markers file at path. An empty path yields the
// built-in markers; missing entries in the file fall back to them too.
func LoadMarkers(path string) (MarkersFile, error) {
	mf := DefaultMarkers()
	if path == "" {
		return mf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return MarkersFile{}, fmt.Errorf("config: read markers file: %w", err)
	}

	var file MarkersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return MarkersFile{}, fmt.Errorf("config: parse markers file %s: %w", path, err)
	}
	if file.Overlay != "" {
		mf.Overlay = file.Overlay
	}
	if file.Markers.Default != "" {
		mf.Markers.Default = file.Markers.Default
	}
	if file.Markers.Individual != "" {
		mf.Markers.Individual = file.Markers.Individual
	}
	if mf.Markers.Default == mf.Markers.Individual {
		return MarkersFile{}, errors.New("config: default and individual markers must differ")
	}
	return mf, nil
}
