package domain

import (
	"time"

	"github.com/google/uuid"
)

// MarkerSet names the two marker icon assets of an overlay.
type MarkerSet struct {
	Default    string `json:"default"    yaml:"default"`
	Individual string `json:"individual" yaml:"individual"`
}

// MarkerItem is a single labelled, positioned, tagged point on an overlay.
type MarkerItem struct {
	Point GeoPoint `json:"point"`
	Label string   `json:"label"`
	Tags  string   `json:"tags"`
}

// Overlay is a named, ordered collection of markers drawn over the base map.
type Overlay struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Markers   MarkerSet    `json:"markers"`
	Items     []MarkerItem `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewOverlay returns an empty overlay drawn with the given markers.
func NewOverlay(name string, markers MarkerSet) *Overlay {
	return &Overlay{
		ID:        uuid.New(),
		Name:      name,
		Markers:   markers,
		Items:     []MarkerItem{},
		CreatedAt: time.Now().UTC(),
	}
}

// AddItem appends item, keeping insertion order.
func (o *Overlay) AddItem(item MarkerItem) {
	o.Items = append(o.Items, item)
}

// Len returns the number of markers on the overlay.
func (o *Overlay) Len() int {
	return len(o.Items)
}
