package domain

import (
	"bytes"
	"encoding/json"
)

// Text is the value of a single event field. GriCal serialises fields as
// strings; any other JSON value is kept in its literal form. A JSON null
// leaves the enclosing *Text nil.
type Text string

// UnmarshalJSON accepts a string or any other JSON literal.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

// String returns the text, or "" when t is nil.
func (t *Text) String() string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// EventFields is the nested "fields" object of an event record. Every field
// is optional in the source data; presence is enforced by the decoder.
type EventFields struct {
	Coordinates *Text `json:"coordinates" validate:"required"`
	Title       *Text `json:"title"       validate:"required"`
	Upcoming    *Text `json:"upcoming"    validate:"required"`
	Tags        *Text `json:"tags"        validate:"required"`
}

// EventRecord is a single element of the event array returned by GriCal.
type EventRecord struct {
	Fields *EventFields `json:"fields"`
}

// Label is the marker label for the event: title and upcoming date.
func (f *EventFields) Label() string {
	return f.Title.String() + " " + f.Upcoming.String()
}
