package domain

import "errors"

var ErrMalformedPayload = errors.New("malformed event payload")
var ErrInvalidViewport = errors.New("invalid viewport")
var ErrUpstream = errors.New("event source unavailable")
var ErrCacheMiss = errors.New("overlay cache miss")
var ErrAlreadyCreated = errors.New("map view already created")

// Coordinate errors returned by ParsePoint.
var (
	ErrCoordinateShape = errors.New("coordinate does not split into two tokens")
	ErrCoordinateValue = errors.New("coordinate token is not a finite number")
)
