package usecases

import "errors"

// Sentinel errors surfaced to the HTTP layer for status mapping.
var (
	// ErrBadInput marks validation failures in the request itself.
	ErrBadInput = errors.New("bad input")
	// ErrNotFound marks requests naming ids that resolve to nothing.
	ErrNotFound = errors.New("not found")
	// ErrNoUsableCoordinates marks sequencing requests whose attractions all
	// lack a valid coordinate.
	ErrNoUsableCoordinates = errors.New("no usable coordinates")
	// ErrGeocodeFailed marks endpoints that could not be resolved to a point.
	ErrGeocodeFailed = errors.New("could not resolve location")
	// ErrUpstream marks faults in the external optimization provider.
	ErrUpstream = errors.New("upstream provider error")
)
