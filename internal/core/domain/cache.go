package domain

import (
	"encoding/json"
	"time"
)

// Provenance tags recorded with every cached sequencing result.
const (
	SourceExternal    = "external"
	SourceLocal       = "local-heuristic"
	SourcePlaceholder = "placeholder"
	SourceCached      = "cached"
)

// CacheEntry is a persisted sequencing result. Entries have no TTL; they live
// until an explicit cache clear.
type CacheEntry struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	Source    string          `json:"source"`
	CreatedAt time.Time       `json:"created_at"`
}

// PreparedRequest describes the external-optimizer call that would have been
// made, returned instead of a result when no provider credentials are set.
type PreparedRequest struct {
	URL    string            `json:"url"`
	Params map[string]string `json:"params"`
	Note   string            `json:"note,omitempty"`
}

// SequenceResult is the outcome of a route sequencing request.
type SequenceResult struct {
	Ordered     []Attraction     `json:"ordered,omitempty"`
	Count       int              `json:"count"`
	Source      string           `json:"source"`
	Note        string           `json:"note,omitempty"`
	Placeholder bool             `json:"placeholder,omitempty"`
	Prepared    *PreparedRequest `json:"prepared_request,omitempty"`
}
