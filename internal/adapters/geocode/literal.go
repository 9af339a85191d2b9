package geocode

import (
	"context"
	"strconv"
	"strings"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
)

// Literal resolves queries already written as "lat,lon". It never performs
// network calls, so it always sits first in the chain.
type Literal struct{}

// NewLiteral creates a new Literal resolver.
func NewLiteral() *Literal {
	return &Literal{}
}

// Geocode parses "lat,lon". Anything else, including out-of-range
// coordinates, yields ErrNoMatch so the chain moves on.
func (l *Literal) Geocode(_ context.Context, query string) (domain.GeoPoint, error) {
	parts := strings.Split(query, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.GeoPoint{}, ports.ErrNoMatch
	}
	return p, nil
}
