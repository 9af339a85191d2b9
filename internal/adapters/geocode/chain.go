// Package geocode resolves free-text endpoint queries to coordinates. The
// resolvers are arranged as an explicit ordered chain: a literal "lat,lon"
// parser, then Google when a key is configured, then Nominatim.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
)

// Chain tries each resolver in order until one yields a usable point.
type Chain struct {
	resolvers []ports.Geocoder
}

// NewChain creates a chain over the given resolvers. Nil entries are skipped
// so callers can pass optional resolvers unconditionally.
func NewChain(resolvers ...ports.Geocoder) *Chain {
	c := &Chain{}
	for _, r := range resolvers {
		if r != nil {
			c.resolvers = append(c.resolvers, r)
		}
	}
	return c
}

// Geocode resolves a query through the chain. ErrNoMatch from a resolver
// means "not mine, try the next"; any other error stops the chain.
func (c *Chain) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	for _, r := range c.resolvers {
		p, err := r.Geocode(ctx, query)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ports.ErrNoMatch) {
			return domain.GeoPoint{}, err
		}
	}
	return domain.GeoPoint{}, fmt.Errorf("%w: %q", ports.ErrNoMatch, query)
}
