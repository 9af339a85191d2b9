package ports

import (
	"context"
	"errors"

	"github.com/asiergaray/detour/internal/core/domain"
)

// ErrNoMatch is returned by geocoders when a query resolves to nothing.
var ErrNoMatch = errors.New("geocode: no match")

// Geocoder resolves a free-text place query to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.GeoPoint, error)
}

// RouteOptimizer orders waypoints between two endpoints via an external
// provider.
type RouteOptimizer interface {
	// Available reports whether the provider is configured with credentials.
	Available() bool
	// MaxWaypoints is the largest intermediate stop count the provider accepts.
	MaxWaypoints() int
	// Optimize returns the visiting order as indices into waypoints.
	Optimize(ctx context.Context, origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) ([]int, error)
	// PreparedRequest describes the call Optimize would make, for when no
	// credentials are configured.
	PreparedRequest(origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) *domain.PreparedRequest
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRouteSequenced(ctx context.Context, key, source string, count int) error
	PublishCacheCleared(ctx context.Context, removed int64) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
