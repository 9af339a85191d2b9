package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
	"github.com/asiergaray/detour/internal/core/sequencer"
)

// SequenceRequest asks for a visiting order over a set of attractions.
// Departure and arrival default to the first and last usable attraction
// coordinates when not given.
type SequenceRequest struct {
	AttractionIDs []string
	Departure     *domain.GeoPoint
	Arrival       *domain.GeoPoint
}

// SequenceService orders attraction stops, preferring the external optimizer
// and falling back to the local heuristic when the stop count exceeds the
// provider's cap. Results are memoized without expiry in the route cache.
type SequenceService struct {
	attractions ports.AttractionRepository
	routeCache  ports.RouteCacheRepository
	optimizer   ports.RouteOptimizer
	events      ports.EventPublisher
}

// NewSequenceService creates a new SequenceService. events may be nil.
func NewSequenceService(attractions ports.AttractionRepository, routeCache ports.RouteCacheRepository, optimizer ports.RouteOptimizer, events ports.EventPublisher) *SequenceService {
	return &SequenceService{
		attractions: attractions,
		routeCache:  routeCache,
		optimizer:   optimizer,
		events:      events,
	}
}

// Sequence resolves the requested ids, deduplicates ids and coordinates, and
// produces an ordered stop list. Identical logical requests share one cache
// key; a cached placeholder is discarded when the stop count has since grown
// past the external provider's cap.
func (s *SequenceService) Sequence(ctx context.Context, req SequenceRequest) (*domain.SequenceResult, error) {
	if len(req.AttractionIDs) == 0 {
		return nil, fmt.Errorf("%w: attraction_ids must not be empty", ErrBadInput)
	}

	ids := dedupeIDs(req.AttractionIDs)
	attractions, err := s.attractions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve attractions: %w", err)
	}
	if len(attractions) == 0 {
		return nil, fmt.Errorf("%w: none of the requested attractions exist", ErrNotFound)
	}

	usable, points := dedupeByCoordinate(attractions)
	if len(usable) == 0 {
		return nil, ErrNoUsableCoordinates
	}

	departure := points[0]
	if req.Departure != nil {
		departure = *req.Departure
	}
	arrival := points[len(points)-1]
	if req.Arrival != nil {
		arrival = *req.Arrival
	}

	overCap := len(points) > s.optimizer.MaxWaypoints()
	key := BuildRouteCacheKey(ids, departure, arrival)

	entry, err := s.routeCache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("route cache get: %w", err)
	}
	if entry != nil {
		var cached domain.SequenceResult
		if err := json.Unmarshal(entry.Payload, &cached); err == nil {
			// A stored placeholder only stands for the external path; once
			// the stop count outgrows the provider's cap the processing path
			// has changed and the entry no longer applies.
			if !cached.Placeholder || !overCap {
				cached.Note = fmt.Sprintf("served from cache (source %s)", entry.Source)
				cached.Source = domain.SourceCached
				return &cached, nil
			}
		}
	}

	result, err := s.compute(ctx, departure, arrival, usable, points, overCap)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	if err := s.routeCache.Set(ctx, &domain.CacheEntry{
		Key:       key,
		Payload:   payload,
		Source:    result.Source,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("route cache set: %w", err)
	}

	if s.events != nil {
		_ = s.events.PublishRouteSequenced(ctx, key, result.Source, result.Count)
	}

	return result, nil
}

func (s *SequenceService) compute(ctx context.Context, departure, arrival domain.GeoPoint, usable []domain.Attraction, points []domain.GeoPoint, overCap bool) (*domain.SequenceResult, error) {
	if overCap {
		tour := sequencer.Sequence(points)
		ordered := make([]domain.Attraction, 0, len(tour))
		for _, idx := range tour {
			ordered = append(ordered, usable[idx])
		}
		return &domain.SequenceResult{
			Ordered: ordered,
			Count:   len(ordered),
			Source:  domain.SourceLocal,
			Note:    fmt.Sprintf("%d stops exceed the provider limit of %d; ordered locally", len(points), s.optimizer.MaxWaypoints()),
		}, nil
	}

	if !s.optimizer.Available() {
		return &domain.SequenceResult{
			Count:       len(usable),
			Source:      domain.SourcePlaceholder,
			Note:        "no provider credentials configured",
			Placeholder: true,
			Prepared:    s.optimizer.PreparedRequest(departure, arrival, points),
		}, nil
	}

	order, err := s.optimizer.Optimize(ctx, departure, arrival, points)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	ordered := make([]domain.Attraction, 0, len(order))
	for _, idx := range order {
		if idx < 0 || idx >= len(usable) {
			return nil, fmt.Errorf("external optimizer: waypoint index %d out of range", idx)
		}
		ordered = append(ordered, usable[idx])
	}
	return &domain.SequenceResult{
		Ordered: ordered,
		Count:   len(ordered),
		Source:  domain.SourceExternal,
	}, nil
}

// ClearRouteCache drops every memoized sequencing result and returns how many
// entries were removed.
func (s *SequenceService) ClearRouteCache(ctx context.Context) (int64, error) {
	removed, err := s.routeCache.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("route cache clear: %w", err)
	}
	if s.events != nil {
		_ = s.events.PublishCacheCleared(ctx, removed)
	}
	return removed, nil
}

// dedupeIDs drops repeated ids, keeping the first occurrence. Empty ids are
// kept as-is: they cannot collide with each other.
func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, id)
	}
	return out
}

// dedupeByCoordinate keeps attractions with a valid coordinate, attributing
// each distinct coordinate to the first attraction observed there.
func dedupeByCoordinate(attractions []domain.Attraction) ([]domain.Attraction, []domain.GeoPoint) {
	usable := make([]domain.Attraction, 0, len(attractions))
	points := make([]domain.GeoPoint, 0, len(attractions))
	seen := make(map[domain.GeoPoint]struct{}, len(attractions))
	for i := range attractions {
		coord, ok := attractions[i].Coord()
		if !ok {
			continue
		}
		if _, dup := seen[coord]; dup {
			continue
		}
		seen[coord] = struct{}{}
		usable = append(usable, attractions[i])
		points = append(points, coord)
	}
	return usable, points
}
