package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
	"github.com/asiergaray/detour/internal/core/selection"
	"github.com/asiergaray/detour/internal/pkg/geospatial"
)

// CorridorRequest is a resolved corridor search: the handler has already
// applied configuration defaults for radius and limit.
type CorridorRequest struct {
	Start       string
	End         string
	RadiusKm    float64
	Limit       int
	Categories  []string
	ExcludedIDs []string
}

// CorridorResult is the outcome of a corridor search.
type CorridorResult struct {
	Count            int                       `json:"count"`
	Rows             []domain.ScoredAttraction `json:"rows"`
	StartCoord       domain.GeoPoint           `json:"start_coord"`
	EndCoord         domain.GeoPoint           `json:"end_coord"`
	UniqueCategories []string                  `json:"unique_categories"`
}

// CorridorService finds attractions near the straight segment between two
// resolved endpoints.
type CorridorService struct {
	attractions ports.AttractionRepository
	geocoder    ports.Geocoder
	cache       ports.CacheService
	cacheTTL    int
}

// NewCorridorService creates a new CorridorService. cache may be nil.
func NewCorridorService(attractions ports.AttractionRepository, geocoder ports.Geocoder, cache ports.CacheService, cacheTTLSeconds int) *CorridorService {
	if cacheTTLSeconds <= 0 {
		cacheTTLSeconds = 300
	}
	return &CorridorService{
		attractions: attractions,
		geocoder:    geocoder,
		cache:       cache,
		cacheTTL:    cacheTTLSeconds,
	}
}

// Search geocodes the endpoints, fetches candidates inside the corridor's
// bounding box, filters them by perpendicular distance, and spreads the best
// matches along the route. A zero radius admits only points lying on the
// segment within floating tolerance.
func (s *CorridorService) Search(ctx context.Context, req CorridorRequest) (*CorridorResult, error) {
	if strings.TrimSpace(req.Start) == "" || strings.TrimSpace(req.End) == "" {
		return nil, fmt.Errorf("%w: start and end are required", ErrBadInput)
	}
	if req.RadiusKm < 0 {
		return nil, fmt.Errorf("%w: radius_km must not be negative", ErrBadInput)
	}

	start, err := s.geocoder.Geocode(ctx, req.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrGeocodeFailed, req.Start)
	}
	end, err := s.geocoder.Geocode(ctx, req.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrGeocodeFailed, req.End)
	}

	cacheKey := corridorCacheKey(start, end, req)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var result CorridorResult
			if err := json.Unmarshal(data, &result); err == nil {
				return &result, nil
			}
		}
	}

	bounds := geospatial.BoundingBox(start.Lat, start.Lon, req.RadiusKm).
		Extend(geospatial.BoundingBox(end.Lat, end.Lon, req.RadiusKm))
	candidates, err := s.attractions.FindInBounds(ctx, bounds)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	excluded := make(map[string]struct{}, len(req.ExcludedIDs))
	for _, id := range req.ExcludedIDs {
		excluded[id] = struct{}{}
	}

	var pool []selection.Candidate
	seen := make(map[string]struct{}, len(candidates))
	for i := range candidates {
		a := candidates[i]
		if a.ID != "" {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			if _, skip := excluded[a.ID]; skip {
				continue
			}
			seen[a.ID] = struct{}{}
		}
		coord, ok := a.Coord()
		if !ok {
			continue
		}
		d := geospatial.PointSegmentDistanceKm(coord.Lat, coord.Lon, start.Lat, start.Lon, end.Lat, end.Lon)
		if d > req.RadiusKm {
			continue
		}
		pool = append(pool, selection.Candidate{
			Score:      a.MatchScore(req.Categories),
			T:          geospatial.ProjectionFraction(coord.Lat, coord.Lon, start.Lat, start.Lon, end.Lat, end.Lon),
			DistanceKm: d,
			Attraction: a,
		})
	}

	picked := selection.SpreadAlongRoute(pool, req.Limit)

	result := &CorridorResult{
		Count:      len(picked),
		Rows:       make([]domain.ScoredAttraction, 0, len(picked)),
		StartCoord: start,
		EndCoord:   end,
	}
	categorySet := make(map[string]struct{})
	for _, c := range picked {
		result.Rows = append(result.Rows, domain.ScoredAttraction{
			Attraction: c.Attraction,
			DistanceKm: c.DistanceKm,
			T:          c.T,
			MatchScore: c.Score,
		})
		categorySet[c.Attraction.DerivedCategory()] = struct{}{}
	}
	for cat := range categorySet {
		result.UniqueCategories = append(result.UniqueCategories, cat)
	}
	sort.Strings(result.UniqueCategories)

	if s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return result, nil
}

func corridorCacheKey(start, end domain.GeoPoint, req CorridorRequest) string {
	cats := normalizeTokens(req.Categories)
	excl := make([]string, len(req.ExcludedIDs))
	copy(excl, req.ExcludedIDs)
	sort.Strings(excl)
	return fmt.Sprintf("corridor:%.5f,%.5f:%.5f,%.5f:r=%.2f:l=%d:cats=%s:excl=%s",
		start.Lat, start.Lon, end.Lat, end.Lon,
		req.RadiusKm, req.Limit,
		strings.Join(cats, ","), strings.Join(excl, ","))
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
