package usecases_test

import (
	"context"
	"errors"

	"github.com/asiergaray/detour/internal/core/domain"
)

var errCacheMiss = errors.New("cache miss")

// --- Mock AttractionRepository ---

type mockAttractionRepo struct {
	getByIDFn      func(ctx context.Context, id string) (*domain.Attraction, error)
	getByIDsFn     func(ctx context.Context, ids []string) ([]domain.Attraction, error)
	findInBoundsFn func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error)
	listFn         func(ctx context.Context, limit, offset int) ([]domain.Attraction, error)
	countFn        func(ctx context.Context) (int, error)
	topCatsFn      func(ctx context.Context, limit int) ([]domain.CategoryCount, error)
}

func (m *mockAttractionRepo) Upsert(ctx context.Context, a *domain.Attraction) error      { return nil }
func (m *mockAttractionRepo) UpsertBatch(ctx context.Context, a []domain.Attraction) error { return nil }
func (m *mockAttractionRepo) BackfillCategories(ctx context.Context) (int64, error)        { return 0, nil }

func (m *mockAttractionRepo) GetByID(ctx context.Context, id string) (*domain.Attraction, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAttractionRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Attraction, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockAttractionRepo) FindInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
	if m.findInBoundsFn != nil {
		return m.findInBoundsFn(ctx, bounds)
	}
	return nil, nil
}

func (m *mockAttractionRepo) List(ctx context.Context, limit, offset int) ([]domain.Attraction, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockAttractionRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockAttractionRepo) TopCategories(ctx context.Context, limit int) ([]domain.CategoryCount, error) {
	if m.topCatsFn != nil {
		return m.topCatsFn(ctx, limit)
	}
	return nil, nil
}

// --- Mock RouteCacheRepository ---

type mockRouteCacheRepo struct {
	getFn   func(ctx context.Context, key string) (*domain.CacheEntry, error)
	setFn   func(ctx context.Context, entry *domain.CacheEntry) error
	clearFn func(ctx context.Context) (int64, error)
}

func (m *mockRouteCacheRepo) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockRouteCacheRepo) Set(ctx context.Context, entry *domain.CacheEntry) error {
	if m.setFn != nil {
		return m.setFn(ctx, entry)
	}
	return nil
}

func (m *mockRouteCacheRepo) Clear(ctx context.Context) (int64, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return 0, nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, query string) (domain.GeoPoint, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, query)
	}
	return domain.GeoPoint{}, nil
}

// --- Mock RouteOptimizer ---

type mockOptimizer struct {
	available    bool
	maxWaypoints int
	optimizeFn   func(ctx context.Context, origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) ([]int, error)
}

func (m *mockOptimizer) Available() bool { return m.available }

func (m *mockOptimizer) MaxWaypoints() int {
	if m.maxWaypoints > 0 {
		return m.maxWaypoints
	}
	return 23
}

func (m *mockOptimizer) Optimize(ctx context.Context, origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) ([]int, error) {
	if m.optimizeFn != nil {
		return m.optimizeFn(ctx, origin, destination, waypoints)
	}
	order := make([]int, len(waypoints))
	for i := range order {
		order[i] = i
	}
	return order, nil
}

func (m *mockOptimizer) PreparedRequest(origin, destination domain.GeoPoint, waypoints []domain.GeoPoint) *domain.PreparedRequest {
	return &domain.PreparedRequest{
		URL:    "https://maps.example.com/directions",
		Params: map[string]string{"waypoints": "optimize:true"},
	}
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	sequenced []string
	cleared   []int64
}

func (m *mockPublisher) PublishRouteSequenced(ctx context.Context, key, source string, count int) error {
	m.sequenced = append(m.sequenced, source)
	return nil
}

func (m *mockPublisher) PublishCacheCleared(ctx context.Context, removed int64) error {
	m.cleared = append(m.cleared, removed)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

// --- Mock CacheService ---

type mockCache struct {
	store map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{store: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := m.store[key]; ok {
		return data, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.store[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.store, key)
	return nil
}
