package ports

import (
	"context"

	"github.com/asiergaray/detour/internal/core/domain"
)

// AttractionRepository persists attractions.
type AttractionRepository interface {
	Upsert(ctx context.Context, attraction *domain.Attraction) error
	UpsertBatch(ctx context.Context, attractions []domain.Attraction) error
	GetByID(ctx context.Context, id string) (*domain.Attraction, error)
	// GetByIDs returns the attractions for the given ids, preserving the
	// input order. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Attraction, error)
	FindInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error)
	List(ctx context.Context, limit, offset int) ([]domain.Attraction, error)
	Count(ctx context.Context) (int, error)
	TopCategories(ctx context.Context, limit int) ([]domain.CategoryCount, error)
	// BackfillCategories fills empty category columns from the tag
	// heuristics and returns the number of rows updated.
	BackfillCategories(ctx context.Context) (int64, error)
}

// RouteCacheRepository persists sequencing results. Entries never expire on
// their own; Clear is the only way out.
type RouteCacheRepository interface {
	// Get returns nil (not an error) when the key is absent.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	// Set fully replaces any existing entry under the same key.
	Set(ctx context.Context, entry *domain.CacheEntry) error
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
}
