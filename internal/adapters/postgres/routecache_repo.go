package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/asiergaray/detour/internal/core/domain"
)

// RouteCacheRepo implements ports.RouteCacheRepository with pgx. Entries have
// no TTL; they persist until an explicit clear.
type RouteCacheRepo struct {
	db *DB
}

// NewRouteCacheRepo creates a new RouteCacheRepo.
func NewRouteCacheRepo(db *DB) *RouteCacheRepo {
	return &RouteCacheRepo{db: db}
}

// Get returns the entry for a key, or nil when absent.
func (r *RouteCacheRepo) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var e domain.CacheEntry
	err := r.db.Pool.QueryRow(ctx, `
		SELECT key, payload, source, created_at
		FROM route_cache WHERE key = $1
	`, key).Scan(&e.Key, &e.Payload, &e.Source, &e.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Set stores an entry, fully replacing any previous payload under the key.
func (r *RouteCacheRepo) Set(ctx context.Context, entry *domain.CacheEntry) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO route_cache (key, payload, source, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, source = EXCLUDED.source,
		    created_at = EXCLUDED.created_at
	`, entry.Key, entry.Payload, entry.Source, entry.CreatedAt)
	return err
}

// Clear removes every entry and returns how many were removed.
func (r *RouteCacheRepo) Clear(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM route_cache`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
