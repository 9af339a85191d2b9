package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/asiergaray/detour/internal/core/domain"
)

// AttractionRepo implements ports.AttractionRepository with pgx.
type AttractionRepo struct {
	db *DB
}

// NewAttractionRepo creates a new AttractionRepo.
func NewAttractionRepo(db *DB) *AttractionRepo {
	return &AttractionRepo{db: db}
}

const attractionColumns = `
	id, COALESCE(name, ''), COALESCE(category, ''), lat, lon,
	COALESCE(wkt, ''), COALESCE(website_url, ''),
	COALESCE(tags, '{}'), COALESCE(extra, '{}'), created_at`

func scanAttraction(row pgx.Row) (*domain.Attraction, error) {
	var a domain.Attraction
	var lat, lon *float64
	if err := row.Scan(
		&a.ID, &a.Name, &a.Category, &lat, &lon,
		&a.WKT, &a.WebsiteURL, &a.Tags, &a.Extra, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Location = resolveLocation(lat, lon, a.WKT)
	return &a, nil
}

// resolveLocation prefers the lat/lon columns and falls back to parsing a
// WKT POINT (lon lat) when they are absent.
func resolveLocation(lat, lon *float64, wktText string) *domain.GeoPoint {
	if lat != nil && lon != nil {
		p := domain.GeoPoint{Lat: *lat, Lon: *lon}
		if p.Valid() {
			return &p
		}
	}
	if wktText == "" {
		return nil
	}
	geom, err := wkt.Unmarshal(wktText)
	if err != nil {
		return nil
	}
	point, ok := geom.(orb.Point)
	if !ok {
		return nil
	}
	p := domain.GeoPoint{Lat: point.Lat(), Lon: point.Lon()}
	if !p.Valid() {
		return nil
	}
	return &p
}

// Upsert inserts or updates a single attraction.
func (r *AttractionRepo) Upsert(ctx context.Context, a *domain.Attraction) error {
	var lat, lon *float64
	if a.Location != nil {
		lat, lon = &a.Location.Lat, &a.Location.Lon
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO attractions (id, name, category, lat, lon, wkt, website_url, tags, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category,
		    lat = EXCLUDED.lat, lon = EXCLUDED.lon, wkt = EXCLUDED.wkt,
		    website_url = EXCLUDED.website_url,
		    tags = EXCLUDED.tags, extra = EXCLUDED.extra
	`, a.ID, a.Name, a.Category, lat, lon, a.WKT, a.WebsiteURL, a.Tags, a.Extra)
	return err
}

// UpsertBatch inserts many attractions using pgx.Batch.
func (r *AttractionRepo) UpsertBatch(ctx context.Context, attractions []domain.Attraction) error {
	batch := &pgx.Batch{}
	for i := range attractions {
		a := attractions[i]
		var lat, lon *float64
		if a.Location != nil {
			lat, lon = &a.Location.Lat, &a.Location.Lon
		}
		batch.Queue(`
			INSERT INTO attractions (id, name, category, lat, lon, wkt, website_url, tags, extra)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, category = EXCLUDED.category,
			    lat = EXCLUDED.lat, lon = EXCLUDED.lon, wkt = EXCLUDED.wkt,
			    website_url = EXCLUDED.website_url,
			    tags = EXCLUDED.tags, extra = EXCLUDED.extra
		`, a.ID, a.Name, a.Category, lat, lon, a.WKT, a.WebsiteURL, a.Tags, a.Extra)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range attractions {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns an attraction, or nil when the id is unknown.
func (r *AttractionRepo) GetByID(ctx context.Context, id string) (*domain.Attraction, error) {
	a, err := scanAttraction(r.db.Pool.QueryRow(ctx,
		`SELECT `+attractionColumns+` FROM attractions WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// GetByIDs returns the attractions for the given ids, preserving the input
// order. Unknown ids are skipped.
func (r *AttractionRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Attraction, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+attractionColumns+` FROM attractions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Attraction, len(ids))
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		byID[a.ID] = *a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Attraction, 0, len(byID))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// FindInBounds returns attractions inside a bounding box. The lat/lon columns
// drive the index scan; rows carrying only WKT are fetched too and checked
// after parsing.
func (r *AttractionRepo) FindInBounds(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+attractionColumns+`
		FROM attractions
		WHERE (lat BETWEEN $1 AND $2 AND lon BETWEEN $3 AND $4)
		   OR (lat IS NULL AND COALESCE(wkt, '') <> '')
	`, bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attraction
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		if a.Location != nil {
			p := *a.Location
			if p.Lat < bounds.MinLat || p.Lat > bounds.MaxLat ||
				p.Lon < bounds.MinLon || p.Lon > bounds.MaxLon {
				continue
			}
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// List returns a stable page of attractions.
func (r *AttractionRepo) List(ctx context.Context, limit, offset int) ([]domain.Attraction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+attractionColumns+` FROM attractions ORDER BY name, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attraction
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Count returns the total number of attractions, for pagination metadata.
func (r *AttractionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM attractions`).Scan(&n)
	return n, err
}

// TopCategories groups by the category column. Rows with no category yet
// (BackfillCategories has not visited them) count as Uncategorized.
func (r *AttractionRepo) TopCategories(ctx context.Context, limit int) ([]domain.CategoryCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'Uncategorized') AS cat,
		       COUNT(*) AS n,
		       (array_agg(id ORDER BY id))[1:5] AS samples
		FROM attractions
		GROUP BY cat
		ORDER BY n DESC, cat
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count, &c.SampleIDs); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BackfillCategories fills empty category columns from the tag heuristics.
// The derivation lives in the domain so it stays in one place; rows are
// updated in batches and the number of changed rows is returned.
func (r *AttractionRepo) BackfillCategories(ctx context.Context) (int64, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+attractionColumns+`
		FROM attractions
		WHERE COALESCE(category, '') = ''
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type update struct {
		id       string
		category string
	}
	var updates []update
	for rows.Next() {
		a, err := scanAttraction(rows)
		if err != nil {
			return 0, err
		}
		if cat := a.DerivedCategory(); cat != "Uncategorized" {
			updates = append(updates, update{id: a.ID, category: cat})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE attractions SET category = $1 WHERE id = $2`, u.category, u.id)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	var changed int64
	for range updates {
		tag, err := br.Exec()
		if err != nil {
			return changed, fmt.Errorf("batch exec: %w", err)
		}
		changed += tag.RowsAffected()
	}
	return changed, nil
}
