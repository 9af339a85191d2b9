package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/asiergaray/detour/internal/adapters/postgres"
	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/pkg/config"
)

const batchSize = 500

func main() {
	cfg, err := config.Load("detour-ingest")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	path := "attractions.geojson"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}
	log.Printf("read %d features from %s", len(fc.Features), path)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), int(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAttractionRepo(db)

	var (
		batch   []domain.Attraction
		total   int
		skipped int
	)
	for i, f := range fc.Features {
		a, ok := featureToAttraction(f, i)
		if !ok {
			skipped++
			continue
		}
		batch = append(batch, a)

		if len(batch) >= batchSize {
			if err := repo.UpsertBatch(ctx, batch); err != nil {
				log.Fatalf("upsert batch: %v", err)
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := repo.UpsertBatch(ctx, batch); err != nil {
			log.Fatalf("upsert batch: %v", err)
		}
		total += len(batch)
	}

	log.Printf("ingestion complete: %d stored, %d skipped", total, skipped)
}

// featureToAttraction flattens a GeoJSON feature: the geometry is stored as
// WKT with its centroid as the representative coordinate, the known tags go
// into typed fields, and everything else lands in Extra.
func featureToAttraction(f *geojson.Feature, idx int) (domain.Attraction, bool) {
	if f.Geometry == nil {
		return domain.Attraction{}, false
	}

	centroid, _ := planar.CentroidArea(f.Geometry)
	loc := domain.GeoPoint{Lat: centroid.Lat(), Lon: centroid.Lon()}

	a := domain.Attraction{
		ID:  featureID(f, idx),
		WKT: wkt.MarshalString(f.Geometry),
	}
	if loc.Valid() {
		a.Location = &loc
	}

	extra := make(map[string]any)
	for k, v := range f.Properties {
		s, _ := v.(string)
		switch k {
		case "name":
			a.Name = s
		case "website", "website_url", "contact:website":
			if a.WebsiteURL == "" {
				a.WebsiteURL = s
			}
		case "tourism":
			a.Tags.Tourism = s
		case "leisure":
			a.Tags.Leisure = s
		case "historic":
			a.Tags.Historic = s
		case "heritage":
			a.Tags.Heritage = s
		case "museum":
			a.Tags.Museum = s
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		a.Extra = extra
	}
	a.Category = a.DerivedCategory()
	if a.Category == "Uncategorized" {
		a.Category = ""
	}

	return a, true
}

// featureID prefers the feature's own id, then an OSM-style @id property, and
// falls back to a positional id so re-runs stay idempotent for the same file.
func featureID(f *geojson.Feature, idx int) string {
	if f.ID != nil {
		return strings.TrimSpace(fmt.Sprint(f.ID))
	}
	if v, ok := f.Properties["@id"]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fmt.Sprintf("feature/%d", idx)
}
