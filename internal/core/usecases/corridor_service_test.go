package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/core/ports"
	"github.com/asiergaray/detour/internal/core/usecases"
)

func pt(lat, lon float64) *domain.GeoPoint {
	return &domain.GeoPoint{Lat: lat, Lon: lon}
}

// testGeocoder resolves "bilbao" and "donostia" to a west-east segment at
// latitude 43.26 and fails everything else.
func testGeocoder() *mockGeocoder {
	return &mockGeocoder{
		geocodeFn: func(ctx context.Context, query string) (domain.GeoPoint, error) {
			switch query {
			case "bilbao":
				return domain.GeoPoint{Lat: 43.26, Lon: -2.95}, nil
			case "donostia":
				return domain.GeoPoint{Lat: 43.26, Lon: -2.85}, nil
			}
			return domain.GeoPoint{}, ports.ErrNoMatch
		},
	}
}

func TestCorridorService_Search_EmptyEndpoints(t *testing.T) {
	svc := usecases.NewCorridorService(&mockAttractionRepo{}, testGeocoder(), nil, 0)

	_, err := svc.Search(context.Background(), usecases.CorridorRequest{Start: "", End: "donostia", RadiusKm: 5, Limit: 10})
	if !errors.Is(err, usecases.ErrBadInput) {
		t.Errorf("expected ErrBadInput, got %v", err)
	}
}

func TestCorridorService_Search_GeocodeFailure(t *testing.T) {
	svc := usecases.NewCorridorService(&mockAttractionRepo{}, testGeocoder(), nil, 0)

	_, err := svc.Search(context.Background(), usecases.CorridorRequest{Start: "nowhere", End: "donostia", RadiusKm: 5, Limit: 10})
	if !errors.Is(err, usecases.ErrGeocodeFailed) {
		t.Errorf("expected ErrGeocodeFailed, got %v", err)
	}
}

func TestCorridorService_Search_NegativeRadius(t *testing.T) {
	svc := usecases.NewCorridorService(&mockAttractionRepo{}, testGeocoder(), nil, 0)

	_, err := svc.Search(context.Background(), usecases.CorridorRequest{Start: "bilbao", End: "donostia", RadiusKm: -1, Limit: 10})
	if !errors.Is(err, usecases.ErrBadInput) {
		t.Errorf("expected ErrBadInput, got %v", err)
	}
}

func TestCorridorService_Search_FiltersAndSortsByT(t *testing.T) {
	repo := &mockAttractionRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
			return []domain.Attraction{
				{ID: "far", Name: "Far Away", Location: pt(43.36, -2.90)},      // ~11 km off the segment
				{ID: "late", Name: "Near End", Location: pt(43.26, -2.86)},     // t ~0.9
				{ID: "early", Name: "Near Start", Location: pt(43.26, -2.94)},  // t ~0.1
				{ID: "mid", Name: "Midpoint", Location: pt(43.28, -2.90)},      // ~2.2 km off, t ~0.5
				{ID: "nocoord", Name: "No Coordinate"},
			}, nil
		},
	}
	svc := usecases.NewCorridorService(repo, testGeocoder(), nil, 0)

	result, err := svc.Search(context.Background(), usecases.CorridorRequest{
		Start: "bilbao", End: "donostia", RadiusKm: 5, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 3 {
		t.Fatalf("expected 3 rows, got %d", result.Count)
	}
	wantOrder := []string{"early", "mid", "late"}
	for i, w := range wantOrder {
		if result.Rows[i].Attraction.ID != w {
			t.Errorf("row %d: expected %s, got %s", i, w, result.Rows[i].Attraction.ID)
		}
	}
	if result.StartCoord.Lon != -2.95 || result.EndCoord.Lon != -2.85 {
		t.Errorf("endpoint coords not echoed: %+v %+v", result.StartCoord, result.EndCoord)
	}
}

func TestCorridorService_Search_ZeroRadiusAdmitsOnSegmentOnly(t *testing.T) {
	repo := &mockAttractionRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
			return []domain.Attraction{
				{ID: "on", Location: pt(43.26, -2.90)},
				{ID: "off", Location: pt(43.27, -2.90)},
			}, nil
		},
	}
	svc := usecases.NewCorridorService(repo, testGeocoder(), nil, 0)

	result, err := svc.Search(context.Background(), usecases.CorridorRequest{
		Start: "bilbao", End: "donostia", RadiusKm: 0, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 1 || result.Rows[0].Attraction.ID != "on" {
		t.Errorf("expected only the on-segment point, got %+v", result.Rows)
	}
}

func TestCorridorService_Search_ExcludedAndDuplicateIDs(t *testing.T) {
	repo := &mockAttractionRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
			return []domain.Attraction{
				{ID: "a", Location: pt(43.26, -2.94)},
				{ID: "a", Location: pt(43.26, -2.93)}, // duplicate id
				{ID: "b", Location: pt(43.26, -2.92)},
				{ID: "", Location: pt(43.26, -2.91)}, // empty ids are never deduped
				{ID: "", Location: pt(43.26, -2.89)},
			}, nil
		},
	}
	svc := usecases.NewCorridorService(repo, testGeocoder(), nil, 0)

	result, err := svc.Search(context.Background(), usecases.CorridorRequest{
		Start: "bilbao", End: "donostia", RadiusKm: 5, Limit: 10,
		ExcludedIDs: []string{"b"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a (once), two empty-id rows; b excluded.
	if result.Count != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", result.Count, result.Rows)
	}
	for _, row := range result.Rows {
		if row.Attraction.ID == "b" {
			t.Error("excluded id b leaked into the result")
		}
	}
}

func TestCorridorService_Search_LimitOnePrefersScore(t *testing.T) {
	repo := &mockAttractionRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
			return []domain.Attraction{
				{ID: "plain-mid", Name: "Plain", Location: pt(43.26, -2.90)},
				{ID: "museum-late", Name: "Fine Arts", Category: "Museum", Location: pt(43.26, -2.86)},
			}, nil
		},
	}
	svc := usecases.NewCorridorService(repo, testGeocoder(), nil, 0)

	result, err := svc.Search(context.Background(), usecases.CorridorRequest{
		Start: "bilbao", End: "donostia", RadiusKm: 5, Limit: 1,
		Categories: []string{"museum"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 1 || result.Rows[0].Attraction.ID != "museum-late" {
		t.Errorf("expected the matching museum to win, got %+v", result.Rows)
	}
	if result.Rows[0].MatchScore != 1 {
		t.Errorf("expected match score 1, got %d", result.Rows[0].MatchScore)
	}
}

func TestCorridorService_Search_UniqueCategories(t *testing.T) {
	repo := &mockAttractionRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
			return []domain.Attraction{
				{ID: "m1", Category: "Museum", Location: pt(43.26, -2.94)},
				{ID: "m2", Category: "Museum", Location: pt(43.26, -2.92)},
				{ID: "u1", Location: pt(43.26, -2.90)},
			}, nil
		},
	}
	svc := usecases.NewCorridorService(repo, testGeocoder(), nil, 0)

	result, err := svc.Search(context.Background(), usecases.CorridorRequest{
		Start: "bilbao", End: "donostia", RadiusKm: 5, Limit: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Museum", "Uncategorized"}
	if len(result.UniqueCategories) != len(want) {
		t.Fatalf("expected %v, got %v", want, result.UniqueCategories)
	}
	for i := range want {
		if result.UniqueCategories[i] != want[i] {
			t.Errorf("expected %v, got %v", want, result.UniqueCategories)
		}
	}
}

func TestCorridorService_Search_ReadThroughCache(t *testing.T) {
	calls := 0
	repo := &mockAttractionRepo{
		findInBoundsFn: func(ctx context.Context, bounds domain.Bounds) ([]domain.Attraction, error) {
			calls++
			return []domain.Attraction{{ID: "a", Location: pt(43.26, -2.90)}}, nil
		},
	}
	svc := usecases.NewCorridorService(repo, testGeocoder(), newMockCache(), 60)

	req := usecases.CorridorRequest{Start: "bilbao", End: "donostia", RadiusKm: 5, Limit: 10}
	first, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
	if first.Count != second.Count {
		t.Errorf("cached result differs: %d vs %d", first.Count, second.Count)
	}
}
