package geospatial

import (
	"math"
	"testing"
)

func TestHaversineKm_ZeroForSamePoint(t *testing.T) {
	if d := HaversineKm(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Bilbao to San Sebastián, roughly 80 km as the crow flies.
	d := HaversineKm(43.2630, -2.9350, 43.3183, -1.9812)
	if d < 75 || d > 85 {
		t.Errorf("expected ~80 km, got %f", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	d1 := HaversineKm(40.0, -3.0, 41.5, -0.9)
	d2 := HaversineKm(41.5, -0.9, 40.0, -3.0)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	lat, lon := 43.263, -2.935
	box := BoundingBox(lat, lon, 5)

	if box.MinLat >= lat || box.MaxLat <= lat || box.MinLon >= lon || box.MaxLon <= lon {
		t.Fatalf("box does not surround center: %+v", box)
	}

	// A point 4 km due north must fall inside the box.
	northLat := lat + 4.0/111.32
	if northLat > box.MaxLat {
		t.Errorf("point 4 km north escaped the 5 km box")
	}
}
