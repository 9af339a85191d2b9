package sequencer

import (
	"math/rand"
	"testing"

	"github.com/asiergaray/detour/internal/core/domain"
)

// unitSquare returns the corners of a ~1-degree square in perimeter order.
func unitSquare() []domain.GeoPoint {
	return []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 1, Lon: 1},
		{Lat: 1, Lon: 0},
	}
}

func TestNearestNeighbor_EmptyInput(t *testing.T) {
	tour := NearestNeighbor(nil)
	if len(tour) != 0 {
		t.Errorf("expected empty tour, got %v", tour)
	}
}

func TestNearestNeighbor_SinglePoint(t *testing.T) {
	tour := NearestNeighbor([]domain.GeoPoint{{Lat: 1, Lon: 1}})
	if len(tour) != 1 || tour[0] != 0 {
		t.Errorf("expected [0], got %v", tour)
	}
}

func TestNearestNeighbor_ProducesPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(40)
		points := make([]domain.GeoPoint, n)
		for i := range points {
			points[i] = domain.GeoPoint{
				Lat: 43 + rng.Float64(),
				Lon: -3 + rng.Float64(),
			}
		}

		tour := NearestNeighbor(points)
		if !tour.IsPermutationOf(n) {
			t.Fatalf("trial %d: tour %v is not a permutation of %d points", trial, tour, n)
		}
	}
}

func TestNearestNeighbor_StartsAtZero(t *testing.T) {
	tour := NearestNeighbor(unitSquare())
	if tour[0] != 0 {
		t.Errorf("tour must start at index 0, got %v", tour)
	}
}

func TestTwoOpt_UncrossesSquare(t *testing.T) {
	points := unitSquare()
	crossed := Tour{0, 2, 1, 3}

	got := TwoOpt(crossed, points, DefaultMaxPasses)

	want := Tour{0, 1, 2, 3}
	wantRev := Tour{0, 3, 2, 1}
	if !tourEqual(got, want) && !tourEqual(got, wantRev) {
		t.Errorf("expected perimeter order %v (or reverse), got %v", want, got)
	}
}

func TestTwoOpt_NeverIncreasesLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		n := 5 + rng.Intn(30)
		points := make([]domain.GeoPoint, n)
		for i := range points {
			points[i] = domain.GeoPoint{
				Lat: 40 + rng.Float64()*2,
				Lon: -4 + rng.Float64()*2,
			}
		}

		initial := NearestNeighbor(points)
		before := Length(initial, points)

		improved := TwoOpt(initial, points, DefaultMaxPasses)
		after := Length(improved, points)

		if after > before+1e-9 {
			t.Fatalf("trial %d: 2-opt increased tour length: %f -> %f", trial, before, after)
		}
		if !improved.IsPermutationOf(n) {
			t.Fatalf("trial %d: 2-opt broke the permutation: %v", trial, improved)
		}
	}
}

func TestTwoOpt_FixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	n := 25
	points := make([]domain.GeoPoint, n)
	for i := range points {
		points[i] = domain.GeoPoint{
			Lat: 43 + rng.Float64(),
			Lon: -3 + rng.Float64(),
		}
	}

	once := TwoOpt(NearestNeighbor(points), points, DefaultMaxPasses)
	lenOnce := Length(once, points)

	again := make(Tour, len(once))
	copy(again, once)
	again = TwoOpt(again, points, DefaultMaxPasses)

	if !tourEqual(once, again) {
		t.Errorf("2-opt output is not a fixed point: %v vs %v", once, again)
	}
	if Length(again, points) != lenOnce {
		t.Errorf("second run changed tour length")
	}
}

func TestTwoOpt_TinyToursUntouched(t *testing.T) {
	points := unitSquare()[:3]
	tour := Tour{0, 2, 1}
	got := TwoOpt(tour, points, DefaultMaxPasses)
	if !tourEqual(got, Tour{0, 2, 1}) {
		t.Errorf("tours shorter than 4 must be returned unchanged, got %v", got)
	}
}

func TestSequence_EmptyInput(t *testing.T) {
	if tour := Sequence(nil); len(tour) != 0 {
		t.Errorf("expected empty tour for empty input, got %v", tour)
	}
}

func TestSequence_Permutation(t *testing.T) {
	points := unitSquare()
	tour := Sequence(points)
	if !tour.IsPermutationOf(len(points)) {
		t.Errorf("sequence is not a permutation: %v", tour)
	}
}

func tourEqual(a, b Tour) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
