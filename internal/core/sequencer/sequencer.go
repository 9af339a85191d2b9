// Package sequencer builds a visiting order for a set of points with a
// nearest-neighbor construction pass followed by 2-opt local improvement.
// It is a heuristic: no claim of global optimality is made. It only runs
// when a stop count exceeds what the external optimizer accepts.
package sequencer

import (
	"math"

	"github.com/asiergaray/detour/internal/core/domain"
	"github.com/asiergaray/detour/internal/pkg/geospatial"
)

// Tour is an ordered sequence of indices into the input point list. A valid
// tour is a permutation: every index appears exactly once.
type Tour []int

// IsPermutationOf reports whether the tour visits each of n indices exactly
// once.
func (t Tour) IsPermutationOf(n int) bool {
	if len(t) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range t {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// improvementEps guards against floating-point jitter re-accepting the same
// move forever.
const improvementEps = 1e-6

// DefaultMaxPasses bounds the number of full 2-opt improvement passes.
const DefaultMaxPasses = 1000

// NearestNeighbor builds an initial tour greedily: start at index 0 and
// repeatedly append the nearest unvisited point. O(n²).
func NearestNeighbor(points []domain.GeoPoint) Tour {
	if len(points) == 0 {
		return Tour{}
	}

	n := len(points)
	visited := make([]bool, n)
	tour := make(Tour, 0, n)

	tour = append(tour, 0)
	visited[0] = true

	for len(tour) < n {
		last := points[tour[len(tour)-1]]
		best := -1
		bestDist := math.Inf(1)
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := geospatial.HaversineKm(last.Lat, last.Lon, points[i].Lat, points[i].Lon)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best < 0 {
			break
		}
		tour = append(tour, best)
		visited[best] = true
	}

	return tour
}

// TwoOpt improves a tour with first-improvement 2-opt: for each pair of
// non-adjacent edges it checks whether swapping them shortens the tour, and
// on the first improving move reverses the segment between them and restarts
// the scan. Passes repeat until none improves or maxPasses is hit.
// The input tour is modified in place and returned.
func TwoOpt(tour Tour, points []domain.GeoPoint, maxPasses int) Tour {
	n := len(tour)
	if n < 4 {
		return tour
	}
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	dist := func(i, j int) float64 {
		return geospatial.HaversineKm(points[i].Lat, points[i].Lon, points[j].Lat, points[j].Lon)
	}

	improved := true
	for pass := 0; improved && pass < maxPasses; pass++ {
		improved = false
	scan:
		for a := 0; a < n-2; a++ {
			for b := a + 2; b < n-1; b++ {
				i, j := tour[a], tour[a+1]
				k, l := tour[b], tour[b+1]
				// Current edges i-j and k-l would become i-k and j-l.
				delta := dist(i, k) + dist(j, l) - dist(i, j) - dist(k, l)
				if delta < -improvementEps {
					reverse(tour[a+1 : b+1])
					improved = true
					break scan
				}
			}
		}
	}

	return tour
}

// Sequence builds and locally improves a visiting order for the given
// points. An empty input yields an empty tour, not an error.
func Sequence(points []domain.GeoPoint) Tour {
	tour := NearestNeighbor(points)
	return TwoOpt(tour, points, DefaultMaxPasses)
}

// Length returns the total open-tour length in kilometers.
func Length(tour Tour, points []domain.GeoPoint) float64 {
	var total float64
	for i := 1; i < len(tour); i++ {
		p, q := points[tour[i-1]], points[tour[i]]
		total += geospatial.HaversineKm(p.Lat, p.Lon, q.Lat, q.Lon)
	}
	return total
}

func reverse(seg Tour) {
	for i, j := 0, len(seg)-1; i < j; i, j = i+1, j-1 {
		seg[i], seg[j] = seg[j], seg[i]
	}
}
