// Package selection chooses an evenly-spread, priority-aware subset of
// corridor candidates.
package selection

import (
	"math"
	"sort"

	"github.com/asiergaray/detour/internal/core/domain"
)

// Candidate is one corridor-filtered attraction with its match score and
// position along the route.
type Candidate struct {
	Score      int
	T          float64
	DistanceKm float64
	Attraction domain.Attraction
}

// SpreadAlongRoute picks up to limit candidates spread evenly along the
// route. For each target fraction i/(limit-1) it takes, from the remaining
// pool, the candidate with the highest score, breaking ties by smallest
// |t - target| and then by input order. When limit covers the whole pool the
// score plays no role and everything is returned. The result is always
// sorted by ascending t.
func SpreadAlongRoute(candidates []Candidate, limit int) []Candidate {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	if limit >= len(candidates) {
		selected := make([]Candidate, len(candidates))
		copy(selected, candidates)
		sortByT(selected)
		return selected
	}

	remaining := make([]Candidate, len(candidates))
	copy(remaining, candidates)

	selected := make([]Candidate, 0, limit)
	for i := 0; i < limit; i++ {
		targetT := 0.5
		if limit > 1 {
			targetT = float64(i) / float64(limit-1)
		}

		bestIdx := -1
		bestDelta := math.Inf(1)
		for idx, cand := range remaining {
			delta := math.Abs(cand.T - targetT)
			if bestIdx < 0 ||
				cand.Score > remaining[bestIdx].Score ||
				(cand.Score == remaining[bestIdx].Score && delta < bestDelta) {
				bestIdx = idx
				bestDelta = delta
			}
		}
		if bestIdx < 0 {
			break
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	sortByT(selected)
	return selected
}

func sortByT(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].T < cands[j].T
	})
}
