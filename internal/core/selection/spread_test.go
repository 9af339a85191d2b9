package selection

import (
	"fmt"
	"sort"
	"testing"

	"github.com/asiergaray/detour/internal/core/domain"
)

func cand(id string, score int, t float64) Candidate {
	return Candidate{
		Score:      score,
		T:          t,
		Attraction: domain.Attraction{ID: id},
	}
}

func ids(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Attraction.ID
	}
	return out
}

func TestSpreadAlongRoute_LimitCoversAll(t *testing.T) {
	in := []Candidate{
		cand("c", 0, 0.9),
		cand("a", 1, 0.1),
		cand("b", 0, 0.5),
	}

	got := SpreadAlongRoute(in, 10)
	if len(got) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].T < got[i-1].T {
			t.Fatalf("result not sorted by t: %v", ids(got))
		}
	}
	// Every candidate appears exactly once.
	seen := map[string]int{}
	for _, c := range got {
		seen[c.Attraction.ID]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if seen[id] != 1 {
			t.Errorf("candidate %s appears %d times", id, seen[id])
		}
	}
}

func TestSpreadAlongRoute_EmptyAndNonPositiveLimit(t *testing.T) {
	if got := SpreadAlongRoute(nil, 5); len(got) != 0 {
		t.Errorf("empty input: expected empty result, got %d", len(got))
	}
	in := []Candidate{cand("a", 1, 0.5)}
	if got := SpreadAlongRoute(in, 0); len(got) != 0 {
		t.Errorf("limit 0: expected empty result, got %d", len(got))
	}
	if got := SpreadAlongRoute(in, -3); len(got) != 0 {
		t.Errorf("negative limit: expected empty result, got %d", len(got))
	}
}

func TestSpreadAlongRoute_LimitOnePicksHighestScoreNearestMiddle(t *testing.T) {
	in := []Candidate{
		cand("mid-low", 0, 0.5),  // closest to 0.5 but score 0
		cand("edge-high", 1, 0.9),
		cand("near-high", 1, 0.6), // highest score, closest to 0.5
	}

	got := SpreadAlongRoute(in, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Attraction.ID != "near-high" {
		t.Errorf("expected near-high, got %s", got[0].Attraction.ID)
	}
}

func TestSpreadAlongRoute_SpreadsAlongRoute(t *testing.T) {
	var in []Candidate
	for i := 0; i < 10; i++ {
		in = append(in, cand(fmt.Sprintf("p%d", i), 0, float64(i)/9))
	}

	got := SpreadAlongRoute(in, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	// Targets 0, 0.5, 1 → first, middle, last.
	want := []string{"p0", "p4", "p9"}
	gotIDs := ids(got)
	// p4 or p5 both sit 0.056 from 0.5; ties go to input order, so p4.
	for i, w := range want {
		if gotIDs[i] != w {
			t.Errorf("position %d: expected %s, got %s (full: %v)", i, w, gotIDs[i], gotIDs)
		}
	}
}

func TestSpreadAlongRoute_Deterministic(t *testing.T) {
	in := []Candidate{
		cand("a", 1, 0.3),
		cand("b", 1, 0.3), // exact tie with a
		cand("c", 0, 0.7),
	}

	first := ids(SpreadAlongRoute(in, 2))
	for i := 0; i < 5; i++ {
		if got := ids(SpreadAlongRoute(in, 2)); !equal(got, first) {
			t.Fatalf("selection not deterministic: %v vs %v", got, first)
		}
	}
	// Tie between a and b resolves to a (earlier in input).
	sort.Strings(first)
	if first[0] != "a" {
		t.Errorf("tie should resolve to input order, got %v", first)
	}
}

func TestSpreadAlongRoute_DoesNotMutateInput(t *testing.T) {
	in := []Candidate{
		cand("a", 0, 0.9),
		cand("b", 0, 0.1),
	}
	_ = SpreadAlongRoute(in, 1)
	if in[0].Attraction.ID != "a" || in[1].Attraction.ID != "b" {
		t.Error("input slice was reordered")
	}
}

func equal(a, b []string) bool {
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
