package domain

import "testing"

func TestDerivedCategory(t *testing.T) {
	cases := []struct {
		name string
		a    Attraction
		want string
	}{
		{"explicit column wins", Attraction{Category: "Cathedral", Tags: AttractionTags{Tourism: "museum"}}, "Cathedral"},
		{"tourism museum", Attraction{Tags: AttractionTags{Tourism: "museum"}}, "Museum"},
		{"museum tag without tourism", Attraction{Tags: AttractionTags{Museum: "art"}}, "Museum"},
		{"theme park", Attraction{Tags: AttractionTags{Tourism: "theme_park"}}, "Amusement Park"},
		{"aquarium", Attraction{Tags: AttractionTags{Tourism: "aquarium"}}, "Zoo & Aquarium"},
		{"viewpoint", Attraction{Tags: AttractionTags{Tourism: "viewpoint"}}, "Viewpoint"},
		{"historic beats leisure", Attraction{Tags: AttractionTags{Historic: "castle", Leisure: "park"}}, "Historical Site"},
		{"heritage alone", Attraction{Tags: AttractionTags{Heritage: "2"}}, "Historical Site"},
		{"leisure garden", Attraction{Tags: AttractionTags{Leisure: "garden"}}, "Park & Garden"},
		{"nothing known", Attraction{Tags: AttractionTags{Leisure: "pitch"}}, "Uncategorized"},
		{"empty", Attraction{}, "Uncategorized"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.DerivedCategory(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMatchScore(t *testing.T) {
	museum := Attraction{Name: "Guggenheim Museum Bilbao", Tags: AttractionTags{Tourism: "museum"}}

	if got := museum.MatchScore(nil); got != 1 {
		t.Errorf("empty token list should match everything, got %d", got)
	}
	if got := museum.MatchScore([]string{"museum"}); got != 1 {
		t.Errorf("category match failed, got %d", got)
	}
	if got := museum.MatchScore([]string{"MUSEUM"}); got != 1 {
		t.Errorf("category match should be case-insensitive, got %d", got)
	}
	if got := museum.MatchScore([]string{"guggenheim"}); got != 1 {
		t.Errorf("name substring match failed, got %d", got)
	}
	if got := museum.MatchScore([]string{"viewpoint"}); got != 0 {
		t.Errorf("non-matching token should score 0, got %d", got)
	}
	if got := museum.MatchScore([]string{"", "  "}); got != 0 {
		t.Errorf("blank tokens should not match, got %d", got)
	}
}

func TestCoord(t *testing.T) {
	a := Attraction{Location: &GeoPoint{Lat: 43.26, Lon: -2.93}}
	if _, ok := a.Coord(); !ok {
		t.Error("valid location should resolve")
	}

	none := Attraction{}
	if _, ok := none.Coord(); ok {
		t.Error("missing location should not resolve")
	}

	bad := Attraction{Location: &GeoPoint{Lat: 120, Lon: 0}}
	if _, ok := bad.Coord(); ok {
		t.Error("out-of-range location should not resolve")
	}
}
