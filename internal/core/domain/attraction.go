package domain

import (
	"strings"
	"time"
)

// AttractionTags holds the known optional descriptive fields carried over
// from OpenStreetMap-style source data. Anything the loader does not
// recognise lands in Attraction.Extra instead.
type AttractionTags struct {
	Tourism  string `json:"tourism,omitempty"`
	Leisure  string `json:"leisure,omitempty"`
	Historic string `json:"historic,omitempty"`
	Heritage string `json:"heritage,omitempty"`
	Museum   string `json:"museum,omitempty"`
}

// Attraction represents a point of interest.
type Attraction struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Category   string         `json:"category,omitempty"`
	Location   *GeoPoint      `json:"location,omitempty"`
	WKT        string         `json:"wkt,omitempty"`
	WebsiteURL string         `json:"website_url,omitempty"`
	Tags       AttractionTags `json:"tags,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
	CreatedAt  time.Time      `json:"created_at,omitempty"`
}

// Coord returns the attraction's coordinate, or false when none is known.
func (a *Attraction) Coord() (GeoPoint, bool) {
	if a.Location == nil || !a.Location.Valid() {
		return GeoPoint{}, false
	}
	return *a.Location, true
}

// categoryStrategies derive a display category from the typed tag fields, in
// priority order. The first non-empty answer wins.
var categoryStrategies = []func(a *Attraction) string{
	func(a *Attraction) string { return a.Category },
	func(a *Attraction) string {
		switch a.Tags.Tourism {
		case "museum":
			return "Museum"
		case "theme_park", "amusement_park":
			return "Amusement Park"
		case "zoo", "aquarium":
			return "Zoo & Aquarium"
		case "viewpoint":
			return "Viewpoint"
		case "attraction":
			return "Attraction"
		}
		if a.Tags.Museum != "" {
			return "Museum"
		}
		return ""
	},
	func(a *Attraction) string {
		if a.Tags.Historic != "" || a.Tags.Heritage != "" {
			return "Historical Site"
		}
		return ""
	},
	func(a *Attraction) string {
		switch a.Tags.Leisure {
		case "park", "garden", "nature_reserve":
			return "Park & Garden"
		}
		return ""
	},
}

// DerivedCategory resolves the attraction's category label. The explicit
// category column wins; otherwise the tag heuristics are tried in order and
// "Uncategorized" is the final fallback.
func (a *Attraction) DerivedCategory() string {
	for _, strategy := range categoryStrategies {
		if c := strategy(a); c != "" {
			return c
		}
	}
	return "Uncategorized"
}

// MatchScore reports 1 when the attraction matches any of the requested
// category tokens, 0 otherwise. An empty token list matches everything.
// Policy: case-insensitive exact match on the derived category, with a
// case-insensitive substring match on the name as a secondary signal.
func (a *Attraction) MatchScore(tokens []string) int {
	if len(tokens) == 0 {
		return 1
	}
	category := strings.ToLower(a.DerivedCategory())
	name := strings.ToLower(a.Name)
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if tok == category {
			return 1
		}
		if name != "" && strings.Contains(name, tok) {
			return 1
		}
	}
	return 0
}

// ScoredAttraction is a corridor search result row. It is derived per query
// and never stored.
type ScoredAttraction struct {
	Attraction Attraction `json:"attraction"`
	DistanceKm float64    `json:"distance_km"`
	T          float64    `json:"t"`
	MatchScore int        `json:"match_score"`
}

// CategoryCount pairs a category label with its attraction count and a few
// sample ids, for the top-categories listing.
type CategoryCount struct {
	Category  string   `json:"category"`
	Count     int      `json:"count"`
	SampleIDs []string `json:"sample_ids,omitempty"`
}
