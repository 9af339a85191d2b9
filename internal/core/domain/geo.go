package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies inside the WGS 84 coordinate range.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Extend grows the box to also cover another box.
func (b Bounds) Extend(other Bounds) Bounds {
	if other.MinLat < b.MinLat {
		b.MinLat = other.MinLat
	}
	if other.MinLon < b.MinLon {
		b.MinLon = other.MinLon
	}
	if other.MaxLat > b.MaxLat {
		b.MaxLat = other.MaxLat
	}
	if other.MaxLon > b.MaxLon {
		b.MaxLon = other.MaxLon
	}
	return b
}
