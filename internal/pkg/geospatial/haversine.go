package geospatial

import (
	"math"

	"github.com/asiergaray/detour/internal/core/domain"
)

const earthRadiusKm = 6371.0

// HaversineKm calculates the great-circle distance in kilometers between two
// points given in degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns a bounding box around a point with the given radius in
// kilometers. Used to pre-filter candidates in SQL before the exact corridor
// check runs in memory.
func BoundingBox(lat, lon, radiusKm float64) domain.Bounds {
	latDelta := radiusKm / 111.32
	lonDelta := radiusKm / (111.32 * math.Cos(toRad(lat)))

	return domain.Bounds{
		MinLat: lat - latDelta,
		MinLon: lon - lonDelta,
		MaxLat: lat + latDelta,
		MaxLon: lon + lonDelta,
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
