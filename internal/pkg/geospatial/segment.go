package geospatial

import "math"

// ToLocalPlane maps a point to planar (x, y) kilometers using an
// equirectangular approximation anchored at an origin point. The
// approximation is good for short-to-medium segments (intra-regional travel);
// accuracy degrades over very long segments and near the poles. That is a
// known modeling limit, not a bug.
func ToLocalPlane(lat, lon, originLat, originLon float64) (x, y float64) {
	latR := toRad(lat)
	lonR := toRad(lon)
	oLatR := toRad(originLat)
	oLonR := toRad(originLon)

	x = (lonR - oLonR) * math.Cos((latR+oLatR)/2) * earthRadiusKm
	y = (latR - oLatR) * earthRadiusKm
	return x, y
}

// PointSegmentDistanceKm returns the planar distance in kilometers from point
// p to the nearest point on the segment a→b, projecting everything onto the
// local plane anchored at a. The projection parameter is clamped to [0,1] so
// distance is to the segment, not the infinite line. A degenerate segment
// (a == b) yields the direct distance to a.
func PointSegmentDistanceKm(pLat, pLon, aLat, aLon, bLat, bLon float64) float64 {
	px, py := ToLocalPlane(pLat, pLon, aLat, aLon)
	ax, ay := ToLocalPlane(aLat, aLon, aLat, aLon)
	bx, by := ToLocalPlane(bLat, bLon, aLat, aLon)

	vx, vy := bx-ax, by-ay
	wx, wy := px-ax, py-ay

	vlen2 := vx*vx + vy*vy
	if vlen2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}

	t := (wx*vx + wy*vy) / vlen2
	t = clamp01(t)

	projX := ax + t*vx
	projY := ay + t*vy
	return math.Hypot(px-projX, py-projY)
}

// ProjectionFraction returns the clamped fraction t in [0,1] of point p's
// projection onto segment a→b: 0 at a, 1 at b. It uses the same local-plane
// projection as PointSegmentDistanceKm so the two stay consistent. A
// degenerate segment yields 0.
func ProjectionFraction(pLat, pLon, aLat, aLon, bLat, bLon float64) float64 {
	px, py := ToLocalPlane(pLat, pLon, aLat, aLon)
	ax, ay := ToLocalPlane(aLat, aLon, aLat, aLon)
	bx, by := ToLocalPlane(bLat, bLon, aLat, aLon)

	vx, vy := bx-ax, by-ay
	wx, wy := px-ax, py-ay

	vlen2 := vx*vx + vy*vy
	if vlen2 == 0 {
		return 0.0
	}
	return clamp01((wx*vx + wy*vy) / vlen2)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
