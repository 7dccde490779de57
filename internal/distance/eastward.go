package distance

import (
	"math"

	"world-travel-router/internal/models"
)

// Quadrant identifies which quarter of the globe a longitude falls in
type Quadrant int

const (
	QuadrantEastNear Quadrant = iota // [0, 90)
	QuadrantEastFar                  // [90, 180]
	QuadrantWestFar                  // (-180, -90)
	QuadrantWestNear                 // [-90, 0)
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantEastNear:
		return "east-near"
	case QuadrantEastFar:
		return "east-far"
	case QuadrantWestFar:
		return "west-far"
	default:
		return "west-near"
	}
}

// NormalizeLongitude maps any longitude into (-180, 180]
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon <= -180 {
		lon += 360
	} else if lon > 180 {
		lon -= 360
	}
	return lon
}

// QuadrantOf returns the quadrant of a longitude after normalization.
// Cardinal longitudes belong to the quadrant they open: 0 and 90 go east, -90 goes
// to the near-west quadrant, and -180 normalizes to 180.
func QuadrantOf(lon float64) Quadrant {
	lon = NormalizeLongitude(lon)
	switch {
	case lon >= 0 && lon < 90:
		return QuadrantEastNear
	case lon >= 90:
		return QuadrantEastFar
	case lon < -90:
		return QuadrantWestFar
	default:
		return QuadrantWestNear
	}
}

// IsEastward reports whether to lies on the half-world arc east of from.
//
// The eastward offset is wrapped into (-180, 180] and must be strictly between 0
// and 180: a city on the same meridian or on the antimeridian is never eastward.
// Cardinal longitudes (0, ±90, ±180) get no special treatment, so the result is
// defined for every input and at most one of IsEastward(a, b) and IsEastward(b, a)
// holds.
func IsEastward(from, to models.Coordinates) bool {
	d := NormalizeLongitude(to.Lng - from.Lng)
	return d > 0 && d < 180
}
