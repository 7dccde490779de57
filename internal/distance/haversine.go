package distance

import (
	"github.com/golang/geo/s2"

	"world-travel-router/internal/models"
)

// EarthRadiusKm is the radius of the sphere distances are measured on
const EarthRadiusKm = 6371.0

// Calculator provides great-circle distances between coordinates
type Calculator interface {
	DistanceKm(origin, dest models.Coordinates) float64
}

type greatCircleCalculator struct{}

// NewGreatCircleCalculator creates a calculator using the haversine formula on a
// sphere of radius EarthRadiusKm
func NewGreatCircleCalculator() Calculator {
	return greatCircleCalculator{}
}

func (greatCircleCalculator) DistanceKm(origin, dest models.Coordinates) float64 {
	return HaversineKm(origin, dest)
}

// HaversineKm returns the great-circle distance in kilometers between two points
// given in degrees. s2.LatLng.Distance computes the haversine central angle.
func HaversineKm(origin, dest models.Coordinates) float64 {
	a := s2.LatLngFromDegrees(origin.Lat, origin.Lng)
	b := s2.LatLngFromDegrees(dest.Lat, dest.Lng)
	return a.Distance(b).Radians() * EarthRadiusKm
}
