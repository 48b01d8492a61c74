package geo

import (
	"math"

	"go-happyhour/models"
)

const (
	// EarthRadiusKm is the mean radius used by DistanceKm.
	EarthRadiusKm = 6371.0
	// MetersPerDegree approximates one degree of arc on the surface.
	MetersPerDegree = 111000.0
)

// DistanceKm returns the haversine great-circle distance between a and b.
func DistanceKm(a, b models.Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// MetersToDegrees converts a ground distance to degrees using MetersPerDegree.
func MetersToDegrees(meters float64) float64 {
	return meters / MetersPerDegree
}

// Clamp keeps latitude inside [-90, 90] and wraps longitude into [-180, 180].
func Clamp(c models.Coordinate) models.Coordinate {
	c.Latitude = math.Max(-90, math.Min(90, c.Latitude))
	if c.Longitude > 180 || c.Longitude < -180 {
		c.Longitude = math.Mod(c.Longitude+540, 360) - 180
	}
	return c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
