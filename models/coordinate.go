package models

import (
	"fmt"
	"math"
	"time"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"longitude"`
}

// Validate checks that both components are finite and inside the WGS84 ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) || math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("coordinate is not finite: lat=%f, lon=%f", c.Latitude, c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("invalid coordinates: lat=%f, lon=%f", c.Latitude, c.Longitude)
	}
	return nil
}

// LocationFix is a single resolved location reading. A fix is never mutated;
// the next acquisition replaces it.
type LocationFix struct {
	Coordinate
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	AcquiredAt time.Time `json:"acquired_at"`
}
