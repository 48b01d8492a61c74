package services

import (
	"context"
	"math/rand"
	"slices"
	"sync"

	"go-happyhour/models"
	"go-happyhour/utils/geo"

	"go.uber.org/zap"
)

var nopLogger = zap.NewNop().Sugar()

var bangkok = models.Coordinate{Latitude: 13.75, Longitude: 100.50}

func newTestSynthesizer(seed int64) *PlaceSynthesizer {
	discounts := NewDiscountGenerator(rand.New(rand.NewSource(seed)))
	return NewPlaceSynthesizer(NewRegionCatalog(), discounts, rand.New(rand.NewSource(seed+1)), nopLogger)
}

// zeroSource makes every draw return zero, so discounts are always active.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func testVenue(id, name, category string, lat, lon float64) models.Venue {
	return models.Venue{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Location:    models.VenueLocation{Latitude: lat, Longitude: lon, Address: "1 Test Road"},
		Category:    category,
		Rating:      4.2,
		CurrentDiscount: &models.Discount{
			ID:            "discount_" + id,
			VenueID:       id,
			Title:         "Happy Hour Special",
			PercentageOff: 25,
			ValidFrom:     "16:00",
			ValidTo:       "19:00",
			IsActive:      true,
		},
		IsActive: true,
	}
}

// stubSource returns a fixed batch and records every query. When release is
// set, Nearby signals started and waits for release before answering.
type stubSource struct {
	mu      sync.Mutex
	venues  []models.Venue
	err     error
	calls   []NearbyQuery
	started chan struct{}
	release chan struct{}
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Nearby(_ context.Context, q NearbyQuery) ([]models.Venue, error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	venues, err := slices.Clone(s.venues), s.err
	started, release := s.started, s.release
	s.mu.Unlock()

	if release != nil {
		started <- struct{}{}
		<-release
	}
	return venues, err
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubSource) set(venues []models.Venue, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues, s.err = venues, err
}

func isSortedByDistance(origin models.Coordinate, venues []models.Venue) bool {
	return slices.IsSortedFunc(venues, func(a, b models.Venue) int {
		da := geo.DistanceKm(origin, a.Location.Coordinate())
		db := geo.DistanceKm(origin, b.Location.Coordinate())
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
}
