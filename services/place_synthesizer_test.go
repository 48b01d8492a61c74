package services

import (
	"context"
	"math"
	"strings"
	"testing"

	"go-happyhour/models"
	"go-happyhour/utils/geo"
)

func TestSynthesizeInvariants(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		venues := newTestSynthesizer(seed).Synthesize(bangkok, 5000, "")
		if len(venues) >= minBatch+batchSpread {
			t.Fatalf("seed %d: %d venues, want fewer than %d", seed, len(venues), minBatch+batchSpread)
		}
		for _, v := range venues {
			if v.CurrentDiscount == nil || !v.CurrentDiscount.IsActive {
				t.Fatalf("seed %d: venue %s kept an inactive discount", seed, v.ID)
			}
			if v.Rating < 3.8 || v.Rating > 5.0 {
				t.Fatalf("seed %d: rating %f out of range", seed, v.Rating)
			}
			if !strings.HasPrefix(v.ID, "place_") || v.CurrentDiscount.VenueID != v.ID {
				t.Fatalf("seed %d: ids %q/%q", seed, v.ID, v.CurrentDiscount.VenueID)
			}
			if v.Name == "" || v.Description == "" || v.Image == "" || v.Location.Address == "" {
				t.Fatalf("seed %d: incomplete venue %+v", seed, v)
			}
			if strings.Contains(v.Description, "{") {
				t.Fatalf("seed %d: unreplaced placeholder in %q", seed, v.Description)
			}
		}
		if !isSortedByDistance(bangkok, venues) {
			t.Fatalf("seed %d: venues not sorted by distance", seed)
		}
	}
}

func TestSynthesizeBangkokCafes(t *testing.T) {
	limit := 5.0 * math.Sqrt2
	for seed := int64(1); seed <= 20; seed++ {
		venues := newTestSynthesizer(seed).Synthesize(models.Coordinate{Latitude: 13.75, Longitude: 100.50}, 5000, models.CategoryCafe)
		if len(venues) > 20 {
			t.Fatalf("seed %d: %d venues", seed, len(venues))
		}
		for _, v := range venues {
			if v.Category != models.CategoryCafe {
				t.Fatalf("seed %d: category %q", seed, v.Category)
			}
			if d := geo.DistanceKm(bangkok, v.Location.Coordinate()); d > limit {
				t.Fatalf("seed %d: venue %.3f km away, limit %.3f", seed, d, limit)
			}
		}
	}
}

func TestSynthesizeRadiusContainment(t *testing.T) {
	origins := []models.Coordinate{
		bangkok,
		{Latitude: 0, Longitude: 0},
		{Latitude: 51.5, Longitude: -0.12},
		{Latitude: -33.87, Longitude: 151.21},
	}
	for _, radius := range []float64{500, 5000, 20000} {
		// 1 degree is taken as 111 km, slightly short of the haversine
		// value, so allow one percent.
		limit := radius / 1000 * math.Sqrt2 * 1.01
		for _, origin := range origins {
			venues := newTestSynthesizer(int64(radius)).Synthesize(origin, radius, "")
			for _, v := range venues {
				if d := geo.DistanceKm(origin, v.Location.Coordinate()); d > limit {
					t.Fatalf("origin %v radius %.0f: venue %.3f km away", origin, radius, d)
				}
			}
		}
	}
}

func TestSynthesizeDefaultRadius(t *testing.T) {
	venues := newTestSynthesizer(3).Synthesize(bangkok, 0, "")
	limit := DefaultRadiusMeters / 1000 * math.Sqrt2
	for _, v := range venues {
		if d := geo.DistanceKm(bangkok, v.Location.Coordinate()); d > limit {
			t.Fatalf("venue %.3f km away with the default radius", d)
		}
	}
}

func TestSynthesizeCategoryEquivalence(t *testing.T) {
	for _, category := range []string{models.CategorySpaWellness, models.CategoryMassageParlour, models.CategoryBarRestaurant} {
		venues := newTestSynthesizer(11).Synthesize(bangkok, 5000, category)
		for _, v := range venues {
			if !models.CategoryMatches(category, v.Category) {
				t.Fatalf("filter %q returned %q", category, v.Category)
			}
		}
	}
}

func TestSynthesizeAllMeansUnfiltered(t *testing.T) {
	seen := map[string]bool{}
	for seed := int64(1); seed <= 10; seed++ {
		for _, v := range newTestSynthesizer(seed).Synthesize(bangkok, 5000, models.CategoryAll) {
			seen[v.Category] = true
		}
	}
	for _, c := range synthesizedCategories {
		if !seen[c] {
			t.Errorf("category %q never drawn", c)
		}
	}
}

func TestSynthesizePattayaAddress(t *testing.T) {
	origin := models.Coordinate{Latitude: 12.93, Longitude: 100.88}
	venues := newTestSynthesizer(5).Synthesize(origin, 1000, "")
	if len(venues) == 0 {
		t.Fatal("expected venues")
	}
	for _, v := range venues {
		addr := v.Location.Address
		if !strings.Contains(addr, ", Bang Lamung District, Chonburi ") || !strings.HasSuffix(addr, ", Thailand") {
			t.Fatalf("address %q is not in the Pattaya format", addr)
		}
	}
}

func TestSynthesizeGenericAddress(t *testing.T) {
	london := newTestSynthesizer(6).Synthesize(models.Coordinate{Latitude: 51.5, Longitude: -0.12}, 1000, "")
	for _, v := range london {
		if !strings.HasSuffix(v.Location.Address, ", London, UK") {
			t.Fatalf("address %q", v.Location.Address)
		}
	}

	nowhere := newTestSynthesizer(6).Synthesize(models.Coordinate{Latitude: 0, Longitude: -140}, 1000, "")
	for _, v := range nowhere {
		if !strings.HasSuffix(v.Location.Address, ", Downtown") || strings.Contains(v.Location.Address, "Unknown") {
			t.Fatalf("address %q", v.Location.Address)
		}
	}
}

func TestSynthesizeNearPoleStaysValid(t *testing.T) {
	origin := models.Coordinate{Latitude: 89.99, Longitude: 179.99}
	for _, v := range newTestSynthesizer(9).Synthesize(origin, 50000, "") {
		if err := v.Location.Coordinate().Validate(); err != nil {
			t.Fatalf("generated invalid coordinate: %v", err)
		}
	}
}

func TestSynthesizeReplay(t *testing.T) {
	a := newTestSynthesizer(21).Synthesize(bangkok, 5000, "")
	b := newTestSynthesizer(21).Synthesize(bangkok, 5000, "")
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name || a[i].Location != b[i].Location {
			t.Fatalf("venue %d differs", i)
		}
	}
}

func TestSynthesizeConsecutiveCalls(t *testing.T) {
	s := newTestSynthesizer(8)
	first := s.Synthesize(bangkok, 5000, "")
	second := s.Synthesize(bangkok, 5000, "")
	for _, batch := range [][]models.Venue{first, second} {
		for _, v := range batch {
			if !v.CurrentDiscount.IsActive {
				t.Fatalf("venue %s has an inactive discount", v.ID)
			}
		}
		if !isSortedByDistance(bangkok, batch) {
			t.Fatal("batch not sorted by distance")
		}
	}
	if len(first) > 0 && len(second) > 0 && first[0].ID == second[0].ID {
		t.Fatal("consecutive calls reused venue ids")
	}
}

func TestPlaceSynthesizerIsAPlaceSource(t *testing.T) {
	var source PlaceSource = newTestSynthesizer(1)
	if source.Name() != "synthetic" {
		t.Fatalf("Name = %q", source.Name())
	}
	venues, err := source.Nearby(context.Background(), NearbyQuery{Origin: bangkok, RadiusMeters: 2000, Category: models.CategoryCafe})
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	for _, v := range venues {
		if v.Category != models.CategoryCafe {
			t.Fatalf("category %q", v.Category)
		}
	}
}
