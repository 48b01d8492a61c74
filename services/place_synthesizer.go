package services

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"

	"go-happyhour/models"
	"go-happyhour/utils/geo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultRadiusMeters applies when a query leaves the radius at zero.
	DefaultRadiusMeters = 5000.0

	minBatch         = 12
	batchSpread      = 8 // batch size is uniform in [minBatch, minBatch+batchSpread)
	venueActiveRate  = 0.95
	minRating        = 3.8
	ratingSpread     = 1.2
	defaultCityLabel = "Downtown"
)

// Categories drawn when a query does not ask for one.
var synthesizedCategories = []string{
	models.CategoryRestaurant,
	models.CategoryBarRestaurant,
	models.CategoryCafe,
	models.CategorySpaWellness,
}

var descriptionTemplates = map[string][]string{
	models.CategoryRestaurant: {
		"Exceptional dining experience featuring {cuisine} cuisine with fresh, high-quality ingredients",
		"Award-winning restaurant showcasing the best of {place} culinary traditions",
		"Contemporary dining with innovative dishes and locally-sourced ingredients",
		"Fine dining establishment offering an unforgettable gastronomic journey",
	},
	models.CategoryBarRestaurant: {
		"Sophisticated bar and restaurant with craft cocktails and gourmet dining",
		"Vibrant atmosphere perfect for drinks and dining with friends",
		"Premium cocktail lounge with exceptional food and city views",
		"Trendy spot combining innovative mixology with delicious cuisine",
	},
	models.CategoryCafe: {
		"Artisanal coffee roasted daily with fresh pastries and light meals",
		"Cozy neighborhood cafe perfect for work or relaxation",
		"Specialty coffee house with locally-sourced beans and homemade treats",
		"Popular local spot for premium coffee and healthy breakfast options",
	},
	models.CategorySpaWellness: {
		"Luxurious spa offering rejuvenating treatments and wellness services",
		"Tranquil wellness center with professional therapists and premium amenities",
		"Full-service spa combining traditional techniques with modern facilities",
		"Peaceful retreat for relaxation and therapeutic treatments",
	},
	models.CategoryMassageParlour: {
		"Professional massage therapy center with certified therapists",
		"Therapeutic massage studio specializing in wellness and relaxation",
		"Expert massage services in a clean, professional environment",
		"Healing touch massage center with various treatment options",
	},
	models.CategoryStreetFood: {
		"Authentic local street food with traditional recipes and fresh ingredients",
		"Popular food stall known for delicious, affordable local specialties",
		"Local favorite serving traditional dishes with modern presentation",
		"Vibrant food experience showcasing regional flavors and culture",
	},
}

const pexels = "https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg"

var imagePools = map[string][]int{
	models.CategoryRestaurant:     {1640777, 958545, 262978, 1581384},
	models.CategoryBarRestaurant:  {1581384, 274192, 1267320, 941861},
	models.CategoryCafe:           {302899, 1307698, 1833586, 1002543},
	models.CategorySpaWellness:    {3757942, 3865711, 3865674, 3865678},
	models.CategoryMassageParlour: {3865676, 3865675, 3865677, 3865679},
	models.CategoryStreetFood:     {1267320, 1640777, 958545, 1199957},
}

var (
	streetNumbers       = []int{123, 456, 789, 101, 234, 567, 890, 321, 654, 987}
	pattayaSubDistricts = []string{
		"Bang Lamung", "Nong Prue", "Huai Yai", "Pong", "Takhian Tia",
		"Central Pattaya", "North Pattaya", "South Pattaya", "Jomtien", "Naklua",
	}
	pattayaPostalCodes = []string{"20150", "20260", "20250"}
)

// NearbyQuery is what a PlaceSource needs to answer a nearby search.
type NearbyQuery struct {
	Origin       models.Coordinate
	RadiusMeters float64
	Category     string
}

// PlaceSource is a provider of venues around a point. Implementations drop
// venues whose discount is inactive; inactive venues may still be returned
// and are filtered by PlacesService.
type PlaceSource interface {
	Name() string
	Nearby(ctx context.Context, q NearbyQuery) ([]models.Venue, error)
}

// PlaceSynthesizer generates plausible mock venues for the region around a
// coordinate. It stands in for a real places backend.
type PlaceSynthesizer struct {
	catalog   *RegionCatalog
	discounts *DiscountGenerator
	logger    *zap.SugaredLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPlaceSynthesizer(catalog *RegionCatalog, discounts *DiscountGenerator, rnd *rand.Rand, logger *zap.SugaredLogger) *PlaceSynthesizer {
	return &PlaceSynthesizer{
		catalog:   catalog,
		discounts: discounts,
		rnd:       rnd,
		logger:    logger,
	}
}

func (s *PlaceSynthesizer) Name() string { return "synthetic" }

func (s *PlaceSynthesizer) Nearby(_ context.Context, q NearbyQuery) ([]models.Venue, error) {
	return s.Synthesize(q.Origin, q.RadiusMeters, q.Category), nil
}

// Synthesize returns between zero and minBatch+batchSpread-1 venues scattered
// around origin, sorted by distance. Draws whose discount is inactive are
// discarded.
//
// Offsets are drawn per axis from a centered uniform distribution, so points
// fill a square of half-side radius rather than a disk; every venue lies
// within radius*sqrt(2) of origin.
func (s *PlaceSynthesizer) Synthesize(origin models.Coordinate, radiusMeters float64, category string) []models.Venue {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if category == models.CategoryAll {
		category = ""
	}

	region := s.catalog.Lookup(origin)
	radiusDeg := geo.MetersToDegrees(radiusMeters)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := minBatch + s.rnd.Intn(batchSpread)
	venues := make([]models.Venue, 0, n)
	for i := 0; i < n; i++ {
		drawn := category
		if drawn == "" {
			drawn = synthesizedCategories[s.rnd.Intn(len(synthesizedCategories))]
		}
		if !models.CategoryMatches(category, drawn) {
			continue
		}

		coord := geo.Clamp(models.Coordinate{
			Latitude:  origin.Latitude + (s.rnd.Float64()-0.5)*radiusDeg*2,
			Longitude: origin.Longitude + (s.rnd.Float64()-0.5)*radiusDeg*2,
		})

		id := s.newID(i)
		discount := s.discounts.Generate(id)
		venue := models.Venue{
			ID:          id,
			Name:        s.pick(s.catalog.CatalogFor(region, drawn)),
			Description: s.describe(drawn, region),
			Image:       s.image(drawn),
			Location: models.VenueLocation{
				Latitude:  coord.Latitude,
				Longitude: coord.Longitude,
				Address:   s.address(region),
			},
			Category:        drawn,
			Rating:          minRating + s.rnd.Float64()*ratingSpread,
			CurrentDiscount: &discount,
			IsActive:        s.rnd.Float64() < venueActiveRate,
		}

		if !discount.IsActive {
			continue
		}
		venues = append(venues, venue)
	}

	SortByDistance(origin, venues)
	s.logger.Debugw("synthesized venues", "region", region.Name, "draws", n, "kept", len(venues), "category", category)
	return venues
}

func (s *PlaceSynthesizer) newID(i int) string {
	id, err := uuid.NewRandomFromReader(s.rnd)
	if err != nil {
		return fmt.Sprintf("place_%d_%d", i, s.rnd.Int63())
	}
	return "place_" + id.String()
}

func (s *PlaceSynthesizer) pick(pool []string) string {
	return pool[s.rnd.Intn(len(pool))]
}

func (s *PlaceSynthesizer) describe(category string, region models.Region) string {
	templates, ok := descriptionTemplates[category]
	if !ok {
		templates = descriptionTemplates[models.CategoryRestaurant]
	}
	cuisine, place := "local", "regional"
	if !region.IsDefault() {
		cuisine, place = s.catalog.CuisineFor(region), region.Name
	}
	return strings.NewReplacer("{cuisine}", cuisine, "{place}", place).Replace(s.pick(templates))
}

func (s *PlaceSynthesizer) image(category string) string {
	pool, ok := imagePools[category]
	if !ok {
		pool = imagePools[models.CategoryRestaurant]
	}
	photo := pool[s.rnd.Intn(len(pool))]
	return fmt.Sprintf(pexels, photo, photo)
}

// address formats a street address the way the region writes them. Pattaya
// uses the Thai sub-district and postal-code form.
func (s *PlaceSynthesizer) address(region models.Region) string {
	number := streetNumbers[s.rnd.Intn(len(streetNumbers))]
	street := s.pick(s.catalog.StreetsFor(region))

	if region.Name == "Pattaya" {
		subDistrict := s.pick(pattayaSubDistricts)
		postal := s.pick(pattayaPostalCodes)
		return fmt.Sprintf("%d %s, %s, Bang Lamung District, %s %s, %s", number, street, subDistrict, region.SubRegion, postal, region.Country)
	}

	city := region.Name
	if region.IsDefault() {
		city = defaultCityLabel
	}
	if region.Country == "" || region.Country == DefaultRegion.Country {
		return fmt.Sprintf("%d %s, %s", number, street, city)
	}
	return fmt.Sprintf("%d %s, %s, %s", number, street, city, region.Country)
}

// SortByDistance orders venues by haversine distance from origin, nearest
// first. Equal distances keep their relative order.
func SortByDistance(origin models.Coordinate, venues []models.Venue) {
	slices.SortStableFunc(venues, func(a, b models.Venue) int {
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
