package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-happyhour/models"

	"go.uber.org/zap"
)

var categoryPlaceTypes = map[string]string{
	models.CategoryRestaurant:     "restaurant",
	models.CategoryBarRestaurant:  "bar",
	models.CategoryCafe:           "cafe",
	models.CategorySpaWellness:    "spa",
	models.CategoryMassageParlour: "spa",
	models.CategoryStreetFood:     "restaurant",
}

type googlePlacesResponse struct {
	Results []struct {
		PlaceID        string   `json:"place_id"`
		Name           string   `json:"name"`
		Vicinity       string   `json:"vicinity"`
		Types          []string `json:"types"`
		Rating         float64  `json:"rating"`
		BusinessStatus string   `json:"business_status"`
		Geometry       struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// GooglePlacesSource queries the Google Places nearby-search API. Real places
// carry no deals, so each one gets a generated discount and venues whose
// discount is inactive are dropped, as synthesized ones are.
type GooglePlacesSource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	discounts  *DiscountGenerator
	logger     *zap.SugaredLogger
}

func NewGooglePlacesSource(apiKey, baseURL string, discounts *DiscountGenerator, logger *zap.SugaredLogger) *GooglePlacesSource {
	return &GooglePlacesSource{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		discounts:  discounts,
		logger:     logger,
	}
}

func (c *GooglePlacesSource) Name() string { return "google" }

// Nearby runs a nearbysearch request around q.Origin.
func (c *GooglePlacesSource) Nearby(ctx context.Context, q NearbyQuery) ([]models.Venue, error) {
	params := url.Values{}
	params.Add("location", fmt.Sprintf("%.6f,%.6f", q.Origin.Latitude, q.Origin.Longitude))
	params.Add("radius", fmt.Sprintf("%d", int(q.RadiusMeters)))
	if placeType, ok := categoryPlaceTypes[q.Category]; ok {
		params.Add("type", placeType)
	}
	params.Add("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/nearbysearch/json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Google Places request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Google Places API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result googlePlacesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse Google Places response: %w", err)
	}
	switch result.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("Google Places API status %s: %s", result.Status, result.ErrorMessage)
	}

	venues := make([]models.Venue, 0, len(result.Results))
	for _, place := range result.Results {
		category := categoryForTypes(place.Types)
		if !models.CategoryMatches(q.Category, category) {
			continue
		}
		id := "google_" + place.PlaceID
		discount := c.discounts.Generate(id)
		if !discount.IsActive {
			continue
		}
		rating := place.Rating
		if rating == 0 {
			rating = minRating
		}
		venues = append(venues, models.Venue{
			ID:          id,
			Name:        place.Name,
			Description: place.Vicinity,
			Image:       fmt.Sprintf(pexels, imagePools[category][0], imagePools[category][0]),
			Location: models.VenueLocation{
				Latitude:  place.Geometry.Location.Lat,
				Longitude: place.Geometry.Location.Lng,
				Address:   place.Vicinity,
			},
			Category:        category,
			Rating:          rating,
			CurrentDiscount: &discount,
			IsActive:        place.BusinessStatus == "" || place.BusinessStatus == "OPERATIONAL",
		})
	}

	c.logger.Debugw("google places nearby", "results", len(result.Results), "kept", len(venues))
	return venues, nil
}

// categoryForTypes maps Google place types onto venue categories, most
// specific first.
func categoryForTypes(types []string) string {
	has := make(map[string]bool, len(types))
	for _, t := range types {
		has[t] = true
	}
	switch {
	case has["spa"]:
		return models.CategorySpaWellness
	case has["bar"] || has["night_club"]:
		return models.CategoryBarRestaurant
	case has["cafe"] || has["bakery"]:
		return models.CategoryCafe
	case has["meal_takeaway"]:
		return models.CategoryStreetFood
	}
	return models.CategoryRestaurant
}
