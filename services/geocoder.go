package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"

	"go.uber.org/zap"
)

// Place is a best-effort reverse-geocoding result. Every field may be empty;
// an empty Place means the city is unknown, not that something failed.
type Place struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// ReverseGeocoder turns coordinates into a place name. Resolve never fails;
// providers absorb their errors and return an empty Place.
type ReverseGeocoder interface {
	Resolve(ctx context.Context, coord models.Coordinate) Place
}

// NativeGeocoder resolves places offline from the region table.
type NativeGeocoder struct {
	catalog *RegionCatalog
}

func NewNativeGeocoder(catalog *RegionCatalog) *NativeGeocoder {
	return &NativeGeocoder{catalog: catalog}
}

func (g *NativeGeocoder) Resolve(_ context.Context, coord models.Coordinate) Place {
	region := g.catalog.Lookup(coord)
	if region.IsDefault() {
		return Place{}
	}
	place := Place{City: region.Name, Country: region.Country}
	if region.SubRegion != "" {
		place.Address = region.SubRegion
	}
	return place
}

type webGeocodeResponse struct {
	Locality             string `json:"locality"`
	City                 string `json:"city"`
	PrincipalSubdivision string `json:"principalSubdivision"`
	CountryName          string `json:"countryName"`
}

// WebGeocoder calls a BigDataCloud-style reverse-geocode HTTP endpoint.
type WebGeocoder struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func NewWebGeocoder(endpoint string, logger *zap.SugaredLogger) *WebGeocoder {
	return &WebGeocoder{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

func (g *WebGeocoder) Resolve(ctx context.Context, coord models.Coordinate) Place {
	place, err := g.lookup(ctx, coord)
	if err != nil {
		g.logger.Warnw("reverse geocoding failed", "error", apierrors.WithDetails(apierrors.ErrGeocodeUnavailable, err),
			"lat", coord.Latitude, "lon", coord.Longitude)
		return Place{}
	}
	return place
}

func (g *WebGeocoder) lookup(ctx context.Context, coord models.Coordinate) (Place, error) {
	params := url.Values{}
	params.Add("latitude", fmt.Sprintf("%f", coord.Latitude))
	params.Add("longitude", fmt.Sprintf("%f", coord.Longitude))
	params.Add("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Place{}, err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Place{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("reverse geocode status %d", resp.StatusCode)
	}

	var data webGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Place{}, fmt.Errorf("failed to parse reverse geocode response: %w", err)
	}

	city := data.City
	if city == "" {
		city = data.PrincipalSubdivision
	}
	return Place{
		Address: strings.TrimSpace(data.Locality),
		City:    city,
		Country: data.CountryName,
	}, nil
}
