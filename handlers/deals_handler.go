package handlers

import (
	"net/http"

	"go-happyhour/middleware"
	"go-happyhour/models"
	"go-happyhour/services"
	apierrors "go-happyhour/utils/errors"

	"go.uber.org/zap"
)

type DealsHandler struct {
	places   *services.PlacesService
	provider *services.LocationProvider
	radius   float64
	logger   *zap.SugaredLogger
}

type NearbyDealsResponse struct {
	Deals    []models.Venue      `json:"deals"`
	Count    int                 `json:"count"`
	Lat      float64             `json:"lat"`
	Lon      float64             `json:"lon"`
	Radius   float64             `json:"radius"`
	Category string              `json:"category"`
	Query    string              `json:"query,omitempty"`
	Source   string              `json:"source"`
	Warning  *apierrors.APIError `json:"warning,omitempty"`
}

func NewDealsHandler(places *services.PlacesService, provider *services.LocationProvider, radiusMeters float64, logger *zap.SugaredLogger) *DealsHandler {
	return &DealsHandler{places: places, provider: provider, radius: radiusMeters, logger: logger}
}

// GetNearbyDeals searches around lat/lon, or around the current location fix
// when they are omitted.
func (h *DealsHandler) GetNearbyDeals(w http.ResponseWriter, r *http.Request) {
	origin, ok, err := coordinateParams(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !ok {
		state, err := h.provider.Acquire(r.Context())
		if state.Fix == nil {
			if err == nil {
				err = apierrors.ErrLocationUnavailable
			}
			middleware.WriteError(w, err)
			return
		}
		origin = state.Fix.Coordinate
	}

	radius, hasRadius, err := floatParam(r, "radius")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !hasRadius {
		radius = h.radius
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = models.CategoryAll
	}
	query := r.URL.Query().Get("q")

	result, err := h.places.SearchNearby(r.Context(), services.SearchParams{
		Origin:       origin,
		RadiusMeters: radius,
		Category:     category,
		Query:        query,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	deals := services.FilterVenues(result.Venues, query, category)
	middleware.WriteJSON(w, http.StatusOK, NearbyDealsResponse{
		Deals:    deals,
		Count:    len(deals),
		Lat:      origin.Latitude,
		Lon:      origin.Longitude,
		Radius:   radius,
		Category: category,
		Query:    query,
		Source:   result.Source,
		Warning:  result.Warning,
	})
}
