package handlers

import (
	"net/http"

	"go-happyhour/middleware"
	"go-happyhour/services"
	apierrors "go-happyhour/utils/errors"

	"github.com/gorilla/mux"
)

// VenueHandler serves venues remembered from earlier searches. cache may be
// nil, in which case every request answers SERVICE_UNAVAILABLE.
type VenueHandler struct {
	cache *services.SnapshotCache
}

type RecentVenuesResponse struct {
	Venues []services.RecentVenue `json:"venues"`
	Count  int                    `json:"count"`
	Lat    float64                `json:"lat"`
	Lon    float64                `json:"lon"`
	Radius float64                `json:"radius"`
}

func NewVenueHandler(cache *services.SnapshotCache) *VenueHandler {
	return &VenueHandler{cache: cache}
}

// GetVenue returns the flat parameter snapshot the details view opens with.
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		middleware.WriteError(w, apierrors.ErrUnavailable)
		return
	}
	venue, err := h.cache.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, venue.Params())
}

func (h *VenueHandler) GetRecentVenues(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		middleware.WriteError(w, apierrors.ErrUnavailable)
		return
	}
	origin, ok, err := coordinateParams(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !ok {
		middleware.WriteError(w, apierrors.ErrInvalidInput)
		return
	}
	radius, hasRadius, err := floatParam(r, "radius")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !hasRadius || radius <= 0 {
		radius = services.DefaultRadiusMeters
	}

	venues, err := h.cache.Recent(r.Context(), origin, radius)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, RecentVenuesResponse{
		Venues: venues,
		Count:  len(venues),
		Lat:    origin.Latitude,
		Lon:    origin.Longitude,
		Radius: radius,
	})
}
