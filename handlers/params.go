package handlers

import (
	"net/http"
	"strconv"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"
)

// floatParam parses an optional float query parameter. ok is false when the
// parameter is absent.
func floatParam(r *http.Request, name string) (value float64, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, apierrors.NewAPIError(apierrors.ErrInvalidInput.Code, "Invalid "+name, apierrors.ErrInvalidInput.Status, err.Error())
	}
	return value, true, nil
}

// coordinateParams reads lat and lon. Both or neither must be given.
func coordinateParams(r *http.Request) (coord models.Coordinate, ok bool, err error) {
	lat, hasLat, err := floatParam(r, "lat")
	if err != nil {
		return coord, false, err
	}
	lon, hasLon, err := floatParam(r, "lon")
	if err != nil {
		return coord, false, err
	}
	if hasLat != hasLon {
		return coord, false, apierrors.NewAPIError(apierrors.ErrInvalidInput.Code, "lat and lon must be given together", apierrors.ErrInvalidInput.Status)
	}
	if !hasLat {
		return coord, false, nil
	}
	coord = models.Coordinate{Latitude: lat, Longitude: lon}
	if err := coord.Validate(); err != nil {
		return coord, false, apierrors.WithDetails(apierrors.ErrInvalidInput, err)
	}
	return coord, true, nil
}
