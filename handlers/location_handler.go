package handlers

import (
	"errors"
	"net/http"

	"go-happyhour/middleware"
	"go-happyhour/services"
	apierrors "go-happyhour/utils/errors"

	"go.uber.org/zap"
)

// LocationHandler exposes the location provider. reported is nil when the
// provider reads a static position, which makes pings a conflict.
type LocationHandler struct {
	provider *services.LocationProvider
	reported *services.ReportedSource
	logger   *zap.SugaredLogger
}

func NewLocationHandler(provider *services.LocationProvider, reported *services.ReportedSource, logger *zap.SugaredLogger) *LocationHandler {
	return &LocationHandler{provider: provider, reported: reported, logger: logger}
}

func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.provider.Current())
}

// RefreshLocation forces a new acquisition. Location failures are part of
// the returned state rather than an error response, so clients can show them
// next to a retry button.
func (h *LocationHandler) RefreshLocation(w http.ResponseWriter, r *http.Request) {
	state, err := h.provider.Refresh(r.Context())
	if err != nil && (errors.Is(err, apierrors.ErrProviderClosed) || state.Err == nil) {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, state)
}

// PingLocation records the position of the authenticated client, or its
// refusal to share one when denied=true.
func (h *LocationHandler) PingLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, apierrors.ErrUnauthorized)
		return
	}
	if h.reported == nil {
		middleware.WriteError(w, apierrors.NewAPIError("LOCATION_SOURCE_STATIC", "Location is not reported by clients", http.StatusConflict))
		return
	}

	if r.URL.Query().Get("denied") == "true" {
		h.reported.Deny()
		h.logger.Infow("location permission denied by client", "user_id", userID)
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Location permission revoked", "user_id": userID})
		return
	}

	coord, ok, err := coordinateParams(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !ok {
		middleware.WriteError(w, apierrors.ErrInvalidInput)
		return
	}
	if err := h.reported.Report(coord); err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.logger.Infow("location reported", "user_id", userID, "lat", coord.Latitude, "lon", coord.Longitude)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Location updated", "user_id": userID})
}
