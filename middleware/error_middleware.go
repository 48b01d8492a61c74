package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	apierrors "go-happyhour/utils/errors"

	"go.uber.org/zap"
)

// ErrorMiddleware turns handler panics into a 500 APIError response.
func ErrorMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Errorw("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
					WriteError(w, apierrors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes err as a JSON APIError. Errors that are not APIErrors
// become 500s carrying the original message in details.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.Wrap(err, "UNKNOWN_ERROR", "Unexpected error", apierrors.ErrInternal.Status)
	}
	WriteJSON(w, apiErr.Status, apiErr)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
