package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target carries the same code, so a copy with details
// still matches its sentinel.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrUnauthorized = NewAPIError("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrUnavailable  = NewAPIError("SERVICE_UNAVAILABLE", "Service unavailable", http.StatusServiceUnavailable)
)

// Location and retrieval failures. None of them is fatal; callers show them
// with a retry affordance.
var (
	ErrLocationPermissionDenied = NewAPIError("LOCATION_PERMISSION_DENIED", "Location permission denied", http.StatusForbidden)
	ErrLocationUnavailable      = NewAPIError("LOCATION_UNAVAILABLE", "Unable to get your location", http.StatusServiceUnavailable)
	ErrLocationTimeout          = NewAPIError("LOCATION_TIMEOUT", "Timed out getting your location", http.StatusGatewayTimeout)
	ErrLocationUnknown          = NewAPIError("LOCATION_UNKNOWN", "Failed to get location", http.StatusInternalServerError)
	ErrProviderClosed           = NewAPIError("LOCATION_PROVIDER_CLOSED", "Location provider is closed", http.StatusServiceUnavailable)
	ErrDiscoveryClosed          = NewAPIError("DISCOVERY_CLOSED", "Discovery session is closed", http.StatusServiceUnavailable)
	ErrGeocodeUnavailable       = NewAPIError("GEOCODE_UNAVAILABLE", "Reverse geocoding unavailable", http.StatusBadGateway)
	ErrPlaceRetrievalFailed     = NewAPIError("PLACE_RETRIEVAL_FAILED", "Could not load nearby places", http.StatusBadGateway)
)

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}

// WithDetails returns a copy of a sentinel carrying the cause's message.
func WithDetails(sentinel *APIError, cause error) *APIError {
	if cause == nil {
		return sentinel
	}
	return NewAPIError(sentinel.Code, sentinel.Message, sentinel.Status, cause.Error())
}
