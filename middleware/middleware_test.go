package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "go-happyhour/utils/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var nopLogger = zap.NewNop().Sugar()

func signed(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var apiErr apierrors.APIError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return apiErr
}

func TestJWTMiddleware(t *testing.T) {
	var gotUser string
	h := JWTMiddleware("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	valid := signed(t, "secret", jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": "3",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"no bearer prefix", valid, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.SigningMethodHS256, jwt.MapClaims{"userID": "3"}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, "secret", jwt.SigningMethodHS256, jwt.MapClaims{
			"userID": "3",
			"exp":    time.Now().Add(-time.Hour).Unix(),
		}), http.StatusUnauthorized},
		{"no user id", "Bearer " + signed(t, "secret", jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}), http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/user/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusUnauthorized {
				if got := decodeError(t, rec); got.Code != apierrors.ErrUnauthorized.Code {
					t.Fatalf("code = %q", got.Code)
				}
				return
			}
			if gotUser != "3" {
				t.Fatalf("user id = %q", gotUser)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin", func(t *testing.T) {
		h := CORSMiddleware([]string{"http://localhost:3000"})(next)
		req := httptest.NewRequest(http.MethodGet, "/deals/nearby", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Fatalf("allow origin = %q", got)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("other origin", func(t *testing.T) {
		h := CORSMiddleware([]string{"http://localhost:3000"})(next)
		req := httptest.NewRequest(http.MethodGet, "/deals/nearby", nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("allow origin = %q, want none", got)
		}
	})

	t.Run("preflight with wildcard", func(t *testing.T) {
		h := CORSMiddleware([]string{"*"})(next)
		req := httptest.NewRequest(http.MethodOptions, "/discover/category", nil)
		req.Header.Set("Origin", "http://anywhere.test")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://anywhere.test" {
			t.Fatalf("allow origin = %q", got)
		}
		if rec.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Fatal("missing allow methods")
		}
	})
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	h := ErrorMiddleware(nopLogger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != apierrors.ErrInternal.Code {
		t.Fatalf("code = %q", got.Code)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apierrors.WithDetails(apierrors.ErrNotFound, errors.New("venue:abc")))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "NOT_FOUND" || got.Details != "venue:abc" {
		t.Fatalf("error = %+v", got)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, errors.New("disk on fire"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "UNKNOWN_ERROR" || got.Details != "disk on fire" {
		t.Fatalf("error = %+v", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	h := LoggingMiddleware(nopLogger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}
