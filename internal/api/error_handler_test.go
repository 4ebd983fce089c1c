package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
		wantAuth   bool
	}{
		{"expired token", fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrTokenExpired), http.StatusUnauthorized, "Token expired", true},
		{"garbled token", fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrInvalidToken), http.StatusUnauthorized, "Not authenticated", true},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials", false},
		{"duplicate email", domain.ErrUserExists, http.StatusConflict, "Email already registered", false},
		{"invalid input", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput), http.StatusBadRequest, "password must be at least 8 characters", false},
		{"invalid url", fmt.Errorf("%w: scheme must be http or https", domain.ErrInvalidURL), http.StatusBadRequest, "Invalid URL", false},
		{"missing link", domain.ErrLinkNotFound, http.StatusNotFound, "URL not found", false},
		{"code space", fmt.Errorf("shorten: %w", domain.ErrCodeSpaceExhausted), http.StatusServiceUnavailable, "Could not allocate a short code, try again", false},
		{"store down", fmt.Errorf("find user: %w: %w", domain.ErrUnavailable, errors.New("i/o timeout")), http.StatusServiceUnavailable, "Service unavailable", false},
		{"echo error", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Request Entity Too Large"), http.StatusRequestEntityTooLarge, "Request Entity Too Large", false},
		{"unexpected", errors.New("kaboom"), http.StatusInternalServerError, "Internal server error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["detail"] != tt.wantDetail {
				t.Fatalf("expected detail %q, got %q", tt.wantDetail, body["detail"])
			}
			if got := rec.Header().Get("WWW-Authenticate") == "Bearer"; got != tt.wantAuth {
				t.Fatalf("WWW-Authenticate presence = %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakInternals(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: connection string secret"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if want := `{"detail":"Internal server error"}`; rec.Body.String() != want+"\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
