package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shortlink/shortener-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"detail": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized && !errors.Is(err, domain.ErrInvalidCredentials) {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, inputReason(err)
	case errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL"
	case errors.Is(err, domain.ErrLinkNotFound):
		return http.StatusNotFound, "URL not found"
	case errors.Is(err, domain.ErrCodeSpaceExhausted):
		log.Error().Err(err).Str("path", c.Path()).Msg("short code space exhausted")
		return http.StatusServiceUnavailable, "Could not allocate a short code, try again"
	case errors.Is(err, domain.ErrUnavailable):
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("dependency unavailable")
		return http.StatusServiceUnavailable, "Service unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}

// inputReason strips the sentinel prefix from a wrapped ErrInvalidInput.
func inputReason(err error) string {
	prefix := domain.ErrInvalidInput.Error() + ": "
	if i := strings.Index(err.Error(), prefix); i >= 0 {
		return err.Error()[i+len(prefix):]
	}
	return "Invalid input"
}
