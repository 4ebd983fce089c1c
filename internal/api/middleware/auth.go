package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenContextKey is the echo context key holding the raw bearer token.
const TokenContextKey = "bearer_token"

// BearerAuth requires an "Authorization: Bearer <token>" header and stores the
// token under TokenContextKey. Signature and expiry are checked by the service
// that consumes the token.
func BearerAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized(c)
			}

			token := strings.TrimSpace(parts[1])
			if token == "" {
				return unauthorized(c)
			}

			c.Set(TokenContextKey, token)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
}
