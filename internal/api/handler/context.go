package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shortlink/shortener-service/internal/api/middleware"
)

// bearerToken returns the raw token stored by middleware.BearerAuth. The link
// service rejects an empty token as unauthenticated.
func bearerToken(c echo.Context) string {
	token, _ := c.Get(middleware.TokenContextKey).(string)
	return token
}
