package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shortlink/shortener-service/internal/core/ports"
)

// LinkHandler serves shortening and redirects.
type LinkHandler struct {
	service ports.LinkService
}

func NewLinkHandler(service ports.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// Shorten handles POST /shorten.
//
// @Summary      Shorten a URL
// @Tags         links
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      shortenRequest  true  "URL to shorten"
// @Success      200   {object}  shortenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /shorten [post]
func (h *LinkHandler) Shorten(c echo.Context) error {
	var req shortenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.service.Shorten(c.Request().Context(), bearerToken(c), req.OriginalURL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shortenResponse{ShortURL: res.ShortURL})
}

// Redirect handles GET /:code.
//
// @Summary      Follow a short link
// @Tags         links
// @Param        code  path  string  true  "Short code"
// @Success      302
// @Failure      404   {object}  errorResponse
// @Router       /{code} [get]
func (h *LinkHandler) Redirect(c echo.Context) error {
	link, err := h.service.Resolve(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}

	// Browsers must come back so every visit is counted.
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Redirect(http.StatusFound, link.OriginalURL)
}
