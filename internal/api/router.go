package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shortlink/shortener-service/docs"
	"github.com/shortlink/shortener-service/internal/api/handler"
	"github.com/shortlink/shortener-service/internal/api/middleware"
	"github.com/shortlink/shortener-service/internal/core/ports"
	"github.com/shortlink/shortener-service/internal/infrastructure/http/handlers"
)

const bodyLimit = "64K"

// Deps is everything the HTTP layer needs from the composition root.
type Deps struct {
	AuthService ports.AuthService
	LinkService ports.LinkService
	// Checks are pinged by GET /health/ready, keyed by dependency name.
	Checks         map[string]handlers.Checker
	AllowedOrigins []string
	Logger         zerolog.Logger
	// Registerer and Gatherer default to the prometheus globals. Tests pass
	// a fresh registry so several routers can coexist.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "shortener",
		Registerer: d.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	linkHandler := handler.NewLinkHandler(d.LinkService)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	// --- Auth routes ---
	e.POST("/signup", authHandler.Signup)
	e.POST("/login", authHandler.Login)

	// --- Links ---
	e.POST("/shorten", linkHandler.Shorten, middleware.BearerAuth())

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: d.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Static routes above take priority over the catch-all code parameter.
	e.GET("/:code", linkHandler.Redirect)

	return e
}
