// Command server runs the URL shortener HTTP API.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/shortlink/shortener-service/internal/api"
	"github.com/shortlink/shortener-service/internal/core/ports"
	"github.com/shortlink/shortener-service/internal/core/service"
	"github.com/shortlink/shortener-service/internal/infrastructure/db/memory"
	"github.com/shortlink/shortener-service/internal/infrastructure/db/mongo"
	"github.com/shortlink/shortener-service/internal/infrastructure/db/redis"
	"github.com/shortlink/shortener-service/internal/infrastructure/http/handlers"
	"github.com/shortlink/shortener-service/internal/infrastructure/queue"
	"github.com/shortlink/shortener-service/internal/pkg/config"
	"github.com/shortlink/shortener-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "shortener",
	})

	if err := run(ctx, cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	a, err := newApp(ctx, cfg, log, nil)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("base_url", cfg.BaseURL).Msg("http server listening")
		if err := a.echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.shutdown(shutdownCtx)

	if serveErr != nil {
		return serveErr
	}
	log.Info().Msg("server stopped cleanly")
	return nil
}

// app holds the wired service and everything that must be released on exit.
type app struct {
	echo       *echo.Echo
	dispatcher *queue.Dispatcher
	checks     map[string]handlers.Checker
	log        zerolog.Logger

	// closers run in reverse order once the HTTP server and visit workers
	// have stopped.
	closers []func()
}

// newApp connects the stores and builds the HTTP router. registry replaces the
// prometheus globals when non-nil.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, registry *prometheus.Registry) (a *app, err error) {
	a = &app{checks: map[string]handlers.Checker{}, log: log}
	defer func() {
		if err != nil {
			a.release()
			a = nil
		}
	}()

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return a, err
		}
		secret = hex.EncodeToString(buf)
		log.Warn().Msg("JWT_SECRET is empty, using a random key; tokens will not survive a restart")
	}

	// --- Stores ---
	var (
		authRepo ports.AuthRepository
		linkRepo ports.LinkRepository
	)
	switch cfg.Storage {
	case "memory":
		authRepo = memory.NewAuthRepository()
		mem := memory.NewLinkRepository()
		linkRepo = mem
		a.checks["memory"] = handlers.CheckerFunc(mem.Ping)
		log.Warn().Msg("using in-memory storage, data is lost on restart")
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return a, err
		}
		a.closers = append(a.closers, func() { disconnectMongo(client, log) })

		users := mongo.NewAuthRepository(db)
		links := mongo.NewLinkRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			return a, err
		}
		if err := links.EnsureIndexes(ctx); err != nil {
			return a, err
		}
		authRepo, linkRepo = users, links
		a.checks["mongodb"] = mongo.NewPinger(client)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			// The cache is optional; redirects still work from the store.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, link cache disabled")
		} else {
			a.closers = append(a.closers, func() { closeRedis(rdb, log) })
			linkRepo = redis.NewLinkCache(linkRepo, rdb, cfg.Redis.CacheTTL, log)
			a.checks["redis"] = redis.NewPinger(rdb)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("link cache enabled")
		}
	}

	// --- Services ---
	tokens := service.NewTokenService(secret, cfg.Auth.TokenTTL, service.WithIssuer(cfg.Auth.TokenIssuer))
	codes, err := service.NewCodeGenerator(cfg.Links.CodeLength, cfg.Links.CodeMaxAttempts)
	if err != nil {
		return a, err
	}

	// Visits are recorded with their own context so in-flight updates finish
	// after the HTTP server stops accepting requests.
	visitCtx, cancelVisits := context.WithCancel(context.Background())
	a.closers = append(a.closers, cancelVisits)
	a.dispatcher = queue.NewDispatcher(cfg.VisitWorkers, service.NewVisitService(linkRepo, log), log)
	a.dispatcher.Start(visitCtx)

	authService := service.NewAuthService(authRepo, tokens, log, service.WithMinPasswordLength(cfg.Auth.MinPasswordLength))
	linkService := service.NewLinkService(linkRepo, tokens, codes, a.dispatcher, cfg.BaseURL, log)

	// --- HTTP ---
	deps := api.Deps{
		AuthService:    authService,
		LinkService:    linkService,
		Checks:         a.checks,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	}
	if registry != nil {
		deps.Registerer, deps.Gatherer = registry, registry
	}
	a.echo = api.NewRouter(deps)

	return a, nil
}

// shutdown stops the HTTP server, drains the visit queue and releases the
// stores.
func (a *app) shutdown(ctx context.Context) {
	if err := a.echo.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}
	if err := a.dispatcher.Stop(ctx); err != nil {
		a.log.Warn().Err(err).Msg("visit queue not fully drained")
	}
	a.release()
}

func (a *app) release() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func disconnectMongo(client *mongodrv.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
