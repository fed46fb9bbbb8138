// Command server runs the recipe-sharing HTTP API.
//
// Startup order:
//  1. Load .env (best effort) and typed configuration
//  2. Configure zerolog (level, pretty console output in dev)
//  3. Open SQLite, migrate the schema, install GORM tracing
//  4. Bootstrap OpenTelemetry (no-op unless OTEL_ENABLED)
//  5. Build the Gin engine, register routes, serve
//
// Shutdown is graceful: SIGINT/SIGTERM drain in-flight requests before the
// process exits, then flush the trace pipeline.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recipe-backend/internal/config"
	httpapi "github.com/tbourn/go-recipe-backend/internal/http"
	"github.com/tbourn/go-recipe-backend/internal/images"
	"github.com/tbourn/go-recipe-backend/internal/observability"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// shutdownGrace bounds how long draining may take before a hard stop.
const shutdownGrace = 15 * time.Second

func main() {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate schema")
	}
	if err := repo.EnableTracing(db); err != nil {
		log.Fatal().Err(err).Msg("enable db tracing")
	}

	store, err := images.NewStore(cfg.MediaDir, cfg.MediaURLPrefix)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MediaDir).Msg("open media store")
	}

	// Tracing
	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup opentelemetry")
	}

	// HTTP
	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, store, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("version", version).
			Str("addr", srv.Addr).
			Str("api_base", cfg.APIBasePath).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for termination signal, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	drainCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
	if err := shutdownOTel(drainCtx); err != nil {
		log.Error().Err(err).Msg("trace flush incomplete")
	}
	log.Info().Msg("server stopped")
}
