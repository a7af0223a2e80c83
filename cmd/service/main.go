// Package main is the entry point for the quotevault API service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotevault/internal/adapters/http"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/store"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/platform/config"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/platform/session"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Load and validate configuration (fail fast)
	cfg, err := config.Load(config.Profile())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting quotevault",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.Bool("admin_login", cfg.Auth.AdminPassword != ""),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Open the quote store
	db, err := store.Open(storeConfig(&cfg.Database), logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := store.Close(db); closeErr != nil {
			logger.Error("database close error", slog.Any("error", closeErr))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
	}

	quoteStore := store.NewQuoteStore(db)

	if cfg.Database.Seed {
		n, err := quoteStore.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seeding quotes: %w", err)
		}

		if n > 0 {
			logger.Info("seeded sample quotes", slog.Int("count", n))
		}
	}

	// 5. Create health registry with the database as its only dependency
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store.NewPinger(db)); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	// 6. Create application services
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: quoteStore,
		Logger:     logger,
	})

	authService := app.NewAuthService(app.AuthServiceConfig{
		AdminPassword: cfg.Auth.AdminPassword,
		Sessions:      session.NewManager(cfg.Auth.SigningSecret(), session.WithMaxAge(cfg.Auth.SessionMaxAge)),
		Logger:        logger,
	})

	// 7. Create handlers
	metrics := telemetry.NewDomainMetrics(prometheus.DefaultRegisterer)
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	// 8. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.Telemetry.ServiceName,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		QuoteHandler:  handlers.NewQuoteHandler(quoteService, metrics),
		TagHandler:    handlers.NewTagHandler(quoteService),
		AuthHandler:   handlers.NewAuthHandler(authService, metrics, cfg.Auth.CookieSecure),
		Admin:         authService,
		Timeout:       cfg.API.RequestTimeout,
	})

	// 9. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	// 10. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

func storeConfig(cfg *config.DatabaseConfig) store.Config {
	return store.Config{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		LogLevel:        cfg.LogLevel,
		SlowThreshold:   cfg.SlowThreshold,
	}
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
