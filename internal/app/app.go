// Package app provides application lifecycle management for the campaign
// engine: dependency wiring, the HTTP trigger server, and one-shot runs.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/cheersai/campaign-engine/internal/api"
	"github.com/cheersai/campaign-engine/internal/config"
	"github.com/cheersai/campaign-engine/internal/database"
	"github.com/cheersai/campaign-engine/internal/logger"
	"github.com/cheersai/campaign-engine/internal/metrics"
	"github.com/cheersai/campaign-engine/internal/notify"
	"github.com/cheersai/campaign-engine/internal/worker"
)

const (
	shutdownTimeout  = 30 * time.Second
	redisPingTimeout = 5 * time.Second
	idleTimeout      = 60 * time.Second
)

// App holds the engine's wired dependencies.
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sqlx.DB
	redisClient *redis.Client // nil when summary events are disabled
	store       *database.Store
	runner      *worker.Runner
	registry    *prometheus.Registry
	version     string
}

// Options contains configuration for creating a new App.
type Options struct {
	ConfigPath string
	Version    string
}

// New creates a new App with all dependencies initialized. Missing
// database configuration is fatal here, before any work starts.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	appLogger = appLogger.With(
		logger.String("service", "campaign-engine"),
		logger.String("version", opts.Version),
	)

	db, err := database.NewPostgresConnection(cfg.Database.URL)
	if err != nil {
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	store := database.NewStore(db)

	var redisClient *redis.Client
	var notifier worker.Notifier
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			_ = db.Close()
			_ = appLogger.Sync()
			return nil, fmt.Errorf("connect to Redis: %w", pingErr)
		}
		notifier = notify.NewPublisher(redisClient, appLogger)
	} else {
		appLogger.Info("no Redis address configured, summary events disabled")
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	materialiser := worker.NewMaterialiser(store, notifier, recorder, cfg.Engine.WeeksAhead, appLogger)
	runner := worker.NewRunner(store, materialiser, recorder, appLogger)

	return &App{
		config:      cfg,
		logger:      appLogger,
		db:          db,
		redisClient: redisClient,
		store:       store,
		runner:      runner,
		registry:    registry,
		version:     opts.Version,
	}, nil
}

// RunOnce executes a single batch run and returns the created count.
func (a *App) RunOnce(ctx context.Context) (int, error) {
	return a.runner.Run(ctx, time.Now().UTC())
}

// Serve starts the HTTP trigger server and blocks until shutdown.
func (a *App) Serve(ctx context.Context) error {
	handlers := api.NewHandlers(a.runner, a.store, a.logger, a.version)
	router := api.NewRouter(handlers, a.store, a.redisClient, a.registry, a.config.Debug)

	server := &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      router.Engine(a.logger),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP trigger server listening",
			logger.String("address", a.config.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutting down gracefully", logger.String("signal", sig.String()))
	case err := <-serverErr:
		a.logger.Error("server error", logger.Error(err))
		return err
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", logger.Error(err))
		return err
	}

	a.logger.Info("HTTP server stopped")
	return nil
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.logger
}

// Close cleans up resources.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close Redis client", logger.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("failed to close database", logger.Error(err))
	}
	return a.logger.Sync()
}
