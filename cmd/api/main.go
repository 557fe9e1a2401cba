package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"paper-digest/internal/app"
	"paper-digest/internal/config"
	hhttp "paper-digest/internal/handler/http"
	"paper-digest/internal/handler/http/paper"
	"paper-digest/internal/handler/http/requestid"
	"paper-digest/internal/infra/artifact"
	"paper-digest/internal/infra/db"
	"paper-digest/internal/infra/fetcher"
	"paper-digest/internal/infra/usage"
	"paper-digest/internal/infra/worker"
	"paper-digest/internal/observability/logging"
	"paper-digest/internal/observability/tracing"
	"paper-digest/internal/usecase/summarize"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracer := tracing.InitTracer()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Error("failed to shut down tracer", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database := initDatabase(ctx, logger, cfg)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	components := setupServer(ctx, logger, cfg, database, getVersion())
	runServer(ctx, cancel, logger, cfg, components)
}

// initLogger initializes the structured logger from LOG_FORMAT and LOG_LEVEL.
func initLogger() *slog.Logger {
	logger := logging.New()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens PostgreSQL and runs migrations when the usage counter is
// stored there. It returns nil for the file store.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg *config.Config) *sql.DB {
	if cfg.Usage.Store != config.UsageStorePostgres {
		return nil
	}

	database, err := db.Open(ctx, cfg.Usage.DatabaseURL, db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation.
type ServerComponents struct {
	Handler http.Handler
	Pool    *worker.Pool
}

// setupServer builds the summarization service and the HTTP handler.
func setupServer(ctx context.Context, logger *slog.Logger, cfg *config.Config, database *sql.DB, version string) *ServerComponents {
	overrides, err := config.LoadStrategies(cfg.StrategiesFile)
	if err != nil {
		logger.Error("failed to load strategies file",
			slog.String("path", cfg.StrategiesFile),
			slog.Any("error", err))
		os.Exit(1)
	}

	opts := app.Options{Logger: logger, Metrics: cfg.Server.MetricsEnabled}
	registry, err := app.NewRegistry(cfg, overrides, opts)
	if err != nil {
		logger.Error("failed to build strategy registry", slog.Any("error", err))
		os.Exit(1)
	}

	pool := app.NewPool(cfg, opts)
	opts.Executor = pool
	svc := app.NewService(cfg, registry, opts)

	ids := make([]string, 0, registry.Len())
	for _, d := range registry.Strategies() {
		ids = append(ids, d.ID)
	}
	logger.Info("summarization service configured",
		slog.String("mode", string(svc.Mode())),
		slog.Any("strategies", ids),
		slog.String("terminal", registry.Terminal().ID),
		slog.Int("workers", pool.Size()),
		slog.Int("cache_capacity", cfg.Summarize.CacheCapacity))

	artifacts, err := artifact.NewStore(cfg.Server.UploadDir)
	if err != nil {
		logger.Error("failed to prepare upload directory", slog.Any("error", err))
		os.Exit(1)
	}

	contentFetcher, err := fetcher.New(cfg.Fetch)
	if err != nil {
		logger.Error("failed to create content fetcher", slog.Any("error", err))
		os.Exit(1)
	}

	counter := initUsage(ctx, logger, cfg, database)

	mux := setupRoutes(cfg, database, version, svc, paper.SummarizeHandler{
		Svc:       svc,
		Fetcher:   contentFetcher,
		PDF:       fetcher.NewPDFExtractor(),
		Artifacts: artifacts,
		Usage:     counter,
	}, paper.DownloadHandler{Artifacts: artifacts})

	return &ServerComponents{
		Handler: applyMiddleware(logger, cfg, mux),
		Pool:    pool,
	}
}

// initUsage loads the persisted usage counter.
func initUsage(ctx context.Context, logger *slog.Logger, cfg *config.Config, database *sql.DB) *usage.Counter {
	var store usage.Store = usage.NewFileStore(cfg.Usage.File)
	if database != nil {
		store = usage.NewPostgresStore(database)
	}

	counter := usage.NewCounter(store, logger)
	if err := counter.Load(ctx); err != nil {
		logger.Error("failed to load usage counter",
			slog.String("store", cfg.Usage.Store),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("usage counter loaded",
		slog.String("store", cfg.Usage.Store),
		slog.Int64("count", counter.Value()))
	return counter
}

// setupRoutes registers the API, health and metrics routes.
func setupRoutes(
	cfg *config.Config,
	database *sql.DB,
	version string,
	svc *summarize.Service,
	summarizeHandler paper.SummarizeHandler,
	downloadHandler paper.DownloadHandler,
) *http.ServeMux {
	mux := http.NewServeMux()
	paper.Register(mux, summarizeHandler, downloadHandler)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:        database,
		UploadDir: cfg.Server.UploadDir,
		Version:   version,
		Mode:      string(svc.Mode()),
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	if cfg.Server.MetricsEnabled {
		mux.Handle("GET /metrics", hhttp.MetricsHandler())
	}
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Metrics → Timeout → Body Limit
func applyMiddleware(logger *slog.Logger, cfg *config.Config, handler http.Handler) http.Handler {
	middleware := []func(http.Handler) http.Handler{
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
	}
	if cfg.Server.MetricsEnabled {
		middleware = append(middleware, hhttp.MetricsMiddleware)
	}
	middleware = append(middleware,
		hhttp.Timeout(cfg.Server.RequestTimeout),
		hhttp.LimitRequestBody(cfg.Server.MaxUploadSize),
	)
	return hhttp.Chain(handler, middleware...)
}

// runServer starts the worker pool and the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, cfg *config.Config, components *ServerComponents) {
	poolDone := make(chan struct{})
	go func() {
		defer close(poolDone)
		if err := components.Pool.Run(ctx); err != nil {
			logger.Error("worker pool stopped", slog.Any("error", err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Drain in-flight requests before stopping the workers they submit to.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout+5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	cancel()
	<-poolDone
	logger.Info("server stopped")
}
