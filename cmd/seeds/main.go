package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Seeds/internal/api"
	"github.com/MikeSquared-Agency/Seeds/internal/config"
	"github.com/MikeSquared-Agency/Seeds/internal/export"
	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/rescore"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	envPath := flag.String("env", ".env", "path to .env file")
	flag.Parse()

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := config.LoadDotEnv(*envPath); err != nil {
		bootLogger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		bootLogger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, logger); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	engine := scoring.NewEngine(cfg.Scoring.RatingScale)

	// Rescore worker
	var rescorer api.Rescorer
	if cfg.Rescore.Enabled {
		w := rescore.New(db, hermesClient, engine, m, cfg, logger)
		w.Start(ctx)
		defer w.Stop()
		w.SetupSubscriptions()
		rescorer = w
		logger.Info("rescore worker started", "interval", cfg.RescoreInterval())
	}

	// Export (optional)
	if cfg.Export.Enabled() {
		dest, err := export.NewS3Destination(ctx, cfg.Export.S3Bucket, cfg.Export.S3Prefix, cfg.Export.S3Region, cfg.Export.S3Endpoint)
		if err != nil {
			logger.Warn("failed to configure export destination, exports disabled", "error", err)
		} else {
			sched := export.NewScheduler(db, engine, []export.Destination{dest}, cfg.ExportInterval(), hermesClient, m, logger)
			sched.Start()
			defer sched.Stop()
			logger.Info("export scheduler started", "bucket", cfg.Export.S3Bucket, "interval", cfg.ExportInterval())
		}
	}

	// API server
	router := api.NewRouter(db, hermesClient, rescorer, cfg, m, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var g errgroup.Group
	g.Go(func() error { return apiServer.Shutdown(shutdownCtx) })
	g.Go(func() error { return metricsServer.Shutdown(shutdownCtx) })
	if err := g.Wait(); err != nil {
		logger.Warn("server shutdown incomplete", "error", err)
	}
	cancel()

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
