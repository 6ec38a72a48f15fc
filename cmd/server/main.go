package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/impact-yield-explorer/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/impact-yield-explorer/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/impact-yield-explorer/internal/adapter/kafka"
	"github.com/couchcryptid/impact-yield-explorer/internal/adapter/mapbox"
	"github.com/couchcryptid/impact-yield-explorer/internal/config"
	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
	"github.com/couchcryptid/impact-yield-explorer/internal/index"
	"github.com/couchcryptid/impact-yield-explorer/internal/observability"
	"github.com/couchcryptid/impact-yield-explorer/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Country bounds lookup (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var bounds domain.BoundsLookup
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedLookup(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create bounds cache", "error", err)
			os.Exit(1)
		}
		bounds = cached
		logger.Info("mapbox bounds lookup enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox bounds lookup disabled")
	}

	store := index.NewStore()
	opts := []pipeline.Option{
		pipeline.WithColumns(cfg.ImpactColumns, cfg.YieldColumns),
		pipeline.WithReloadInterval(cfg.ReloadInterval),
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	}

	p := pipeline.New(
		csvsource.New(cfg.ImpactSource, cfg.SourceTimeout, logger),
		csvsource.New(cfg.YieldSource, cfg.SourceTimeout, logger),
		store, logger, metrics, opts...,
	)

	api := httpadapter.NewAPI(store, p, bounds, cfg.DefaultYear, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server. Queries answer zeroed results until the first build.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ingestion.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
