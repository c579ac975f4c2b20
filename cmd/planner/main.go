package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/flood-planner/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/flood-planner/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-planner/internal/adapter/kafka"
	"github.com/couchcryptid/flood-planner/internal/config"
	"github.com/couchcryptid/flood-planner/internal/domain"
	"github.com/couchcryptid/flood-planner/internal/observability"
	"github.com/couchcryptid/flood-planner/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Plan cache is feature-flagged via PLAN_CACHE_ENABLED / PLAN_CACHE_SIZE.
	var planner domain.Planner = domain.GreedyPlanner{}
	if cfg.PlanCacheEnabled {
		planner = cache.NewCachedPlanner(planner, cfg.PlanCacheSize, metrics)
		metrics.PlanCacheEnabled.Set(1)
		logger.Info("plan cache enabled", "cache_size", cfg.PlanCacheSize)
	} else {
		logger.Info("plan cache disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(planner, cfg.MaxScheduleDays, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

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
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
