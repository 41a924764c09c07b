package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/asiligreen/solar-sim/internal/adapter/httpadapter"
	kafkaadapter "github.com/asiligreen/solar-sim/internal/adapter/kafka"
	"github.com/asiligreen/solar-sim/internal/cache"
	"github.com/asiligreen/solar-sim/internal/config"
	"github.com/asiligreen/solar-sim/internal/observability"
	"github.com/asiligreen/solar-sim/internal/scheduler"
	"github.com/asiligreen/solar-sim/internal/simulate"
	"github.com/asiligreen/solar-sim/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDemoData {
		if err := st.SeedDemo(ctx); err != nil {
			logger.Error("demo data seeding failed", "error", err)
			os.Exit(1)
		}
	}

	readings := cache.New(cfg.RedisAddr, cfg.RedisDB)
	defer readings.Close()
	if err := readings.Ping(ctx); err != nil {
		logger.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	// Kafka fan-out is feature-flagged via KAFKA_BROKERS.
	var publisher scheduler.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	params := simulate.DefaultParams()
	params.Model = cfg.SimModel

	seed := cfg.SimSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulation configured", "model", params.Model, "seed", seed)

	gen, err := simulate.NewGenerator(params, seed)
	if err != nil {
		logger.Error("invalid simulation parameters", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(gen, st, readings, publisher, logger, metrics, clockwork.NewRealClock(), scheduler.Options{
		Interval:     cfg.SweepInterval,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, sched, readings, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
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
