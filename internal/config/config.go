package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/asiligreen/solar-sim/internal/simulate"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabaseURL string
	RedisAddr   string
	RedisDB     int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Simulation settings.
	SimSeed  int64 // 0 means derive from the wall clock at startup
	SimModel simulate.Model

	// Scheduler settings.
	SweepInterval time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	SeedDemoData  bool

	// Optional Kafka sink for generated readings.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sweepInterval, err := parseDuration("SWEEP_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	retryBackoff, err := parseDuration("RETRY_BACKOFF", "60s")
	if err != nil {
		return nil, err
	}

	maxRetries, err := parseInt("MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	seed, err := parseInt64("SIM_SEED", 0)
	if err != nil {
		return nil, err
	}

	model, err := simulate.ParseModel(envOrDefault("SIM_MODEL", string(simulate.ModelDetailed)))
	if err != nil {
		return nil, fmt.Errorf("invalid SIM_MODEL: %w", err)
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		DatabaseURL: envOrDefault("DATABASE_URL", "postgres://localhost:5432/solarsim?sslmode=disable"),
		RedisAddr:   envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisDB:     redisDB,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SimSeed:  seed,
		SimModel: model,

		SweepInterval: sweepInterval,
		MaxRetries:    maxRetries,
		RetryBackoff:  retryBackoff,
		SeedDemoData:  envOrDefault("SEED_DEMO_DATA", "true") == "true",

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "solar-readings"),
		KafkaEnabled: len(brokers) > 0,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.SweepInterval <= 0 {
		return nil, errors.New("SWEEP_INTERVAL must be positive")
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.New("MAX_RETRIES must be non-negative")
	}
	if cfg.RetryBackoff < 0 {
		return nil, errors.New("RETRY_BACKOFF must be non-negative")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseInt64(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
