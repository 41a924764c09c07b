package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// simulation scheduler.
type Metrics struct {
	ReadingsGenerated prometheus.Counter
	ReadingsStored    prometheus.Counter
	SimulationErrors  prometheus.Counter
	RetryAttempts     prometheus.Counter
	CacheErrors       prometheus.Counter
	PublishErrors     prometheus.Counter
	SchedulerRunning  prometheus.Gauge

	SweepsCompleted       prometheus.Counter
	SweepDuration         prometheus.Histogram
	InstallationsPerSweep prometheus.Histogram
}

// NewMetrics creates and registers all scheduler metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReadingsGenerated,
		m.ReadingsStored,
		m.SimulationErrors,
		m.RetryAttempts,
		m.CacheErrors,
		m.PublishErrors,
		m.SchedulerRunning,
		m.SweepsCompleted,
		m.SweepDuration,
		m.InstallationsPerSweep,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReadingsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "readings_generated_total",
			Help:      "Total hourly readings produced by the generator.",
		}),
		ReadingsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "readings_stored_total",
			Help:      "Total readings written to the database.",
		}),
		SimulationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "simulation_errors_total",
			Help:      "Installations whose simulation failed after all retries.",
		}),
		RetryAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "retry_attempts_total",
			Help:      "Per-installation retry attempts across all sweeps.",
		}),
		CacheErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "cache_errors_total",
			Help:      "Redis cache write failures (non-fatal).",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "publish_errors_total",
			Help:      "Kafka publish failures (non-fatal).",
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_sim",
			Name:      "scheduler_running",
			Help:      "1 when the sweep scheduler is active, 0 when shut down.",
		}),
		SweepsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_sim",
			Name:      "sweeps_completed_total",
			Help:      "Completed simulation sweeps across all installations.",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_sim",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of a complete simulate-store-cache sweep.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		InstallationsPerSweep: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_sim",
			Name:      "installations_per_sweep",
			Help:      "Number of installations processed per sweep.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
	}
}
