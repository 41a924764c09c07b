// Package scheduler drives the periodic simulation sweep: once per
// interval it generates the current day's readings for every known
// installation, persists them, refreshes the cache, and optionally
// publishes them. Recovery (bounded retry, continue-on-error) lives here,
// never in the simulation core.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/asiligreen/solar-sim/internal/observability"
	"github.com/asiligreen/solar-sim/internal/simulate"
	"github.com/asiligreen/solar-sim/internal/store"
)

// Generator produces one installation-day of readings.
type Generator interface {
	GenerateHourlyProduction(req simulate.Request) ([]simulate.Reading, error)
}

// Store lists installations and persists generated readings.
type Store interface {
	ListInstallations(ctx context.Context) ([]store.Installation, error)
	InsertReadings(ctx context.Context, installationID uuid.UUID, readings []simulate.Reading) error
	MarkSimulated(ctx context.Context, installationID uuid.UUID, t time.Time) error
}

// Cache mirrors readings for cheap reads. Failures are non-fatal.
type Cache interface {
	StoreReading(ctx context.Context, installationID uuid.UUID, r simulate.Reading) error
}

// Publisher fans readings out to a stream. Optional; may be nil.
type Publisher interface {
	PublishReadings(ctx context.Context, installationID uuid.UUID, readings []simulate.Reading) error
}

// Options bound the retry behavior of one installation's simulation.
type Options struct {
	Interval     time.Duration
	MaxRetries   int // retries after the first attempt
	RetryBackoff time.Duration
}

// Scheduler owns the sweep loop.
type Scheduler struct {
	generator Generator
	store     Store
	cache     Cache
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	opts      Options
	ready     atomic.Bool
}

// New wires a scheduler. cache and publisher may be nil to disable the
// respective side channel.
func New(gen Generator, st Store, cache Cache, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, opts Options) *Scheduler {
	return &Scheduler{
		generator: gen,
		store:     st,
		cache:     cache,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		opts:      opts,
	}
}

// CheckReadiness returns nil once at least one sweep has completed.
func (s *Scheduler) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no simulation sweep has completed yet")
	}
	return nil
}

// Run executes sweeps until the context is cancelled. The first sweep
// starts immediately; subsequent sweeps follow the configured interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.opts.Interval, "max_retries", s.opts.MaxRetries)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-s.clock.After(s.opts.Interval):
		}
	}
}

// sweep simulates every active installation for the current date. A failing
// installation is retried up to MaxRetries times with a fixed backoff, then
// skipped so the rest of the fleet still gets data.
func (s *Scheduler) sweep(ctx context.Context) {
	start := s.clock.Now()
	now := start.UTC()

	installations, err := s.store.ListInstallations(ctx)
	if err != nil {
		s.logger.Error("list installations failed, skipping sweep", "error", err)
		s.metrics.SimulationErrors.Inc()
		return
	}
	s.metrics.InstallationsPerSweep.Observe(float64(len(installations)))

	for _, inst := range installations {
		if ctx.Err() != nil {
			return
		}
		if err := s.processWithRetry(ctx, inst, now); err != nil {
			s.logger.Error("installation simulation failed after retries",
				"installation_id", inst.ID,
				"name", inst.Name,
				"error", err,
			)
			s.metrics.SimulationErrors.Inc()
		}
	}

	s.metrics.SweepsCompleted.Inc()
	s.metrics.SweepDuration.Observe(s.clock.Since(start).Seconds())
	s.ready.Store(true)
	s.logger.Info("sweep completed", "installations", len(installations))
}

// processWithRetry runs processInstallation with bounded fixed-backoff
// retries, mirroring the bounded-retry semantics of the original hourly job.
func (s *Scheduler) processWithRetry(ctx context.Context, inst store.Installation, now time.Time) error {
	var err error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			s.metrics.RetryAttempts.Inc()
			s.logger.Warn("retrying installation simulation",
				"installation_id", inst.ID,
				"attempt", attempt,
				"error", err,
			)
			if !s.sleep(ctx, s.opts.RetryBackoff) {
				return ctx.Err()
			}
		}
		if err = s.processInstallation(ctx, inst, now); err == nil {
			return nil
		}
		// A missing or invalid location cannot succeed on retry.
		if errors.Is(err, simulate.ErrUnknownLocation) || errors.Is(err, simulate.ErrInvalidCapacity) {
			return err
		}
	}
	return err
}

// processInstallation generates, persists, caches, and publishes one
// installation-day. Cache and publish failures are logged and counted but
// never fail the sweep; the database write is the source of truth.
func (s *Scheduler) processInstallation(ctx context.Context, inst store.Installation, now time.Time) error {
	readings, err := s.generator.GenerateHourlyProduction(simulate.Request{
		CapacityKW:       inst.CapacityKW,
		Location:         inst.Location,
		Date:             now,
		InstallationYear: inst.InstallationYear,
	})
	if err != nil {
		return err
	}
	s.metrics.ReadingsGenerated.Add(float64(len(readings)))

	if err := s.store.InsertReadings(ctx, inst.ID, readings); err != nil {
		return err
	}
	s.metrics.ReadingsStored.Add(float64(len(readings)))

	if s.cache != nil {
		for _, r := range readings {
			if err := s.cache.StoreReading(ctx, inst.ID, r); err != nil {
				s.metrics.CacheErrors.Inc()
				s.logger.Warn("cache write failed", "installation_id", inst.ID, "error", err)
				break
			}
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReadings(ctx, inst.ID, readings); err != nil {
			s.metrics.PublishErrors.Inc()
			s.logger.Warn("publish failed", "installation_id", inst.ID, "error", err)
		}
	}

	return s.store.MarkSimulated(ctx, inst.ID, now)
}

// sleep waits for d on the injected clock, returning false if the context
// was cancelled first.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-s.clock.After(d):
		return true
	}
}
