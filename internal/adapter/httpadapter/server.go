// Package httpadapter exposes the service's HTTP surface: health and
// readiness probes, Prometheus metrics, and a small read API over the
// cached readings.
package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asiligreen/solar-sim/internal/cache"
	"github.com/asiligreen/solar-sim/internal/simulate"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadingSource serves cached readings. May be nil when no cache is
// configured, in which case the read API returns 503.
type ReadingSource interface {
	LatestReading(ctx context.Context, installationID uuid.UUID) (cache.CachedReading, error)
	HourlyReadings(ctx context.Context, installationID uuid.UUID) ([]cache.CachedReading, error)
}

// Server exposes probe, metrics, and read-API HTTP endpoints.
type Server struct {
	httpServer *http.Server
	readings   ReadingSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with probe, metrics, and read-API routes.
func NewServer(addr string, ready ReadinessChecker, readings ReadingSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		readings: readings,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/locations", s.handleLocations)
	mux.HandleFunc("GET /api/installations/{id}/latest", s.handleLatest)
	mux.HandleFunc("GET /api/installations/{id}/hourly", s.handleHourly)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"locations": simulate.LocationNames()})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.installationID(w, r)
	if !ok {
		return
	}

	reading, err := s.readings.LatestReading(r.Context(), id)
	if errors.Is(err, cache.ErrNoReading) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no reading cached for installation"})
		return
	}
	if err != nil {
		s.logger.Error("latest reading lookup failed", "installation_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cache lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	id, ok := s.installationID(w, r)
	if !ok {
		return
	}

	readings, err := s.readings.HourlyReadings(r.Context(), id)
	if err != nil {
		s.logger.Error("hourly readings lookup failed", "installation_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cache lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"readings": readings})
}

// installationID parses the path parameter and rejects requests the read API
// cannot serve. The bool reports whether the caller should proceed.
func (s *Server) installationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if s.readings == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "cache not configured"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid installation id"})
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
