// Package cache mirrors the most recent readings of each installation into
// Redis for cheap dashboard reads: a latest-reading key plus a rolling
// 24-entry hourly list. Cache writes are best-effort; callers log failures
// and carry on.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/asiligreen/solar-sim/internal/simulate"
)

// ErrNoReading is returned when an installation has nothing cached.
var ErrNoReading = errors.New("no cached reading")

// keyTTL keeps stale installations from lingering: both keys expire two
// days after the last write.
const keyTTL = 48 * time.Hour

// hourlyEntries is the length of the rolling hourly list.
const hourlyEntries = 24

// CachedReading is the JSON document stored per reading.
type CachedReading struct {
	InstallationID string  `json:"installation_id"`
	Timestamp      string  `json:"timestamp"`
	PowerKW        float64 `json:"power_kw"`
	EnergyKWh      float64 `json:"energy_kwh"`
	Weather        string  `json:"weather"`
	SolarElevation float64 `json:"solar_elevation"`
}

// Cache wraps the Redis client.
type Cache struct {
	client *redis.Client
}

// New connects a cache to the given Redis address and logical database.
func New(addr string, db int) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
	}
}

// Ping verifies connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// StoreReading updates the latest-reading key and pushes onto the rolling
// hourly list, trimming it to the last 24 entries. All commands run in one
// pipeline round trip.
func (c *Cache) StoreReading(ctx context.Context, installationID uuid.UUID, r simulate.Reading) error {
	doc := CachedReading{
		InstallationID: installationID.String(),
		Timestamp:      r.Timestamp.UTC().Format(time.RFC3339),
		PowerKW:        r.PowerKW,
		EnergyKWh:      r.PowerKW, // unit-hour buckets
		Weather:        string(r.Weather),
		SolarElevation: r.SolarElevation,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal cached reading: %w", err)
	}

	latest := latestKey(installationID)
	hourly := hourlyKey(installationID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, latest, payload, keyTTL)
	pipe.LPush(ctx, hourly, payload)
	pipe.LTrim(ctx, hourly, 0, hourlyEntries-1)
	pipe.Expire(ctx, hourly, keyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache reading: %w", err)
	}
	return nil
}

// LatestReading fetches the most recent cached reading for an installation.
// Returns ErrNoReading when nothing is cached.
func (c *Cache) LatestReading(ctx context.Context, installationID uuid.UUID) (CachedReading, error) {
	payload, err := c.client.Get(ctx, latestKey(installationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedReading{}, ErrNoReading
	}
	if err != nil {
		return CachedReading{}, fmt.Errorf("get latest reading: %w", err)
	}

	var doc CachedReading
	if err := json.Unmarshal(payload, &doc); err != nil {
		return CachedReading{}, fmt.Errorf("unmarshal cached reading: %w", err)
	}
	return doc, nil
}

// HourlyReadings fetches the rolling hourly list, newest first. An
// installation with no cached entries yields an empty slice, not an error.
func (c *Cache) HourlyReadings(ctx context.Context, installationID uuid.UUID) ([]CachedReading, error) {
	payloads, err := c.client.LRange(ctx, hourlyKey(installationID), 0, hourlyEntries-1).Result()
	if err != nil {
		return nil, fmt.Errorf("get hourly readings: %w", err)
	}

	readings := make([]CachedReading, 0, len(payloads))
	for _, payload := range payloads {
		var doc CachedReading
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal cached reading: %w", err)
		}
		readings = append(readings, doc)
	}
	return readings, nil
}

func latestKey(id uuid.UUID) string {
	return fmt.Sprintf("installation:%s:latest", id)
}

func hourlyKey(id uuid.UUID) string {
	return fmt.Sprintf("installation:%s:hourly", id)
}
