// Package store persists installations and generated production data in
// PostgreSQL. It is a thin collaborator around the simulation core: the
// bucketing and rollup queries of the wider system live elsewhere and only
// consume the rows written here.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/asiligreen/solar-sim/internal/simulate"
)

// Installation is a registered PV system eligible for simulation.
type Installation struct {
	ID               uuid.UUID
	Name             string
	CapacityKW       float64
	Location         string // registry key, e.g. "NAIROBI"
	Lat              float64
	Lng              float64
	OwnerType        string
	Status           string
	InstallationYear int
	LastSimulatedAt  *time.Time
}

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they do not exist. The composite
// primary key on production_data makes reading inserts idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS installations (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	capacity_kw DOUBLE PRECISION NOT NULL,
	location_name TEXT NOT NULL,
	location_lat DOUBLE PRECISION NOT NULL,
	location_lng DOUBLE PRECISION NOT NULL,
	owner_type TEXT NOT NULL DEFAULT 'residential',
	status TEXT NOT NULL DEFAULT 'active',
	installation_year INT NOT NULL,
	last_simulated_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS production_data (
	installation_id UUID NOT NULL REFERENCES installations(id),
	timestamp TIMESTAMPTZ NOT NULL,
	power_kw DOUBLE PRECISION NOT NULL,
	energy_kwh DOUBLE PRECISION NOT NULL,
	weather TEXT NOT NULL,
	solar_elevation DOUBLE PRECISION NOT NULL,
	cell_temp_c DOUBLE PRECISION,
	soiling_days INT,
	PRIMARY KEY (installation_id, timestamp)
);

CREATE INDEX IF NOT EXISTS idx_production_data_timestamp
	ON production_data (timestamp);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SeedDemo inserts the sample installations when the table is empty.
func (s *Store) SeedDemo(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM installations`).Scan(&count); err != nil {
		return fmt.Errorf("count installations: %w", err)
	}
	if count > 0 {
		return nil
	}

	demo := []Installation{
		{
			ID:               uuid.New(),
			Name:             "Solar Farm Alpha",
			CapacityKW:       1000.0,
			Location:         "NAIROBI",
			Lat:              -1.2921,
			Lng:              36.8219,
			OwnerType:        "commercial",
			Status:           "active",
			InstallationYear: 2020,
		},
		{
			ID:               uuid.New(),
			Name:             "Residential Array Beta",
			CapacityKW:       10.0,
			Location:         "MOMBASA",
			Lat:              -4.0435,
			Lng:              39.6682,
			OwnerType:        "residential",
			Status:           "active",
			InstallationYear: 2023,
		},
	}

	for _, inst := range demo {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO installations
				(id, name, capacity_kw, location_name, location_lat, location_lng, owner_type, status, installation_year)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			inst.ID, inst.Name, inst.CapacityKW, inst.Location, inst.Lat, inst.Lng,
			inst.OwnerType, inst.Status, inst.InstallationYear,
		)
		if err != nil {
			return fmt.Errorf("seed installation %q: %w", inst.Name, err)
		}
	}
	return nil
}

// ListInstallations returns all active installations.
func (s *Store) ListInstallations(ctx context.Context) ([]Installation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, capacity_kw, location_name, location_lat, location_lng,
		        owner_type, status, installation_year, last_simulated_at
		 FROM installations
		 WHERE status = 'active'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list installations: %w", err)
	}
	defer rows.Close()

	var installations []Installation
	for rows.Next() {
		var inst Installation
		var lastSimulated sql.NullTime
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.CapacityKW, &inst.Location,
			&inst.Lat, &inst.Lng, &inst.OwnerType, &inst.Status,
			&inst.InstallationYear, &lastSimulated); err != nil {
			return nil, fmt.Errorf("scan installation: %w", err)
		}
		if lastSimulated.Valid {
			t := lastSimulated.Time
			inst.LastSimulatedAt = &t
		}
		installations = append(installations, inst)
	}
	return installations, rows.Err()
}

// InsertReadings writes a batch of readings for one installation in a single
// transaction. Conflicting (installation_id, timestamp) rows are skipped, so
// replaying a simulation is safe.
func (s *Store) InsertReadings(ctx context.Context, installationID uuid.UUID, readings []simulate.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO production_data
			(installation_id, timestamp, power_kw, energy_kwh, weather, solar_elevation, cell_temp_c, soiling_days)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (installation_id, timestamp) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		// Unit-hour buckets: 1 kW for 1 hour is 1 kWh.
		_, err := stmt.ExecContext(ctx, installationID, r.Timestamp, r.PowerKW, r.PowerKW,
			string(r.Weather), r.SolarElevation, r.CellTempC, r.SoilingDays)
		if err != nil {
			return fmt.Errorf("insert reading at %s: %w", r.Timestamp.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit readings: %w", err)
	}
	return nil
}

// MarkSimulated records the last successful simulation time.
func (s *Store) MarkSimulated(ctx context.Context, installationID uuid.UUID, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE installations SET last_simulated_at = $2 WHERE id = $1`,
		installationID, t)
	if err != nil {
		return fmt.Errorf("mark simulated: %w", err)
	}
	return nil
}
