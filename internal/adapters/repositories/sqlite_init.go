package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the SQLite database schema for the dispatch instance store
// and the co-located travel-time cache.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDepotsQuery := `
	CREATE TABLE IF NOT EXISTS depots (
		depot_id TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id TEXT PRIMARY KEY,
		depot_id TEXT NOT NULL REFERENCES depots(depot_id),
		departure TEXT NOT NULL,
		chef_level INTEGER NOT NULL,
		service_duration_multiplier REAL NOT NULL DEFAULT 1.0,
		day_segments TEXT NOT NULL DEFAULT '[]'
	);
	`

	createCustomersQuery := `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		ready_time TEXT,
		due_time TEXT,
		service_seconds INTEGER NOT NULL DEFAULT 0,
		order_size INTEGER NOT NULL DEFAULT 0,
		fixed_vehicle_id TEXT,
		chef_level_required INTEGER NOT NULL DEFAULT 0,
		day_segment INTEGER NOT NULL DEFAULT 0,
		allow_highways INTEGER NOT NULL DEFAULT 0
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_time_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		allow_highways INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (origin, destination, allow_highways)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_travel_time_cache_destination_origin
	ON travel_time_cache(destination, origin);
	`

	statements := []string{
		createDepotsQuery,
		createVehiclesQuery,
		createCustomersQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DepotSeed struct {
	DepotID string  `json:"depot_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type VehicleSeed struct {
	VehicleID                 string    `json:"vehicle_id"`
	DepotID                   string    `json:"depot_id"`
	Departure                 time.Time `json:"departure"`
	ChefLevel                 int       `json:"chef_level"`
	ServiceDurationMultiplier float64   `json:"service_duration_multiplier"`
	DaySegments               []int     `json:"day_segments"`
}

type CustomerSeed struct {
	CustomerID        string     `json:"customer_id"`
	Name              string     `json:"name"`
	Lat               float64    `json:"lat"`
	Lon               float64    `json:"lon"`
	ReadyTime         *time.Time `json:"ready_time"`
	DueTime           *time.Time `json:"due_time"`
	ServiceSeconds    int64      `json:"service_seconds"`
	OrderSize         int        `json:"order_size"`
	FixedVehicleID    string     `json:"fixed_vehicle_id"`
	ChefLevelRequired int        `json:"chef_level_required"`
	DaySegment        int        `json:"day_segment"`
	AllowHighways     bool       `json:"allow_highways"`
}

type InstanceSeed struct {
	Depots    []DepotSeed    `json:"depots"`
	Vehicles  []VehicleSeed  `json:"vehicles"`
	Customers []CustomerSeed `json:"customers"`
}

// Populate the database with a dispatch instance from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed instance: read %q: %w", jsonPath, err)
	}

	var seed InstanceSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed instance: parse json: %w", err)
	}

	if err := validateSeed(&seed); err != nil {
		return fmt.Errorf("seed instance: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed instance: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range seed.Depots {
		q := `INSERT OR REPLACE INTO depots (depot_id, lat, lon) VALUES (?, ?, ?);`
		if _, err := tx.Exec(q, d.DepotID, d.Lat, d.Lon); err != nil {
			return fmt.Errorf("seed instance: insert depot %q: %w", d.DepotID, err)
		}
	}

	for _, v := range seed.Vehicles {
		segments, err := json.Marshal(v.DaySegments)
		if err != nil {
			return fmt.Errorf("seed instance: vehicle %q day segments: %w", v.VehicleID, err)
		}
		multiplier := v.ServiceDurationMultiplier
		if multiplier == 0 {
			multiplier = 1.0
		}
		q := `
		INSERT OR REPLACE INTO vehicles (
			vehicle_id, depot_id, departure, chef_level,
			service_duration_multiplier, day_segments
		)
		VALUES (?, ?, ?, ?, ?, ?);
		`
		if _, err := tx.Exec(q, v.VehicleID, v.DepotID, v.Departure.Format(time.RFC3339),
			v.ChefLevel, multiplier, string(segments)); err != nil {
			return fmt.Errorf("seed instance: insert vehicle %q: %w", v.VehicleID, err)
		}
	}

	for _, c := range seed.Customers {
		q := `
		INSERT OR REPLACE INTO customers (
			customer_id, name, lat, lon, ready_time, due_time,
			service_seconds, order_size, fixed_vehicle_id,
			chef_level_required, day_segment, allow_highways
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`
		if _, err := tx.Exec(q, c.CustomerID, c.Name, c.Lat, c.Lon,
			formatNullableTime(c.ReadyTime), formatNullableTime(c.DueTime),
			c.ServiceSeconds, c.OrderSize, nullableString(c.FixedVehicleID),
			c.ChefLevelRequired, c.DaySegment, boolFlag(c.AllowHighways)); err != nil {
			return fmt.Errorf("seed instance: insert customer %q: %w", c.CustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed instance: commit tx: %w", err)
	}

	return nil
}

func validateSeed(seed *InstanceSeed) error {
	depots := make(map[string]struct{}, len(seed.Depots))
	for i, d := range seed.Depots {
		if strings.TrimSpace(d.DepotID) == "" {
			return fmt.Errorf("depot at index %d: id cannot be empty", i)
		}
		depots[d.DepotID] = struct{}{}
	}

	vehicles := make(map[string]struct{}, len(seed.Vehicles))
	for i, v := range seed.Vehicles {
		if strings.TrimSpace(v.VehicleID) == "" {
			return fmt.Errorf("vehicle at index %d: id cannot be empty", i)
		}
		if _, ok := depots[v.DepotID]; !ok {
			return fmt.Errorf("vehicle %q: unknown depot %q", v.VehicleID, v.DepotID)
		}
		if v.Departure.IsZero() {
			return fmt.Errorf("vehicle %q: departure is required", v.VehicleID)
		}
		vehicles[v.VehicleID] = struct{}{}
	}

	for i, c := range seed.Customers {
		if strings.TrimSpace(c.CustomerID) == "" {
			return fmt.Errorf("customer at index %d: id cannot be empty", i)
		}
		if c.FixedVehicleID != "" {
			if _, ok := vehicles[c.FixedVehicleID]; !ok {
				return fmt.Errorf("customer %q: unknown fixed vehicle %q", c.CustomerID, c.FixedVehicleID)
			}
		}
	}

	return nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

func nullableString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
