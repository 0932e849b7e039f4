package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/platform/obs"
)

// SQLite-backed implementation of the InstanceRepository port.
type SqliteInstanceRepository struct{ DB *sql.DB }

func NewSqliteInstanceRepository(db *sql.DB) *SqliteInstanceRepository {
	return &SqliteInstanceRepository{DB: db}
}

// Load the full dispatch instance. Vehicle depot references and customer
// fixed-vehicle references are resolved against the loaded rows; a
// dangling reference is an error, not a silent nil.
func (s *SqliteInstanceRepository) LoadInstance(ctx context.Context) (_ domain.Instance, err error) {
	defer obs.Time(ctx, "load_instance")(&err)

	if s.DB == nil {
		return domain.Instance{}, errors.New("sqlite instance repository: DB is nil")
	}

	depots, depotsByID, err := s.loadDepots(ctx)
	if err != nil {
		return domain.Instance{}, err
	}

	vehicles, err := s.loadVehicles(ctx, depotsByID)
	if err != nil {
		return domain.Instance{}, err
	}

	customers, err := s.loadCustomers(ctx)
	if err != nil {
		return domain.Instance{}, err
	}

	return domain.Instance{Depots: depots, Vehicles: vehicles, Customers: customers}, nil
}

func (s *SqliteInstanceRepository) loadDepots(ctx context.Context) ([]*domain.Depot, map[string]*domain.Depot, error) {
	q := `
	SELECT depot_id, lat, lon
	FROM depots
	ORDER BY depot_id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("load instance: query depots table: %w", err)
	}
	defer rows.Close()

	depots := make([]*domain.Depot, 0, 4)
	byID := make(map[string]*domain.Depot, 4)
	for rows.Next() {
		var d domain.Depot
		if err := rows.Scan(&d.ID, &d.Location.Lat, &d.Location.Lon); err != nil {
			return nil, nil, fmt.Errorf("load instance: scan depot row: %w", err)
		}
		depot := d
		depots = append(depots, &depot)
		byID[depot.ID] = &depot
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load instance: depot row iteration: %w", err)
	}

	return depots, byID, nil
}

func (s *SqliteInstanceRepository) loadVehicles(ctx context.Context, depots map[string]*domain.Depot) ([]*domain.Vehicle, error) {
	q := `
	SELECT vehicle_id, depot_id, departure, chef_level,
		service_duration_multiplier, day_segments
	FROM vehicles
	ORDER BY vehicle_id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load instance: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 8)
	for rows.Next() {
		var (
			v         domain.Vehicle
			depotID   string
			departure string
			segments  string
		)
		if err := rows.Scan(&v.ID, &depotID, &departure, &v.ChefLevel,
			&v.ServiceDurationMultiplier, &segments); err != nil {
			return nil, fmt.Errorf("load instance: scan vehicle row: %w", err)
		}

		depot, ok := depots[depotID]
		if !ok {
			return nil, fmt.Errorf("load instance: vehicle %q references unknown depot %q", v.ID, depotID)
		}
		v.Depot = depot

		v.DepartureTime, err = time.Parse(time.RFC3339, departure)
		if err != nil {
			return nil, fmt.Errorf("load instance: vehicle %q departure %q: %w", v.ID, departure, err)
		}

		if err := json.Unmarshal([]byte(segments), &v.DaySegments); err != nil {
			return nil, fmt.Errorf("load instance: vehicle %q day segments: %w", v.ID, err)
		}

		vehicle := v
		vehicles = append(vehicles, &vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load instance: vehicle row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *SqliteInstanceRepository) loadCustomers(ctx context.Context) ([]*domain.Customer, error) {
	q := `
	SELECT customer_id, name, lat, lon, ready_time, due_time,
		service_seconds, order_size, fixed_vehicle_id,
		chef_level_required, day_segment, allow_highways
	FROM customers
	ORDER BY customer_id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load instance: query customers table: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0, 64)
	for rows.Next() {
		var (
			c              domain.Customer
			ready, due     sql.NullString
			serviceSeconds int64
			fixedVehicle   sql.NullString
			allowHighways  int
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Location.Lat, &c.Location.Lon,
			&ready, &due, &serviceSeconds, &c.OrderSize, &fixedVehicle,
			&c.ChefLevelRequired, &c.DaySegment, &allowHighways); err != nil {
			return nil, fmt.Errorf("load instance: scan customer row: %w", err)
		}

		if c.ReadyTime, err = parseNullableTime(ready); err != nil {
			return nil, fmt.Errorf("load instance: customer %q ready time: %w", c.ID, err)
		}
		if c.DueTime, err = parseNullableTime(due); err != nil {
			return nil, fmt.Errorf("load instance: customer %q due time: %w", c.ID, err)
		}

		c.ServiceDuration = time.Duration(serviceSeconds) * time.Second
		c.FixedVehicleID = fixedVehicle.String
		c.AllowHighways = allowHighways != 0

		customer := c
		customers = append(customers, &customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load instance: customer row iteration: %w", err)
	}

	return customers, nil
}

func parseNullableTime(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v.String)
}
