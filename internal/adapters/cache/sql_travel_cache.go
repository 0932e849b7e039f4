package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dispatch-route-solver/internal/domain"
)

// SQLTravelTimeCache is the Postgres variant of the travel-duration cache,
// for deployments where several planners share one warm cache.
type SQLTravelTimeCache struct {
	DB *sql.DB
}

func NewSQLTravelTimeCache(db *sql.DB) *SQLTravelTimeCache {
	return &SQLTravelTimeCache{DB: db}
}

// InitSchema creates the cache table when absent.
func (s *SQLTravelTimeCache) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS travel_time_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		allow_highways INTEGER NOT NULL,
		duration_seconds BIGINT NOT NULL,
		PRIMARY KEY (origin, destination, allow_highways)
	);
	`
	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init travel cache schema: %w", err)
	}
	return nil
}

func (s *SQLTravelTimeCache) Get(
	ctx context.Context,
	from, to domain.Location,
	allowHighways bool,
) (int64, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("travel cache: db is nil")
	}

	q := `
	SELECT duration_seconds
	FROM travel_time_cache
	WHERE origin = $1
		AND destination = $2
		AND allow_highways = $3;
	`

	var seconds int64
	err := s.DB.QueryRowContext(ctx, q, locKey(from), locKey(to), modeFlag(allowHighways)).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get travel cache: query travel_time_cache table: %w", err)
	}

	return seconds, true, nil
}

func (s *SQLTravelTimeCache) Put(
	ctx context.Context,
	from, to domain.Location,
	allowHighways bool,
	seconds int64,
) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if seconds < 0 {
		return fmt.Errorf("insert travel cache: negative duration %d", seconds)
	}

	q := `
	INSERT INTO travel_time_cache (origin, destination, allow_highways, duration_seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination, allow_highways) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds;
	`

	if _, err := s.DB.ExecContext(ctx, q, locKey(from), locKey(to), modeFlag(allowHighways), seconds); err != nil {
		return fmt.Errorf("insert travel cache: %w", err)
	}

	return nil
}
