package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dispatch-route-solver/internal/domain"
)

// SQLite backed cache for travel durations, keyed by the ordered location
// pair and highway mode. Embedded deployments share the instance database.
type SqliteTravelTimeCache struct {
	DB *sql.DB
}

func NewSqliteTravelTimeCache(db *sql.DB) *SqliteTravelTimeCache {
	return &SqliteTravelTimeCache{DB: db}
}

// Fetch a cached duration; ok is false on a miss.
func (s *SqliteTravelTimeCache) Get(
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
	WHERE origin = ?
		AND destination = ?
		AND allow_highways = ?;
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

// Store one duration, replacing any previous value for the same key.
func (s *SqliteTravelTimeCache) Put(
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
	INSERT OR REPLACE INTO travel_time_cache (
		origin,
		destination,
		allow_highways,
		duration_seconds
	)
	VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, locKey(from), locKey(to), modeFlag(allowHighways), seconds); err != nil {
		return fmt.Errorf("insert travel cache: %w", err)
	}

	return nil
}
