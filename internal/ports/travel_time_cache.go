package ports

import (
	"context"
	"dispatch-route-solver/internal/domain"
)

// Persistent cache for travel durations, keyed by the ordered location pair
// and the highway mode. A miss is reported through the ok result, not an
// error, so callers can fall through to a live provider.
type TravelTimeCache interface {
	Get(ctx context.Context, from, to domain.Location, allowHighways bool) (seconds int64, ok bool, err error)
	Put(ctx context.Context, from, to domain.Location, allowHighways bool, seconds int64) error
}
