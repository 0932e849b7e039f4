package ports

import (
	"context"
	"dispatch-route-solver/internal/domain"
)

// Contract for acquiring the driving time between two locations, with or
// without limited-access roads. Implementations are queried only while the
// travel-time matrix is built; the solver itself never calls out.
type TravelTimeProvider interface {
	// TravelTime returns the driving duration in whole seconds from one
	// location to another. Implementations must return a non-negative
	// value or an error; they must never report an unknown pair as zero.
	TravelTime(ctx context.Context, from, to domain.Location, allowHighways bool) (int64, error)
}
