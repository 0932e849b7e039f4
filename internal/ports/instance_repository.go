package ports

import (
	"context"
	"dispatch-route-solver/internal/domain"
)

// Port: a boundary for retrieving the dispatch problem instance from a
// data source.
type InstanceRepository interface {
	// Load the full instance (depots, vehicles, customers) for solving.
	LoadInstance(ctx context.Context) (domain.Instance, error)
}
