package solver

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/traveltime"
)

// Shared fixtures for the solver tests. Locations sit on a line so every
// leg duration is easy to predict: 600 s per unit of coordinate distance
// without highways, 400 s with.

var baseTime = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type lineProvider struct{}

func (lineProvider) TravelTime(_ context.Context, from, to domain.Location, allowHighways bool) (int64, error) {
	d := math.Abs(from.Lat-to.Lat) + math.Abs(from.Lon-to.Lon)
	if allowHighways {
		return int64(d * 400), nil
	}
	return int64(d * 600), nil
}

func loc(lat float64) domain.Location { return domain.Location{Lat: lat, Lon: 0} }

func buildMatrix(t *testing.T, locations []domain.Location) *traveltime.Matrix {
	t.Helper()
	m, err := traveltime.Build(context.Background(), locations, lineProvider{})
	require.NoError(t, err)
	return m
}

func testDepot() *domain.Depot {
	return &domain.Depot{ID: "depot-1", Location: loc(0)}
}

func testVehicle(id string, chefLevel int) *domain.Vehicle {
	return &domain.Vehicle{
		ID:            id,
		Depot:         testDepot(),
		DepartureTime: baseTime,
		ChefLevel:     chefLevel,
	}
}

func testCustomer(id string, lat float64) *domain.Customer {
	return &domain.Customer{
		ID:       id,
		Name:     "Customer " + id,
		Location: loc(lat),
	}
}

func newTestSolution(t *testing.T, vehicles []*domain.Vehicle, customers []*domain.Customer) *Solution {
	t.Helper()

	locations := make([]domain.Location, 0, len(vehicles)+len(customers))
	for _, v := range vehicles {
		locations = append(locations, v.Depot.Location)
	}
	for _, c := range customers {
		locations = append(locations, c.Location)
	}

	s, err := NewSolution(vehicles, customers, buildMatrix(t, locations), DefaultRuleWeights())
	require.NoError(t, err)
	return s
}

func mustApply(t *testing.T, s *Solution, e Edit) ScoreDelta {
	t.Helper()
	delta, err := s.Apply(e)
	require.NoError(t, err)
	return delta
}
