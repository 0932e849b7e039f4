package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/traveltime"
)

func TestNewSolutionValidation(t *testing.T) {
	v := testVehicle("veh-1", 3)
	c := testCustomer("cust-1", 1)
	matrix := buildMatrix(t, []domain.Location{loc(0), loc(1)})

	t.Run("nil matrix", func(t *testing.T) {
		_, err := NewSolution([]*domain.Vehicle{v}, []*domain.Customer{c}, nil, DefaultRuleWeights())
		require.Error(t, err)
	})

	t.Run("duplicate vehicle id", func(t *testing.T) {
		_, err := NewSolution([]*domain.Vehicle{v, testVehicle("veh-1", 2)}, nil, matrix, DefaultRuleWeights())
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate vehicle")
	})

	t.Run("duplicate customer id", func(t *testing.T) {
		_, err := NewSolution([]*domain.Vehicle{v}, []*domain.Customer{c, testCustomer("cust-1", 1)}, matrix, DefaultRuleWeights())
		require.Error(t, err)
		require.Contains(t, err.Error(), "duplicate customer")
	})

	t.Run("missing departure time", func(t *testing.T) {
		bad := testVehicle("veh-2", 3)
		bad.DepartureTime = time.Time{}
		_, err := NewSolution([]*domain.Vehicle{bad}, nil, matrix, DefaultRuleWeights())
		require.Error(t, err)
	})

	t.Run("location not covered by matrix", func(t *testing.T) {
		far := testCustomer("cust-2", 99)
		_, err := NewSolution([]*domain.Vehicle{v}, []*domain.Customer{far}, matrix, DefaultRuleWeights())
		require.ErrorIs(t, err, traveltime.ErrUnknownLocationPair)
	})

	t.Run("fixed vehicle must exist", func(t *testing.T) {
		pinned := testCustomer("cust-3", 1)
		pinned.FixedVehicleID = "veh-missing"
		_, err := NewSolution([]*domain.Vehicle{v}, []*domain.Customer{pinned}, matrix, DefaultRuleWeights())
		require.ErrorIs(t, err, ErrUnknownVehicle)
	})
}

func TestNewSolutionStartsEmpty(t *testing.T) {
	s := newTestSolution(t,
		[]*domain.Vehicle{testVehicle("veh-1", 3)},
		[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2)},
	)

	require.Equal(t, Score{}, s.Score())
	require.Len(t, s.Unassigned(), 2)

	route, err := s.Route("veh-1")
	require.NoError(t, err)
	require.Empty(t, route)

	_, _, ok := s.PositionOf("cust-1")
	require.False(t, ok)
	require.Nil(t, s.AssignedVehicle("cust-1"))
	_, ok = s.ArrivalTime("cust-1")
	require.False(t, ok)
}

func TestSolutionAccessorsAfterAssign(t *testing.T) {
	s := newTestSolution(t,
		[]*domain.Vehicle{testVehicle("veh-1", 3)},
		[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2)},
	)

	mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})
	mustApply(t, s, Assign{CustomerID: "cust-2", VehicleID: "veh-1", Position: 1})

	vehID, pos, ok := s.PositionOf("cust-2")
	require.True(t, ok)
	require.Equal(t, "veh-1", vehID)
	require.Equal(t, 1, pos)

	require.Equal(t, "veh-1", s.AssignedVehicle("cust-1").ID)
	require.Nil(t, s.Previous("cust-1"))
	require.Equal(t, "cust-2", s.Next("cust-1").ID)
	require.Equal(t, "cust-1", s.Previous("cust-2").ID)
	require.Nil(t, s.Next("cust-2"))
	require.Empty(t, s.Unassigned())

	route, err := s.Route("veh-1")
	require.NoError(t, err)
	require.Len(t, route, 2)
	require.Equal(t, "cust-1", route[0].ID)

	_, err = s.Route("veh-missing")
	require.ErrorIs(t, err, ErrUnknownVehicle)
}

func TestRejectedEditLeavesStateUntouched(t *testing.T) {
	s := newTestSolution(t,
		[]*domain.Vehicle{testVehicle("veh-1", 3)},
		[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2)},
	)
	mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})

	before := s.Score()
	arrivalBefore, _ := s.ArrivalTime("cust-1")

	delta, err := s.Apply(Assign{CustomerID: "cust-2", VehicleID: "veh-1", Position: 5})
	require.ErrorIs(t, err, ErrInvalidPosition)
	require.Equal(t, ScoreDelta{}, delta)

	require.Equal(t, before, s.Score())
	route, err := s.Route("veh-1")
	require.NoError(t, err)
	require.Len(t, route, 1)
	arrivalAfter, _ := s.ArrivalTime("cust-1")
	require.Equal(t, arrivalBefore, arrivalAfter)
	require.Len(t, s.Unassigned(), 1)
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestSolution(t,
		[]*domain.Vehicle{testVehicle("veh-1", 3)},
		[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2)},
	)
	mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})

	clone := s.Clone()
	require.Equal(t, s.Score(), clone.Score())

	mustApply(t, clone, Assign{CustomerID: "cust-2", VehicleID: "veh-1", Position: 1})
	mustApply(t, clone, Unassign{CustomerID: "cust-1"})

	// The original still has exactly its own assignment.
	route, err := s.Route("veh-1")
	require.NoError(t, err)
	require.Len(t, route, 1)
	require.Equal(t, "cust-1", route[0].ID)
	require.Len(t, s.Unassigned(), 1)

	cloneRoute, err := clone.Route("veh-1")
	require.NoError(t, err)
	require.Len(t, cloneRoute, 1)
	require.Equal(t, "cust-2", cloneRoute[0].ID)
	require.NotEqual(t, s.Score(), clone.Score())
}
