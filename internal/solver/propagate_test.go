package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dispatch-route-solver/internal/domain"
)

func TestArrivalTimesPropagateAlongChain(t *testing.T) {
	s := newTestSolution(t,
		[]*domain.Vehicle{testVehicle("veh-1", 3)},
		[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2)},
	)

	mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})
	mustApply(t, s, Assign{CustomerID: "cust-2", VehicleID: "veh-1", Position: 1})

	// Depot departure 08:00, 600 s per unit of distance.
	a1, ok := s.ArrivalTime("cust-1")
	require.True(t, ok)
	require.Equal(t, baseTime.Add(10*time.Minute), a1)

	a2, ok := s.ArrivalTime("cust-2")
	require.True(t, ok)
	require.Equal(t, baseTime.Add(20*time.Minute), a2)
}

func TestServiceWaitsForReadyTime(t *testing.T) {
	early := testCustomer("cust-1", 1)
	early.ReadyTime = baseTime.Add(30 * time.Minute)
	early.ServiceDuration = 10 * time.Minute
	next := testCustomer("cust-2", 2)

	s := newTestSolution(t, []*domain.Vehicle{testVehicle("veh-1", 3)}, []*domain.Customer{early, next})
	mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})
	mustApply(t, s, Assign{CustomerID: "cust-2", VehicleID: "veh-1", Position: 1})

	arrival, ok := s.ArrivalTime("cust-1")
	require.True(t, ok)
	require.Equal(t, baseTime.Add(10*time.Minute), arrival)

	start, ok := s.ServiceStartTime("cust-1")
	require.True(t, ok)
	require.Equal(t, early.ReadyTime, start)

	departure, ok := s.DepartureTime("cust-1")
	require.True(t, ok)
	require.Equal(t, baseTime.Add(40*time.Minute), departure)

	// The wait pushes everything downstream: depart 08:40, 600 s leg.
	a2, ok := s.ArrivalTime("cust-2")
	require.True(t, ok)
	require.Equal(t, baseTime.Add(50*time.Minute), a2)
}

func TestInsertionRecomputesDownstreamArrivals(t *testing.T) {
	s := newTestSolution(t,
		[]*domain.Vehicle{testVehicle("veh-1", 3)},
		[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2), testCustomer("cust-3", 3)},
	)
	mustApply(t, s, Assign{CustomerID: "cust-2", VehicleID: "veh-1", Position: 0})
	mustApply(t, s, Assign{CustomerID: "cust-3", VehicleID: "veh-1", Position: 1})

	// depot -> cust-2 is two units: arrive 08:20.
	a2, _ := s.ArrivalTime("cust-2")
	require.Equal(t, baseTime.Add(20*time.Minute), a2)

	// Inserting cust-1 at the head reroutes the whole chain:
	// depot -> 1 (10 min) -> 2 (10 min) -> 3 (10 min).
	mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})

	a1, _ := s.ArrivalTime("cust-1")
	a2, _ = s.ArrivalTime("cust-2")
	a3, _ := s.ArrivalTime("cust-3")
	require.Equal(t, baseTime.Add(10*time.Minute), a1)
	require.Equal(t, baseTime.Add(20*time.Minute), a2)
	require.Equal(t, baseTime.Add(30*time.Minute), a3)
}

func TestHighwayPreferenceCombinesAcrossLegs(t *testing.T) {
	slow := testCustomer("cust-slow", 1) // AllowHighways false
	fast := testCustomer("cust-fast", 2)
	fast.AllowHighways = true

	s := newTestSolution(t, []*domain.Vehicle{testVehicle("veh-1", 3)}, []*domain.Customer{slow, fast})
	mustApply(t, s, Assign{CustomerID: "cust-slow", VehicleID: "veh-1", Position: 0})
	mustApply(t, s, Assign{CustomerID: "cust-fast", VehicleID: "veh-1", Position: 1})

	// First leg obeys the head stop alone (600 s/unit), the interior leg
	// allows highways because one endpoint wants them (400 s/unit), and the
	// return leg obeys the tail stop alone (400 s/unit over two units).
	total, err := s.VehicleDrivingSeconds("veh-1")
	require.NoError(t, err)
	require.Equal(t, int64(600+400+800), total)

	aFast, ok := s.ArrivalTime("cust-fast")
	require.True(t, ok)
	require.Equal(t, baseTime.Add(10*time.Minute).Add(400*time.Second), aFast)
}

func TestPropagationIsDeterministic(t *testing.T) {
	build := func() *Solution {
		s := newTestSolution(t,
			[]*domain.Vehicle{testVehicle("veh-1", 3), testVehicle("veh-2", 3)},
			[]*domain.Customer{testCustomer("cust-1", 1), testCustomer("cust-2", 2), testCustomer("cust-3", 3)},
		)
		mustApply(t, s, Assign{CustomerID: "cust-1", VehicleID: "veh-1", Position: 0})
		mustApply(t, s, Assign{CustomerID: "cust-2", VehicleID: "veh-2", Position: 0})
		mustApply(t, s, Assign{CustomerID: "cust-3", VehicleID: "veh-1", Position: 1})
		mustApply(t, s, Move{CustomerID: "cust-3", Position: 0})
		mustApply(t, s, Swap{CustomerA: "cust-1", CustomerB: "cust-2"})
		return s
	}

	a, b := build(), build()
	require.Equal(t, a.Score(), b.Score())
	for _, id := range []string{"cust-1", "cust-2", "cust-3"} {
		at, aok := a.ArrivalTime(id)
		bt, bok := b.ArrivalTime(id)
		require.Equal(t, aok, bok)
		require.Equal(t, at, bt)
	}
}
