// Package solver implements the route-state substrate a search driver
// mutates: the assignment of customers to vehicle chains, the incremental
// propagation of arrival times after each edit, and the three-tier
// constraint score over the result.
//
// The solver never chooses edits. A driver applies one edit at a time
// through Apply, receives the exact score delta, and decides acceptance
// itself. Concurrent exploration must use independent Clones; the
// travel-time matrix is shared read-only.
package solver

import (
	"fmt"
	"time"

	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/traveltime"
)

// Solution is the mutable assignment state for one problem instance.
//
// Entities (vehicles, customers) are immutable facts held in flat slices;
// all mutable state is index-based: per-vehicle route order as customer
// indices, plus parallel slices for the derived facts (owning vehicle,
// chain neighbors, arrival time). Adjacency links are a projection of the
// authoritative routes slices, regenerated by propagation after every
// structural edit. -1 and the zero time.Time mean "absent".
type Solution struct {
	vehicles  []*domain.Vehicle
	customers []*domain.Customer
	matrix    *traveltime.Matrix
	weights   RuleWeights

	vehIndex  map[string]int
	custIndex map[string]int

	// Resolved matrix indices, fixed at construction.
	custLoc  []int // per customer
	depotLoc []int // per vehicle

	fixedVeh []int // per customer: pinned vehicle index, -1 if unpinned

	routes   [][]int     // per vehicle: ordered customer indices
	assigned []int       // per customer: vehicle index, -1 if unassigned
	prevStop []int       // per customer: preceding customer index, -1 at chain head
	nextStop []int       // per customer: following customer index, -1 at chain tail
	arrival  []time.Time // per customer: zero while unassigned

	vehScores []Score // cached per-vehicle rule contributions
	score     Score
}

// NewSolution builds an empty solution (every customer unassigned) over the
// given facts. The matrix must cover every depot and customer location;
// construction fails otherwise, so duration lookups during solving are
// total. Fixed-vehicle references must resolve to vehicles of the problem.
func NewSolution(vehicles []*domain.Vehicle, customers []*domain.Customer, matrix *traveltime.Matrix, weights RuleWeights) (*Solution, error) {
	if matrix == nil {
		return nil, fmt.Errorf("solver: nil travel-time matrix")
	}

	s := &Solution{
		vehicles:  vehicles,
		customers: customers,
		matrix:    matrix,
		weights:   weights,
		vehIndex:  make(map[string]int, len(vehicles)),
		custIndex: make(map[string]int, len(customers)),
		custLoc:   make([]int, len(customers)),
		depotLoc:  make([]int, len(vehicles)),
		fixedVeh:  make([]int, len(customers)),
		routes:    make([][]int, len(vehicles)),
		assigned:  make([]int, len(customers)),
		prevStop:  make([]int, len(customers)),
		nextStop:  make([]int, len(customers)),
		arrival:   make([]time.Time, len(customers)),
		vehScores: make([]Score, len(vehicles)),
	}

	for vi, v := range vehicles {
		if v == nil || v.Depot == nil {
			return nil, fmt.Errorf("solver: vehicle #%d has no depot", vi)
		}
		if v.DepartureTime.IsZero() {
			return nil, fmt.Errorf("solver: vehicle %q has no departure time", v.ID)
		}
		if _, dup := s.vehIndex[v.ID]; dup {
			return nil, fmt.Errorf("solver: duplicate vehicle id %q", v.ID)
		}
		li, ok := matrix.Index(v.Depot.Location)
		if !ok {
			return nil, fmt.Errorf("solver: depot %q: %w", v.Depot.ID, traveltime.ErrUnknownLocationPair)
		}
		s.vehIndex[v.ID] = vi
		s.depotLoc[vi] = li
		s.routes[vi] = []int{}
	}

	for ci, c := range customers {
		if c == nil {
			return nil, fmt.Errorf("solver: nil customer at #%d", ci)
		}
		if _, dup := s.custIndex[c.ID]; dup {
			return nil, fmt.Errorf("solver: duplicate customer id %q", c.ID)
		}
		li, ok := matrix.Index(c.Location)
		if !ok {
			return nil, fmt.Errorf("solver: customer %q: %w", c.ID, traveltime.ErrUnknownLocationPair)
		}
		s.custIndex[c.ID] = ci
		s.custLoc[ci] = li
		s.assigned[ci] = -1
		s.prevStop[ci] = -1
		s.nextStop[ci] = -1

		s.fixedVeh[ci] = -1
		if c.FixedVehicleID != "" {
			vi, ok := s.vehIndex[c.FixedVehicleID]
			if !ok {
				return nil, fmt.Errorf("solver: customer %q pinned to %q: %w", c.ID, c.FixedVehicleID, ErrUnknownVehicle)
			}
			s.fixedVeh[ci] = vi
		}
	}

	for vi := range vehicles {
		s.vehScores[vi] = s.scoreVehicle(vi)
		s.score = s.score.Add(s.vehScores[vi])
	}

	return s, nil
}

// Score returns the current aggregate score.
func (s *Solution) Score() Score { return s.score }

// Vehicles returns the problem's vehicles in instance order.
func (s *Solution) Vehicles() []*domain.Vehicle { return s.vehicles }

// Customers returns the problem's customers in instance order.
func (s *Solution) Customers() []*domain.Customer { return s.customers }

// Route returns the ordered customer chain of a vehicle.
func (s *Solution) Route(vehicleID string) ([]*domain.Customer, error) {
	vi, ok := s.vehIndex[vehicleID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVehicle, vehicleID)
	}
	out := make([]*domain.Customer, len(s.routes[vi]))
	for i, ci := range s.routes[vi] {
		out[i] = s.customers[ci]
	}
	return out, nil
}

// Unassigned returns every customer currently on no vehicle.
func (s *Solution) Unassigned() []*domain.Customer {
	var out []*domain.Customer
	for ci, vi := range s.assigned {
		if vi < 0 {
			out = append(out, s.customers[ci])
		}
	}
	return out
}

// PositionOf reports where a customer currently sits. ok is false when the
// customer is unknown or unassigned.
func (s *Solution) PositionOf(customerID string) (vehicleID string, position int, ok bool) {
	ci, known := s.custIndex[customerID]
	if !known || s.assigned[ci] < 0 {
		return "", 0, false
	}
	vi := s.assigned[ci]
	for pos, other := range s.routes[vi] {
		if other == ci {
			return s.vehicles[vi].ID, pos, true
		}
	}
	return "", 0, false
}

// AssignedVehicle returns the vehicle currently serving a customer, or nil.
func (s *Solution) AssignedVehicle(customerID string) *domain.Vehicle {
	ci, ok := s.custIndex[customerID]
	if !ok || s.assigned[ci] < 0 {
		return nil
	}
	return s.vehicles[s.assigned[ci]]
}

// Previous returns the customer immediately before this one in its chain,
// or nil at the chain head (where the neighbor is the depot).
func (s *Solution) Previous(customerID string) *domain.Customer {
	ci, ok := s.custIndex[customerID]
	if !ok || s.prevStop[ci] < 0 {
		return nil
	}
	return s.customers[s.prevStop[ci]]
}

// Next returns the customer immediately after this one in its chain, or
// nil at the chain tail.
func (s *Solution) Next(customerID string) *domain.Customer {
	ci, ok := s.custIndex[customerID]
	if !ok || s.nextStop[ci] < 0 {
		return nil
	}
	return s.customers[s.nextStop[ci]]
}

// ArrivalTime returns the propagated arrival time at a customer. ok is
// false while the customer is unassigned (the fact is undefined).
func (s *Solution) ArrivalTime(customerID string) (time.Time, bool) {
	ci, known := s.custIndex[customerID]
	if !known || s.arrival[ci].IsZero() {
		return time.Time{}, false
	}
	return s.arrival[ci], true
}

// ServiceStartTime returns max(arrival, ready time) for a customer.
func (s *Solution) ServiceStartTime(customerID string) (time.Time, bool) {
	ci, known := s.custIndex[customerID]
	if !known {
		return time.Time{}, false
	}
	return s.serviceStart(ci)
}

// DepartureTime returns service start + service duration for a customer.
func (s *Solution) DepartureTime(customerID string) (time.Time, bool) {
	ci, known := s.custIndex[customerID]
	if !known {
		return time.Time{}, false
	}
	return s.stopDeparture(ci)
}

// VehicleDrivingSeconds returns the summed leg durations of a vehicle's
// current chain, depot to depot. Zero for an empty chain.
func (s *Solution) VehicleDrivingSeconds(vehicleID string) (int64, error) {
	vi, ok := s.vehIndex[vehicleID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVehicle, vehicleID)
	}
	return s.drivingSeconds(vi), nil
}

// Clone returns an independent copy of the solution state. Entity facts,
// rule weights and the travel-time matrix are shared (all read-only); the
// mutable assignment and derived-fact slices are copied. Clones may be
// edited concurrently with the original without synchronization.
func (s *Solution) Clone() *Solution {
	c := *s

	c.routes = make([][]int, len(s.routes))
	for vi, r := range s.routes {
		c.routes[vi] = append([]int(nil), r...)
	}
	c.assigned = append([]int(nil), s.assigned...)
	c.prevStop = append([]int(nil), s.prevStop...)
	c.nextStop = append([]int(nil), s.nextStop...)
	c.arrival = append([]time.Time(nil), s.arrival...)
	c.vehScores = append([]Score(nil), s.vehScores...)

	return &c
}

// serviceStart returns max(arrival, ready). ok is false while the arrival
// fact is undefined.
func (s *Solution) serviceStart(ci int) (time.Time, bool) {
	a := s.arrival[ci]
	if a.IsZero() {
		return time.Time{}, false
	}
	if ready := s.customers[ci].ReadyTime; a.Before(ready) {
		return ready, true
	}
	return a, true
}

func (s *Solution) stopDeparture(ci int) (time.Time, bool) {
	start, ok := s.serviceStart(ci)
	if !ok {
		return time.Time{}, false
	}
	return start.Add(s.customers[ci].ServiceDuration), true
}

func (s *Solution) insertAt(vi, pos, ci int) {
	route := s.routes[vi]
	route = append(route, 0)
	copy(route[pos+1:], route[pos:])
	route[pos] = ci
	s.routes[vi] = route
	s.assigned[ci] = vi
}

func (s *Solution) removeAt(vi, pos int) int {
	route := s.routes[vi]
	ci := route[pos]
	s.routes[vi] = append(route[:pos], route[pos+1:]...)
	s.assigned[ci] = -1
	s.prevStop[ci] = -1
	s.nextStop[ci] = -1
	s.arrival[ci] = time.Time{}
	return ci
}
