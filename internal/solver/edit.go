package solver

import "fmt"

// The edit interface is the sole mutation entry point exposed to a search
// driver. Every edit is validated in full before the first mutation, so a
// rejected edit provably leaves the solution untouched; on success the
// structural change, link regeneration, temporal propagation and rescoring
// all complete before Apply returns, and the returned delta is exactly
// (score after) - (score before).

// Edit is an atomic structural mutation of the solution. The concrete
// types are Assign, Unassign, Move and Swap.
type Edit interface {
	// check validates the edit against current state and plans which
	// vehicle tails need repropagation. It must not mutate.
	check(s *Solution) (editPlan, error)
	// mutate performs the structural change. It runs only after check
	// succeeded on the same unchanged state.
	mutate(s *Solution)
}

// editPlan names the chains an edit dirties: up to two vehicles, each with
// the earliest position whose derived facts are stale. Tracking the
// earliest position is what keeps propagation O(affected tail) rather than
// O(whole vehicle) for edits deep in a chain.
type editPlan struct {
	n        int
	vehicles [2]int
	from     [2]int
}

func planOne(vi, from int) editPlan {
	return editPlan{n: 1, vehicles: [2]int{vi, -1}, from: [2]int{from, 0}}
}

func planTwo(viA, fromA, viB, fromB int) editPlan {
	if viA == viB {
		if fromB < fromA {
			fromA = fromB
		}
		return planOne(viA, fromA)
	}
	return editPlan{n: 2, vehicles: [2]int{viA, viB}, from: [2]int{fromA, fromB}}
}

// Apply validates, performs and scores one edit, returning the exact score
// delta. On error the solution is unchanged and the delta is zero.
func (s *Solution) Apply(e Edit) (ScoreDelta, error) {
	plan, err := e.check(s)
	if err != nil {
		return ScoreDelta{}, err
	}

	before := s.score
	e.mutate(s)

	for k := 0; k < plan.n; k++ {
		vi := plan.vehicles[k]
		s.propagate(vi, plan.from[k])

		fresh := s.scoreVehicle(vi)
		s.score = s.score.Sub(s.vehScores[vi]).Add(fresh)
		s.vehScores[vi] = fresh
	}

	return s.score.Sub(before), nil
}

// Assign inserts an unassigned customer into a vehicle's chain at the
// given position. Valid positions are 0 through the chain's current
// length (appending).
type Assign struct {
	CustomerID string
	VehicleID  string
	Position   int
}

func (e Assign) check(s *Solution) (editPlan, error) {
	ci, ok := s.custIndex[e.CustomerID]
	if !ok {
		return editPlan{}, wrapID(ErrUnknownCustomer, e.CustomerID)
	}
	vi, ok := s.vehIndex[e.VehicleID]
	if !ok {
		return editPlan{}, wrapID(ErrUnknownVehicle, e.VehicleID)
	}
	if s.assigned[ci] >= 0 {
		return editPlan{}, wrapID(ErrAlreadyAssigned, e.CustomerID)
	}
	if e.Position < 0 || e.Position > len(s.routes[vi]) {
		return editPlan{}, wrapPos(ErrInvalidPosition, e.Position, len(s.routes[vi]))
	}
	return planOne(vi, e.Position), nil
}

func (e Assign) mutate(s *Solution) {
	s.insertAt(s.vehIndex[e.VehicleID], e.Position, s.custIndex[e.CustomerID])
}

// Unassign removes a customer from its vehicle, leaving it unplaced; its
// temporal facts become undefined and it stops contributing to every rule.
type Unassign struct {
	CustomerID string
}

func (e Unassign) check(s *Solution) (editPlan, error) {
	ci, ok := s.custIndex[e.CustomerID]
	if !ok {
		return editPlan{}, wrapID(ErrUnknownCustomer, e.CustomerID)
	}
	vi := s.assigned[ci]
	if vi < 0 {
		return editPlan{}, wrapID(ErrNotAssigned, e.CustomerID)
	}
	return planOne(vi, s.positionIn(vi, ci)), nil
}

func (e Unassign) mutate(s *Solution) {
	ci := s.custIndex[e.CustomerID]
	vi := s.assigned[ci]
	s.removeAt(vi, s.positionIn(vi, ci))
}

// Move repositions a customer within its current vehicle. Position refers
// to the index in the resulting sequence, 0 through length-1.
type Move struct {
	CustomerID string
	Position   int
}

func (e Move) check(s *Solution) (editPlan, error) {
	ci, ok := s.custIndex[e.CustomerID]
	if !ok {
		return editPlan{}, wrapID(ErrUnknownCustomer, e.CustomerID)
	}
	vi := s.assigned[ci]
	if vi < 0 {
		return editPlan{}, wrapID(ErrNotAssigned, e.CustomerID)
	}
	if e.Position < 0 || e.Position >= len(s.routes[vi]) {
		return editPlan{}, wrapPos(ErrInvalidPosition, e.Position, len(s.routes[vi])-1)
	}
	old := s.positionIn(vi, ci)
	from := old
	if e.Position < from {
		from = e.Position
	}
	return planOne(vi, from), nil
}

func (e Move) mutate(s *Solution) {
	ci := s.custIndex[e.CustomerID]
	vi := s.assigned[ci]
	old := s.positionIn(vi, ci)
	if old == e.Position {
		return
	}
	s.removeAt(vi, old)
	s.insertAt(vi, e.Position, ci)
}

// Swap exchanges the chain slots of two assigned customers, on the same
// vehicle or across two vehicles. Swapping a customer with itself is a
// no-op with a zero delta.
type Swap struct {
	CustomerA string
	CustomerB string
}

func (e Swap) check(s *Solution) (editPlan, error) {
	ai, ok := s.custIndex[e.CustomerA]
	if !ok {
		return editPlan{}, wrapID(ErrUnknownCustomer, e.CustomerA)
	}
	bi, ok := s.custIndex[e.CustomerB]
	if !ok {
		return editPlan{}, wrapID(ErrUnknownCustomer, e.CustomerB)
	}
	va, vb := s.assigned[ai], s.assigned[bi]
	if va < 0 {
		return editPlan{}, wrapID(ErrNotAssigned, e.CustomerA)
	}
	if vb < 0 {
		return editPlan{}, wrapID(ErrNotAssigned, e.CustomerB)
	}
	if ai == bi {
		return planOne(va, len(s.routes[va])), nil // empty tail, nothing to redo
	}
	return planTwo(va, s.positionIn(va, ai), vb, s.positionIn(vb, bi)), nil
}

func (e Swap) mutate(s *Solution) {
	ai := s.custIndex[e.CustomerA]
	bi := s.custIndex[e.CustomerB]
	if ai == bi {
		return
	}
	va, vb := s.assigned[ai], s.assigned[bi]
	pa, pb := s.positionIn(va, ai), s.positionIn(vb, bi)

	s.routes[va][pa], s.routes[vb][pb] = bi, ai
	s.assigned[ai], s.assigned[bi] = vb, va
}

// positionIn returns the chain index of an assigned customer.
func (s *Solution) positionIn(vi, ci int) int {
	for pos, other := range s.routes[vi] {
		if other == ci {
			return pos
		}
	}
	return -1
}

func wrapID(err error, id string) error {
	return fmt.Errorf("%w: %q", err, id)
}

func wrapPos(err error, pos, max int) error {
	return fmt.Errorf("%w: %d (valid 0..%d)", err, pos, max)
}
