// Package search is the driver that proposes edits to the solver core:
// greedy cheapest-insertion construction followed by relocate/swap
// first-improvement local search. It only ever talks to the core through
// Apply and score deltas; all constraint knowledge stays in the solver.
package search

import (
	"context"
	"fmt"
	"sort"

	"dispatch-route-solver/internal/solver"
)

// Options bound the improvement phase.
type Options struct {
	// MaxPasses caps full relocate/swap sweeps over the solution. A pass
	// that finds no improving edit terminates the search early.
	MaxPasses int
}

// DefaultOptions returns the solve defaults.
func DefaultOptions() Options {
	return Options{MaxPasses: 20}
}

// Result summarizes a finished solve.
type Result struct {
	Score         solver.Score
	AcceptedEdits int
	Passes        int
}

// Solve constructs an initial assignment and then improves it in place.
// Accepted edits never worsen the lexicographic score.
func Solve(ctx context.Context, sol *solver.Solution, opts Options) (Result, error) {
	accepted, err := Construct(ctx, sol)
	if err != nil {
		return Result{}, fmt.Errorf("search: construct: %w", err)
	}

	improved, passes, err := Improve(ctx, sol, opts)
	if err != nil {
		return Result{}, fmt.Errorf("search: improve: %w", err)
	}

	return Result{
		Score:         sol.Score(),
		AcceptedEdits: accepted + improved,
		Passes:        passes,
	}, nil
}

// Construct assigns every unplaced customer greedily: customers are taken
// in due-time order (ties by ID, for determinism) and inserted at the
// vehicle/position with the best score delta. Trial insertions are rolled
// back through the inverse edit, which edit composability guarantees to
// restore the prior state and score exactly.
func Construct(ctx context.Context, sol *solver.Solution) (int, error) {
	pending := sol.Unassigned()
	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]
		if !a.DueTime.Equal(b.DueTime) {
			return a.DueTime.Before(b.DueTime)
		}
		return a.ID < b.ID
	})

	accepted := 0
	for _, c := range pending {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		best, ok, err := bestInsertion(sol, c.ID)
		if err != nil {
			return accepted, err
		}
		if !ok {
			continue // no vehicles in the problem
		}

		if _, err := sol.Apply(best); err != nil {
			return accepted, fmt.Errorf("apply insertion for %q: %w", c.ID, err)
		}
		accepted++
	}

	return accepted, nil
}

// bestInsertion probes every position of every vehicle for one customer.
func bestInsertion(sol *solver.Solution, customerID string) (solver.Assign, bool, error) {
	var (
		best      solver.Assign
		bestDelta solver.ScoreDelta
		found     bool
	)

	for _, v := range sol.Vehicles() {
		route, err := sol.Route(v.ID)
		if err != nil {
			return solver.Assign{}, false, err
		}

		for pos := 0; pos <= len(route); pos++ {
			trial := solver.Assign{CustomerID: customerID, VehicleID: v.ID, Position: pos}
			delta, err := sol.Apply(trial)
			if err != nil {
				return solver.Assign{}, false, fmt.Errorf("trial insertion: %w", err)
			}
			if _, err := sol.Apply(solver.Unassign{CustomerID: customerID}); err != nil {
				return solver.Assign{}, false, fmt.Errorf("roll back trial insertion: %w", err)
			}

			if !found || delta.Compare(bestDelta) > 0 {
				best, bestDelta, found = trial, delta, true
			}
		}
	}

	return best, found, nil
}

// Improve runs relocate and swap sweeps until a full pass accepts nothing
// or the pass budget is spent. First improvement: the first probed edit
// with a strictly positive delta is kept.
func Improve(ctx context.Context, sol *solver.Solution, opts Options) (accepted, passes int, err error) {
	for passes < opts.MaxPasses {
		if err := ctx.Err(); err != nil {
			return accepted, passes, err
		}
		passes++

		n, err := improvePass(sol)
		if err != nil {
			return accepted, passes, err
		}
		accepted += n
		if n == 0 {
			break
		}
	}
	return accepted, passes, nil
}

func improvePass(sol *solver.Solution) (int, error) {
	accepted := 0

	for _, c := range sol.Customers() {
		_, _, assigned := sol.PositionOf(c.ID)
		if !assigned {
			continue
		}

		ok, err := tryRelocate(sol, c.ID)
		if err != nil {
			return accepted, err
		}
		if ok {
			accepted++
		}
	}

	customers := sol.Customers()
	for i := 0; i < len(customers); i++ {
		for j := i + 1; j < len(customers); j++ {
			if _, _, ok := sol.PositionOf(customers[i].ID); !ok {
				break
			}
			if _, _, ok := sol.PositionOf(customers[j].ID); !ok {
				continue
			}

			swap := solver.Swap{CustomerA: customers[i].ID, CustomerB: customers[j].ID}
			delta, err := sol.Apply(swap)
			if err != nil {
				return accepted, fmt.Errorf("trial swap: %w", err)
			}
			if delta.Compare(solver.Score{}) > 0 {
				accepted++
				continue
			}
			// Swap is its own inverse.
			if _, err := sol.Apply(swap); err != nil {
				return accepted, fmt.Errorf("roll back swap: %w", err)
			}
		}
	}

	return accepted, nil
}

// tryRelocate probes moving one customer to every other slot, in its own
// vehicle and across vehicles, keeping the first improving edit.
func tryRelocate(sol *solver.Solution, customerID string) (bool, error) {
	homeVehicle, homePos, ok := sol.PositionOf(customerID)
	if !ok {
		return false, nil
	}

	for _, v := range sol.Vehicles() {
		route, err := sol.Route(v.ID)
		if err != nil {
			return false, err
		}

		if v.ID == homeVehicle {
			for pos := 0; pos < len(route); pos++ {
				if pos == homePos {
					continue
				}
				delta, err := sol.Apply(solver.Move{CustomerID: customerID, Position: pos})
				if err != nil {
					return false, fmt.Errorf("trial move: %w", err)
				}
				if delta.Compare(solver.Score{}) > 0 {
					return true, nil
				}
				if _, err := sol.Apply(solver.Move{CustomerID: customerID, Position: homePos}); err != nil {
					return false, fmt.Errorf("roll back move: %w", err)
				}
			}
			continue
		}

		for pos := 0; pos <= len(route); pos++ {
			out, err := sol.Apply(solver.Unassign{CustomerID: customerID})
			if err != nil {
				return false, fmt.Errorf("trial relocate: %w", err)
			}
			in, err := sol.Apply(solver.Assign{CustomerID: customerID, VehicleID: v.ID, Position: pos})
			if err != nil {
				return false, fmt.Errorf("trial relocate: %w", err)
			}
			if out.Add(in).Compare(solver.Score{}) > 0 {
				return true, nil
			}
			if _, err := sol.Apply(solver.Unassign{CustomerID: customerID}); err != nil {
				return false, fmt.Errorf("roll back relocate: %w", err)
			}
			if _, err := sol.Apply(solver.Assign{CustomerID: customerID, VehicleID: homeVehicle, Position: homePos}); err != nil {
				return false, fmt.Errorf("roll back relocate: %w", err)
			}
		}
	}

	return false, nil
}
