package domain

import "time"

// A delivery vehicle with its on-board chef. The vehicle is a problem fact:
// its identity, depot, departure time and chef level never change during a
// solve. Which customers it visits, and in which order, is solver state and
// lives outside this struct.
type Vehicle struct {
	ID            string
	Depot         *Depot
	DepartureTime time.Time

	// ChefLevel is the kitchen capability tier (1..3) used by the
	// capacity rule. Values outside that range carry no capacity at all.
	ChefLevel int

	// ServiceDurationMultiplier and DaySegments are carried from the
	// dispatch instance for operations tooling; the current rule set does
	// not score them.
	ServiceDurationMultiplier float64
	DaySegments               []int
}
