package domain

import "time"

// A delivery stop with a time window and a service duration. Customers are
// problem facts created once per instance; only their assignment to a
// vehicle (held by the solver) changes during a solve.
//
// Optional temporal fields use their zero value as "unset": a zero DueTime
// or ReadyTime means the window is open on that side, and a zero
// ServiceDuration means the stop has no modeled on-site time. Rules treat
// unset fields as never conflicting.
type Customer struct {
	ID       string
	Name     string
	Location Location

	ReadyTime       time.Time
	DueTime         time.Time
	ServiceDuration time.Duration

	// OrderSize is the item count of the order, checked against the
	// assigned vehicle's chef-level capacity.
	OrderSize int

	// FixedVehicleID pins the customer to one vehicle. Empty means
	// unpinned. Pinning is a scoring rule, not a structural restriction:
	// the solver may transiently place the customer elsewhere.
	FixedVehicleID string

	// AllowHighways is this stop's routing preference. The leg into a stop
	// allows highways when either bounding stop wants them.
	AllowHighways bool

	// ChefLevelRequired and DaySegment are instance data the current rule
	// set does not score.
	ChefLevelRequired int
	DaySegment        int
}

// HasDueTime reports whether the customer has a deadline at all.
func (c *Customer) HasDueTime() bool { return !c.DueTime.IsZero() }

// DueEnd returns the end of the due window (due time + service duration).
// ok is false when either field is unset, in which case the customer never
// participates in duplicate-end or overlap checks.
func (c *Customer) DueEnd() (time.Time, bool) {
	if c.DueTime.IsZero() || c.ServiceDuration == 0 {
		return time.Time{}, false
	}
	return c.DueTime.Add(c.ServiceDuration), true
}

// IsFixedAssignment reports whether the customer is pinned to a vehicle.
func (c *Customer) IsFixedAssignment() bool { return c.FixedVehicleID != "" }
