package solver

import "errors"

// Sentinel errors for edit validation. A rejected edit never mutates the
// solution; callers can rely on errors.Is against these values.
var (
	// ErrInvalidPosition indicates an edit referenced an index outside the
	// target vehicle's current sequence bounds.
	ErrInvalidPosition = errors.New("solver: position out of range")
	// ErrUnknownCustomer indicates a customer ID not part of this problem.
	ErrUnknownCustomer = errors.New("solver: unknown customer")
	// ErrUnknownVehicle indicates a vehicle ID not part of this problem.
	ErrUnknownVehicle = errors.New("solver: unknown vehicle")
	// ErrAlreadyAssigned indicates an assign edit for a customer that is
	// already on a vehicle; unassign it first.
	ErrAlreadyAssigned = errors.New("solver: customer already assigned")
	// ErrNotAssigned indicates a move, swap or unassign edit for a
	// customer that is not on any vehicle.
	ErrNotAssigned = errors.New("solver: customer not assigned")
)
