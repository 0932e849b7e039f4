package domain

// The fixed origin and terminus of every vehicle route. A depot is shared
// by its vehicles and never changes during a solve.
type Depot struct {
	ID       string
	Location Location
}
