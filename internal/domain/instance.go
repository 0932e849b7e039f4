package domain

// A complete dispatch problem instance as loaded from the store.
type Instance struct {
	Depots    []*Depot
	Vehicles  []*Vehicle
	Customers []*Customer
}

// Locations returns every distinct location referenced by the instance
// (depots first, then customers), in a stable order. This is the location
// set the travel-time matrix must cover.
func (in Instance) Locations() []Location {
	seen := make(map[Location]struct{}, len(in.Depots)+len(in.Customers))
	out := make([]Location, 0, len(in.Depots)+len(in.Customers))

	add := func(l Location) {
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}

	for _, d := range in.Depots {
		add(d.Location)
	}
	for _, c := range in.Customers {
		add(c.Location)
	}

	return out
}
