package domain

// Immutable geographic point. Locations are compared by value, so they can
// be used directly as map keys in travel-time lookups.
type Location struct {
	Lat float64
	Lon float64
}

// Return the location as [lon, lat] for external routing API compatibility.
func (l Location) CoordsToList() []float64 { return []float64{l.Lon, l.Lat} }
