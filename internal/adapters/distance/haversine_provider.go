package distance

import (
	"context"
	"fmt"
	"math"

	"dispatch-route-solver/internal/domain"
)

const earthRadiusKM = 6371

// HaversineTravelTimeProvider estimates driving time from great-circle
// distance at a configured cruise speed. It is the offline fallback when no
// routing service is reachable; the highway mode simply assumes a higher
// average speed.
type HaversineTravelTimeProvider struct {
	AverageSpeedKMH int
	HighwaySpeedKMH int
}

// NewHaversineTravelTimeProvider returns a provider with the standard
// surface-road and highway cruise speeds.
func NewHaversineTravelTimeProvider() *HaversineTravelTimeProvider {
	return &HaversineTravelTimeProvider{
		AverageSpeedKMH: 65,
		HighwaySpeedKMH: 85,
	}
}

func (h *HaversineTravelTimeProvider) TravelTime(
	_ context.Context,
	from, to domain.Location,
	allowHighways bool,
) (int64, error) {
	if from == to {
		return 0, nil
	}

	speed := h.AverageSpeedKMH
	if allowHighways {
		speed = h.HighwaySpeedKMH
	}
	if speed <= 0 {
		return 0, fmt.Errorf("haversine provider: speed must be positive, got %d", speed)
	}

	km := haversineKM(from, to)
	return int64(math.Round(km / float64(speed) * 3600)), nil
}

func haversineKM(a, b domain.Location) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := latB - latA
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
