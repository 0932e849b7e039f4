package cache

import (
	"strconv"

	"dispatch-route-solver/internal/domain"
)

// locKey renders a location as a stable "lat,lon" cache key. FormatFloat
// with -1 precision round-trips float64 exactly, so equal locations always
// produce equal keys.
func locKey(l domain.Location) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

func modeFlag(allowHighways bool) int {
	if allowHighways {
		return 1
	}
	return 0
}
