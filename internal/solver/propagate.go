package solver

import "time"

// Incremental temporal propagation. After a structural edit, adjacency
// links are regenerated from the authoritative route order and arrival
// times are recomputed strictly in chain order, starting at the earliest
// position whose predecessor, vehicle or index changed. Every downstream
// arrival depends transitively on every upstream departure, so the walk
// always runs to the chain tail; cost is O(length of the affected tail).

// propagate refreshes the derived facts of one vehicle's chain from
// position `from` (clamped to 0) through the end.
func (s *Solution) propagate(vi, from int) {
	route := s.routes[vi]

	for i, ci := range route {
		if i == 0 {
			s.prevStop[ci] = -1
		} else {
			s.prevStop[ci] = route[i-1]
		}
		if i == len(route)-1 {
			s.nextStop[ci] = -1
		} else {
			s.nextStop[ci] = route[i+1]
		}
	}

	if from < 0 {
		from = 0
	}

	var prevDeparture time.Time
	if from == 0 {
		prevDeparture = s.vehicles[vi].DepartureTime
	} else {
		prevDeparture, _ = s.stopDeparture(route[from-1])
	}

	for i := from; i < len(route); i++ {
		ci := route[i]
		leg := s.legIntoSeconds(vi, i)
		s.arrival[ci] = prevDeparture.Add(time.Duration(leg) * time.Second)
		prevDeparture, _ = s.stopDeparture(ci)
	}
}

// legIntoSeconds returns the driving time of the leg arriving at chain
// position pos. The first leg departs the depot and is governed by the
// stop's own highway preference; interior legs allow highways when either
// bounding stop wants them.
func (s *Solution) legIntoSeconds(vi, pos int) int64 {
	route := s.routes[vi]
	ci := route[pos]
	c := s.customers[ci]

	if pos == 0 {
		return s.matrix.At(s.depotLoc[vi], s.custLoc[ci], c.AllowHighways)
	}

	pi := route[pos-1]
	allow := c.AllowHighways || s.customers[pi].AllowHighways
	return s.matrix.At(s.custLoc[pi], s.custLoc[ci], allow)
}

// drivingSeconds sums a vehicle's legs depot -> stops -> depot. The return
// leg mirrors the first-leg rule: the last stop's own preference decides.
func (s *Solution) drivingSeconds(vi int) int64 {
	route := s.routes[vi]
	if len(route) == 0 {
		return 0
	}

	var total int64
	for pos := range route {
		total += s.legIntoSeconds(vi, pos)
	}

	last := route[len(route)-1]
	total += s.matrix.At(s.custLoc[last], s.depotLoc[vi], s.customers[last].AllowHighways)
	return total
}
