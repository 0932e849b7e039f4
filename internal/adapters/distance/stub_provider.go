package distance

import (
	"context"
	"fmt"

	"dispatch-route-solver/internal/domain"
)

// StubLeg is one precomputed leg for the in-memory stub provider. Legs are
// stored symmetrically.
type StubLeg struct {
	From, To      domain.Location
	AllowHighways bool
	Seconds       int64
}

// StubTravelTimeProvider serves travel times from a fixed table; tests and
// offline tooling use it in place of a live routing service. Missing pairs
// are an error, never a silent zero.
type StubTravelTimeProvider struct {
	m map[stubKey]int64
}

type stubKey struct {
	from, to domain.Location
	highways bool
}

func NewStubTravelTimeProvider(legs []StubLeg) *StubTravelTimeProvider {
	m := make(map[stubKey]int64, 2*len(legs))
	for _, l := range legs {
		m[stubKey{l.From, l.To, l.AllowHighways}] = l.Seconds
		m[stubKey{l.To, l.From, l.AllowHighways}] = l.Seconds
	}
	return &StubTravelTimeProvider{m: m}
}

func (p *StubTravelTimeProvider) TravelTime(
	_ context.Context,
	from, to domain.Location,
	allowHighways bool,
) (int64, error) {
	if from == to {
		return 0, nil
	}
	seconds, ok := p.m[stubKey{from, to, allowHighways}]
	if !ok {
		return 0, fmt.Errorf("stub provider: no leg (%v,%v) -> (%v,%v) highways=%t",
			from.Lat, from.Lon, to.Lat, to.Lon, allowHighways)
	}
	return seconds, nil
}
