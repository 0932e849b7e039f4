package traveltime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dispatch-route-solver/internal/adapters/distance"
	"dispatch-route-solver/internal/domain"
)

var (
	locA = domain.Location{Lat: 33.45, Lon: -112.07}
	locB = domain.Location{Lat: 33.51, Lon: -112.10}
	locC = domain.Location{Lat: 33.30, Lon: -111.90}
)

func fullStub() *distance.StubTravelTimeProvider {
	var legs []distance.StubLeg
	pairs := [][2]domain.Location{{locA, locB}, {locA, locC}, {locB, locC}}
	for i, p := range pairs {
		base := int64((i + 1) * 100)
		legs = append(legs,
			distance.StubLeg{From: p[0], To: p[1], AllowHighways: false, Seconds: base},
			distance.StubLeg{From: p[0], To: p[1], AllowHighways: true, Seconds: base / 2},
		)
	}
	return distance.NewStubTravelTimeProvider(legs)
}

func TestBuildCoversEveryPairInBothModes(t *testing.T) {
	m, err := Build(context.Background(), []domain.Location{locA, locB, locC, locA}, fullStub())
	require.NoError(t, err)
	require.Equal(t, 3, m.Size())

	d, err := m.Duration(locA, locB, false)
	require.NoError(t, err)
	require.Equal(t, int64(100), d)

	d, err = m.Duration(locA, locB, true)
	require.NoError(t, err)
	require.Equal(t, int64(50), d)

	// Symmetric storage and a zero diagonal.
	fwd, err := m.Duration(locB, locC, false)
	require.NoError(t, err)
	rev, err := m.Duration(locC, locB, false)
	require.NoError(t, err)
	require.Equal(t, fwd, rev)

	self, err := m.Duration(locA, locA, true)
	require.NoError(t, err)
	require.Zero(t, self)
}

func TestIndexAndAtAgreeWithDuration(t *testing.T) {
	m, err := Build(context.Background(), []domain.Location{locA, locB, locC}, fullStub())
	require.NoError(t, err)

	i, ok := m.Index(locA)
	require.True(t, ok)
	j, ok := m.Index(locC)
	require.True(t, ok)

	want, err := m.Duration(locA, locC, true)
	require.NoError(t, err)
	require.Equal(t, want, m.At(i, j, true))

	_, ok = m.Index(domain.Location{Lat: 1, Lon: 1})
	require.False(t, ok)
}

func TestDurationUnknownLocation(t *testing.T) {
	m, err := Build(context.Background(), []domain.Location{locA, locB, locC}, fullStub())
	require.NoError(t, err)

	_, err = m.Duration(locA, domain.Location{Lat: 1, Lon: 1}, false)
	require.ErrorIs(t, err, ErrUnknownLocationPair)
}

func TestBuildAbortsOnProviderError(t *testing.T) {
	// The stub has no leg between locA and locC.
	partial := distance.NewStubTravelTimeProvider([]distance.StubLeg{
		{From: locA, To: locB, AllowHighways: false, Seconds: 100},
		{From: locA, To: locB, AllowHighways: true, Seconds: 50},
	})

	_, err := Build(context.Background(), []domain.Location{locA, locB, locC}, partial)
	require.ErrorIs(t, err, ErrIncompleteMatrix)
}

type negativeProvider struct{}

func (negativeProvider) TravelTime(context.Context, domain.Location, domain.Location, bool) (int64, error) {
	return -1, nil
}

func TestBuildRejectsNegativeDurations(t *testing.T) {
	_, err := Build(context.Background(), []domain.Location{locA, locB}, negativeProvider{})
	require.ErrorIs(t, err, ErrIncompleteMatrix)
}

type countingProvider struct {
	inner interface {
		TravelTime(context.Context, domain.Location, domain.Location, bool) (int64, error)
	}
	calls int
}

func (p *countingProvider) TravelTime(ctx context.Context, from, to domain.Location, allow bool) (int64, error) {
	p.calls++
	return p.inner.TravelTime(ctx, from, to, allow)
}

func TestBuildQueriesEachUnorderedPairOnce(t *testing.T) {
	p := &countingProvider{inner: fullStub()}
	_, err := Build(context.Background(), []domain.Location{locA, locB, locC}, p)
	require.NoError(t, err)

	// Three unordered pairs, two highway modes each.
	require.Equal(t, 6, p.calls)
}

func TestBuildEmptyAndSingle(t *testing.T) {
	m, err := Build(context.Background(), nil, fullStub())
	require.NoError(t, err)
	require.Zero(t, m.Size())

	m, err = Build(context.Background(), []domain.Location{locA}, fullStub())
	require.NoError(t, err)
	require.Equal(t, 1, m.Size())

	self, err := m.Duration(locA, locA, false)
	require.NoError(t, err)
	require.Zero(t, self)
}
