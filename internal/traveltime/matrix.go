// Package traveltime holds the precomputed driving-duration tables the
// solver reads during scoring and propagation. A Matrix is built once per
// instance, before solving, and is immutable and safe for concurrent reads
// afterwards.
package traveltime

import (
	"context"
	"errors"
	"fmt"

	"dispatch-route-solver/internal/domain"
	"dispatch-route-solver/internal/ports"
)

var (
	// ErrUnknownLocationPair indicates a duration lookup for a location the
	// matrix was not built over.
	ErrUnknownLocationPair = errors.New("traveltime: location pair not in matrix")
	// ErrIncompleteMatrix indicates the provider could not supply a finite,
	// non-negative duration for some pair during the build.
	ErrIncompleteMatrix = errors.New("traveltime: matrix build incomplete")
)

// Matrix stores driving durations in seconds for every pair of instance
// locations, in two variants: one avoiding limited-access roads and one
// allowing them. Durations are not assumed to satisfy the triangle
// inequality; road topology regularly violates it.
type Matrix struct {
	index           map[domain.Location]int
	withHighways    [][]int64
	withoutHighways [][]int64
}

// Index resolves a location to its dense matrix index. Callers that hold
// indices can use At for allocation-free lookups on the hot path.
func (m *Matrix) Index(loc domain.Location) (int, bool) {
	i, ok := m.index[loc]
	return i, ok
}

// Size returns the number of distinct locations covered by the matrix.
func (m *Matrix) Size() int { return len(m.index) }

// At returns the driving duration in seconds between two previously
// resolved location indices. Indices must come from Index on this matrix.
func (m *Matrix) At(from, to int, allowHighways bool) int64 {
	if allowHighways {
		return m.withHighways[from][to]
	}
	return m.withoutHighways[from][to]
}

// Duration returns the driving time in seconds between two locations.
// A location paired with itself is always zero.
func (m *Matrix) Duration(from, to domain.Location, allowHighways bool) (int64, error) {
	if from == to {
		return 0, nil
	}

	i, ok := m.index[from]
	if !ok {
		return 0, fmt.Errorf("%w: (%v, %v)", ErrUnknownLocationPair, from.Lat, from.Lon)
	}
	j, ok := m.index[to]
	if !ok {
		return 0, fmt.Errorf("%w: (%v, %v)", ErrUnknownLocationPair, to.Lat, to.Lon)
	}

	return m.At(i, j, allowHighways), nil
}

// Build queries the provider for every unordered pair of distinct locations
// in both highway modes and freezes the results into a Matrix. Durations
// are stored symmetrically; the diagonal is zero.
//
// Any provider error, or a negative duration, aborts the build: a matrix
// with silently-zero entries would corrupt every downstream score.
func Build(ctx context.Context, locations []domain.Location, provider ports.TravelTimeProvider) (*Matrix, error) {
	index := make(map[domain.Location]int, len(locations))
	uniq := make([]domain.Location, 0, len(locations))
	for _, l := range locations {
		if _, ok := index[l]; ok {
			continue
		}
		index[l] = len(uniq)
		uniq = append(uniq, l)
	}

	n := len(uniq)
	m := &Matrix{
		index:           index,
		withHighways:    newSquare(n),
		withoutHighways: newSquare(n),
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for _, allow := range []bool{false, true} {
				secs, err := provider.TravelTime(ctx, uniq[i], uniq[j], allow)
				if err != nil {
					return nil, fmt.Errorf("%w: (%v,%v) -> (%v,%v) highways=%t: %v",
						ErrIncompleteMatrix, uniq[i].Lat, uniq[i].Lon, uniq[j].Lat, uniq[j].Lon, allow, err)
				}
				if secs < 0 {
					return nil, fmt.Errorf("%w: negative duration %d for (%v,%v) -> (%v,%v) highways=%t",
						ErrIncompleteMatrix, secs, uniq[i].Lat, uniq[i].Lon, uniq[j].Lat, uniq[j].Lon, allow)
				}

				if allow {
					m.withHighways[i][j] = secs
					m.withHighways[j][i] = secs
				} else {
					m.withoutHighways[i][j] = secs
					m.withoutHighways[j][i] = secs
				}
			}
		}
	}

	return m, nil
}

func newSquare(n int) [][]int64 {
	rows := make([][]int64, n)
	cells := make([]int64, n*n)
	for i := range rows {
		rows[i] = cells[i*n : (i+1)*n]
	}
	return rows
}
