package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreCompareLexicographic(t *testing.T) {
	// A better hard tier wins no matter how bad the lower tiers are.
	a := Score{Hard: 0, Medium: -1_000_000, Soft: -1_000_000}
	b := Score{Hard: -1, Medium: 0, Soft: 0}
	require.Positive(t, a.Compare(b))
	require.Negative(t, b.Compare(a))

	// Ties on hard fall through to medium, then soft.
	c := Score{Hard: -5, Medium: -10, Soft: 0}
	d := Score{Hard: -5, Medium: -20, Soft: 100}
	require.Positive(t, c.Compare(d))

	e := Score{Hard: -5, Medium: -10, Soft: -1}
	require.Positive(t, c.Compare(e))
	require.Zero(t, c.Compare(c))
}

func TestScoreAddSub(t *testing.T) {
	a := Score{Hard: -2, Medium: 3, Soft: -7}
	b := Score{Hard: -1, Medium: -3, Soft: 10}

	require.Equal(t, Score{Hard: -3, Medium: 0, Soft: 3}, a.Add(b))
	require.Equal(t, Score{Hard: -1, Medium: 6, Soft: -17}, a.Sub(b))
	require.Equal(t, a, a.Add(b).Sub(b))
}

func TestScoreIsFeasible(t *testing.T) {
	require.True(t, Score{}.IsFeasible())
	require.True(t, Score{Medium: -50, Soft: -900}.IsFeasible())
	require.False(t, Score{Hard: -1}.IsFeasible())
}
