package solver

// Score is the three-tier solution quality measure. Each tier accumulates
// negated penalties, so zero is a perfect tier and larger is always better.
// Tiers compare lexicographically: no medium or soft gain can ever offset
// a hard loss, and no soft gain can offset a medium loss.
type Score struct {
	Hard   int64
	Medium int64
	Soft   int64
}

// ScoreDelta is the difference between two scores, as returned by Apply.
// It equals (score after) - (score before); a positive comparison against
// the zero Score means the edit improved the solution.
type ScoreDelta = Score

// Add returns s + o per tier.
func (s Score) Add(o Score) Score {
	return Score{Hard: s.Hard + o.Hard, Medium: s.Medium + o.Medium, Soft: s.Soft + o.Soft}
}

// Sub returns s - o per tier.
func (s Score) Sub(o Score) Score {
	return Score{Hard: s.Hard - o.Hard, Medium: s.Medium - o.Medium, Soft: s.Soft - o.Soft}
}

// Compare orders scores lexicographically by tier. It returns a positive
// value when s is better than o, negative when worse, zero when equal.
func (s Score) Compare(o Score) int {
	if s.Hard != o.Hard {
		return cmpInt64(s.Hard, o.Hard)
	}
	if s.Medium != o.Medium {
		return cmpInt64(s.Medium, o.Medium)
	}
	return cmpInt64(s.Soft, o.Soft)
}

// IsFeasible reports whether no hard constraint is violated.
func (s Score) IsFeasible() bool { return s.Hard == 0 }

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
