package solver

import (
	"time"
)

// Tier classifies a rule's severity. Tiers are compared lexicographically
// by Score: hard dominates medium, medium dominates soft.
type Tier int

const (
	TierHard Tier = iota
	TierMedium
	TierSoft
)

func (t Tier) String() string {
	switch t {
	case TierHard:
		return "hard"
	case TierMedium:
		return "medium"
	case TierSoft:
		return "soft"
	default:
		return "unknown"
	}
}

// Rule names, stable identifiers for diagnostics and move-selection
// heuristics targeting specific violations.
const (
	RuleFixedVehicle          = "fixedVehicle"
	RuleSameDueTime           = "sameDueTime"
	RuleSameEndTime           = "sameEndTime"
	RuleOverlappingDueWindows = "overlappingDueWindows"
	RuleSevereLateness        = "severeLateness"
	RuleTravelTime            = "travelTime"
	RuleChefCapacity          = "chefCapacity"
	RuleLateness              = "lateness"
)

// RuleWeights are the penalty constants of the rule set. They are fixed
// for the lifetime of a Solution; clones share them.
type RuleWeights struct {
	// FixedVehiclePenalty is charged (hard) per customer sitting on a
	// vehicle other than its pinned one.
	FixedVehiclePenalty int64
	// DuplicateTimePenalty is charged (hard) per same-vehicle pair sharing
	// an identical due time, and again per pair sharing an identical due
	// end (due + service duration).
	DuplicateTimePenalty int64
	// OverlapPenaltyPerSecond scales the hard penalty for due windows that
	// overlap on one vehicle.
	OverlapPenaltyPerSecond int64
	// AcceptableDelay is the lateness grace threshold; finishing later
	// than due + AcceptableDelay triggers the medium-tier rule.
	AcceptableDelay time.Duration
	// CapacityPenaltyPerUnit scales the soft penalty per order unit over
	// the chef-level limit.
	CapacityPenaltyPerUnit int64
}

// DefaultRuleWeights returns the production rule weights.
func DefaultRuleWeights() RuleWeights {
	return RuleWeights{
		FixedVehiclePenalty:     200_000_000,
		DuplicateTimePenalty:    2_000_000,
		OverlapPenaltyPerSecond: 100,
		AcceptableDelay:         15 * time.Minute,
		CapacityPenaltyPerUnit:  10,
	}
}

// Violation is one concrete rule instance currently penalizing the
// solution, as reported by Explain.
type Violation struct {
	Rule        string
	Tier        Tier
	Penalty     int64 // positive magnitude
	VehicleID   string
	CustomerIDs []string
}

// chefOrderLimit maps a chef level to its order-size limit. Level 3 has no
// limit; levels outside 1..3 get a zero limit (maximally restrictive), a
// deliberate policy default for unspecified tiers.
func chefOrderLimit(level int) (limit int, unlimited bool) {
	switch level {
	case 1:
		return 10, false
	case 2:
		return 20, false
	case 3:
		return 0, true
	default:
		return 0, false
	}
}

// evalVehicle runs every rule over one vehicle's chain and emits each
// firing instance. Rules are total: unset optional fields and undefined
// temporal facts contribute nothing instead of erroring. Iteration is
// slice-ordered, so emission order is deterministic.
func (s *Solution) evalVehicle(vi int, emit func(rule string, tier Tier, penalty int64, customers ...int)) {
	route := s.routes[vi]
	veh := s.vehicles[vi]

	for _, ci := range route {
		if fv := s.fixedVeh[ci]; fv >= 0 && fv != vi {
			emit(RuleFixedVehicle, TierHard, s.weights.FixedVehiclePenalty, ci)
		}
	}

	for i := 0; i < len(route); i++ {
		for j := i + 1; j < len(route); j++ {
			a, b := s.customers[route[i]], s.customers[route[j]]

			if a.HasDueTime() && b.HasDueTime() && a.DueTime.Equal(b.DueTime) {
				emit(RuleSameDueTime, TierHard, s.weights.DuplicateTimePenalty, route[i], route[j])
			}

			aEnd, aok := a.DueEnd()
			bEnd, bok := b.DueEnd()
			if aok && bok && aEnd.Equal(bEnd) {
				emit(RuleSameEndTime, TierHard, s.weights.DuplicateTimePenalty, route[i], route[j])
			}
		}
	}

	// Ordered pairs: (a, b) fires when a's due time falls strictly inside
	// b's due window; the penalty covers the remainder of b's window.
	for _, ai := range route {
		a := s.customers[ai]
		if !a.HasDueTime() {
			continue
		}
		for _, bi := range route {
			if ai == bi {
				continue
			}
			bEnd, ok := s.customers[bi].DueEnd()
			if !ok {
				continue
			}
			if s.customers[bi].DueTime.Before(a.DueTime) && a.DueTime.Before(bEnd) {
				overlap := int64(bEnd.Sub(a.DueTime) / time.Second)
				emit(RuleOverlappingDueWindows, TierHard, overlap*s.weights.OverlapPenaltyPerSecond, ai, bi)
			}
		}
	}

	for _, ci := range route {
		c := s.customers[ci]
		if !c.HasDueTime() {
			continue
		}
		finish, ok := s.stopDeparture(ci)
		if !ok {
			continue
		}
		delay := finish.Sub(c.DueTime)
		if delay <= 0 {
			continue
		}

		if mins := int64(delay / time.Minute); mins > 0 {
			emit(RuleLateness, TierSoft, mins, ci)
		}
		if excess := delay - s.weights.AcceptableDelay; excess > 0 {
			if mins := int64(excess / time.Minute); mins > 0 {
				emit(RuleSevereLateness, TierMedium, mins*mins, ci)
			}
		}
	}

	limit, unlimited := chefOrderLimit(veh.ChefLevel)
	if !unlimited {
		for _, ci := range route {
			if over := s.customers[ci].OrderSize - limit; over > 0 {
				emit(RuleChefCapacity, TierSoft, int64(over)*s.weights.CapacityPenaltyPerUnit, ci)
			}
		}
	}

	if total := s.drivingSeconds(vi); total > 0 {
		emit(RuleTravelTime, TierSoft, total)
	}
}

// scoreVehicle aggregates the vehicle's rule contributions into a Score.
func (s *Solution) scoreVehicle(vi int) Score {
	var sc Score
	s.evalVehicle(vi, func(_ string, tier Tier, penalty int64, _ ...int) {
		switch tier {
		case TierHard:
			sc.Hard -= penalty
		case TierMedium:
			sc.Medium -= penalty
		case TierSoft:
			sc.Soft -= penalty
		}
	})
	return sc
}

// Explain lists every currently-violated rule instance with its individual
// penalty, in deterministic vehicle-then-rule order. It is a read-only
// query for diagnostics and violation-targeting heuristics.
func (s *Solution) Explain() []Violation {
	var out []Violation
	for vi := range s.vehicles {
		vehID := s.vehicles[vi].ID
		s.evalVehicle(vi, func(rule string, tier Tier, penalty int64, customers ...int) {
			ids := make([]string, len(customers))
			for i, ci := range customers {
				ids[i] = s.customers[ci].ID
			}
			out = append(out, Violation{
				Rule:        rule,
				Tier:        tier,
				Penalty:     penalty,
				VehicleID:   vehID,
				CustomerIDs: ids,
			})
		})
	}
	return out
}
