// Package score folds a participant's phase history into a cumulative score
// and merges freshly parsed results into the roster.
package score

import (
	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

// ComputeTotal returns the cumulative score of p.
//
// The strategy's fixed value counts once, and only when an opening-phase
// entry exists. Every entry contributes its base dice, its unique dice plus
// the skill's fixed bonus, and its manual modifier. A non-nil paceRoll adds
// the strategy's pace modifier exactly once.
//
// Postcondition: Returns 0 when p's strategy is not in table.
func ComputeTotal(p race.Participant, table *strategy.Table, paceRoll *int) int {
	s, ok := table.Lookup(p.StrategyName)
	if !ok {
		return 0
	}
	total := 0
	for phase, entry := range p.History {
		if race.KindOf(phase) == race.KindOpening {
			total += s.FixedValue
		}
		total += contribution(p.UniqueSkill.Kind, entry)
	}
	if paceRoll != nil {
		total += table.PaceModifier(p.StrategyName, *paceRoll)
	}
	return total
}

// contribution is the dice and modifier part of one phase entry.
func contribution(kind race.SkillKind, e race.PhaseEntry) int {
	n := e.ManualModifier
	if e.BaseDice != nil {
		n += e.BaseDice.SignedSum
	}
	if e.UniqueDice != nil {
		n += kind.FixedBonus() + e.UniqueDice.SignedSum
	}
	return n
}

// ExpectedBase returns the fixed value a participant should write in front
// of the dice for phase: the strategy's fixed value in the opening phase,
// otherwise the score accumulated outside phase.
func ExpectedBase(p race.Participant, phase race.PhaseID, table *strategy.Table, session race.Session) int {
	if race.KindOf(phase) == race.KindOpening {
		s, ok := table.Lookup(p.StrategyName)
		if !ok {
			return 0
		}
		return s.FixedValue
	}
	without := p.Clone()
	delete(without.History, phase)
	return ComputeTotal(without, table, session.PaceRoll)
}

// Recompute returns a copy of roster with every cumulative score
// recalculated against session.
func Recompute(roster []race.Participant, table *strategy.Table, session race.Session) []race.Participant {
	out := make([]race.Participant, 0, len(roster))
	for _, p := range roster {
		c := p.Clone()
		c.CumulativeScore = ComputeTotal(c, table, session.PaceRoll)
		out = append(out, c)
	}
	return out
}
