package score

import (
	"fmt"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/dice"
	"github.com/cory-johannsen/racetally/internal/race/parser"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

// Warning flags an accepted line whose content looks suspicious.
type Warning struct {
	ParticipantID string
	Name          string
	Message       string
}

func (w Warning) String() string {
	return w.Message
}

// Applied is the outcome of merging one phase's results.
type Applied struct {
	Roster   []race.Participant
	Warnings []Warning
}

// IsUnique reports whether a line with notation counts as p's unique-skill
// roll in phase rather than the strategy's base roll.
func IsUnique(p race.Participant, phase race.PhaseID, notation string, table *strategy.Table) bool {
	if !p.UniqueSkill.Kind.Valid() || !p.UniqueSkill.ActiveIn(phase) {
		return false
	}
	if notation != p.UniqueSkill.Kind.Die() {
		return false
	}
	if s, ok := table.Lookup(p.StrategyName); ok && trimSign(s.DiceFor(race.KindOf(phase))) == notation {
		return false
	}
	return true
}

// Apply merges parsed lines for phase into roster and recomputes every
// cumulative score. Each touched PhaseEntry field is replaced wholesale;
// untouched fields carry over from the prior entry. roster is not modified.
//
// Precondition: lines were parsed against roster.
func Apply(roster []race.Participant, phase race.PhaseID, lines []parser.Line, table *strategy.Table, session race.Session) Applied {
	next := make([]race.Participant, len(roster))
	index := make(map[string]int, len(roster))
	for i, p := range roster {
		next[i] = p.Clone()
		index[p.ID] = i
	}

	var warnings []Warning
	warn := func(p race.Participant, format string, args ...any) {
		warnings = append(warnings, Warning{ParticipantID: p.ID, Name: p.Name, Message: fmt.Sprintf(format, args...)})
	}

	type slot struct {
		id     string
		unique bool
	}
	seen := map[slot]bool{}

	for _, l := range lines {
		i, ok := index[l.ParticipantID]
		if !ok {
			warnings = append(warnings, Warning{Name: l.Name, Message: fmt.Sprintf("%s is not in the roster", l.Name)})
			continue
		}
		p := next[i]
		unique := IsUnique(p, phase, l.Notation, table)

		key := slot{id: p.ID, unique: unique}
		if seen[key] {
			warn(p, "%s: more than one result for this phase; the last one is used", p.Name)
		}
		seen[key] = true

		outcome := dice.NewOutcome(l.SignedNotation(), l.Values, l.Rolled)
		entry := p.History[phase]
		if unique {
			entry.UniqueDice = &outcome
			if want := p.UniqueSkill.Kind.FixedBonus(); l.Fixed != want {
				warn(p, "%s: unique skill bonus written as %d, expected %d", p.Name, l.Fixed, want)
			}
		} else {
			entry.BaseDice = &outcome
			if want := ExpectedBase(roster[i], phase, table, session); l.Fixed != want {
				warn(p, "%s: base value written as %d, expected %d", p.Name, l.Fixed, want)
			}
			if s, ok := table.Lookup(p.StrategyName); ok {
				if want := s.DiceFor(race.KindOf(phase)); want != "" && want != l.SignedNotation() {
					warn(p, "%s: rolled %s, strategy %s rolls %s", p.Name, l.SignedNotation(), s.Name, want)
				}
			}
		}
		p.History[phase] = entry
		next[i] = p
	}

	return Applied{Roster: Recompute(next, table, session), Warnings: warnings}
}

// Adjust sets the manual modifier of p's entry for phase and recomputes
// the roster.
func Adjust(roster []race.Participant, id string, phase race.PhaseID, modifier int, table *strategy.Table, session race.Session) ([]race.Participant, error) {
	next := make([]race.Participant, 0, len(roster))
	found := false
	for _, p := range roster {
		c := p.Clone()
		if c.ID == id {
			entry := c.History[phase]
			entry.ManualModifier = modifier
			c.History[phase] = entry
			found = true
		}
		next = append(next, c)
	}
	if !found {
		return nil, fmt.Errorf("adjusting %s: participant %q not found", phase, id)
	}
	return Recompute(next, table, session), nil
}

func trimSign(notation string) string {
	if len(notation) > 0 && notation[0] == '-' {
		return notation[1:]
	}
	return notation
}
