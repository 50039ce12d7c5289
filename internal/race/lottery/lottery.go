// Package lottery assigns starting gates from pasted 1d100 rolls. The lowest
// roll draws the innermost gate.
package lottery

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/parser"
)

// Die is the notation every participant rolls for the draw.
const Die = "1d100"

// Assignment is one participant's draw.
type Assignment struct {
	ParticipantID string
	Name          string
	Roll          int
	Gate          int
}

// Result is the outcome of a gate draw.
type Result struct {
	Assignments []Assignment
	Roster      []race.Participant // copy of the roster with gates set
	Problems    []string
}

// OK reports whether gates were assigned.
func (r Result) OK() bool {
	return len(r.Problems) == 0
}

// Assign orders lines by roll ascending, then entry index, and hands out
// gates 1..N.
//
// Precondition: lines were parsed against roster and hold one line per
// participant.
func Assign(roster []race.Participant, lines []parser.Line) []Assignment {
	entry := make(map[string]int, len(roster))
	for _, p := range roster {
		entry[p.ID] = p.EntryIndex
	}
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b parser.Line) int {
		if c := cmp.Compare(a.Rolled, b.Rolled); c != 0 {
			return c
		}
		return cmp.Compare(entry[a.ParticipantID], entry[b.ParticipantID])
	})
	out := make([]Assignment, 0, len(sorted))
	for i, l := range sorted {
		out = append(out, Assignment{ParticipantID: l.ParticipantID, Name: l.Name, Roll: l.Rolled, Gate: i + 1})
	}
	return out
}

// Draw parses a gate-draw paste and, when every participant rolled exactly
// once, assigns gates. roster is not modified.
//
// Postcondition: when OK reports true, every participant in Roster holds a
// distinct gate in 1..len(roster).
func Draw(roster []race.Participant, text string) Result {
	parsed := parser.Parse(text, roster, parser.ContextRace)
	res := Result{Problems: parsed.Errors()}

	seen := map[string]bool{}
	for _, l := range parsed.Lines {
		if l.Notation != Die || l.Negative {
			res.Problems = append(res.Problems, fmt.Sprintf("%s: rolled %s, the gate draw uses %s", l.Name, l.SignedNotation(), Die))
		}
		if seen[l.ParticipantID] {
			res.Problems = append(res.Problems, fmt.Sprintf("%s: rolled more than once", l.Name))
		}
		seen[l.ParticipantID] = true
	}
	// A paste with one line per participant already reported its name
	// mismatches; a count error on top would only repeat them.
	if len(parsed.Lines) != len(roster) && parser.CountLines(text) != len(roster) {
		res.Problems = append(res.Problems, fmt.Sprintf(
			"participant count mismatch (registered %d, found %d); check the paste is complete", len(roster), len(parsed.Lines)))
	}
	if parsed.OK() {
		var missing []string
		for _, p := range roster {
			if !seen[p.ID] {
				missing = append(missing, p.Name)
			}
		}
		if len(missing) > 0 {
			res.Problems = append(res.Problems, fmt.Sprintf("no gate roll for %s", strings.Join(missing, ", ")))
		}
	}
	if len(res.Problems) > 0 {
		return res
	}

	res.Assignments = Assign(roster, parsed.Lines)
	gates := make(map[string]int, len(res.Assignments))
	for _, a := range res.Assignments {
		gates[a.ParticipantID] = a.Gate
	}
	drawn := make([]race.Participant, 0, len(roster))
	for _, p := range roster {
		c := p.Clone()
		if g, ok := gates[p.ID]; ok {
			c.Gate = race.Int(g)
		}
		drawn = append(drawn, c)
	}
	if err := race.ValidateRoster(drawn); err != nil {
		res.Assignments = nil
		res.Problems = append(res.Problems, err.Error())
		return res
	}
	res.Roster = drawn
	return res
}
