// Package ranking orders participants, works out which tie-break judgments
// the rules require, and produces the final result table with finish-margin
// labels.
package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cory-johannsen/racetally/internal/race"
)

// Margin labels.
const (
	LabelLeading  = "leading"
	LabelDeadHeat = "dead heat"
	LabelNose     = "nose"
	LabelHead     = "head"
	LabelNeck     = "neck"
	LabelOnePoint = "1-point"
)

// Entry is one row of the final result table.
type Entry struct {
	Participant race.Participant
	Rank        int
	MarginLabel string
}

// SortByStanding returns roster ordered by cumulative score descending, then
// gate ascending (entry index when no gate was drawn). roster is not modified.
func SortByStanding(roster []race.Participant) []race.Participant {
	out := slices.Clone(roster)
	slices.SortStableFunc(out, func(a, b race.Participant) int {
		if c := cmp.Compare(b.CumulativeScore, a.CumulativeScore); c != 0 {
			return c
		}
		return cmp.Compare(a.GateOrEntry(), b.GateOrEntry())
	})
	return out
}

// groups splits a standing-sorted roster into runs of equal score.
func groups(sorted []race.Participant) [][]race.Participant {
	var out [][]race.Participant
	for i, p := range sorted {
		if i == 0 || p.CumulativeScore != sorted[i-1].CumulativeScore {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], p)
	}
	return out
}

// FinalizeRanking ranks roster once judgment rolls are known.
//
// Ties on score are ordered by photo roll descending, then gate. Entries
// that also tie on photo roll share a rank. The first entry always has rank 1
// and LabelLeading.
func FinalizeRanking(roster []race.Participant) []Entry {
	sorted := slices.Clone(roster)
	slices.SortStableFunc(sorted, func(a, b race.Participant) int {
		if c := cmp.Compare(b.CumulativeScore, a.CumulativeScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Photo(), a.Photo()); c != 0 {
			return c
		}
		return cmp.Compare(a.GateOrEntry(), b.GateOrEntry())
	})

	entries := make([]Entry, 0, len(sorted))
	for i, p := range sorted {
		if i == 0 {
			entries = append(entries, Entry{Participant: p, Rank: 1, MarginLabel: LabelLeading})
			continue
		}
		prev := sorted[i-1]
		e := Entry{Participant: p, Rank: i + 1}
		switch gap := prev.CumulativeScore - p.CumulativeScore; {
		case gap == 0 && prev.Photo() == p.Photo():
			e.Rank = entries[i-1].Rank
			e.MarginLabel = LabelDeadHeat
		case gap == 0:
			e.MarginLabel = LabelNose
		case gap == 1:
			e.MarginLabel = marginLabel(roster, prev.CumulativeScore)
		default:
			e.MarginLabel = Lengths(gap)
		}
		entries = append(entries, e)
	}
	return entries
}

// marginLabel looks up the margin roll recorded by a participant at score.
func marginLabel(roster []race.Participant, score int) string {
	for _, p := range roster {
		if p.CumulativeScore != score || p.Judgment.MarginRoll == nil {
			continue
		}
		switch *p.Judgment.MarginRoll {
		case 1:
			return LabelHead
		case 2:
			return LabelNeck
		}
	}
	return LabelOnePoint
}

// Lengths formats a score gap as a distance in quarter lengths,
// e.g. 10 → "2 1/2", 2 → "1/2", 8 → "2".
//
// Precondition: gap >= 1.
func Lengths(gap int) string {
	whole, quarters := gap/4, gap%4
	frac := [...]string{"", "1/4", "1/2", "3/4"}[quarters]
	switch {
	case whole == 0:
		return frac
	case frac == "":
		return fmt.Sprintf("%d", whole)
	}
	return fmt.Sprintf("%d %s", whole, frac)
}
