package ranking

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/parser"
)

// JudgmentKind distinguishes the two tie-break rolls.
type JudgmentKind string

const (
	// Photo breaks an exact score tie with 1d5.
	Photo JudgmentKind = "photo"
	// Margin labels a one-point gap with 1d2.
	Margin JudgmentKind = "margin"
)

// Die returns the notation rolled for the judgment kind.
func (k JudgmentKind) Die() string {
	if k == Photo {
		return "1d5"
	}
	return "1d2"
}

// Faces returns the highest valid roll for the judgment kind.
func (k JudgmentKind) Faces() int {
	if k == Photo {
		return 5
	}
	return 2
}

// JudgmentRequest is one tie-break roll the rules require.
type JudgmentRequest struct {
	Kind JudgmentKind
	// ParticipantIDs lists the tied group for Photo, or the upper and lower
	// representatives for Margin.
	ParticipantIDs   []string
	RepresentativeID string
	Score            int
	// Label names the request in the GM post: the tied names for Photo,
	// "Upper vs Lower" for Margin.
	Label string
}

// DetectJudgments returns the photo requests for every tied group followed
// by the margin requests for every adjacent pair of groups one point apart.
// The representative of a group is its smallest-gate member.
func DetectJudgments(roster []race.Participant) []JudgmentRequest {
	gs := groups(SortByStanding(roster))

	var reqs []JudgmentRequest
	for _, g := range gs {
		if len(g) < 2 {
			continue
		}
		ids := make([]string, 0, len(g))
		names := make([]string, 0, len(g))
		for _, p := range g {
			ids = append(ids, p.ID)
			names = append(names, p.Name)
		}
		reqs = append(reqs, JudgmentRequest{
			Kind:             Photo,
			ParticipantIDs:   ids,
			RepresentativeID: g[0].ID,
			Score:            g[0].CumulativeScore,
			Label:            strings.Join(names, ", "),
		})
	}
	for i := 0; i+1 < len(gs); i++ {
		upper, lower := gs[i][0], gs[i+1][0]
		if upper.CumulativeScore-lower.CumulativeScore != 1 {
			continue
		}
		reqs = append(reqs, JudgmentRequest{
			Kind:             Margin,
			ParticipantIDs:   []string{upper.ID, lower.ID},
			RepresentativeID: upper.ID,
			Score:            upper.CumulativeScore,
			Label:            upper.Name + " vs " + lower.Name,
		})
	}
	return reqs
}

// JudgmentResult is the outcome of applying pasted judgment rolls.
type JudgmentResult struct {
	Roster   []race.Participant
	Problems []string // lines that could not be applied
	Missing  []string // required rolls still absent
}

// Complete reports whether every required roll was applied cleanly.
func (r JudgmentResult) Complete() bool {
	return len(r.Problems) == 0 && len(r.Missing) == 0
}

// ApplyJudgments records 1d5 lines as photo rolls, matched by participant
// name, and 1d2 lines as margin rolls, matched by request label and stored on
// the request's representative. roster is not modified.
func ApplyJudgments(roster []race.Participant, requests []JudgmentRequest, lines []parser.Line) JudgmentResult {
	next := make([]race.Participant, len(roster))
	index := make(map[string]int, len(roster))
	for i, p := range roster {
		next[i] = p.Clone()
		index[p.ID] = i
	}
	inPhoto := map[string]bool{}
	margins := map[string]JudgmentRequest{}
	for _, r := range requests {
		switch r.Kind {
		case Photo:
			for _, id := range r.ParticipantIDs {
				inPhoto[id] = true
			}
		case Margin:
			margins[r.Label] = r
		}
	}

	var res JudgmentResult
	problem := func(format string, args ...any) {
		res.Problems = append(res.Problems, fmt.Sprintf(format, args...))
	}

	for _, l := range lines {
		switch l.Notation {
		case Photo.Die():
			if l.Rolled < 1 || l.Rolled > Photo.Faces() {
				problem("%s: photo roll %d is outside 1-%d", l.Name, l.Rolled, Photo.Faces())
				continue
			}
			p, ok := race.FindByName(roster, l.Name)
			if !ok {
				problem("%s: no such participant", l.Name)
				continue
			}
			if !inPhoto[p.ID] {
				problem("%s: not part of a photo judgment", l.Name)
				continue
			}
			next[index[p.ID]].Judgment.PhotoRoll = race.Int(l.Rolled)
		case Margin.Die():
			if l.Rolled < 1 || l.Rolled > Margin.Faces() {
				problem("%s: margin roll %d is outside 1-%d", l.Name, l.Rolled, Margin.Faces())
				continue
			}
			req, ok := margins[l.Name]
			if !ok {
				problem("%s: no margin judgment with this label", l.Name)
				continue
			}
			i, ok := index[req.RepresentativeID]
			if !ok {
				problem("%s: representative is not in the roster", l.Name)
				continue
			}
			next[i].Judgment.MarginRoll = race.Int(l.Rolled)
		default:
			problem("unexpected die %s for %s (expected %s or %s)", l.SignedNotation(), l.Name, Photo.Die(), Margin.Die())
		}
	}

	for _, r := range requests {
		switch r.Kind {
		case Photo:
			for _, id := range r.ParticipantIDs {
				if i, ok := index[id]; ok && next[i].Judgment.PhotoRoll == nil {
					res.Missing = append(res.Missing, fmt.Sprintf("%s (photo %s)", next[i].Name, Photo.Die()))
				}
			}
		case Margin:
			if i, ok := index[r.RepresentativeID]; ok && next[i].Judgment.MarginRoll == nil {
				res.Missing = append(res.Missing, fmt.Sprintf("%s (margin %s)", r.Label, Margin.Die()))
			}
		}
	}

	res.Roster = next
	return res
}
