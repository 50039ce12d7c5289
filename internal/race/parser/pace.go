package parser

import (
	"regexp"
	"strconv"
)

// paceRe finds the GM's pace die anywhere in a paste.
var paceRe = regexp.MustCompile(`(?i)(?:🎲)?\s*dice1d9\s*=\s*(\d+)`)

// PaceName is the Name carried by the synthetic pace result.
const PaceName = "GM"

const paceFaces = 9

// parsePace searches text for exactly one pace die.
func parsePace(text string) Result {
	text = normalize(text)
	matches := paceRe.FindAllStringSubmatch(text, -1)
	switch len(matches) {
	case 0:
		return Result{Issues: []Issue{newIssue(KindPaceCardinality, "dice1d9",
			"pace die (dice1d9) not found; check that the paste is complete")}}
	case 1:
	default:
		return Result{Issues: []Issue{newIssue(KindPaceCardinality, "dice1d9",
			"multiple pace dice found (%d); check the paste", len(matches))}}
	}

	m := matches[0]
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return Result{Issues: []Issue{newIssue(KindUnreadableRoll, m[1], "could not read dice value: %q", m[1])}}
	}
	if value < 1 || value > paceFaces {
		return Result{Issues: []Issue{newIssue(KindUnreadableRoll, m[1],
			"pace roll %d is outside 1-%d", value, paceFaces)}}
	}
	return Result{Lines: []Line{{
		Name:       PaceName,
		Notation:   "1d9",
		Rolled:     value,
		Total:      value,
		ChecksumOK: true,
		Original:   m[0],
	}}}
}

// PaceRoll extracts the pace roll from a successful pace parse.
func (r Result) PaceRoll() (int, bool) {
	if len(r.Issues) > 0 || len(r.Lines) != 1 {
		return 0, false
	}
	return r.Lines[0].Rolled, true
}
