package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cory-johannsen/racetally/internal/race"
)

// sumRe matches the line that closes a block and supplies its roll.
var sumRe = regexp.MustCompile(`^(?i:合計|sum|total)\s*:\s*(-?\d+)`)

// Block parses the dialect of the marker-decorating dice bot. A result is
// either inline, as in the standard dialect, or a block: a header line
// ending in "=" (optionally followed by non-numeric text), any number of
// free-form lines, then a "合計: N" line.
type Block struct{}

// pending is a block whose header has been read but whose sum line has not.
type pending struct {
	header      fields
	line        string
	participant race.Participant
	matched     bool
}

// Parse implements Parser.
func (Block) Parse(text string, roster []race.Participant, ctx Context) Result {
	if ctx == ContextPace {
		return parsePace(text)
	}

	p := &lineParser{roster: roster}
	var open *pending

	abandon := func() {
		if open != nil && open.matched {
			p.report(newIssue(KindIncompleteBlock, open.header.name,
				"result block for %q has no sum line (合計)", open.header.name))
		}
		open = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}

		if diceKeywordRe.MatchString(line) {
			abandon()
			stripped := strings.TrimSpace(strings.ReplaceAll(line, Marker, " "))
			f, ok := split(stripped)
			if !ok {
				p.malformed(line)
				continue
			}
			// A header whose roll is missing or not numeric opens a block;
			// the roll arrives on the sum line.
			if _, _, readable := readRoll(f.roll); readable || f.stated != nil {
				p.acceptInline(f, line)
				continue
			}
			if !p.notationOK(f.notation, line) {
				continue
			}
			participant, matched := p.match(f.name)
			open = &pending{header: f, line: line, participant: participant, matched: matched}
			continue
		}

		if open == nil {
			continue
		}
		m := sumRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, err := strconv.Atoi(m[1])
		if err != nil {
			p.report(newIssue(KindUnreadableRoll, m[1], "could not read dice value: %q", m[1]))
			open = nil
			continue
		}
		if open.matched {
			p.closeBlock(open, value)
		}
		open = nil
	}
	abandon()
	return p.result
}

func (p *lineParser) closeBlock(b *pending, value int) {
	rolled := signed(value, b.header.negative)
	p.result.Lines = append(p.result.Lines, Line{
		ParticipantID: b.participant.ID,
		Name:          b.header.name,
		Notation:      b.header.notation,
		Negative:      b.header.negative,
		Rolled:        rolled,
		Fixed:         b.header.fixed,
		Total:         b.header.fixed + rolled,
		ChecksumOK:    true,
		Original:      b.line,
	})
}
