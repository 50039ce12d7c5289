package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/dice"
)

const sep = `[\s\x{3000}🎲]`

var (
	// [ordinal] NAME [FIX(+|-)] [-]dice<N>d<M>= ROLL [(TOTAL)]
	lineRe = regexp.MustCompile(`^(.*?)` + sep + `+` +
		`(?:(\d+)([+-])` + sep + `*)?` +
		`(-)?` + sep + `*` +
		`(?i:dice)(\d+[dD]\d+)\s*=\s*` +
		`(.*?)` +
		`(?:\s*\((-?\d+)\))?$`)

	diceKeywordRe = regexp.MustCompile(`(?i)dice\s*\d*d\d+`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	ordinalRe     = regexp.MustCompile(`^(?:[①-⑳]|\d+\.)[\s\x{3000}]*`)
	singleRollRe  = regexp.MustCompile(`^-?\d+$`)
	multiRollRe   = regexp.MustCompile(`^\d+(?:[\s,]+\d+)+$`)
)

// foldable lists full-width punctuation the grammar accepts in narrow form.
var foldable = map[rune]bool{'＋': true, '－': true, '＝': true, '（': true, '）': true, '：': true}

// normalize folds full-width grammar punctuation to ASCII. Letters and digits
// are left alone so names compare exactly against the roster.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if !foldable[r] {
			return r
		}
		if n := width.LookupRune(r).Narrow(); n != 0 {
			return n
		}
		return r
	}, s)
}

// cleanLine strips markup tags and surrounding space from one input line.
func cleanLine(line string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(normalize(line), ""))
}

// cleanName strips an ordinal prefix ("①", "3.") and surrounding space.
func cleanName(raw string) string {
	return strings.TrimSpace(ordinalRe.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// fields is the raw decomposition of a line matched by lineRe.
type fields struct {
	name     string
	fixed    int
	negative bool
	notation string
	roll     string
	stated   *int
}

// split decomposes line, reporting false when it does not fit the grammar.
func split(line string) (fields, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return fields{}, false
	}
	f := fields{
		name:     cleanName(m[1]),
		negative: m[3] == "-" || m[4] == "-",
		notation: strings.ToLower(m[5]),
		roll:     strings.TrimSpace(m[6]),
	}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return fields{}, false
		}
		f.fixed = n
	}
	if m[7] != "" {
		n, err := strconv.Atoi(m[7])
		if err != nil {
			return fields{}, false
		}
		f.stated = &n
	}
	return f, true
}

// readRoll reads the roll token: one integer, or several space- or
// comma-separated die values that are summed.
func readRoll(token string) (sum int, values []int, ok bool) {
	switch {
	case singleRollRe.MatchString(token):
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, nil, false
		}
		return n, nil, true
	case multiRollRe.MatchString(token):
		for _, part := range strings.FieldsFunc(token, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '　' }) {
			n, err := strconv.Atoi(part)
			if err != nil {
				return 0, nil, false
			}
			values = append(values, n)
			sum += n
		}
		return sum, values, true
	}
	return 0, nil, false
}

func signed(value int, negative bool) int {
	if negative {
		return -abs(value)
	}
	return value
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// checksumOK compares a stated total with the computed one. Negative dice
// may be written as the magnitude of the total, and a listed-dice roll may
// state the dice sum alone.
func checksumOK(l Line) bool {
	if l.StatedTotal == nil {
		return true
	}
	stated := *l.StatedTotal
	switch {
	case stated == l.Total:
		return true
	case l.Negative && stated == abs(l.Total):
		return true
	case len(l.Values) > 0 && stated == abs(l.Rolled):
		return true
	}
	return false
}

// lineParser holds the per-call state shared by both dialects.
type lineParser struct {
	roster []race.Participant
	result Result
}

func (p *lineParser) report(i Issue) {
	p.result.Issues = append(p.result.Issues, i)
}

// notationOK validates the dice token and reports a MalformedNotation issue
// when it fails.
func (p *lineParser) notationOK(notation, line string) bool {
	if !dice.IsValid(notation) {
		p.report(newIssue(KindMalformedNotation, notation, "invalid dice notation %q: %q", notation, line))
		return false
	}
	return true
}

// match resolves name against the roster, reporting UnmatchedParticipant on
// failure.
func (p *lineParser) match(name string) (race.Participant, bool) {
	participant, ok := race.FindByName(p.roster, name)
	if !ok {
		p.report(newIssue(KindUnmatchedParticipant, name, "name does not match any registered participant: %q", name))
	}
	return participant, ok
}

// acceptInline validates a fully inline line and appends it to the result.
func (p *lineParser) acceptInline(f fields, line string) {
	if !p.notationOK(f.notation, line) {
		return
	}
	value, values, ok := readRoll(f.roll)
	if !ok {
		p.report(newIssue(KindUnreadableRoll, f.roll, "could not read dice value: %q", f.roll))
		return
	}
	participant, ok := p.match(f.name)
	if !ok {
		return
	}
	rolled := signed(value, f.negative)
	l := Line{
		ParticipantID: participant.ID,
		Name:          f.name,
		Notation:      f.notation,
		Negative:      f.negative,
		Values:        values,
		Rolled:        rolled,
		Fixed:         f.fixed,
		Total:         f.fixed + rolled,
		StatedTotal:   f.stated,
		Original:      line,
	}
	if !checksumOK(l) {
		p.report(newIssue(KindChecksumMismatch, f.name,
			"dice total does not add up for %q: stated %d, computed %d", f.name, *f.stated, l.Total))
		return
	}
	l.ChecksumOK = true
	p.result.Lines = append(p.result.Lines, l)
}

func (p *lineParser) malformed(line string) {
	p.report(newIssue(KindMalformedLine, line, "invalid dice format: %q", line))
}
