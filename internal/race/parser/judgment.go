package parser

import "strings"

// ParseJudgment recovers "NAME diceNdM=R" lines posted for tie-break
// judgments. Names are not matched against a roster: a margin judgment is
// posted under a label such as "A vs B". Lines without a dice keyword are
// ignored.
func ParseJudgment(text string) Result {
	p := &lineParser{}
	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" || !diceKeywordRe.MatchString(line) {
			continue
		}
		f, ok := split(strings.TrimSpace(strings.ReplaceAll(line, Marker, " ")))
		if !ok {
			p.malformed(line)
			continue
		}
		if !p.notationOK(f.notation, line) {
			continue
		}
		value, values, ok := readRoll(f.roll)
		if !ok {
			p.report(newIssue(KindUnreadableRoll, f.roll, "could not read dice value: %q", f.roll))
			continue
		}
		rolled := signed(value, f.negative)
		p.result.Lines = append(p.result.Lines, Line{
			Name:        f.name,
			Notation:    f.notation,
			Negative:    f.negative,
			Values:      values,
			Rolled:      rolled,
			Fixed:       f.fixed,
			Total:       f.fixed + rolled,
			StatedTotal: f.stated,
			ChecksumOK:  checksumOK(Line{Negative: f.negative, Values: values, Rolled: rolled, Total: f.fixed + rolled, StatedTotal: f.stated}),
			Original:    line,
		})
	}
	return p.result
}
