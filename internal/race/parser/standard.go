package parser

import (
	"strings"

	"github.com/cory-johannsen/racetally/internal/race"
)

// Standard parses the inline dialect: one complete result per line.
type Standard struct{}

// Parse implements Parser.
func (Standard) Parse(text string, roster []race.Participant, ctx Context) Result {
	if ctx == ContextPace {
		return parsePace(text)
	}

	p := &lineParser{roster: roster}
	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		f, ok := split(line)
		if !ok {
			if diceKeywordRe.MatchString(line) {
				p.malformed(line)
			}
			continue
		}
		p.acceptInline(f, line)
	}
	return p.result
}
