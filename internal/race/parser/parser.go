// Package parser recovers structured dice results from text pasted out of a
// forum thread. Two dialects are supported behind one Parser interface: the
// standard inline dialect and the block dialect emitted by the dice bot that
// decorates its posts with a marker token. Select picks one from the text.
//
// Parsers never fail on malformed input. Every problem found is collected as
// an Issue and the offending line or block is left out of the result, so a
// caller can show all problems of a paste in one pass.
package parser

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/racetally/internal/race"
)

// Marker is the decorative token that identifies block-dialect text.
const Marker = "🎲"

// Context tells a parser what kind of paste it is reading.
type Context int

const (
	// ContextRace is a per-participant phase result paste.
	ContextRace Context = iota
	// ContextPace is the GM's single global 1d9 pace roll.
	ContextPace
)

func (c Context) String() string {
	if c == ContextPace {
		return "PACE"
	}
	return "RACE"
}

// Kind classifies an Issue.
type Kind string

const (
	KindMalformedNotation    Kind = "MalformedNotation"
	KindMalformedLine        Kind = "MalformedLine"
	KindUnmatchedParticipant Kind = "UnmatchedParticipant"
	KindChecksumMismatch     Kind = "ChecksumMismatch"
	KindIncompleteBlock      Kind = "IncompleteBlock"
	KindPaceCardinality      Kind = "PaceCardinality"
	KindUnreadableRoll       Kind = "UnreadableRoll"
)

// Issue is one non-fatal problem found while parsing.
type Issue struct {
	Kind    Kind
	Subject string // offending line, name or token
	Message string // human-readable description
}

func (i Issue) String() string {
	return i.Message
}

func newIssue(kind Kind, subject, format string, args ...any) Issue {
	return Issue{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// Line is one recovered result.
//
// Invariant: Total == Fixed + Rolled.
type Line struct {
	ParticipantID string
	Name          string
	Notation      string // dice token without sign, e.g. "3d8"
	Negative      bool   // dice contribution is subtracted
	Values        []int  // individual values when the paste lists each die
	Rolled        int    // signed dice contribution
	Fixed         int    // fixed value written before the dice
	Total         int
	StatedTotal   *int // parenthesised total, when present
	ChecksumOK    bool
	Original      string
}

// SignedNotation returns Notation with a leading "-" for subtracted dice.
func (l Line) SignedNotation() string {
	if l.Negative {
		return "-" + l.Notation
	}
	return l.Notation
}

// Result is the outcome of one parse call.
type Result struct {
	Lines  []Line
	Issues []Issue
}

// Errors returns the human-readable issue messages in discovery order.
func (r Result) Errors() []string {
	msgs := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		msgs = append(msgs, i.Message)
	}
	return msgs
}

// HasKind reports whether any issue is of kind k.
func (r Result) HasKind(k Kind) bool {
	for _, i := range r.Issues {
		if i.Kind == k {
			return true
		}
	}
	return false
}

// OK reports whether the parse produced no issues.
func (r Result) OK() bool {
	return len(r.Issues) == 0
}

// Parser recovers results from a paste.
//
// Implementations MUST be pure: equal inputs yield equal Results and roster
// is never modified.
type Parser interface {
	Parse(text string, roster []race.Participant, ctx Context) Result
}

// Select returns the Block parser when text carries the Marker token and
// the Standard parser otherwise.
func Select(text string) Parser {
	if strings.Contains(text, Marker) {
		return Block{}
	}
	return Standard{}
}

// Parse selects a dialect for text and parses it.
func Parse(text string, roster []race.Participant, ctx Context) Result {
	return Select(text).Parse(text, roster, ctx)
}

// CountLines returns the number of non-blank lines in text.
func CountLines(text string) int {
	n := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	return n
}
