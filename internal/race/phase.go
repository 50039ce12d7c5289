package race

import (
	"fmt"
	"strings"
)

// PhaseID identifies a race phase: "Start", "Pace", "Mid" or "Mid1".."MidN", "End".
type PhaseID string

const (
	PhaseStart PhaseID = "Start"
	PhasePace  PhaseID = "Pace"
	PhaseMid   PhaseID = "Mid"
	PhaseEnd   PhaseID = "End"
)

// PhaseKind groups phase identifiers by the strategy dice they use.
type PhaseKind int

const (
	KindUnknown PhaseKind = iota
	KindOpening
	KindPace
	KindMid
	KindClosing
)

// KindOf classifies a phase identifier.
func KindOf(id PhaseID) PhaseKind {
	switch {
	case id == PhaseStart:
		return KindOpening
	case id == PhasePace:
		return KindPace
	case id == PhaseEnd:
		return KindClosing
	case strings.HasPrefix(string(id), string(PhaseMid)):
		return KindMid
	}
	return KindUnknown
}

// PhaseSequence returns Start, Pace, the mid phases, then End. A single mid
// phase is named "Mid"; several are numbered from 1.
func PhaseSequence(midCount int) []PhaseID {
	seq := []PhaseID{PhaseStart, PhasePace}
	switch {
	case midCount == 1:
		seq = append(seq, PhaseMid)
	case midCount > 1:
		for i := 1; i <= midCount; i++ {
			seq = append(seq, PhaseID(fmt.Sprintf("Mid%d", i)))
		}
	}
	return append(seq, PhaseEnd)
}

// PhaseLabel returns the display label used in forum posts.
func PhaseLabel(id PhaseID) string {
	switch KindOf(id) {
	case KindOpening:
		return "序盤"
	case KindPace:
		return "ペース判定"
	case KindClosing:
		return "終盤"
	case KindMid:
		return "中盤" + strings.TrimPrefix(string(id), string(PhaseMid))
	}
	return string(id)
}
