// Package race holds the data model shared by the race tally components:
// participants, their per-phase history, judgment rolls, and the race
// session record.
//
// Values in this package are treated as immutable snapshots. Functions in
// the sibling packages never mutate a Participant in place; they return
// fresh values for the caller to commit.
package race

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/cory-johannsen/racetally/internal/race/dice"
)

// SkillKind is the kind of a participant's unique skill.
type SkillKind string

const (
	SkillStable    SkillKind = "Stable"
	SkillGamble    SkillKind = "Gamble"
	SkillSustained SkillKind = "Sustained"
)

// Valid reports whether k is a known skill kind.
func (k SkillKind) Valid() bool {
	switch k {
	case SkillStable, SkillGamble, SkillSustained:
		return true
	}
	return false
}

// FixedBonus returns the flat bonus added alongside the skill die.
func (k SkillKind) FixedBonus() int {
	if k == SkillStable {
		return 5
	}
	return 0
}

// Die returns the notation of the skill's own die.
func (k SkillKind) Die() string {
	switch k {
	case SkillStable, SkillSustained:
		return "1d10"
	case SkillGamble:
		return "1d20"
	}
	return ""
}

// UniqueSkill is a participant's special ability, active only in the
// configured phases.
type UniqueSkill struct {
	Kind         SkillKind
	ActivePhases []PhaseID
}

// ActiveIn reports whether the skill fires in phase. A configured "Mid"
// matches every numbered mid phase.
func (u UniqueSkill) ActiveIn(phase PhaseID) bool {
	for _, p := range u.ActivePhases {
		if p == phase {
			return true
		}
		if p == PhaseMid && KindOf(phase) == KindMid {
			return true
		}
	}
	return false
}

// PhaseEntry records what a participant reported for one phase.
// Absent dice are nil.
type PhaseEntry struct {
	BaseDice       *dice.Outcome
	UniqueDice     *dice.Outcome
	ManualModifier int
}

// Judgment holds tie-break rolls supplied after the race.
type Judgment struct {
	PhotoRoll  *int // 1d5, breaks exact-score ties
	MarginRoll *int // 1d2, labels a one-point gap
}

// Participant is one runner in the race.
//
// Invariant: EntryIndex is assigned once at creation and never reused.
type Participant struct {
	ID              string
	EntryIndex      int
	Name            string
	StrategyName    string
	UniqueSkill     UniqueSkill
	Gate            *int
	CumulativeScore int
	History         map[PhaseID]PhaseEntry
	Judgment        Judgment
}

// NewParticipant creates a participant with a fresh identity and empty history.
//
// Precondition: entryIndex must be unique within the roster.
func NewParticipant(entryIndex int, name, strategyName string, skill UniqueSkill) Participant {
	return Participant{
		ID:           uuid.NewString(),
		EntryIndex:   entryIndex,
		Name:         name,
		StrategyName: strategyName,
		UniqueSkill:  skill,
		History:      map[PhaseID]PhaseEntry{},
	}
}

// Clone returns a copy of p whose History map and pointer fields can be
// modified without affecting p.
func (p Participant) Clone() Participant {
	out := p
	out.History = maps.Clone(p.History)
	if out.History == nil {
		out.History = map[PhaseID]PhaseEntry{}
	}
	out.Gate = clonePtr(p.Gate)
	out.Judgment = Judgment{PhotoRoll: clonePtr(p.Judgment.PhotoRoll), MarginRoll: clonePtr(p.Judgment.MarginRoll)}
	out.UniqueSkill.ActivePhases = append([]PhaseID(nil), p.UniqueSkill.ActivePhases...)
	return out
}

// GateOrEntry returns the gate number, falling back to the entry index when
// no gate has been drawn.
func (p Participant) GateOrEntry() int {
	if p.Gate != nil {
		return *p.Gate
	}
	return p.EntryIndex
}

// Photo returns the photo-judgment roll or 0 when none was recorded.
func (p Participant) Photo() int {
	if p.Judgment.PhotoRoll == nil {
		return 0
	}
	return *p.Judgment.PhotoRoll
}

// Session is the per-race record carried into the calculator and ranking
// functions in place of process-wide state.
type Session struct {
	MidPhaseCount int
	PaceRoll      *int
}

// Phases returns the phase sequence of the session.
func (s Session) Phases() []PhaseID {
	return PhaseSequence(s.MidPhaseCount)
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// FindByID returns the participant with id.
func FindByID(roster []Participant, id string) (Participant, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// FindByName returns the single participant whose name equals name exactly.
// It fails when no participant or more than one participant matches.
func FindByName(roster []Participant, name string) (Participant, bool) {
	var (
		found Participant
		n     int
	)
	for _, p := range roster {
		if p.Name == name {
			found = p
			n++
		}
	}
	return found, n == 1
}

// ValidateRoster checks the roster-wide uniqueness invariants.
//
// Postcondition: Returns nil when IDs, entry indices, names and assigned
// gates are each unique.
func ValidateRoster(roster []Participant) error {
	ids := map[string]bool{}
	entries := map[int]bool{}
	names := map[string]bool{}
	gates := map[int]bool{}
	for _, p := range roster {
		if ids[p.ID] {
			return fmt.Errorf("duplicate participant id %q", p.ID)
		}
		ids[p.ID] = true
		if entries[p.EntryIndex] {
			return fmt.Errorf("duplicate entry index %d", p.EntryIndex)
		}
		entries[p.EntryIndex] = true
		if names[p.Name] {
			return fmt.Errorf("duplicate participant name %q", p.Name)
		}
		names[p.Name] = true
		if p.Gate != nil {
			if gates[*p.Gate] {
				return fmt.Errorf("duplicate gate %d", *p.Gate)
			}
			gates[*p.Gate] = true
		}
	}
	return nil
}

func clonePtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
