// Package script loads race scripts: YAML files that hold a roster and
// every paste of one race, so a whole race can be replayed from the command
// line.
package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

// yamlScript is the top-level YAML structure for race scripts.
type yamlScript struct {
	Race         yamlRace            `yaml:"race"`
	Strategies   []strategy.Strategy `yaml:"strategies"`
	Participants []yamlParticipant   `yaml:"participants"`
	Gates        string              `yaml:"gates"`
	Phases       []yamlPhase         `yaml:"phases"`
	Adjustments  []yamlAdjustment    `yaml:"adjustments"`
	Judgment     string              `yaml:"judgment"`
}

type yamlRace struct {
	Name          string `yaml:"name"`
	MidPhaseCount *int   `yaml:"mid_phase_count"`
}

type yamlParticipant struct {
	Name     string    `yaml:"name"`
	Strategy string    `yaml:"strategy"`
	Skill    yamlSkill `yaml:"skill"`
}

type yamlSkill struct {
	Kind   string   `yaml:"kind"`
	Phases []string `yaml:"phases"`
}

type yamlPhase struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type yamlAdjustment struct {
	Name     string `yaml:"name"`
	Phase    string `yaml:"phase"`
	Modifier int    `yaml:"modifier"`
}

// Entrant is one roster line of a script.
type Entrant struct {
	Name     string
	Strategy string
	Skill    race.UniqueSkill
}

// Adjustment is a manual score correction for one participant and phase.
type Adjustment struct {
	Name     string
	Phase    race.PhaseID
	Modifier int
}

// Script is a validated race script.
type Script struct {
	Name          string
	MidPhaseCount int
	Strategies    []strategy.Strategy
	Entrants      []Entrant
	Gates         string
	Phases        map[race.PhaseID]string
	Adjustments   []Adjustment
	Judgment      string
}

// LoadFromFile reads and validates a race script. defaultMid is used when
// the script does not set race.mid_phase_count.
//
// Precondition: path must point to a YAML race script.
// Postcondition: Returns a validated Script or a non-nil error.
func LoadFromFile(path string, defaultMid int) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading race script %s: %w", path, err)
	}
	return LoadFromBytes(data, defaultMid)
}

// LoadFromBytes parses and validates a race script from YAML bytes.
func LoadFromBytes(data []byte, defaultMid int) (*Script, error) {
	var file yamlScript
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing race script YAML: %w", err)
	}
	s := convert(file, defaultMid)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating race script: %w", err)
	}
	return s, nil
}

func convert(f yamlScript, defaultMid int) *Script {
	s := &Script{
		Name:          f.Race.Name,
		MidPhaseCount: defaultMid,
		Strategies:    f.Strategies,
		Gates:         f.Gates,
		Phases:        make(map[race.PhaseID]string, len(f.Phases)),
		Judgment:      f.Judgment,
	}
	if f.Race.MidPhaseCount != nil {
		s.MidPhaseCount = *f.Race.MidPhaseCount
	}
	for _, p := range f.Participants {
		skill := race.UniqueSkill{Kind: race.SkillKind(p.Skill.Kind)}
		for _, ph := range p.Skill.Phases {
			skill.ActivePhases = append(skill.ActivePhases, race.PhaseID(ph))
		}
		s.Entrants = append(s.Entrants, Entrant{Name: p.Name, Strategy: p.Strategy, Skill: skill})
	}
	for _, p := range f.Phases {
		s.Phases[race.PhaseID(p.ID)] = p.Text
	}
	for _, a := range f.Adjustments {
		s.Adjustments = append(s.Adjustments, Adjustment{Name: a.Name, Phase: race.PhaseID(a.Phase), Modifier: a.Modifier})
	}
	return s
}

// Validate checks the script for errors, reporting all of them.
func (s *Script) Validate() error {
	var errs []error
	if s.MidPhaseCount < 0 {
		errs = append(errs, fmt.Errorf("race.mid_phase_count must be >= 0, got %d", s.MidPhaseCount))
	}
	if len(s.Entrants) == 0 {
		errs = append(errs, errors.New("participants must not be empty"))
	}
	for _, st := range s.Strategies {
		if err := st.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	known := map[race.PhaseID]bool{}
	for _, ph := range race.PhaseSequence(s.MidPhaseCount) {
		known[ph] = true
	}
	names := map[string]bool{}
	for _, e := range s.Entrants {
		switch {
		case e.Name == "":
			errs = append(errs, errors.New("participant name must not be empty"))
		case names[e.Name]:
			errs = append(errs, fmt.Errorf("duplicate participant name %q", e.Name))
		}
		names[e.Name] = true
		if e.Skill.Kind != "" && !e.Skill.Kind.Valid() {
			errs = append(errs, fmt.Errorf("participant %q: unknown skill kind %q", e.Name, e.Skill.Kind))
		}
		for _, ph := range e.Skill.ActivePhases {
			if !known[ph] && ph != race.PhaseMid {
				errs = append(errs, fmt.Errorf("participant %q: unknown skill phase %q", e.Name, ph))
			}
		}
	}
	for ph := range s.Phases {
		if !known[ph] {
			errs = append(errs, fmt.Errorf("unknown phase %q", ph))
		}
	}
	for _, a := range s.Adjustments {
		if !names[a.Name] {
			errs = append(errs, fmt.Errorf("adjustment for unknown participant %q", a.Name))
		}
		if !known[a.Phase] {
			errs = append(errs, fmt.Errorf("adjustment for %q: unknown phase %q", a.Name, a.Phase))
		}
	}
	return errors.Join(errs...)
}

// Roster creates the participants in script order, entry indices from 1.
func (s *Script) Roster() []race.Participant {
	out := make([]race.Participant, 0, len(s.Entrants))
	for i, e := range s.Entrants {
		out = append(out, race.NewParticipant(i+1, e.Name, e.Strategy, e.Skill))
	}
	return out
}

// Table returns base with the script's own strategies taking precedence.
func (s *Script) Table(base *strategy.Table) *strategy.Table {
	if base == nil {
		base = strategy.DefaultTable()
	}
	return base.Prepend(s.Strategies...)
}

// Until returns a copy of s holding only the pastes of the phases before
// phase, without adjustments or judgment rolls.
func (s *Script) Until(phase race.PhaseID) *Script {
	out := *s
	out.Phases = map[race.PhaseID]string{}
	out.Adjustments = nil
	out.Judgment = ""
	for _, ph := range race.PhaseSequence(s.MidPhaseCount) {
		if ph == phase {
			break
		}
		if text, ok := s.Phases[ph]; ok {
			out.Phases[ph] = text
		}
	}
	return &out
}
