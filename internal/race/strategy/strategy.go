// Package strategy defines the racing strategy table: each named strategy's
// fixed score, per-phase dice and pace sensitivity.
package strategy

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/dice"
)

// Built-in strategy names.
const (
	GreatEscape = "大逃げ"
	FrontRunner = "逃げ"
	PaceChaser  = "先行"
	LateSurger  = "差し"
	EndCloser   = "追込"
)

// PhaseDice holds the dice notation rolled in each scoring phase.
type PhaseDice struct {
	Opening string `yaml:"opening"`
	Mid     string `yaml:"mid"`
	Closing string `yaml:"closing"`
}

// Strategy is one row of the strategy table.
//
// Precondition: Name must be non-empty and every PhaseDice notation valid
// after loading.
type Strategy struct {
	Name       string      `yaml:"name"`
	FixedValue int         `yaml:"fixed_value"`
	Dice       PhaseDice   `yaml:"dice"`
	Pace       map[int]int `yaml:"pace"`
}

// DiceFor returns the notation rolled in a phase of the given kind, or ""
// for the pace phase and unknown phases.
func (s Strategy) DiceFor(kind race.PhaseKind) string {
	switch kind {
	case race.KindOpening:
		return s.Dice.Opening
	case race.KindMid:
		return s.Dice.Mid
	case race.KindClosing:
		return s.Dice.Closing
	}
	return ""
}

// PaceModifier returns the score adjustment for a pace roll, 0 when the
// roll is unlisted.
func (s Strategy) PaceModifier(roll int) int {
	return s.Pace[roll]
}

// Validate checks the strategy's invariants.
func (s Strategy) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("strategy name must not be empty"))
	}
	for phase, notation := range map[string]string{"opening": s.Dice.Opening, "mid": s.Dice.Mid, "closing": s.Dice.Closing} {
		if _, err := dice.Parse(notation); err != nil {
			errs = append(errs, fmt.Errorf("strategy %q %s dice: %w", s.Name, phase, err))
		}
	}
	for roll := range s.Pace {
		if roll < 1 || roll > 9 {
			errs = append(errs, fmt.Errorf("strategy %q pace roll %d must be 1-9", s.Name, roll))
		}
	}
	return errors.Join(errs...)
}

// Default returns the five built-in strategies.
func Default() []Strategy {
	return []Strategy{
		{
			Name:       GreatEscape,
			FixedValue: 30,
			Dice:       PhaseDice{Opening: "3d8", Mid: "3d5", Closing: "-1d27"},
			Pace:       map[int]int{1: 12, 2: 5, 3: 5, 9: -7},
		},
		{
			Name:       FrontRunner,
			FixedValue: 15,
			Dice:       PhaseDice{Opening: "3d6", Mid: "3d5", Closing: "1d7"},
			Pace:       map[int]int{1: 10, 2: 5, 3: 5, 9: -5},
		},
		{
			Name:       PaceChaser,
			FixedValue: 10,
			Dice:       PhaseDice{Opening: "3d5", Mid: "3d5", Closing: "4d5"},
			Pace:       map[int]int{1: 5, 2: 5, 3: 5},
		},
		{
			Name:       LateSurger,
			FixedValue: 5,
			Dice:       PhaseDice{Opening: "1d12", Mid: "1d15", Closing: "1d33"},
			Pace:       map[int]int{7: 5, 8: 5, 9: 5},
		},
		{
			Name:       EndCloser,
			FixedValue: 0,
			Dice:       PhaseDice{Opening: "1d9", Mid: "1d15", Closing: "1d46"},
			Pace:       map[int]int{1: -5, 7: 5, 8: 5, 9: 10},
		},
	}
}

// PaceLabel names the pace for a 1d9 roll.
func PaceLabel(roll int) string {
	switch {
	case roll == 1:
		return "ドスロー"
	case roll >= 2 && roll <= 3:
		return "スロー"
	case roll >= 4 && roll <= 6:
		return "ミドル"
	case roll >= 7 && roll <= 8:
		return "ハイ"
	case roll == 9:
		return "超ハイ"
	}
	return "不明"
}
