// Package dice provides the dice-notation engine used by the race tally:
// notation parsing, signed roll outcomes, and the randomness abstraction.
package dice

import (
	"fmt"
	"strings"
)

// Spec is a parsed dice notation such as "3d8" or "-1d27".
//
// Invariant: Count > 0 and Face > 0 for every Spec returned by Parse.
type Spec struct {
	Count    int  // number of dice
	Face     int  // faces per die
	Negative bool // rolled magnitude is subtracted rather than added
}

// String renders the spec back to canonical notation.
func (s Spec) String() string {
	sign := ""
	if s.Negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%dd%d", sign, s.Count, s.Face)
}

// Outcome holds the audit trail of a single roll.
//
// Postcondition: SignedSum == -sum(Values) iff the notation was negative,
// otherwise SignedSum == sum(Values).
type Outcome struct {
	Notation  string // notation as given to Roll, e.g. "-1d27"
	Values    []int  // individual die results in roll order
	SignedSum int
}

// NewOutcome builds an Outcome from already-known values, e.g. values
// recovered from pasted text. Values is copied.
func NewOutcome(notation string, values []int, signedSum int) Outcome {
	var vs []int
	if len(values) > 0 {
		vs = make([]int, len(values))
		copy(vs, values)
	}
	return Outcome{Notation: notation, Values: vs, SignedSum: signedSum}
}

// Negative reports whether the outcome was produced by a subtracting notation.
func (o Outcome) Negative() bool {
	return strings.HasPrefix(o.Notation, "-")
}

// String returns a human-readable audit string in the format:
//
//	"3d8 → [4 5 6] = 15"
func (o Outcome) String() string {
	return fmt.Sprintf("%s → %v = %d", o.Notation, o.Values, o.SignedSum)
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
