package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedNotation is wrapped by every error returned from Parse.
var ErrMalformedNotation = errors.New("dice: malformed notation")

// Parse parses notation of the form "[-]<count>d<face>" into a Spec.
// The "d" is case-insensitive.
//
// Postcondition: Returns a Spec with Count > 0 and Face > 0, or an error
// wrapping ErrMalformedNotation.
func Parse(notation string) (Spec, error) {
	s := strings.TrimSpace(notation)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	parts := strings.Split(strings.ToLower(s), "d")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Spec{}, fmt.Errorf("%w: %q must be <count>d<face>", ErrMalformedNotation, notation)
	}

	count, err := parsePositive(parts[0])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: invalid die count in %q: %v", ErrMalformedNotation, notation, err)
	}
	face, err := parsePositive(parts[1])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: invalid die face in %q: %v", ErrMalformedNotation, notation, err)
	}

	return Spec{Count: count, Face: face, Negative: negative}, nil
}

// IsValid reports whether notation parses.
func IsValid(notation string) bool {
	_, err := Parse(notation)
	return err == nil
}

// MustParse parses notation and panics on error. Useful for static tables.
//
// Precondition: notation must be valid.
func MustParse(notation string) Spec {
	s, err := Parse(notation)
	if err != nil {
		panic("dice: MustParse failed for notation " + notation + ": " + err.Error())
	}
	return s
}

func parsePositive(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a decimal integer", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be >= 1")
	}
	return n, nil
}
