package dice

// Roll draws Count independent values in [1, Face] from src and sums them,
// negating the sum for a negative Spec.
//
// Precondition: spec must come from Parse; src must be non-nil.
// Postcondition: len(result.Values) == spec.Count and
// |result.SignedSum| == sum(result.Values).
func Roll(spec Spec, src Source) Outcome {
	values := make([]int, spec.Count)
	sum := 0
	for i := range values {
		values[i] = src.Intn(spec.Face) + 1
		sum += values[i]
	}
	if spec.Negative {
		sum = -sum
	}
	return Outcome{Notation: spec.String(), Values: values, SignedSum: sum}
}

// RollNotation parses notation and rolls it using src in a single call.
// The outcome keeps the notation exactly as given.
//
// Postcondition: Returns an Outcome or an error wrapping ErrMalformedNotation.
func RollNotation(notation string, src Source) (Outcome, error) {
	spec, err := Parse(notation)
	if err != nil {
		return Outcome{}, err
	}
	out := Roll(spec, src)
	out.Notation = notation
	return out, nil
}
