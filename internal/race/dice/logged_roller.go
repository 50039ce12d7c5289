package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with notation, values, and signed sum.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll parses notation, rolls it, and logs the outcome.
//
// Postcondition: Returns an Outcome or an error wrapping ErrMalformedNotation.
func (r *Roller) Roll(notation string) (Outcome, error) {
	out, err := RollNotation(notation, r.src)
	if err != nil {
		r.logger.Debug("dice notation rejected", zap.String("notation", notation), zap.Error(err))
		return Outcome{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("notation", out.Notation),
		zap.Ints("values", out.Values),
		zap.Int("signed_sum", out.SignedSum),
	)
	return out, nil
}
