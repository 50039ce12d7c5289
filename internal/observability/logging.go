// Package observability provides logger construction for the racetally CLI.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/racetally/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Output goes to cfg.Output so that command results on stdout stay clean.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}
	zapCfg.OutputPaths = []string{output}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("racetally"), nil
}

// RaceFields returns the race defaults every log line of a run carries: the
// mid phase count and the dice source, with its seed when seeded.
func RaceFields(cfg config.RaceConfig) []zap.Field {
	fields := []zap.Field{zap.Int("mid_phase_count", cfg.MidPhaseCount)}
	if cfg.Seed == 0 {
		return append(fields, zap.String("dice_source", "crypto"))
	}
	return append(fields, zap.String("dice_source", "seeded"), zap.Uint64("seed", cfg.Seed))
}

// ForRace scopes logger to one race script.
//
// Precondition: logger must be non-nil.
func ForRace(logger *zap.Logger, name string, participants int) *zap.Logger {
	return logger.With(zap.String("race", name), zap.Int("participants", participants))
}
