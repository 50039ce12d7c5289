// Package main provides the racetally binary: the GM's command-line tool for
// rolling dice, rendering dice posts and tallying pasted race results.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/racetally/internal/config"
	"github.com/cory-johannsen/racetally/internal/observability"
	"github.com/cory-johannsen/racetally/internal/race/dice"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

// app carries what every subcommand needs once the root command has loaded
// configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
	table  *strategy.Table
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing results to out and errors to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "racetally",
		Short:         "Tally dice-driven horse races run over a text forum",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to configuration file (defaults and RACETALLY_* env when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newRollCmd(a),
		newAnnounceCmd(a),
		newReplayCmd(a),
		newStrategiesCmd(a),
	)
	return root
}

// setup loads configuration, the logger and the strategy table.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger = logger.With(observability.RaceFields(cfg.Race)...)
	a.logger = logger

	custom, err := strategy.LoadStrategies(cfg.Content.StrategiesDir)
	if err != nil {
		return fmt.Errorf("loading strategies: %w", err)
	}
	base := strategy.DefaultTable()
	if cfg.Content.StrategyMode == "append" {
		a.table = base.Append(custom...)
	} else {
		a.table = base.Prepend(custom...)
	}
	logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.Int("custom_strategies", len(custom)),
		zap.String("strategy_mode", cfg.Content.StrategyMode),
	)
	return nil
}

// source returns the dice source selected by seed, or by race.seed when
// seed is zero.
func (a *app) source(seed uint64) dice.Source {
	if seed == 0 {
		seed = a.cfg.Race.Seed
	}
	if seed != 0 {
		return dice.NewSeededSource(seed)
	}
	return dice.NewCryptoSource()
}
