package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/racetally/internal/observability"
	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/announce"
	"github.com/cory-johannsen/racetally/internal/race/script"
)

// errUnclean is returned by --strict replays that recorded any problem.
var errUnclean = errors.New("replay finished with problems")

func newReplayCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Replay a race script and print the result table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.LoadFromFile(args[0], a.cfg.Race.MidPhaseCount)
			if err != nil {
				return err
			}
			logger := observability.ForRace(a.logger, s.Name, len(s.Entrants))
			logger.Info("replaying race")

			rep, err := script.Replay(s, a.table, logger)
			out := cmd.OutOrStdout()
			if rep != nil {
				printReport(out, rep)
			}
			if err != nil {
				return err
			}
			if strict && !clean(rep) {
				return errUnclean
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any paste had issues, warnings or missing judgments")
	return cmd
}

func clean(rep *script.Report) bool {
	for _, s := range rep.Steps {
		if len(s.Issues) > 0 || len(s.Warnings) > 0 {
			return false
		}
	}
	return len(rep.Requests) == 0 || rep.Judgments.Complete()
}

func printReport(out io.Writer, rep *script.Report) {
	for _, g := range rep.Gates {
		fmt.Fprintf(out, "gate %s %s (1d100=%d)\n", announce.GateGlyph(g.Gate), g.Name, g.Roll)
	}
	for _, s := range rep.Steps {
		fmt.Fprintf(out, "[%s] %d result(s)\n", race.PhaseLabel(s.Phase), s.Lines)
		for _, msg := range s.Issues {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
		for _, msg := range s.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", msg)
		}
	}
	if len(rep.Requests) > 0 {
		fmt.Fprintf(out, "judgments: %d\n", len(rep.Requests))
		for _, msg := range rep.Judgments.Problems {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
		for _, msg := range rep.Judgments.Missing {
			fmt.Fprintf(out, "  missing: %s\n", msg)
		}
	}
	if len(rep.Ranking) > 0 {
		fmt.Fprint(out, announce.Results(rep.Ranking))
	}
}
