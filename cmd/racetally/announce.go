package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/racetally/internal/observability"
	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/announce"
	"github.com/cory-johannsen/racetally/internal/race/ranking"
	"github.com/cory-johannsen/racetally/internal/race/script"
)

func newAnnounceCmd(a *app) *cobra.Command {
	var (
		scriptPath      string
		onlyCorrections bool
	)
	cmd := &cobra.Command{
		Use:   "announce TARGET",
		Short: "Render a GM post: entries, gates, a phase id (Start, Pace, Mid1, End...), judgments or standings",
		Long: "Render the text the GM posts next. The race script supplies the roster and\n" +
			"every paste recorded so far; phase posts are computed from the pastes of the\n" +
			"phases before TARGET.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.LoadFromFile(scriptPath, a.cfg.Race.MidPhaseCount)
			if err != nil {
				return err
			}
			text, err := render(a, s, args[0], announce.PhaseOptions{OnlyCorrections: onlyCorrections})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			if len(text) > 0 && text[len(text)-1] != '\n' {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "race script YAML file")
	cmd.Flags().BoolVar(&onlyCorrections, "only-corrections", false, "list only rolls that are missing or used the wrong dice")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func render(a *app, s *script.Script, target string, opts announce.PhaseOptions) (string, error) {
	logger := observability.ForRace(a.logger, s.Name, len(s.Entrants)).With(zap.String("target", target))
	switch target {
	case "entries":
		return announce.Entries(s.Roster()), nil
	case "gates":
		return announce.Gates(s.Roster()), nil
	case "judgments", "standings":
		noJudgment := *s
		noJudgment.Judgment = ""
		rep, err := script.Replay(&noJudgment, a.table, logger)
		if err != nil {
			return "", err
		}
		if target == "standings" {
			return announce.Standings(rep.Roster), nil
		}
		return announce.Judgments(rep.Roster, ranking.DetectJudgments(rep.Roster)), nil
	}

	phase := race.PhaseID(target)
	if !slices.Contains(race.PhaseSequence(s.MidPhaseCount), phase) {
		return "", fmt.Errorf("unknown announce target %q", target)
	}
	rep, err := script.Replay(s.Until(phase), a.table, logger)
	if err != nil {
		return "", err
	}
	// Pastes already recorded for this phase decide which rolls need a redo.
	if opts.OnlyCorrections {
		if text, ok := s.Phases[phase]; ok && race.KindOf(phase) != race.KindPace {
			withPhase := s.Until(phase)
			withPhase.Phases[phase] = text
			if rep, err = script.Replay(withPhase, a.table, logger); err != nil {
				return "", err
			}
		}
	}
	return announce.Phase(rep.Roster, phase, a.table, rep.Session, opts), nil
}
