package script

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/lottery"
	"github.com/cory-johannsen/racetally/internal/race/parser"
	"github.com/cory-johannsen/racetally/internal/race/ranking"
	"github.com/cory-johannsen/racetally/internal/race/score"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

// ErrPaceUnresolved is returned when the pace paste does not yield one roll.
var ErrPaceUnresolved = errors.New("pace roll unresolved")

// ErrGateDraw is returned when the gate-draw paste cannot assign gates.
var ErrGateDraw = errors.New("gate draw failed")

// Step records the outcome of one phase paste.
type Step struct {
	Phase    race.PhaseID
	Lines    int
	Issues   []string
	Warnings []string
}

// Report is everything a replay produced.
type Report struct {
	Session   race.Session
	Gates     []lottery.Assignment
	Steps     []Step
	Requests  []ranking.JudgmentRequest
	Judgments ranking.JudgmentResult
	Roster    []race.Participant
	Ranking   []ranking.Entry
}

// Replay runs the script through the gate draw, every phase in order, the
// manual adjustments and the tie-break judgments.
//
// Parse issues in a phase paste do not stop the replay; the recovered lines
// are applied and the issues are recorded in the step. A gate draw or pace
// paste that cannot be resolved is returned as an error together with the
// partial report.
//
// Precondition: s must be validated; logger must be non-nil.
func Replay(s *Script, base *strategy.Table, logger *zap.Logger) (*Report, error) {
	table := s.Table(base)
	rep := &Report{Session: race.Session{MidPhaseCount: s.MidPhaseCount}}
	roster := s.Roster()

	if s.Gates != "" {
		draw := lottery.Draw(roster, s.Gates)
		if !draw.OK() {
			rep.Roster = roster
			return rep, fmt.Errorf("%w: %v", ErrGateDraw, draw.Problems)
		}
		roster = draw.Roster
		rep.Gates = draw.Assignments
		logger.Info("gates assigned", zap.Int("participants", len(draw.Assignments)))
	}

	for _, phase := range rep.Session.Phases() {
		text, ok := s.Phases[phase]
		if !ok {
			logger.Debug("phase skipped", zap.String("phase", string(phase)))
			continue
		}

		if race.KindOf(phase) == race.KindPace {
			res := parser.Parse(text, roster, parser.ContextPace)
			roll, ok := res.PaceRoll()
			if !ok {
				rep.Steps = append(rep.Steps, Step{Phase: phase, Issues: res.Errors()})
				rep.Roster = roster
				return rep, fmt.Errorf("%w: %v", ErrPaceUnresolved, res.Errors())
			}
			rep.Session.PaceRoll = race.Int(roll)
			roster = score.Recompute(roster, table, rep.Session)
			rep.Steps = append(rep.Steps, Step{Phase: phase, Lines: 1})
			logger.Info("pace resolved",
				zap.Int("roll", roll),
				zap.String("pace", strategy.PaceLabel(roll)),
			)
			continue
		}

		res := parser.Parse(text, roster, parser.ContextRace)
		applied := score.Apply(roster, phase, res.Lines, table, rep.Session)
		roster = applied.Roster

		step := Step{Phase: phase, Lines: len(res.Lines), Issues: res.Errors()}
		for _, w := range applied.Warnings {
			step.Warnings = append(step.Warnings, w.Message)
		}
		rep.Steps = append(rep.Steps, step)
		logger.Info("phase applied",
			zap.String("phase", string(phase)),
			zap.Int("lines", step.Lines),
			zap.Int("issues", len(step.Issues)),
			zap.Int("warnings", len(step.Warnings)),
		)
	}

	for _, a := range s.Adjustments {
		p, ok := race.FindByName(roster, a.Name)
		if !ok {
			return rep, fmt.Errorf("adjustment for %q: participant not found", a.Name)
		}
		next, err := score.Adjust(roster, p.ID, a.Phase, a.Modifier, table, rep.Session)
		if err != nil {
			return rep, err
		}
		roster = next
		logger.Info("manual adjustment",
			zap.String("participant", a.Name),
			zap.String("phase", string(a.Phase)),
			zap.Int("modifier", a.Modifier),
		)
	}

	rep.Requests = ranking.DetectJudgments(roster)
	if len(rep.Requests) > 0 {
		logger.Info("judgments required", zap.Int("requests", len(rep.Requests)))
		parsed := parser.ParseJudgment(s.Judgment)
		rep.Judgments = ranking.ApplyJudgments(roster, rep.Requests, parsed.Lines)
		rep.Judgments.Problems = append(parsed.Errors(), rep.Judgments.Problems...)
		roster = rep.Judgments.Roster
		if !rep.Judgments.Complete() {
			logger.Warn("judgments incomplete",
				zap.Strings("problems", rep.Judgments.Problems),
				zap.Strings("missing", rep.Judgments.Missing),
			)
		}
	}

	rep.Roster = roster
	rep.Ranking = ranking.FinalizeRanking(roster)
	if len(rep.Ranking) > 0 {
		logger.Info("race finalized",
			zap.String("winner", rep.Ranking[0].Participant.Name),
			zap.Int("score", rep.Ranking[0].Participant.CumulativeScore),
		)
	}
	return rep, nil
}
