package script_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/ranking"
	"github.com/cory-johannsen/racetally/internal/race/script"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

func TestLoadFromFile(t *testing.T) {
	s, err := script.LoadFromFile("testdata/derby.yaml", 1)
	require.NoError(t, err)
	assert.Equal(t, "Sample Stakes", s.Name)
	assert.Equal(t, 1, s.MidPhaseCount)
	require.Len(t, s.Entrants, 3)
	assert.Equal(t, race.SkillSustained, s.Entrants[2].Skill.Kind)
	assert.Equal(t, []race.PhaseID{race.PhaseMid}, s.Entrants[2].Skill.ActivePhases)
	assert.Len(t, s.Phases, 4)
	require.Len(t, s.Adjustments, 1)
	assert.Equal(t, race.PhaseEnd, s.Adjustments[0].Phase)

	roster := s.Roster()
	assert.Equal(t, 1, roster[0].EntryIndex)
	assert.Equal(t, 3, roster[2].EntryIndex)
	assert.NoError(t, race.ValidateRoster(roster))
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := script.LoadFromFile("testdata/nope.yaml", 1)
	assert.Error(t, err)
}

func TestLoadFromBytes_DefaultsMidPhaseCount(t *testing.T) {
	s, err := script.LoadFromBytes([]byte("participants:\n  - name: A\n    strategy: 逃げ\n"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.MidPhaseCount)
}

func TestLoadFromBytes_ValidationCollectsErrors(t *testing.T) {
	data := []byte(`
race:
  mid_phase_count: 2
participants:
  - name: A
    skill:
      kind: Lucky
      phases: [Finish]
  - name: A
phases:
  - id: Mid
    text: ""
adjustments:
  - name: Z
    phase: Mid1
`)
	_, err := script.LoadFromBytes(data, 1)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown skill kind "Lucky"`)
	assert.Contains(t, msg, `unknown skill phase "Finish"`)
	assert.Contains(t, msg, `duplicate participant name "A"`)
	assert.Contains(t, msg, `unknown phase "Mid"`)
	assert.Contains(t, msg, `adjustment for unknown participant "Z"`)
}

func TestLoadFromBytes_BadYAML(t *testing.T) {
	_, err := script.LoadFromBytes([]byte("participants: [\n"), 1)
	assert.Error(t, err)
}

func TestTable_ScriptStrategiesOverride(t *testing.T) {
	s := &script.Script{Strategies: []strategy.Strategy{{Name: strategy.FrontRunner, FixedValue: 99}}}
	st, ok := s.Table(nil).Lookup(strategy.FrontRunner)
	require.True(t, ok)
	assert.Equal(t, 99, st.FixedValue)
}

func TestReplay_FullRace(t *testing.T) {
	s, err := script.LoadFromFile("testdata/derby.yaml", 1)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	rep, err := script.Replay(s, strategy.DefaultTable(), zap.New(core))
	require.NoError(t, err)

	require.Len(t, rep.Gates, 3)
	assert.Equal(t, "Special Week", rep.Gates[0].Name)

	require.Len(t, rep.Steps, 4)
	for _, step := range rep.Steps {
		assert.Empty(t, step.Issues, "phase %s", step.Phase)
		assert.Empty(t, step.Warnings, "phase %s", step.Phase)
	}
	assert.Equal(t, 4, rep.Steps[2].Lines)
	require.NotNil(t, rep.Session.PaceRoll)
	assert.Equal(t, 2, *rep.Session.PaceRoll)

	scores := map[string]int{}
	for _, p := range rep.Roster {
		scores[p.Name] = p.CumulativeScore
	}
	assert.Equal(t, map[string]int{"Silence Suzuka": 53, "Special Week": 53, "Twin Turbo": 52}, scores)

	require.Len(t, rep.Requests, 2)
	assert.True(t, rep.Judgments.Complete(), "problems=%v missing=%v", rep.Judgments.Problems, rep.Judgments.Missing)

	require.Len(t, rep.Ranking, 3)
	assert.Equal(t, "Silence Suzuka", rep.Ranking[0].Participant.Name)
	assert.Equal(t, ranking.LabelLeading, rep.Ranking[0].MarginLabel)
	assert.Equal(t, "Special Week", rep.Ranking[1].Participant.Name)
	assert.Equal(t, ranking.LabelNose, rep.Ranking[1].MarginLabel)
	assert.Equal(t, "Twin Turbo", rep.Ranking[2].Participant.Name)
	assert.Equal(t, ranking.LabelHead, rep.Ranking[2].MarginLabel)
	assert.Equal(t, 3, rep.Ranking[2].Rank)

	assert.Equal(t, 3, logs.FilterMessage("phase applied").Len())
	assert.Equal(t, 1, logs.FilterMessage("race finalized").Len())
}

func TestReplay_PaceUnresolved(t *testing.T) {
	s := &script.Script{
		MidPhaseCount: 1,
		Entrants:      []script.Entrant{{Name: "A", Strategy: strategy.FrontRunner}},
		Phases:        map[race.PhaseID]string{race.PhasePace: "dice1d9=1\ndice1d9=2"},
	}
	rep, err := script.Replay(s, nil, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, script.ErrPaceUnresolved))
	require.Len(t, rep.Steps, 1)
	assert.Contains(t, rep.Steps[0].Issues[0], "multiple pace dice")
}

func TestReplay_GateDrawFails(t *testing.T) {
	s := &script.Script{
		Entrants: []script.Entrant{{Name: "A"}, {Name: "B"}},
		Gates:    "A dice1d100=3",
	}
	_, err := script.Replay(s, nil, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, script.ErrGateDraw)
}

func TestReplay_PartialPhaseRecordsIssues(t *testing.T) {
	s := &script.Script{
		MidPhaseCount: 0,
		Entrants:      []script.Entrant{{Name: "A", Strategy: strategy.FrontRunner}},
		Phases:        map[race.PhaseID]string{race.PhaseStart: "A 15+dice3d6=9 (24)\nB 15+dice3d6=9 (24)"},
	}
	rep, err := script.Replay(s, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, rep.Steps, 1)
	assert.Equal(t, 1, rep.Steps[0].Lines)
	assert.Len(t, rep.Steps[0].Issues, 1)
	assert.Equal(t, 24, rep.Roster[0].CumulativeScore)
	assert.Empty(t, rep.Requests)
}

func TestUntil(t *testing.T) {
	s, err := script.LoadFromFile("testdata/derby.yaml", 1)
	require.NoError(t, err)

	cut := s.Until(race.PhaseMid)
	assert.Len(t, cut.Phases, 2)
	assert.Contains(t, cut.Phases, race.PhaseStart)
	assert.Contains(t, cut.Phases, race.PhasePace)
	assert.Empty(t, cut.Adjustments)
	assert.Empty(t, cut.Judgment)
	assert.Len(t, s.Phases, 4, "original must not change")

	rep, err := script.Replay(cut, nil, zap.NewNop())
	require.NoError(t, err)
	scores := map[string]int{}
	for _, p := range rep.Roster {
		scores[p.Name] = p.CumulativeScore
	}
	assert.Equal(t, map[string]int{"Silence Suzuka": 61, "Special Week": 13, "Twin Turbo": 30}, scores)
}
