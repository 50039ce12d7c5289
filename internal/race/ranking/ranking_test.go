package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/parser"
	"github.com/cory-johannsen/racetally/internal/race/ranking"
)

func runner(id string, score int, gate *int) race.Participant {
	return race.Participant{ID: id, EntryIndex: len(id), Name: "Uma " + id, CumulativeScore: score, Gate: gate}
}

func names(entries []ranking.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Participant.ID)
	}
	return out
}

func TestSortByStanding(t *testing.T) {
	roster := []race.Participant{
		runner("a", 90, race.Int(1)),
		runner("b", 100, race.Int(3)),
		runner("c", 100, race.Int(2)),
		{ID: "d", EntryIndex: 1, CumulativeScore: 90},
	}
	sorted := ranking.SortByStanding(roster)
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID, sorted[3].ID}
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
	assert.Equal(t, "a", roster[0].ID, "input order must not change")
}

func TestDetectJudgments_PhotoForTie(t *testing.T) {
	roster := []race.Participant{
		runner("1", 100, race.Int(2)),
		runner("2", 100, race.Int(1)),
		runner("3", 90, race.Int(3)),
	}
	reqs := ranking.DetectJudgments(roster)
	require.Len(t, reqs, 1)
	assert.Equal(t, ranking.Photo, reqs[0].Kind)
	assert.ElementsMatch(t, []string{"1", "2"}, reqs[0].ParticipantIDs)
	assert.Equal(t, "2", reqs[0].RepresentativeID)
	assert.Equal(t, "1d5", reqs[0].Kind.Die())
}

func TestDetectJudgments_MarginForOnePoint(t *testing.T) {
	roster := []race.Participant{
		runner("1", 100, race.Int(1)),
		runner("2", 99, race.Int(2)),
	}
	reqs := ranking.DetectJudgments(roster)
	require.Len(t, reqs, 1)
	assert.Equal(t, ranking.Margin, reqs[0].Kind)
	assert.Equal(t, "1", reqs[0].RepresentativeID)
	assert.Equal(t, "Uma 1 vs Uma 2", reqs[0].Label)
	assert.Equal(t, "1d2", reqs[0].Kind.Die())
}

func TestDetectJudgments_TieAndMargin(t *testing.T) {
	roster := []race.Participant{
		runner("1", 50, race.Int(4)),
		runner("2", 51, race.Int(3)),
		runner("3", 51, race.Int(2)),
		runner("4", 40, race.Int(1)),
	}
	reqs := ranking.DetectJudgments(roster)
	require.Len(t, reqs, 2)
	assert.Equal(t, ranking.Photo, reqs[0].Kind)
	assert.Equal(t, "3", reqs[0].RepresentativeID)
	assert.Equal(t, ranking.Margin, reqs[1].Kind)
	assert.Equal(t, "3", reqs[1].RepresentativeID)
	assert.Equal(t, []string{"3", "1"}, reqs[1].ParticipantIDs)
}

func TestDetectJudgments_NoneForWideGaps(t *testing.T) {
	roster := []race.Participant{runner("1", 100, nil), runner("2", 90, nil), runner("3", 80, nil)}
	assert.Empty(t, ranking.DetectJudgments(roster))
}

func TestFinalizeRanking_PhotoWinner(t *testing.T) {
	loser := runner("loser", 100, race.Int(1))
	loser.Judgment.PhotoRoll = race.Int(1)
	winner := runner("winner", 100, race.Int(2))
	winner.Judgment.PhotoRoll = race.Int(5)

	entries := ranking.FinalizeRanking([]race.Participant{loser, winner})
	require.Len(t, entries, 2)
	assert.Equal(t, "winner", entries[0].Participant.ID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, ranking.LabelLeading, entries[0].MarginLabel)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, ranking.LabelNose, entries[1].MarginLabel)
}

func TestFinalizeRanking_DeadHeat(t *testing.T) {
	a := runner("a", 100, race.Int(2))
	a.Judgment.PhotoRoll = race.Int(3)
	b := runner("b", 100, race.Int(1))
	b.Judgment.PhotoRoll = race.Int(3)
	c := runner("c", 90, race.Int(3))

	entries := ranking.FinalizeRanking([]race.Participant{a, b, c})
	assert.Equal(t, []string{"b", "a", "c"}, names(entries))
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, ranking.LabelDeadHeat, entries[1].MarginLabel)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, "2 1/2", entries[2].MarginLabel)
}

func TestFinalizeRanking_DeadHeatWithoutRolls(t *testing.T) {
	entries := ranking.FinalizeRanking([]race.Participant{runner("a", 10, nil), runner("bb", 10, nil)})
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, ranking.LabelDeadHeat, entries[1].MarginLabel)
}

func TestFinalizeRanking_MarginRolls(t *testing.T) {
	for roll, label := range map[int]string{1: ranking.LabelHead, 2: ranking.LabelNeck} {
		upper := runner("u", 100, race.Int(1))
		upper.Judgment.MarginRoll = race.Int(roll)
		entries := ranking.FinalizeRanking([]race.Participant{upper, runner("l", 99, race.Int(2))})
		assert.Equal(t, label, entries[1].MarginLabel)
	}
}

func TestFinalizeRanking_MarginFallback(t *testing.T) {
	entries := ranking.FinalizeRanking([]race.Participant{runner("u", 100, nil), runner("l", 99, nil)})
	assert.Equal(t, ranking.LabelOnePoint, entries[1].MarginLabel)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLengths(t *testing.T) {
	cases := map[int]string{2: "1/2", 3: "3/4", 4: "1", 5: "1 1/4", 10: "2 1/2", 15: "3 3/4", 16: "4"}
	for gap, want := range cases {
		assert.Equal(t, want, ranking.Lengths(gap), "gap %d", gap)
	}
}

// TestFinalizeRanking_Properties checks that ranks never decrease and that
// scores are non-increasing down the table.
func TestFinalizeRanking_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		gates := rapid.Permutation([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}).Draw(rt, "gates")
		roster := make([]race.Participant, 0, n)
		for i := 0; i < n; i++ {
			p := race.Participant{
				ID:              string(rune('a' + i)),
				EntryIndex:      i + 1,
				CumulativeScore: rapid.IntRange(40, 50).Draw(rt, "score"),
				Gate:            race.Int(gates[i]),
			}
			if rapid.Bool().Draw(rt, "photo") {
				p.Judgment.PhotoRoll = race.Int(rapid.IntRange(1, 5).Draw(rt, "roll"))
			}
			roster = append(roster, p)
		}

		entries := ranking.FinalizeRanking(roster)
		require.Len(rt, entries, n)
		assert.Equal(rt, 1, entries[0].Rank)
		for i := 1; i < n; i++ {
			assert.GreaterOrEqual(rt, entries[i-1].Participant.CumulativeScore, entries[i].Participant.CumulativeScore)
			if entries[i].MarginLabel == ranking.LabelDeadHeat {
				assert.Equal(rt, entries[i-1].Rank, entries[i].Rank)
			} else {
				assert.Equal(rt, i+1, entries[i].Rank)
			}
		}
	})
}

func TestApplyJudgments(t *testing.T) {
	roster := []race.Participant{
		{ID: "1", EntryIndex: 1, Name: "Special Week", CumulativeScore: 100, Gate: race.Int(1)},
		{ID: "2", EntryIndex: 2, Name: "Silence Suzuka", CumulativeScore: 100, Gate: race.Int(2)},
		{ID: "3", EntryIndex: 3, Name: "Twin Turbo", CumulativeScore: 99, Gate: race.Int(3)},
	}
	reqs := ranking.DetectJudgments(roster)
	require.Len(t, reqs, 2)

	text := "Special Week dice1d5=2\nSilence Suzuka 🎲 dice1d5= 4 (4)\nSpecial Week vs Twin Turbo dice1d2=2"
	res := ranking.ApplyJudgments(roster, reqs, parser.ParseJudgment(text).Lines)
	require.True(t, res.Complete(), "problems=%v missing=%v", res.Problems, res.Missing)

	assert.Equal(t, 2, *res.Roster[0].Judgment.PhotoRoll)
	assert.Equal(t, 4, *res.Roster[1].Judgment.PhotoRoll)
	assert.Equal(t, 2, *res.Roster[0].Judgment.MarginRoll)
	assert.Nil(t, roster[0].Judgment.PhotoRoll, "input roster must not change")

	final := ranking.FinalizeRanking(res.Roster)
	assert.Equal(t, []string{"2", "1", "3"}, names(final))
	assert.Equal(t, ranking.LabelNose, final[1].MarginLabel)
	assert.Equal(t, ranking.LabelNeck, final[2].MarginLabel)
}

func TestApplyJudgments_Problems(t *testing.T) {
	roster := []race.Participant{
		{ID: "1", EntryIndex: 1, Name: "A", CumulativeScore: 10, Gate: race.Int(1)},
		{ID: "2", EntryIndex: 2, Name: "B", CumulativeScore: 10, Gate: race.Int(2)},
		{ID: "3", EntryIndex: 3, Name: "C", CumulativeScore: 9, Gate: race.Int(3)},
		{ID: "4", EntryIndex: 4, Name: "D", CumulativeScore: 1, Gate: race.Int(4)},
	}
	reqs := ranking.DetectJudgments(roster)
	lines := []parser.Line{
		{Name: "A", Notation: "1d5", Rolled: 6},
		{Name: "Z", Notation: "1d5", Rolled: 3},
		{Name: "D", Notation: "1d5", Rolled: 3},
		{Name: "A vs B", Notation: "1d2", Rolled: 1},
		{Name: "A vs C", Notation: "1d2", Rolled: 3},
		{Name: "A", Notation: "1d6", Rolled: 3},
	}
	res := ranking.ApplyJudgments(roster, reqs, lines)
	assert.False(t, res.Complete())
	assert.Equal(t, []string{
		"A: photo roll 6 is outside 1-5",
		"Z: no such participant",
		"D: not part of a photo judgment",
		"A vs B: no margin judgment with this label",
		"A vs C: margin roll 3 is outside 1-2",
		"unexpected die 1d6 for A (expected 1d5 or 1d2)",
	}, res.Problems)
	assert.Equal(t, []string{"A (photo 1d5)", "B (photo 1d5)", "A vs C (margin 1d2)"}, res.Missing)
}
