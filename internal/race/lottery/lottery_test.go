package lottery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/lottery"
	"github.com/cory-johannsen/racetally/internal/race/parser"
)

func field() []race.Participant {
	return []race.Participant{
		{ID: "sw", EntryIndex: 1, Name: "Special Week"},
		{ID: "ss", EntryIndex: 2, Name: "Silence Suzuka"},
		{ID: "tt", EntryIndex: 3, Name: "Twin Turbo"},
	}
}

func TestDraw_AssignsAscending(t *testing.T) {
	text := "Special Week　dice1d100=50\nSilence Suzuka　dice1d100=12\nTwin Turbo　dice1d100=88"
	res := lottery.Draw(field(), text)
	require.True(t, res.OK(), res.Problems)

	assert.Equal(t, []lottery.Assignment{
		{ParticipantID: "ss", Name: "Silence Suzuka", Roll: 12, Gate: 1},
		{ParticipantID: "sw", Name: "Special Week", Roll: 50, Gate: 2},
		{ParticipantID: "tt", Name: "Twin Turbo", Roll: 88, Gate: 3},
	}, res.Assignments)
	assert.Equal(t, 2, *res.Roster[0].Gate)
	assert.Equal(t, 1, *res.Roster[1].Gate)
	assert.NoError(t, race.ValidateRoster(res.Roster))
}

func TestDraw_BlockDialect(t *testing.T) {
	text := "Special Week 🎲 dice1d100= 5\nSilence Suzuka 🎲 dice1d100= 6\nTwin Turbo 🎲 dice1d100= 7"
	res := lottery.Draw(field(), text)
	require.True(t, res.OK(), res.Problems)
	assert.Equal(t, "sw", res.Assignments[0].ParticipantID)
}

func TestDraw_TieBreaksOnEntryIndex(t *testing.T) {
	text := "Twin Turbo dice1d100=40\nSpecial Week dice1d100=40\nSilence Suzuka dice1d100=40"
	res := lottery.Draw(field(), text)
	require.True(t, res.OK(), res.Problems)
	assert.Equal(t, []string{"sw", "ss", "tt"},
		[]string{res.Assignments[0].ParticipantID, res.Assignments[1].ParticipantID, res.Assignments[2].ParticipantID})
}

func TestDraw_CountMismatch(t *testing.T) {
	res := lottery.Draw(field(), "Special Week dice1d100=50\nSilence Suzuka dice1d100=12")
	require.False(t, res.OK())
	assert.Contains(t, res.Problems[0], "registered 3, found 2")
	assert.Nil(t, res.Roster)
}

func TestDraw_NameMismatchSuppressesCount(t *testing.T) {
	res := lottery.Draw(field(), "Special Week dice1d100=50\nSilence Suzuka dice1d100=12\nTwin Turbine dice1d100=3")
	require.Len(t, res.Problems, 1)
	assert.Contains(t, res.Problems[0], "Twin Turbine")
}

func TestDraw_ChatterDoesNotHideMissingRolls(t *testing.T) {
	roster := append(field(), race.Participant{ID: "mc", EntryIndex: 4, Name: "Mejiro McQueen"})
	text := "Special Week dice1d100=10\nSilence Suzuka dice1d100=20\nnice rolls everyone\nwaiting on the rest"

	res := lottery.Draw(roster, text)
	require.False(t, res.OK())
	assert.Equal(t, []string{"no gate roll for Twin Turbo, Mejiro McQueen"}, res.Problems)
	assert.Nil(t, res.Roster)
	assert.Nil(t, res.Assignments)
}

func TestDraw_RosterGatesAreDistinct(t *testing.T) {
	res := lottery.Draw(field(), "Special Week dice1d100=9\nchatter\nSilence Suzuka dice1d100=9\nTwin Turbo dice1d100=1")
	require.True(t, res.OK(), res.Problems)
	for _, p := range res.Roster {
		require.NotNil(t, p.Gate)
		assert.GreaterOrEqual(t, *p.Gate, 1)
	}
	assert.NoError(t, race.ValidateRoster(res.Roster))
}

func TestDraw_WrongDieAndDuplicate(t *testing.T) {
	res := lottery.Draw(field(), "Special Week dice1d6=5\nSpecial Week dice1d100=50\nTwin Turbo dice1d100=3")
	assert.Equal(t, []string{
		"Special Week: rolled 1d6, the gate draw uses 1d100",
		"Special Week: rolled more than once",
	}, res.Problems)
}

// TestAssign_GatesArePermutation checks that gates are 1..N and follow the
// roll order.
func TestAssign_GatesArePermutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 18).Draw(rt, "n")
		roster := make([]race.Participant, 0, n)
		lines := make([]parser.Line, 0, n)
		for i := 0; i < n; i++ {
			id := string(rune('A' + i))
			roster = append(roster, race.Participant{ID: id, EntryIndex: i + 1, Name: id})
			lines = append(lines, parser.Line{ParticipantID: id, Name: id, Notation: lottery.Die, Rolled: rapid.IntRange(1, 100).Draw(rt, "roll")})
		}
		out := lottery.Assign(roster, lines)
		require.Len(rt, out, n)
		for i, a := range out {
			assert.Equal(rt, i+1, a.Gate)
			if i > 0 {
				assert.LessOrEqual(rt, out[i-1].Roll, a.Roll)
			}
		}
	})
}
