package parser_test

import "github.com/cory-johannsen/racetally/internal/race"

func roster(names ...string) []race.Participant {
	out := make([]race.Participant, 0, len(names))
	for i, n := range names {
		out = append(out, race.Participant{
			ID:         "p" + string(rune('1'+i)),
			EntryIndex: i + 1,
			Name:       n,
		})
	}
	return out
}
