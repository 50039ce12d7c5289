// Package announce renders the text the GM posts to the forum thread: the
// dice each participant must roll, the pace table, the gate draw, judgment
// requests and the result table.
package announce

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/racetally/internal/race"
	"github.com/cory-johannsen/racetally/internal/race/ranking"
	"github.com/cory-johannsen/racetally/internal/race/score"
	"github.com/cory-johannsen/racetally/internal/race/strategy"
)

const glyphs = "①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳"

// GateGlyph returns the circled numeral for gates 1-20 and "(n)" otherwise.
func GateGlyph(n int) string {
	if n >= 1 && n <= 20 {
		return string([]rune(glyphs)[n-1])
	}
	return fmt.Sprintf("(%d)", n)
}

// SkillLabel returns the display name of a skill kind.
func SkillLabel(k race.SkillKind) string {
	switch k {
	case race.SkillStable:
		return "安定"
	case race.SkillGamble:
		return "ギャンブル"
	case race.SkillSustained:
		return "持続"
	}
	return string(k)
}

// UniqueFormula returns the roll template for a skill kind, e.g. "5+dice1d10=".
func UniqueFormula(k race.SkillKind) string {
	if !k.Valid() {
		return ""
	}
	if b := k.FixedBonus(); b != 0 {
		return fmt.Sprintf("%d+dice%s=", b, k.Die())
	}
	return "dice" + k.Die() + "="
}

// BaseFormula returns the roll template for base value and strategy dice.
// A negative notation is written as a subtraction: "73-dice1d27=".
func BaseFormula(base int, notation string) string {
	if rest, ok := strings.CutPrefix(notation, "-"); ok {
		return fmt.Sprintf("%d-dice%s=", base, rest)
	}
	return fmt.Sprintf("%d+dice%s=", base, notation)
}

// byGate returns roster ordered by gate, falling back to entry index.
func byGate(roster []race.Participant) []race.Participant {
	out := slices.Clone(roster)
	slices.SortStableFunc(out, func(a, b race.Participant) int {
		return cmp.Compare(a.GateOrEntry(), b.GateOrEntry())
	})
	return out
}

// Correction reports which of p's rolls for phase are missing or were made
// with the wrong dice.
type Correction struct {
	Base   bool
	Unique bool
}

// Needed reports whether anything must be rolled again.
func (c Correction) Needed() bool {
	return c.Base || c.Unique
}

// CorrectionFor compares p's recorded entry for phase with the dice the
// strategy and skill require.
func CorrectionFor(p race.Participant, phase race.PhaseID, table *strategy.Table) Correction {
	entry, ok := p.History[phase]
	if !ok {
		return Correction{Base: true, Unique: p.UniqueSkill.ActiveIn(phase)}
	}
	var c Correction
	want := ""
	if s, ok := table.Lookup(p.StrategyName); ok {
		want = strings.TrimPrefix(s.DiceFor(race.KindOf(phase)), "-")
	}
	if entry.BaseDice == nil || strings.TrimPrefix(entry.BaseDice.Notation, "-") != want {
		c.Base = true
	}
	should := p.UniqueSkill.ActiveIn(phase)
	switch has := entry.UniqueDice != nil; {
	case should != has:
		c.Unique = true
	case has && entry.UniqueDice.Notation != p.UniqueSkill.Kind.Die():
		c.Unique = true
	}
	return c
}

// PhaseOptions tunes Phase.
type PhaseOptions struct {
	// OnlyCorrections limits the post to rolls that are missing or wrong.
	OnlyCorrections bool
}

// Phase renders the dice post for phase. The pace phase is delegated to
// Pace.
func Phase(roster []race.Participant, phase race.PhaseID, table *strategy.Table, session race.Session, opts PhaseOptions) string {
	if race.KindOf(phase) == race.KindPace {
		return Pace(table, session.PaceRoll)
	}

	label := race.PhaseLabel(phase)
	var b strings.Builder
	fmt.Fprintf(&b, "【%sダイス】\n", label)
	if opts.OnlyCorrections {
		b.WriteString("※変更・修正が必要な対象のみ出力\n")
	}

	var unique []string
	for _, p := range byGate(roster) {
		c := CorrectionFor(p, phase, table)
		if opts.OnlyCorrections && !c.Needed() {
			continue
		}
		glyph := GateGlyph(p.GateOrEntry())
		if !opts.OnlyCorrections || c.Base {
			notation := "0d0"
			if s, ok := table.Lookup(p.StrategyName); ok {
				notation = s.DiceFor(race.KindOf(phase))
			}
			base := score.ExpectedBase(p, phase, table, session)
			fmt.Fprintf(&b, "%s %s　%s\n", glyph, p.Name, BaseFormula(base, notation))
		}
		if !p.UniqueSkill.ActiveIn(phase) || (opts.OnlyCorrections && !c.Unique) {
			continue
		}
		if f := UniqueFormula(p.UniqueSkill.Kind); f != "" {
			unique = append(unique, fmt.Sprintf("%s %s　%s", glyph, p.Name, f))
		}
	}
	if len(unique) > 0 {
		fmt.Fprintf(&b, "\n【%s固有ダイス】\n", label)
		b.WriteString(strings.Join(unique, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// paceBands groups the 1d9 faces that share a pace label.
var paceBands = [][]int{{1}, {2, 3}, {4, 5, 6}, {7, 8}, {9}}

// Pace renders the pace-roll post: the roll template and, per pace band, the
// strategies whose score it changes. Once roll is known only the result is
// shown.
func Pace(table *strategy.Table, roll *int) string {
	if roll != nil {
		return fmt.Sprintf("【ペース判定】\nペース確定済み: %d (%s)\n", *roll, strategy.PaceLabel(*roll))
	}

	var b strings.Builder
	b.WriteString("【ペース判定】\ndice1d9=\n")
	for _, band := range paceBands {
		byValue := map[int][]string{}
		for _, s := range table.Strategies() {
			if v := s.PaceModifier(band[0]); v != 0 {
				byValue[v] = append(byValue[v], s.Name)
			}
		}
		values := make([]int, 0, len(byValue))
		for v := range byValue {
			values = append(values, v)
		}
		slices.SortFunc(values, func(a, b int) int { return cmp.Compare(b, a) })

		faces := make([]string, 0, len(band))
		for _, f := range band {
			faces = append(faces, fmt.Sprint(f))
		}
		fmt.Fprintf(&b, "%s,%s\n", strings.Join(faces, ","), strategy.PaceLabel(band[0]))
		if len(values) == 0 {
			b.WriteString("増減なし\n")
			continue
		}
		parts := make([]string, 0, len(values))
		for _, v := range values {
			parts = append(parts, fmt.Sprintf("%sに%+d", strings.Join(byValue[v], "・"), v))
		}
		b.WriteString(strings.Join(parts, "、"))
		b.WriteString("\n")
	}
	return b.String()
}

// Entries renders the entry confirmation list in entry order.
func Entries(roster []race.Participant) string {
	lines := make([]string, 0, len(roster))
	for i, p := range roster {
		phases := make([]string, 0, len(p.UniqueSkill.ActivePhases))
		for _, ph := range p.UniqueSkill.ActivePhases {
			phases = append(phases, race.PhaseLabel(ph))
		}
		active := strings.Join(phases, ",")
		if active == "" {
			active = "---"
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s / %s / %s)", i+1, p.Name, p.StrategyName, SkillLabel(p.UniqueSkill.Kind), active))
	}
	return strings.Join(lines, "\n")
}

// Gates renders the gate-draw template.
func Gates(roster []race.Participant) string {
	lines := make([]string, 0, len(roster))
	for _, p := range roster {
		lines = append(lines, p.Name+"　dice1d100=")
	}
	return strings.Join(lines, "\n")
}

// Judgments renders the judgment roll post.
func Judgments(roster []race.Participant, requests []ranking.JudgmentRequest) string {
	var photo, margin []ranking.JudgmentRequest
	for _, r := range requests {
		if r.Kind == ranking.Photo {
			photo = append(photo, r)
		} else {
			margin = append(margin, r)
		}
	}

	var b strings.Builder
	if len(photo) > 0 {
		fmt.Fprintf(&b, "【写真判定】%sで判定します。数値が大きい方が先着、同値は同着\n", ranking.Photo.Die())
		for _, r := range photo {
			for _, id := range r.ParticipantIDs {
				if p, ok := race.FindByID(roster, id); ok {
					fmt.Fprintf(&b, "%s dice%s=\n", p.Name, ranking.Photo.Die())
				}
			}
			b.WriteString("\n")
		}
	}
	if len(margin) > 0 {
		fmt.Fprintf(&b, "【着差判定】%sで判定します。1. アタマ 2. クビ\n", ranking.Margin.Die())
		for _, r := range margin {
			fmt.Fprintf(&b, "%s dice%s=\n", r.Label, ranking.Margin.Die())
		}
	}
	return b.String()
}

// Standings renders the provisional order with scores.
func Standings(roster []race.Participant) string {
	sorted := ranking.SortByStanding(roster)
	lines := make([]string, 0, len(sorted))
	for i, p := range sorted {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, p.Name, p.CumulativeScore))
	}
	return strings.Join(lines, "\n")
}

// Results renders the final result table.
func Results(entries []ranking.Entry) string {
	var b strings.Builder
	b.WriteString("【結果】\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d着 %s %s (%d) %s\n", e.Rank, GateGlyph(e.Participant.GateOrEntry()),
			e.Participant.Name, e.Participant.CumulativeScore, e.MarginLabel)
	}
	return b.String()
}
