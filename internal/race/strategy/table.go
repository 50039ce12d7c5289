package strategy

// Table is an ordered, read-only strategy lookup. When two entries share a
// name the earlier one wins.
type Table struct {
	entries []Strategy
}

// NewTable builds a table from entries in lookup order.
func NewTable(entries ...Strategy) *Table {
	return &Table{entries: append([]Strategy(nil), entries...)}
}

// DefaultTable returns a table holding only the built-in strategies.
func DefaultTable() *Table {
	return NewTable(Default()...)
}

// Append returns a new table with custom entries looked up after t's own.
func (t *Table) Append(custom ...Strategy) *Table {
	return NewTable(append(t.Strategies(), custom...)...)
}

// Prepend returns a new table with custom entries overriding t's own.
func (t *Table) Prepend(custom ...Strategy) *Table {
	return NewTable(append(append([]Strategy(nil), custom...), t.entries...)...)
}

// Lookup returns the first strategy named name.
//
// Postcondition: Returns false when name is unknown.
func (t *Table) Lookup(name string) (Strategy, bool) {
	if t == nil {
		return Strategy{}, false
	}
	for _, s := range t.entries {
		if s.Name == name {
			return s, true
		}
	}
	return Strategy{}, false
}

// PaceModifier returns the pace adjustment for a strategy name, 0 when the
// strategy or roll is unlisted.
func (t *Table) PaceModifier(name string, roll int) int {
	s, ok := t.Lookup(name)
	if !ok {
		return 0
	}
	return s.PaceModifier(roll)
}

// Strategies returns the table entries in lookup order.
func (t *Table) Strategies() []Strategy {
	if t == nil {
		return nil
	}
	return append([]Strategy(nil), t.entries...)
}
