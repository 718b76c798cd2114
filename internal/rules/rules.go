// Package rules holds the elementary rule tables and the static registry of
// named rules.
package rules

import (
	"fmt"
	"strings"

	"ecarows/internal/core"
)

// Table maps each of the 8 three-cell patterns to the next center state.
// Tables are immutable once constructed and safe to share between histories.
type Table struct {
	name string
	out  [NumPatterns]core.CellState
}

// New builds a table from a complete key map such as {"111": 0, ...}.
func New(name string, mapping map[string]core.CellState) (*Table, error) {
	t := &Table{name: name}
	var defined [NumPatterns]bool
	for key, state := range mapping {
		n, err := ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		if !state.Valid() {
			return nil, fmt.Errorf("rule %s: %w: %q -> %d", name, ErrInvalidState, key, state)
		}
		idx, _ := n.Index()
		t.out[idx] = state
		defined[idx] = true
	}
	var missing []string
	for idx := NumPatterns - 1; idx >= 0; idx-- {
		if !defined[idx] {
			missing = append(missing, PatternKey(idx))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("rule %s: %w: missing %s", name, ErrIncompleteTable, strings.Join(missing, ","))
	}
	return t, nil
}

// FromWolfram builds a binary table from a Wolfram code in [0, 255].
func FromWolfram(code uint8) *Table {
	t := &Table{name: fmt.Sprintf("Rule%d", code)}
	for idx := 0; idx < NumPatterns; idx++ {
		t.out[idx] = core.CellState((code >> idx) & 1)
	}
	return t
}

// Name returns the registry name of the table.
func (t *Table) Name() string { return t.name }

// Lookup returns the output state for an exact canonical key.
func (t *Table) Lookup(key string) (core.CellState, error) {
	n, err := ParseKey(key)
	if err != nil {
		return 0, err
	}
	return t.Apply(n)
}

// Apply returns the output state for a neighborhood, normalizing active
// sub-colors first.
func (t *Table) Apply(n Neighborhood) (core.CellState, error) {
	idx, err := n.Index()
	if err != nil {
		return 0, err
	}
	return t.out[idx], nil
}

// Mapping returns a copy of the table as a key map.
func (t *Table) Mapping() map[string]core.CellState {
	m := make(map[string]core.CellState, NumPatterns)
	for idx, s := range t.out {
		m[PatternKey(idx)] = s
	}
	return m
}

// Code returns the Wolfram number of the binarized table. Tables that emit
// sub-colors report the code of their active/inactive shape.
func (t *Table) Code() uint8 {
	var code uint8
	for idx, s := range t.out {
		if s.Binary() == core.StateActive {
			code |= 1 << idx
		}
	}
	return code
}

// String renders the table in descending pattern order, e.g. "111:0 110:1 ...".
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString(t.name)
	for idx := NumPatterns - 1; idx >= 0; idx-- {
		fmt.Fprintf(&b, " %s:%d", PatternKey(idx), t.out[idx])
	}
	return b.String()
}

var (
	registry = map[string]*Table{}
	order    []string
)

// register adds a table during package initialization. A malformed built-in
// table is a programming error.
func register(name string, mapping map[string]core.CellState) {
	t, err := New(name, mapping)
	if err != nil {
		panic(err)
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("rules: duplicate rule %q", name))
	}
	registry[name] = t
	order = append(order, name)
}

// Get returns the registered table with the given name.
func Get(name string) (*Table, error) {
	t, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownRule, name, strings.Join(order, ", "))
	}
	return t, nil
}

// Names lists registered rules in registration order.
func Names() []string {
	return append([]string(nil), order...)
}

// All returns every registered table in registration order.
func All() []*Table {
	out := make([]*Table, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}
