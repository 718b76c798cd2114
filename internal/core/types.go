package core

// CellState is the value of a single cell. Zero is background; 1, 2 and 3 are
// active states that only differ in display color.
type CellState uint8

const (
	StateOff       CellState = 0
	StateActive    CellState = 1
	StateSecondary CellState = 2
	StateTertiary  CellState = 3

	// NumStates is the number of distinct cell states.
	NumStates = 4
)

// Valid reports whether s is one of the four known states.
func (s CellState) Valid() bool { return s < NumStates }

// Binary collapses the active sub-colors onto StateActive.
func (s CellState) Binary() CellState {
	if s == StateSecondary || s == StateTertiary {
		return StateActive
	}
	return s
}

// Row is one generation of cells. Rows are never mutated after they are
// produced; use Clone when a writable copy is needed.
type Row []CellState

// Clone returns a copy that does not alias r.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Size describes the dimensions of a rendered history.
type Size struct {
	W int
	H int
}
