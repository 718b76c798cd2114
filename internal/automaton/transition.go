package automaton

import (
	"fmt"

	"ecarows/internal/core"
	"ecarows/internal/rules"
)

// NextRow computes the generation after prev. The missing outer neighbors of
// the first and last cells are fresh bits drawn from bits, left first. The
// function never retains prev or the returned row.
func NextRow(prev core.Row, table *rules.Table, bits core.BitSource) (core.Row, error) {
	w := len(prev)
	if w < MinWidth {
		return nil, fmt.Errorf("%w: %d < %d", ErrWidthTooSmall, w, MinWidth)
	}
	if table == nil {
		return nil, ErrNoRule
	}
	if bits == nil {
		return nil, ErrNoBitSource
	}
	leftEdge := bits.Bit()
	rightEdge := bits.Bit()

	out := make(core.Row, w)
	for i := range prev {
		var n rules.Neighborhood
		switch i {
		case 0:
			n = rules.Neighborhood{Left: leftEdge, Center: prev[0], Right: prev[1]}
		case w - 1:
			n = rules.Neighborhood{Left: prev[w-2], Center: prev[w-1], Right: rightEdge}
		default:
			n = rules.Neighborhood{Left: prev[i-1], Center: prev[i], Right: prev[i+1]}
		}
		s, err := table.Apply(n)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// Seed returns a row of independent 0/1 cells.
func Seed(width int, src core.BitSource) (core.Row, error) {
	if width < MinWidth {
		return nil, fmt.Errorf("%w: %d < %d", ErrWidthTooSmall, width, MinWidth)
	}
	row := make(core.Row, width)
	core.FillBinary(src, row)
	return row, nil
}
