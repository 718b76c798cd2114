package rules

import (
	"fmt"

	"ecarows/internal/core"
)

// NumPatterns is the number of binary three-cell neighborhoods.
const NumPatterns = 8

// Neighborhood is the (left, center, right) triple that selects a rule output.
type Neighborhood struct {
	Left, Center, Right core.CellState
}

// Key renders the neighborhood with its literal digits, e.g. "120".
func (n Neighborhood) Key() string {
	return string([]byte{digit(n.Left), digit(n.Center), digit(n.Right)})
}

// Normalize maps the display-only states 2 and 3 onto 1.
func (n Neighborhood) Normalize() Neighborhood {
	return Neighborhood{Left: n.Left.Binary(), Center: n.Center.Binary(), Right: n.Right.Binary()}
}

// Index returns the pattern number of the normalized neighborhood, with left
// as the most significant bit ("111" is 7, "000" is 0).
func (n Neighborhood) Index() (int, error) {
	norm := n.Normalize()
	if norm.Left > 1 || norm.Center > 1 || norm.Right > 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNeighborhood, n.Key())
	}
	return int(norm.Left)<<2 | int(norm.Center)<<1 | int(norm.Right), nil
}

// ParseKey converts a canonical key such as "101" into a Neighborhood. Only
// the binary digits are accepted; callers normalize before looking up.
func ParseKey(key string) (Neighborhood, error) {
	if len(key) != 3 {
		return Neighborhood{}, fmt.Errorf("%w: %q", ErrMalformedNeighborhood, key)
	}
	var cells [3]core.CellState
	for i := 0; i < 3; i++ {
		switch key[i] {
		case '0':
			cells[i] = core.StateOff
		case '1':
			cells[i] = core.StateActive
		default:
			return Neighborhood{}, fmt.Errorf("%w: %q", ErrMalformedNeighborhood, key)
		}
	}
	return Neighborhood{Left: cells[0], Center: cells[1], Right: cells[2]}, nil
}

// PatternKey returns the canonical key for pattern index idx in [0, 8).
func PatternKey(idx int) string {
	return string([]byte{
		'0' + byte(idx>>2&1),
		'0' + byte(idx>>1&1),
		'0' + byte(idx&1),
	})
}

func digit(s core.CellState) byte {
	if s > 9 {
		return '?'
	}
	return '0' + byte(s)
}
