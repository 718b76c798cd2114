package render

import (
	"image/color"

	"ecarows/internal/core"

	"golang.org/x/image/colornames"
)

// DefaultPalette maps cell states to display colors: background, then the
// three active sub-colors.
var DefaultPalette = []color.RGBA{
	core.StateOff:       colornames.Beige,
	core.StateActive:    colornames.Green,
	core.StateSecondary: colornames.Lime,
	core.StateTertiary:  colornames.Lightgreen,
}

// Glyphs maps cell states to characters for text output.
var Glyphs = []byte{
	core.StateOff:       '.',
	core.StateActive:    '#',
	core.StateSecondary: '+',
	core.StateTertiary:  '*',
}

// ColorOf returns the palette color for s, clamping unknown states to the
// last entry.
func ColorOf(palette []color.RGBA, s core.CellState) color.RGBA {
	if len(palette) == 0 {
		return color.RGBA{}
	}
	idx := int(s)
	if idx >= len(palette) {
		idx = len(palette) - 1
	}
	return palette[idx]
}
