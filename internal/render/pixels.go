package render

import (
	"image"
	"image/color"

	"ecarows/internal/core"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	for i, c := range cells {
		col := ColorOf(palette, core.CellState(c))
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// GridRGBA returns one RGBA pixel per grid cell.
func GridRGBA(g *core.ByteGrid, palette []color.RGBA) []byte {
	cells := g.Cells()
	buf := make([]byte, 4*len(cells))
	fillPaletteRGBA(buf, cells, palette)
	return buf
}

// Image draws rows top to bottom with each cell as a cellSize square.
func Image(rows []core.Row, width, cellSize int, palette []color.RGBA) *image.RGBA {
	if cellSize < 1 {
		cellSize = 1
	}
	g := core.GridFromRows(width, len(rows), rows)
	src := GridRGBA(g, palette)
	img := image.NewRGBA(image.Rect(0, 0, g.W*cellSize, g.H*cellSize))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			base := g.Index(x, y) * 4
			col := color.RGBA{R: src[base], G: src[base+1], B: src[base+2], A: src[base+3]}
			for dy := 0; dy < cellSize; dy++ {
				for dx := 0; dx < cellSize; dx++ {
					img.SetRGBA(x*cellSize+dx, y*cellSize+dy, col)
				}
			}
		}
	}
	return img
}
