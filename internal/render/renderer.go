//go:build ebiten

package render

import (
	"image/color"

	"ecarows/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter keeps one RGBA image sized to the full history and refreshes it
// from snapshots.
type GridPainter struct {
	grid    *core.ByteGrid
	img     *ebiten.Image
	buf     []byte
	palette []color.RGBA
}

// NewGridPainter allocates a painter for w columns and h rows.
func NewGridPainter(w, h int, palette []color.RGBA) *GridPainter {
	gp := &GridPainter{grid: core.NewByteGrid(w, h), palette: palette}
	gp.buf = make([]byte, 4*gp.grid.W*gp.grid.H)
	gp.img = ebiten.NewImage(gp.grid.W, gp.grid.H)
	return gp
}

// Update copies rows into the painter image. Rows past the painter height are
// ignored and missing rows are drawn as background.
func (gp *GridPainter) Update(rows []core.Row) {
	gp.grid.Clear()
	for y, row := range rows {
		gp.grid.SetRow(y, row)
	}
	fillPaletteRGBA(gp.buf, gp.grid.Cells(), gp.palette)
	gp.img.WritePixels(gp.buf)
}

// Blit draws the painter image scaled by scale.
func (gp *GridPainter) Blit(dst *ebiten.Image, scale int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() core.Size { return gp.grid.Size() }
