package render

import (
	"bufio"
	"fmt"
	"image/png"
	"io"

	"ecarows/internal/automaton"
	"ecarows/internal/core"
)

// WritePNG encodes the snapshot as a PNG image.
func WritePNG(w io.Writer, snap automaton.Snapshot, cellSize int) error {
	img := Image(snap.Rows, snap.Width, cellSize, DefaultPalette)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteText writes one line per row using Glyphs.
func WriteText(w io.Writer, rows []core.Row) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for _, c := range row {
			g := byte('?')
			if int(c) < len(Glyphs) {
				g = Glyphs[c]
			}
			bw.WriteByte(g)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
