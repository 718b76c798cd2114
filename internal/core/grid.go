package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order. It
// is the flat buffer renderers consume; histories fill it row by row.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// GridFromRows lays rows out top to bottom in a grid of height h. Rows beyond
// h are dropped and missing rows stay zero.
func GridFromRows(w, h int, rows []Row) *ByteGrid {
	g := NewByteGrid(w, h)
	for y, row := range rows {
		if y >= g.H {
			break
		}
		g.SetRow(y, row)
	}
	return g
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Size returns the grid dimensions.
func (g *ByteGrid) Size() Size { return Size{W: g.W, H: g.H} }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// At returns the cell at (x, y).
func (g *ByteGrid) At(x, y int) CellState { return CellState(g.data[g.Index(x, y)]) }

// SetRow copies row into grid line y, truncating to the grid width.
func (g *ByteGrid) SetRow(y int, row Row) {
	if y < 0 || y >= g.H {
		return
	}
	line := g.data[y*g.W : (y+1)*g.W]
	for x := range line {
		if x >= len(row) {
			line[x] = 0
			continue
		}
		line[x] = uint8(row[x])
	}
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
