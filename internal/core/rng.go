package core

import "math/rand/v2"

// BitSource yields the random bits injected at row boundaries.
type BitSource interface {
	Bit() CellState
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bit returns 0 or 1 with equal probability.
func (r *RNG) Bit() CellState {
	return CellState(r.r.IntN(2))
}

// FillBinary fills the row with 0/1 values drawn from src.
func FillBinary(src BitSource, row Row) {
	for i := range row {
		row[i] = src.Bit()
	}
}

// FixedBits replays a fixed bit sequence, repeating from the start when it
// runs out. An empty sequence always yields 0.
type FixedBits struct {
	seq []CellState
	pos int
}

// NewFixedBits returns a BitSource that replays seq.
func NewFixedBits(seq ...CellState) *FixedBits {
	return &FixedBits{seq: seq}
}

// Bit returns the next value of the sequence.
func (f *FixedBits) Bit() CellState {
	if len(f.seq) == 0 {
		return StateOff
	}
	b := f.seq[f.pos%len(f.seq)]
	f.pos++
	return b
}

// Draws reports how many bits have been consumed.
func (f *FixedBits) Draws() int { return f.pos }
