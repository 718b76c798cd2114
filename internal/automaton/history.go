package automaton

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ecarows/internal/core"
	"ecarows/internal/rules"

	"github.com/google/uuid"
)

// Snapshot is a read-only copy of a history handed to presentation code. It
// shares no memory with the engine.
type Snapshot struct {
	RunID      string
	Generation uint64
	Rule       string
	Width      int
	MaxRows    int
	Rows       []core.Row
}

// Len returns the number of rows in the snapshot.
func (s Snapshot) Len() int { return len(s.Rows) }

// Full reports whether the snapshot reached the ceiling.
func (s Snapshot) Full() bool { return len(s.Rows) >= s.MaxRows }

// History is the growing sequence of rows of one run, together with the
// active rule and the seed row the run started from.
//
// Reset may be called while another goroutine is inside Advance. Each reset
// starts a new generation and rows computed for an older generation are
// dropped at commit time.
type History struct {
	mu      sync.RWMutex
	rows    []core.Row
	seed    core.Row
	table   *rules.Table
	gen     uint64
	runID   string
	maxRows int

	// advanceMu serializes Advance so the boundary source is never shared.
	advanceMu sync.Mutex
	bits      core.BitSource
	seeds     core.BitSource

	log *slog.Logger
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithMaxRows sets the row ceiling.
func WithMaxRows(n int) HistoryOption {
	return func(h *History) {
		if n > 0 {
			h.maxRows = n
		}
	}
}

// WithBoundarySource sets where boundary bits come from.
func WithBoundarySource(src core.BitSource) HistoryOption {
	return func(h *History) {
		if src != nil {
			h.bits = src
		}
	}
}

// WithSeedSource sets where seed row bits come from.
func WithSeedSource(src core.BitSource) HistoryOption {
	return func(h *History) {
		if src != nil {
			h.seeds = src
		}
	}
}

// WithHistoryLogger sets the logger used for run lifecycle events.
func WithHistoryLogger(l *slog.Logger) HistoryOption {
	return func(h *History) {
		if l != nil {
			h.log = l
		}
	}
}

// WithRandomSeed makes seed rows and boundary bits reproducible. The two use
// separate streams.
func WithRandomSeed(seed int64) HistoryOption {
	return func(h *History) {
		h.seeds = core.NewRNG(seed)
		h.bits = core.NewRNG(seed + 1)
	}
}

// NewHistory returns an empty history. Until Start is called it has no rows.
func NewHistory(opts ...HistoryOption) *History {
	h := &History{
		maxRows: DefaultConfig().MaxRows,
		log:     slog.Default(),
	}
	WithRandomSeed(time.Now().UnixNano())(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start begins a run with a fresh random seed row.
func (h *History) Start(width int, table *rules.Table) error {
	return h.Reset(width, table)
}

// StartFrom begins a run from the given seed row. The row is copied.
func (h *History) StartFrom(seed core.Row, table *rules.Table) error {
	if len(seed) < MinWidth {
		return fmt.Errorf("%w: %d < %d", ErrWidthTooSmall, len(seed), MinWidth)
	}
	if table == nil {
		return ErrNoRule
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replaceLocked(seed.Clone(), table)
	return nil
}

// Reset discards all rows, draws a new seed row and activates table.
func (h *History) Reset(width int, table *rules.Table) error {
	if table == nil {
		return ErrNoRule
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	seed, err := Seed(width, h.seeds)
	if err != nil {
		return err
	}
	h.replaceLocked(seed, table)
	return nil
}

// Restart discards all rows and starts over from the current seed row with
// table.
func (h *History) Restart(table *rules.Table) error {
	if table == nil {
		return ErrNoRule
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seed == nil {
		return ErrNotStarted
	}
	h.replaceLocked(h.seed, table)
	return nil
}

func (h *History) replaceLocked(seed core.Row, table *rules.Table) {
	h.gen++
	h.runID = uuid.Must(uuid.NewV7()).String()
	h.seed = seed
	h.table = table
	h.rows = make([]core.Row, 1, h.maxRows)
	h.rows[0] = seed
	h.log.Debug("automaton run started",
		"run", h.runID, "generation", h.gen, "rule", table.Name(), "width", len(seed))
}

// Advance appends up to batch rows, each computed from the previous last
// row. It stops early without error at the ceiling or when a concurrent reset
// replaced the run. It returns the number of rows appended to the run that was
// active when Advance was called.
func (h *History) Advance(batch int) (int, error) {
	h.advanceMu.Lock()
	defer h.advanceMu.Unlock()

	appended := 0
	for appended < batch {
		gen, last, table, ok, err := h.head()
		if err != nil {
			return appended, err
		}
		if !ok {
			break
		}
		next, err := NextRow(last, table, h.bits)
		if err != nil {
			return appended, err
		}
		if !h.commit(gen, next) {
			break
		}
		appended++
	}
	return appended, nil
}

// head returns what the next row is computed from. ok is false when the
// history is full.
func (h *History) head() (gen uint64, last core.Row, table *rules.Table, ok bool, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.rows) == 0 {
		return 0, nil, nil, false, ErrNotStarted
	}
	if len(h.rows) >= h.maxRows {
		return h.gen, nil, nil, false, nil
	}
	return h.gen, h.rows[len(h.rows)-1], h.table, true, nil
}

// commit appends row if gen is still the active generation and the ceiling
// has not been reached.
func (h *History) commit(gen uint64, row core.Row) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.gen {
		h.log.Debug("discarding row from replaced run", "generation", gen, "active", h.gen)
		return false
	}
	if len(h.rows) >= h.maxRows {
		return false
	}
	h.rows = append(h.rows, row)
	return true
}

// Snapshot returns a deep copy of the current run.
func (h *History) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rows := make([]core.Row, len(h.rows))
	for i, r := range h.rows {
		rows[i] = r.Clone()
	}
	snap := Snapshot{
		RunID:      h.runID,
		Generation: h.gen,
		Width:      len(h.seed),
		MaxRows:    h.maxRows,
		Rows:       rows,
	}
	if h.table != nil {
		snap.Rule = h.table.Name()
	}
	return snap
}

// Len returns the number of rows in the current run.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rows)
}

// Full reports whether the current run reached the ceiling.
func (h *History) Full() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rows) >= h.maxRows
}

// MaxRows returns the row ceiling.
func (h *History) MaxRows() int { return h.maxRows }

// Generation counts starts and resets.
func (h *History) Generation() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.gen
}

// RunID identifies the current run.
func (h *History) RunID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runID
}

// Rule returns the active table, or nil before Start.
func (h *History) Rule() *rules.Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table
}

// SeedRow returns a copy of the row the current run started from.
func (h *History) SeedRow() core.Row {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seed.Clone()
}
