package automaton

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"ecarows/internal/core"
	"ecarows/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) publish(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler(t *testing.T, cfg Config, rec *recorder, hopts ...HistoryOption) *Scheduler {
	t.Helper()
	opts := []SchedulerOption{WithLogger(quietLogger()), WithHistoryOptions(hopts...)}
	if rec != nil {
		opts = append(opts, WithPublisher(rec.publish))
	}
	s, err := NewScheduler(cfg, opts...)
	require.NoError(t, err)
	return s
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.MaxRows = 10
	cfg.Seed = 42
	return cfg
}

func TestSchedulerLifecycle(t *testing.T) {
	rec := &recorder{}
	s := newTestScheduler(t, smallConfig(), rec)
	assert.Equal(t, StateIdle, s.State())

	state, err := s.Tick()
	require.NoError(t, err)
	assert.Equal(t, StateIdle, state, "ticks before start are no-ops")

	require.NoError(t, s.Start())
	assert.Equal(t, StateRunning, s.State())

	lengths := []int{}
	for s.State() == StateRunning {
		_, err := s.Tick()
		require.NoError(t, err)
		lengths = append(lengths, s.Snapshot().Len())
	}
	assert.Equal(t, []int{4, 7, 10}, lengths)
	assert.Equal(t, StateStopped, s.State())

	snaps := rec.all()
	require.Len(t, snaps, 4, "one publish for start and one per tick")
	assert.Equal(t, 1, snaps[0].Len())
	assert.True(t, snaps[3].Full())

	state, err = s.Tick()
	require.NoError(t, err)
	assert.Equal(t, StateStopped, state)
	assert.Equal(t, 10, s.Snapshot().Len())
}

func TestSchedulerSelectRuleResetsRun(t *testing.T) {
	rec := &recorder{}
	cfg := smallConfig()
	cfg.MaxRows = 30
	s := newTestScheduler(t, cfg, rec, WithBoundarySource(core.NewFixedBits(0)))
	require.NoError(t, s.Start())
	_, err := s.Tick()
	require.NoError(t, err)
	_, err = s.Tick()
	require.NoError(t, err)
	before := s.Snapshot()
	require.Equal(t, 7, before.Len())
	require.Equal(t, "Rule90", before.Rule)

	require.NoError(t, s.SelectRule("Rule184"))
	after := s.Snapshot()
	assert.Equal(t, 1, after.Len())
	assert.NotEqual(t, before.RunID, after.RunID)
	assert.Equal(t, StateRunning, s.State())

	for s.State() == StateRunning {
		_, err := s.Tick()
		require.NoError(t, err)
	}

	final := s.Snapshot()
	require.Equal(t, 30, final.Len())
	table := mustRule(t, "Rule184")
	for i := 1; i < final.Len(); i++ {
		want, err := NextRow(final.Rows[i-1], table, core.NewFixedBits(0))
		require.NoError(t, err)
		assert.Equal(t, want, final.Rows[i], "row %d", i)
	}

	var sawReset bool
	for _, snap := range rec.all() {
		if snap.RunID == after.RunID {
			sawReset = true
			assert.Equal(t, "Rule184", snap.Rule)
			continue
		}
		assert.False(t, sawReset, "no snapshot of the old run after reset")
	}
}

func TestSchedulerSelectUnknownRule(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.Start())
	run := s.Snapshot().RunID

	err := s.SelectRule("Rule999")
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
	assert.Equal(t, run, s.Snapshot().RunID)
	assert.Equal(t, "Rule90", s.Snapshot().Rule)
}

func TestSchedulerKeepSeed(t *testing.T) {
	cfg := smallConfig()
	cfg.KeepSeed = true
	s := newTestScheduler(t, cfg, nil)
	require.NoError(t, s.Start())
	seed := s.Snapshot().Rows[0]
	_, err := s.Tick()
	require.NoError(t, err)

	require.NoError(t, s.SelectRule("Rule30"))
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, seed, snap.Rows[0])
}

func TestSchedulerHaltsOnMalformedRow(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.StartFrom(core.Row{0, 7, 0, 1}))

	state, err := s.Tick()
	assert.ErrorIs(t, err, rules.ErrMalformedNeighborhood)
	assert.Equal(t, StateStopped, state)
	assert.ErrorIs(t, s.Err(), rules.ErrMalformedNeighborhood)
	assert.Equal(t, 1, s.Snapshot().Len())

	require.NoError(t, s.SelectRule("Rule30"))
	assert.NoError(t, s.Err())
	assert.Equal(t, StateRunning, s.State())
}

func TestSchedulerStop(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.Start())
	s.Stop()
	assert.Equal(t, StateStopped, s.State())
	state, err := s.Tick()
	require.NoError(t, err)
	assert.Equal(t, StateStopped, state)
	assert.Equal(t, 1, s.Snapshot().Len())
}

func TestSchedulerCeilingOfOne(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxRows = 1
	s := newTestScheduler(t, cfg, nil)
	require.NoError(t, s.Start())
	assert.Equal(t, StateStopped, s.State())
}

func TestSchedulerRunUntilCeiling(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.Start())

	frames := make(chan time.Time, 16)
	for i := 0; i < cap(frames); i++ {
		frames <- time.Time{}
	}
	require.NoError(t, s.Run(context.Background(), frames))
	assert.Equal(t, StateStopped, s.State())
	assert.Equal(t, 10, s.Snapshot().Len())
	assert.Len(t, frames, 13, "three frames consumed")
}

func TestSchedulerRunCancelled(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, make(chan time.Time))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.Snapshot().Len())
}

func TestSchedulerRunClosedFrames(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.Start())
	frames := make(chan time.Time)
	close(frames)
	assert.NoError(t, s.Run(context.Background(), frames))
	assert.Equal(t, StateRunning, s.State())
}

func TestSchedulerConcurrentSelectRule(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxRows = 300
	s := newTestScheduler(t, cfg, nil, WithBoundarySource(core.NewFixedBits(0)))
	require.NoError(t, s.Start())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frames := make(chan time.Time)
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, frames) }()

	for i := 0; i < 20; i++ {
		frames <- time.Time{}
		if i == 10 {
			require.NoError(t, s.SelectRule("Rule110"))
		}
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	snap := s.Snapshot()
	assert.Equal(t, "Rule110", snap.Rule)
	require.Greater(t, snap.Len(), 1, "frames after the reset grow the new run")
	assert.LessOrEqual(t, snap.Len(), 1+10*cfg.RowsPerStep)

	table := mustRule(t, "Rule110")
	for i := 1; i < snap.Len(); i++ {
		want, err := NextRow(snap.Rows[i-1], table, core.NewFixedBits(0))
		require.NoError(t, err)
		assert.Equal(t, want, snap.Rows[i], "row %d", i)
	}
}

func TestSchedulerParameters(t *testing.T) {
	s := newTestScheduler(t, smallConfig(), nil)
	require.NoError(t, s.Start())
	params := s.Parameters()

	rule, ok := params.Lookup("rule")
	require.True(t, ok)
	assert.Equal(t, "Rule90", rule.Value)
	rows, ok := params.Lookup("rows")
	require.True(t, ok)
	assert.Equal(t, "1/10", rows.Value)
	state, ok := params.Lookup("state")
	require.True(t, ok)
	assert.Equal(t, "running", state.Value)
}

func TestNewSchedulerRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 1
	_, err := NewScheduler(cfg)
	assert.ErrorIs(t, err, ErrWidthTooSmall)

	cfg = DefaultConfig()
	cfg.Rule = "Rule1"
	_, err = NewScheduler(cfg)
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "state(9)", State(9).String())
}
