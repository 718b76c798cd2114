package automaton

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"ecarows/internal/core"
	"ecarows/internal/rules"
)

// State is the lifecycle state of a Scheduler.
type State int

const (
	// StateIdle means no run has been started.
	StateIdle State = iota
	// StateRunning means each Tick grows the history.
	StateRunning
	// StateStopped means the ceiling was reached, Stop was called or the run
	// halted on an error.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Publisher receives a snapshot after every start, reset and tick. It is
// called with the scheduler locked and must not call back into it.
type Publisher func(Snapshot)

// Scheduler grows a History in bounded batches. Each Tick appends at most
// RowsPerStep rows and returns, leaving pacing to the host loop. Ticks and
// resets are serialized, so a tick never observes a half replaced run.
type Scheduler struct {
	mu      sync.Mutex
	cfg     Config
	hist    *History
	state   State
	err     error
	ticks   int
	publish Publisher
	log     *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*schedulerOptions)

type schedulerOptions struct {
	publish Publisher
	log     *slog.Logger
	history []HistoryOption
}

// WithPublisher registers the snapshot consumer.
func WithPublisher(p Publisher) SchedulerOption {
	return func(o *schedulerOptions) { o.publish = p }
}

// WithLogger sets the scheduler and history logger.
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(o *schedulerOptions) { o.log = l }
}

// WithHistoryOptions passes options through to the underlying History. They
// are applied after the options derived from Config.
func WithHistoryOptions(opts ...HistoryOption) SchedulerOption {
	return func(o *schedulerOptions) { o.history = append(o.history, opts...) }
}

// NewScheduler validates cfg and returns an idle scheduler.
func NewScheduler(cfg Config, opts ...SchedulerOption) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := schedulerOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	hopts := []HistoryOption{
		WithMaxRows(cfg.MaxRows),
		WithRandomSeed(seed),
		WithHistoryLogger(o.log),
	}
	hopts = append(hopts, o.history...)
	return &Scheduler{
		cfg:     cfg,
		hist:    NewHistory(hopts...),
		publish: o.publish,
		log:     o.log,
	}, nil
}

// Config returns the configuration the scheduler was built with.
func (s *Scheduler) Config() Config { return s.cfg }

// Start seeds a run with the configured rule and enters StateRunning.
func (s *Scheduler) Start() error {
	table, err := rules.Get(s.cfg.Rule)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hist.Start(s.cfg.Width, table); err != nil {
		return err
	}
	s.enterRunningLocked()
	return nil
}

// StartFrom begins a run from seed with the configured rule.
func (s *Scheduler) StartFrom(seed core.Row) error {
	table, err := rules.Get(s.cfg.Rule)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hist.StartFrom(seed, table); err != nil {
		return err
	}
	s.enterRunningLocked()
	return nil
}

// SelectRule resets the run with the named rule. Unknown names are rejected
// and leave the current run untouched.
func (s *Scheduler) SelectRule(name string) error {
	table, err := rules.Get(name)
	if err != nil {
		return err
	}
	return s.Reset(table)
}

// Reset replaces the run with a new one using table. Any tick that has not
// run yet will grow the new run; rows of the old run are gone. With KeepSeed
// the new run reuses the current seed row.
func (s *Scheduler) Reset(table *rules.Table) error {
	if table == nil {
		return ErrNoRule
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.cfg.KeepSeed && s.hist.Generation() > 0 {
		err = s.hist.Restart(table)
	} else {
		err = s.hist.Reset(s.cfg.Width, table)
	}
	if err != nil {
		return err
	}
	s.log.Info("rule selected", "rule", table.Name(), "run", s.hist.RunID())
	s.enterRunningLocked()
	return nil
}

func (s *Scheduler) enterRunningLocked() {
	s.state = StateRunning
	s.err = nil
	s.ticks = 0
	s.publishLocked()
	if s.hist.Full() {
		s.state = StateStopped
	}
}

// Stop cancels a running growth. The history is kept.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.state = StateStopped
		s.log.Debug("automaton stopped", "run", s.hist.RunID(), "rows", s.hist.Len())
	}
}

// Tick performs one bounded unit of work: it appends up to RowsPerStep rows,
// publishes a snapshot and moves to StateStopped once the ceiling is reached.
// It is a no-op unless the scheduler is running. An error halts the run
// without appending the offending row.
func (s *Scheduler) Tick() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return s.state, nil
	}
	s.ticks++
	if _, err := s.hist.Advance(s.cfg.RowsPerStep); err != nil {
		s.state = StateStopped
		s.err = fmt.Errorf("run %s halted: %w", s.hist.RunID(), err)
		s.log.Error("automaton halted", "run", s.hist.RunID(), "err", err)
		return s.state, s.err
	}
	s.publishLocked()
	if s.hist.Full() {
		s.state = StateStopped
		s.log.Debug("automaton reached ceiling",
			"run", s.hist.RunID(), "rows", s.hist.Len(), "ticks", s.ticks)
	}
	return s.state, nil
}

// Run calls Tick once per frame until the run stops, frames is closed or ctx
// is done. A Reset from another goroutine while Run is waiting is picked up
// on the next frame.
func (s *Scheduler) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			state, err := s.Tick()
			if err != nil {
				return err
			}
			if state == StateStopped {
				return nil
			}
		}
	}
}

func (s *Scheduler) publishLocked() {
	if s.publish == nil {
		return
	}
	s.publish(s.hist.Snapshot())
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that halted the run, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns a copy of the current run.
func (s *Scheduler) Snapshot() Snapshot {
	return s.hist.Snapshot()
}

// Parameters reports the run for status displays.
func (s *Scheduler) Parameters() core.ParameterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := ""
	if t := s.hist.Rule(); t != nil {
		rule = t.Name()
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Run",
			Params: []core.Parameter{
				{Key: "rule", Label: "Rule", Type: core.ParamTypeString, Value: rule},
				{Key: "rows", Label: "Rows", Type: core.ParamTypeInt,
					Value: fmt.Sprintf("%d/%d", s.hist.Len(), s.hist.MaxRows())},
				{Key: "state", Label: "State", Type: core.ParamTypeString, Value: s.state.String()},
			},
		},
		{
			Name: "Config",
			Params: []core.Parameter{
				{Key: "width", Label: "Width", Type: core.ParamTypeInt, Value: strconv.Itoa(s.cfg.Width)},
				{Key: "rows_per_step", Label: "Rows/tick", Type: core.ParamTypeInt, Value: strconv.Itoa(s.cfg.RowsPerStep)},
				{Key: "keep_seed", Label: "Keep seed", Type: core.ParamTypeBool, Value: strconv.FormatBool(s.cfg.KeepSeed)},
			},
		},
	}}
}
