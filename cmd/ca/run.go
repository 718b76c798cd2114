package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ecarows/internal/automaton"
	"ecarows/internal/render"

	"github.com/spf13/cobra"
)

type runOptions struct {
	*rootOptions
	PNGPath string
	Fast    bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Grow one automaton to its ceiling and print it",
		Long: "Grow one automaton headlessly, paced at --tps ticks per second, and write the\n" +
			"history as text to stdout or as a PNG image with --png.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			snap, err := grow(cmd.Context(), cfg, opts.Fast, opts.logger())
			if err != nil {
				return err
			}
			if opts.PNGPath != "" {
				return writePNG(opts.PNGPath, snap, cfg.CellSize)
			}
			return render.WriteText(cmd.OutOrStdout(), snap.Rows)
		},
	}

	cmd.Flags().StringVar(&opts.PNGPath, "png", "", "write a PNG image to this path instead of text")
	cmd.Flags().BoolVar(&opts.Fast, "fast", false, "tick as fast as possible instead of at --tps")

	return cmd
}

// grow runs a scheduler for cfg until it stops and returns the final snapshot.
func grow(ctx context.Context, cfg automaton.Config, fast bool, log *slog.Logger) (automaton.Snapshot, error) {
	sched, err := automaton.NewScheduler(cfg,
		automaton.WithLogger(log),
		automaton.WithPublisher(func(s automaton.Snapshot) {
			log.Debug("snapshot", "run", s.RunID, "rule", s.Rule, "rows", s.Len())
		}),
	)
	if err != nil {
		return automaton.Snapshot{}, err
	}
	if err := sched.Start(); err != nil {
		return automaton.Snapshot{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	frames, stop := frameSource(ctx, cfg.TPS, fast)
	defer stop()

	start := time.Now()
	if err := sched.Run(ctx, frames); err != nil {
		return automaton.Snapshot{}, err
	}
	snap := sched.Snapshot()
	log.Info("automaton complete",
		"rule", snap.Rule, "rows", snap.Len(), "width", snap.Width, "elapsed", time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// frameSource returns the host tick channel: a ticker at tps, or an
// unthrottled feed when fast is set.
func frameSource(ctx context.Context, tps int, fast bool) (<-chan time.Time, func()) {
	if !fast {
		t := time.NewTicker(time.Second / time.Duration(tps))
		return t.C, t.Stop
	}
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan time.Time)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ch <- time.Now():
			}
		}
	}()
	return ch, cancel
}

func writePNG(path string, snap automaton.Snapshot, cellSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.WritePNG(f, snap, cellSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
