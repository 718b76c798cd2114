package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"ecarows/internal/automaton"
	"ecarows/internal/core"
	"ecarows/internal/rules"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type surveyOptions struct {
	*rootOptions
	Workers int
}

type surveyResult struct {
	rule    string
	code    uint8
	rows    int
	density float64
	colors  [core.NumStates]int
}

func newSurveyCommand(root *rootOptions) *cobra.Command {
	opts := &surveyOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Grow every registered rule in parallel and summarize the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := opts.config(cmd)
			if err != nil {
				return err
			}
			tables := rules.All()
			results := make([]surveyResult, len(tables))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(opts.Workers, 1))
			for i, t := range tables {
				g.Go(func() error {
					cfg := base
					cfg.Rule = t.Name()
					snap, err := grow(ctx, cfg, true, opts.logger())
					if err != nil {
						return fmt.Errorf("%s: %w", t.Name(), err)
					}
					results[i] = summarize(t, snap)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\tCODE\tROWS\tDENSITY\tSTATES 0/1/2/3")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\t%d/%d/%d/%d\n",
					r.rule, r.code, r.rows, r.density, r.colors[0], r.colors[1], r.colors[2], r.colors[3])
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.NumCPU(), "number of rules grown concurrently")

	return cmd
}

// summarize counts cell states over the whole history.
func summarize(t *rules.Table, snap automaton.Snapshot) surveyResult {
	r := surveyResult{rule: t.Name(), code: t.Code(), rows: snap.Len()}
	total := 0
	for _, row := range snap.Rows {
		for _, c := range row {
			if c.Valid() {
				r.colors[c]++
			}
			total++
		}
	}
	if total > 0 {
		r.density = float64(total-r.colors[core.StateOff]) / float64(total)
	}
	return r
}
