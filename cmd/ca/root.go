package main

import (
	"io"
	"log/slog"
	"time"

	"ecarows/internal/automaton"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose    bool
	NoColor    bool
	ConfigPath string
	Set        map[string]string

	// flags receives flag values; only flags the user set override the
	// config file.
	flags automaton.Config
	log   *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{flags: automaton.DefaultConfig()}

	cmd := &cobra.Command{
		Use:          "ca",
		Short:        "Grow elementary cellular automata row by row",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.log = newLogger(cmd.ErrOrStderr(), opts.Verbose, opts.NoColor)
			slog.SetDefault(opts.log)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored log output")
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	pf.StringToStringVar(&opts.Set, "set", nil, "config overrides by YAML key, e.g. --set width=128,rule=Rule30")
	bindConfig(pf, &opts.flags)

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newRulesCommand(opts))
	cmd.AddCommand(newSurveyCommand(opts))
	cmd.AddCommand(newGUICommand(opts))

	return cmd
}

func newLogger(w io.Writer, verbose, noColor bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

// bindConfig attaches the automaton parameters to fs.
func bindConfig(fs *pflag.FlagSet, c *automaton.Config) {
	fs.IntVarP(&c.Width, "width", "w", c.Width, "cells per row")
	fs.StringVarP(&c.Rule, "rule", "r", c.Rule, "rule name")
	fs.IntVar(&c.RowsPerStep, "rows-per-step", c.RowsPerStep, "rows generated per tick")
	fs.IntVar(&c.MaxRows, "max-rows", c.MaxRows, "row ceiling")
	fs.IntVar(&c.CellSize, "cell-size", c.CellSize, "pixel size of one cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 = time based)")
	fs.BoolVar(&c.KeepSeed, "keep-seed", c.KeepSeed, "reuse the seed row when the rule changes")
}

// config resolves the effective configuration: defaults, then the config
// file, then --set overrides, then any dedicated flag set on the command line.
func (o *rootOptions) config(cmd *cobra.Command) (automaton.Config, error) {
	cfg := automaton.DefaultConfig()
	if o.ConfigPath != "" {
		loaded, err := automaton.LoadConfig(o.ConfigPath)
		if err != nil {
			return automaton.Config{}, err
		}
		cfg = loaded
	}
	cfg, err := automaton.FromMap(cfg, o.Set)
	if err != nil {
		return automaton.Config{}, err
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = o.flags.Width
		case "rule":
			cfg.Rule = o.flags.Rule
		case "rows-per-step":
			cfg.RowsPerStep = o.flags.RowsPerStep
		case "max-rows":
			cfg.MaxRows = o.flags.MaxRows
		case "cell-size":
			cfg.CellSize = o.flags.CellSize
		case "tps":
			cfg.TPS = o.flags.TPS
		case "seed":
			cfg.Seed = o.flags.Seed
		case "keep-seed":
			cfg.KeepSeed = o.flags.KeepSeed
		}
	})
	if err := cfg.Validate(); err != nil {
		return automaton.Config{}, err
	}
	return cfg, nil
}

func (o *rootOptions) logger() *slog.Logger {
	if o.log == nil {
		return slog.Default()
	}
	return o.log
}
