//go:build ebiten

package main

import (
	"errors"

	"ecarows/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

func newGUICommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open a window that grows the automaton; keys 1-5 select a rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config(cmd)
			if err != nil {
				return err
			}
			game, err := app.New(cfg, root.logger())
			if err != nil {
				return err
			}

			ebiten.SetWindowTitle("ecarows: " + cfg.Rule)
			ebiten.SetWindowSize(game.WindowSize())

			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
}
