//go:build !ebiten

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newGUICommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open a window that grows the automaton (requires the ebiten build tag)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("the GUI build of ca requires the ebiten build tag; " +
				"re-run with `go run -tags ebiten ./cmd/ca gui`")
		},
	}
}
