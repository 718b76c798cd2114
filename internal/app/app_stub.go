//go:build !ebiten

package app

import (
	"fmt"
	"log/slog"

	"ecarows/internal/automaton"
)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New reports that the ebiten build tag is required for GUI support.
func New(automaton.Config, *slog.Logger) (*Game, error) {
	return nil, fmt.Errorf("the GUI requires building with the 'ebiten' tag")
}

// Publish is a no-op placeholder.
func (g *Game) Publish(automaton.Snapshot) {}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

// WindowSize returns zeros in the headless build.
func (g *Game) WindowSize() (int, int) { return 0, 0 }
