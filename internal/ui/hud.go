//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"ecarows/internal/core"
	"ecarows/internal/rules"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	hudPadding    = 8
	hudLineHeight = 16
)

// ParameterProvider is implemented by anything that reports its state for
// display, such as automaton.Scheduler.
type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD renders the status panel to the right of the history view.
type HUD struct {
	src      ParameterProvider
	width    int
	snapshot core.ParameterSnapshot
	help     []string

	panel      *ebiten.Image
	lastHeight int

	background color.Color
	foreground color.Color
	dim        color.Color
}

// NewHUD constructs a HUD for the provided source and panel width.
func NewHUD(src ParameterProvider, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{
		src:        src,
		width:      width,
		help:       buildHelp(rules.Names()),
		background: color.RGBA{R: 24, G: 24, B: 24, A: 255},
		foreground: color.White,
		dim:        color.RGBA{R: 150, G: 150, B: 150, A: 255},
	}
}

func buildHelp(names []string) []string {
	lines := make([]string, 0, len(names)+3)
	for i, name := range names {
		if i >= 9 {
			break
		}
		lines = append(lines, fmt.Sprintf("%d  %s", i+1, name))
	}
	return append(lines, "R  reset", "SPC pause", "Q  quit")
}

// Update refreshes the cached parameter snapshot.
func (h *HUD) Update() {
	if h == nil || h.src == nil {
		return
	}
	h.snapshot = h.src.Parameters()
}

// Draw paints the panel starting at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	height := screen.Bounds().Dy()
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.panel.Fill(h.background)
		h.lastHeight = height
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)

	face := basicfont.Face7x13
	x := offsetX + hudPadding
	y := hudPadding + hudLineHeight

	for _, group := range h.snapshot.Groups {
		text.Draw(screen, strings.ToUpper(group.Name), face, x, y, h.dim)
		y += hudLineHeight
		for _, p := range group.Params {
			text.Draw(screen, fmt.Sprintf("%-10s %s", p.Label, p.Value), face, x, y, h.foreground)
			y += hudLineHeight
		}
		y += hudLineHeight / 2
	}
	for _, line := range h.help {
		text.Draw(screen, line, face, x, y, h.dim)
		y += hudLineHeight
	}
}
