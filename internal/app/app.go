//go:build ebiten

package app

import (
	"log/slog"

	"ecarows/internal/automaton"
	"ecarows/internal/core"
	"ecarows/internal/render"
	"ecarows/internal/rules"
	"ecarows/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the status panel right of the history.
const HUDWidth = 180

var ruleKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9}

// Game adapts a Scheduler to the ebiten.Game interface. It only reads
// published snapshots and reports rule selections back to the scheduler.
type Game struct {
	sched   *automaton.Scheduler
	painter *render.GridPainter
	hud     *ui.HUD
	pacer   *core.FixedStep
	log     *slog.Logger

	latest automaton.Snapshot
	dirty  bool
	scale  int
	paused bool
}

// New builds a scheduler for cfg that publishes into the game and starts the
// first run.
func New(cfg automaton.Config, log *slog.Logger) (*Game, error) {
	g := &Game{
		painter: render.NewGridPainter(cfg.Width, cfg.MaxRows, render.DefaultPalette),
		pacer:   core.NewFixedStep(cfg.TPS),
		scale:   cfg.CellSize,
		log:     log,
	}
	sched, err := automaton.NewScheduler(cfg,
		automaton.WithPublisher(g.Publish),
		automaton.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	g.sched = sched
	g.hud = ui.NewHUD(sched, HUDWidth)
	if err := sched.Start(); err != nil {
		return nil, err
	}
	return g, nil
}

// Publish stores the latest snapshot for the next Draw.
func (g *Game) Publish(snap automaton.Snapshot) {
	g.latest = snap
	g.dirty = true
}

// Update handles input and drives one scheduler tick per pacing step.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	names := rules.Names()
	for i, key := range ruleKeys {
		if i >= len(names) {
			break
		}
		if inpututil.IsKeyJustPressed(key) {
			g.selectRule(names[i])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.selectRule(g.latest.Rule)
	}

	g.hud.Update()

	if !g.paused && g.pacer.ShouldStep() {
		if _, err := g.sched.Tick(); err != nil {
			g.log.Error("tick failed", "err", err)
		}
	}
	return nil
}

func (g *Game) selectRule(name string) {
	if err := g.sched.SelectRule(name); err != nil {
		g.log.Warn("rule selection rejected", "rule", name, "err", err)
	}
}

// Draw renders the current history and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty {
		g.painter.Update(g.latest.Rows)
		g.dirty = false
	}
	g.painter.Blit(screen, g.scale)
	size := g.painter.Size()
	g.hud.Draw(screen, size.W*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.painter.Size()
	return s.W*g.scale + HUDWidth, s.H * g.scale
}

// WindowSize returns the initial window size in pixels.
func (g *Game) WindowSize() (int, int) {
	return g.Layout(0, 0)
}
