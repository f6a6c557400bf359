package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/ui"
)

// handleInput processes window, keyboard and pointer input for one frame.
func (g *Game) handleInput() {
	// Window resize propagation
	if rl.IsWindowResized() {
		g.sim.NotifyResize()
	}

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
		g.sim.NotifyResize()
	}

	cfg := g.sim.Config()
	changed := false
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.views.HandleKeyPress(key); ok {
			g.logger.Debug("view toggled", "view", string(id), "enabled", on)
			continue
		}
		var ok bool
		if cfg, ok = g.panel.HandleKey(cfg, key); ok {
			changed = true
		}
	}
	if changed {
		g.applyConfig(cfg)
	}
	g.panel.SetVisible(g.views.IsEnabled(ui.ViewSettings))

	g.input.Poll()
	g.stepWanderers(float64(rl.GetFrameTime()))
}
