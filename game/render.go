package game

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/ui"
)

const controlsLegend = "[Tab] settings  [H] HUD  [F1] perf  [P] pause  [F11] fullscreen"

// Update processes input for the next window frame.
func (g *Game) Update() {
	g.handleInput()
}

// Draw runs the pending simulation frame inside the window frame and draws
// the UI over it.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(g.clearColor())

	g.sched.Pump(time.Now())
	g.drawUI()

	rl.EndDrawing()
}

// clearColor is the window background under the fluid.
func (g *Game) clearColor() rl.Color {
	d := g.sim.Config().Display
	if d.Transparent {
		return rl.Blank
	}
	return rl.Color{R: d.BackColor.R, G: d.BackColor.G, B: d.BackColor.B, A: 255}
}

func (g *Game) drawUI() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	if g.views.IsEnabled(ui.ViewHUD) {
		g.hud.Draw(g.hudData(), screenW)
		g.hud.DrawControls(screenH, controlsLegend)
	}

	if g.views.IsEnabled(ui.ViewPerf) {
		g.perfPanel.SetPosition(screenW-310, 100)
		g.perfPanel.Draw(g.sim.Perf().Stats())
	}

	if next, changed := g.panel.Draw(g.sim.Config()); changed {
		g.applyConfig(next)
	}

	if g.startErr != nil && !g.Running() {
		msg := fmt.Sprintf("fluid effect disabled: %v", g.startErr)
		rl.DrawText(msg, 10, screenH-45, 14, rl.Red)
	}
}

func (g *Game) hudData() ui.HUDData {
	data := ui.HUDData{
		Title:    "Fluid",
		Tick:     g.sim.Ticks(),
		FPS:      rl.GetFPS(),
		Pointers: g.sim.Pointers().Len(),
		Running:  g.Running(),
		Paused:   g.sim.Effective().Display.Paused,
	}
	if m := g.sim.Fields(); m != nil {
		vel, dye := m.Velocity.Read(), m.Dye.Read()
		data.SimW, data.SimH = vel.W, vel.H
		data.DyeW, data.DyeH = dye.W, dye.H
		data.Precision = m.Precision().String()
	}
	return data
}
