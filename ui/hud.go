package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Tick      int64
	FPS       int32
	Pointers  int
	Precision string
	SimW      int
	SimH      int
	DyeW      int
	DyeH      int
	Running   bool
	Paused    bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD anchored at the top right of the screen.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	x := screenWidth - 260

	rl.DrawText(data.Title, x, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Pointers: %d", data.Tick, data.FPS, data.Pointers),
		x, 35, 14, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Grid %dx%d | Dye %dx%d | %s", data.SimW, data.SimH, data.DyeW, data.DyeH, data.Precision),
		x, 53, 14, rl.LightGray,
	)

	rl.DrawText(statusText(data), x, 71, 14, rl.Yellow)
}

func statusText(data HUDData) string {
	switch {
	case !data.Running:
		return "DISABLED"
	case data.Paused:
		return "PAUSED"
	default:
		return "Running"
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height returns the panel height.
func (p *PerfPanel) Height() int32 {
	t := p.renderer.Theme
	return t.Padding*2 + t.LineHeight*int32(len(telemetry.Phases)+2) + 4
}

// Draw renders the performance panel. Phases over 20% of the frame are
// highlighted.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	t := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := p.x + t.Padding
	y := p.y + t.Padding

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += t.LineHeight + 4
	y = r.DrawLabelValue(x, y, "Tick",
		fmt.Sprintf("avg %s  p90 %s", stats.AvgTickDuration.Round(time.Microsecond), stats.P90TickDuration.Round(time.Microsecond)))

	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase], 20, p.width-t.Padding*2)
	}
}
