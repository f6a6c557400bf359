// Wanderer preview tool - interactive view of the synthetic pointer paths
// used by headless runs and the idle demo.
//
// Usage: go run ./cmd/wanderpreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/pointer"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	trailLength  = 240
)

// PreviewParams holds the wanderer settings being previewed.
type PreviewParams struct {
	Count int
	Speed float32
	Seed  int64
}

func defaultParams() PreviewParams {
	return PreviewParams{Count: 2, Speed: 0.35, Seed: 42}
}

// trail is a fixed-size ring of recent positions.
type trail struct {
	points []rl.Vector2
	next   int
	full   bool
}

func (t *trail) add(p rl.Vector2) {
	if t.points == nil {
		t.points = make([]rl.Vector2, trailLength)
	}
	t.points[t.next] = p
	t.next = (t.next + 1) % trailLength
	if t.next == 0 {
		t.full = true
	}
}

// ordered returns the stored positions oldest first.
func (t *trail) ordered() []rl.Vector2 {
	if !t.full {
		return t.points[:t.next]
	}
	return append(append([]rl.Vector2{}, t.points[t.next:]...), t.points[:t.next]...)
}

type preview struct {
	params    PreviewParams
	in        *pointer.Injector
	wanderers []*pointer.Wanderer
	trails    []trail
}

func newPreview(params PreviewParams) *preview {
	p := &preview{
		params: params,
		in:     pointer.NewInjector(previewSize, previewSize, rand.New(rand.NewSource(params.Seed))),
	}
	for i := 0; i < params.Count; i++ {
		p.wanderers = append(p.wanderers, pointer.NewWanderer(params.Seed+int64(i), pointer.MouseID-1-i, float64(params.Speed)))
	}
	p.trails = make([]trail, params.Count)
	return p
}

func (p *preview) step(dt float32) {
	for i, w := range p.wanderers {
		w.Step(p.in, float64(dt))
		if ptr, ok := p.in.Get(w.ID()); ok {
			p.trails[i].add(rl.Vector2{X: ptr.TexX * previewSize, Y: (1 - ptr.TexY) * previewSize})
		}
	}
	// Splats are not simulated here; drain to reset the moved flags.
	p.in.Drain(0)
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Wanderer Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams()
	pv := newPreview(params)
	animating := true

	for !rl.WindowShouldClose() {
		if animating {
			pv.step(rl.GetFrameTime())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.Black)
		for i, tr := range pv.trails {
			ptr, ok := pv.in.Get(pv.wanderers[i].ID())
			if !ok {
				continue
			}
			col := rl.Color{R: brighten(ptr.Color.R), G: brighten(ptr.Color.G), B: brighten(ptr.Color.B), A: 255}
			pts := tr.ordered()
			for j := 1; j < len(pts); j++ {
				rl.DrawLineV(rl.Vector2{X: pts[j-1].X + 10, Y: pts[j-1].Y + 10}, rl.Vector2{X: pts[j].X + 10, Y: pts[j].Y + 10}, col)
			}
			if len(pts) > 0 {
				last := pts[len(pts)-1]
				rl.DrawCircleV(rl.Vector2{X: last.X + 10, Y: last.Y + 10}, 5, col)
			}
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Wanderer Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Count slider
		rl.DrawText("Count (synthetic pointers)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "6",
			float32(params.Count), 1, 6,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Count), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newCount) != params.Count {
			params.Count = int(newCount)
			pv = newPreview(params)
		}
		panelY += 35

		// Speed slider
		rl.DrawText("Speed (noise units per second)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSpeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.05", "2.0",
			params.Speed, 0.05, 2.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Speed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newSpeed != params.Speed {
			params.Speed = newSpeed
			pv = newPreview(params)
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			pv = newPreview(params)
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			pv = newPreview(params)
		}
		panelY += 55

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(fmt.Sprintf("Run headless with: -wanderers %d -seed %d", params.Count, params.Seed), int32(panelX), int32(panelY), 14, rl.Gray)

		rl.EndDrawing()
	}
}

// brighten maps a dye color channel back to a full-range display byte.
func brighten(v float32) uint8 {
	return uint8(min(v/0.15, 1) * 255)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
