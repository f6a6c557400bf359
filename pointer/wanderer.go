package pointer

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Wanderer drives a synthetic pointer along a smooth noise path. Headless
// runs and the idle demo use it in place of a real cursor.
type Wanderer struct {
	noise opensimplex.Noise
	id    int
	speed float64
	t     float64
}

// NewWanderer creates a wanderer that reports as pointer id and traverses
// the noise field at speed units per second.
func NewWanderer(seed int64, id int, speed float64) *Wanderer {
	return &Wanderer{
		noise: opensimplex.NewNormalized(seed),
		id:    id,
		speed: speed,
	}
}

// ID returns the pointer id the wanderer reports as.
func (w *Wanderer) ID() int { return w.id }

// Position returns the current pixel position inside a viewW x viewH viewport.
func (w *Wanderer) Position(viewW, viewH int) (float32, float32) {
	nx := stretch(w.noise.Eval2(w.t, 0))
	ny := stretch(w.noise.Eval2(0, w.t+97.3))
	return float32(nx * float64(viewW)), float32(ny * float64(viewH))
}

// Step advances the path by dt seconds and feeds the new position to in.
func (w *Wanderer) Step(in *Injector, dt float64) {
	w.t += dt * w.speed
	vw, vh := in.Viewport()
	x, y := w.Position(vw, vh)
	in.Move(w.id, x, y)
}

// stretch widens normalized noise, which clusters around 0.5, to cover most
// of [0,1].
func stretch(v float64) float64 {
	v = (v-0.5)*2.2 + 0.5
	if v < 0.02 {
		return 0.02
	}
	if v > 0.98 {
		return 0.98
	}
	return v
}
