// Package pointer turns raw pointer, mouse and touch events into splats.
package pointer

import (
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// MouseID is the pointer id used for the mouse cursor.
const MouseID = -1

// colorScale dims generated colors so overlapping splats do not saturate.
const colorScale = 0.15

// RGB is a linear color in [0,1] per channel, before scaling.
type RGB struct {
	R, G, B float32
}

// Pointer is the latest state of one input device contact.
type Pointer struct {
	ID int

	// Texture coordinates: x right, y up, both in [0,1].
	TexX, TexY         float32
	PrevTexX, PrevTexY float32
	DeltaX, DeltaY     float32

	Down  bool
	Moved bool
	Color RGB
}

// Splat is one additive force and color injection centered at (X, Y) in
// texture coordinates.
type Splat struct {
	PointerID int
	X, Y      float32
	DX, DY    float32
	Color     RGB
}

// GenerateColor returns a fully saturated color with a random hue, dimmed
// for additive blending.
func GenerateColor(rng *rand.Rand) RGB {
	c := colorful.Hsv(rng.Float64()*360, 1, 1)
	return RGB{
		R: float32(c.R) * colorScale,
		G: float32(c.G) * colorScale,
		B: float32(c.B) * colorScale,
	}
}

// TexCoords converts a viewport pixel position (origin top-left) into
// texture coordinates (origin bottom-left).
func TexCoords(x, y float32, viewW, viewH int) (float32, float32) {
	if viewW <= 0 || viewH <= 0 {
		return 0, 0
	}
	return x / float32(viewW), 1 - y/float32(viewH)
}

// correctDelta scales a texture-space delta so both axes share the short
// side's unit.
func correctDelta(dx, dy, aspect float32) (float32, float32) {
	if aspect < 1 {
		dx *= aspect
	}
	if aspect > 1 {
		dy /= aspect
	}
	return dx, dy
}
