package pointer

import (
	"math/rand"
	"sync"
)

// Injector tracks active pointers and converts their motion into splats.
// Event methods may be called from any goroutine; Drain is called once per
// simulation tick.
type Injector struct {
	mu       sync.Mutex
	pointers map[int]*Pointer
	rng      *rand.Rand

	viewW, viewH int
	colorTimer   float64
}

// NewInjector creates an injector for a viewport of the given pixel size.
func NewInjector(viewW, viewH int, rng *rand.Rand) *Injector {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Injector{
		pointers: make(map[int]*Pointer),
		rng:      rng,
		viewW:    viewW,
		viewH:    viewH,
	}
}

// SetViewport updates the pixel size used to normalize positions.
func (in *Injector) SetViewport(w, h int) {
	in.mu.Lock()
	in.viewW, in.viewH = w, h
	in.mu.Unlock()
}

// Viewport returns the current viewport size.
func (in *Injector) Viewport() (int, int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.viewW, in.viewH
}

// Down starts tracking pointer id at pixel position (x, y) with a fresh color.
func (in *Injector) Down(id int, x, y float32) {
	in.mu.Lock()
	defer in.mu.Unlock()

	tx, ty := TexCoords(x, y, in.viewW, in.viewH)
	p, ok := in.pointers[id]
	if !ok {
		p = &Pointer{ID: id}
		in.pointers[id] = p
	}
	p.Down = true
	p.Moved = false
	p.TexX, p.TexY = tx, ty
	p.PrevTexX, p.PrevTexY = tx, ty
	p.DeltaX, p.DeltaY = 0, 0
	p.Color = GenerateColor(in.rng)
}

// Move records the latest position of pointer id. Moves between ticks
// collapse: only the delta from the previous event to this one is kept.
// A move for an unknown id (a hovering mouse) starts tracking it.
func (in *Injector) Move(id int, x, y float32) {
	in.mu.Lock()
	defer in.mu.Unlock()

	tx, ty := TexCoords(x, y, in.viewW, in.viewH)
	p, ok := in.pointers[id]
	if !ok {
		in.pointers[id] = &Pointer{
			ID:   id,
			TexX: tx, TexY: ty,
			PrevTexX: tx, PrevTexY: ty,
			Color: GenerateColor(in.rng),
		}
		return
	}

	p.PrevTexX, p.PrevTexY = p.TexX, p.TexY
	p.TexX, p.TexY = tx, ty
	p.DeltaX, p.DeltaY = correctDelta(p.TexX-p.PrevTexX, p.TexY-p.PrevTexY, in.aspect())
	p.Moved = p.DeltaX != 0 || p.DeltaY != 0
}

// Up stops tracking pointer id.
func (in *Injector) Up(id int) { in.remove(id) }

// Cancel stops tracking pointer id after the host aborted the gesture.
func (in *Injector) Cancel(id int) { in.remove(id) }

// Leave stops tracking pointer id after it left the surface.
func (in *Injector) Leave(id int) { in.remove(id) }

func (in *Injector) remove(id int) {
	in.mu.Lock()
	delete(in.pointers, id)
	in.mu.Unlock()
}

// Len returns the number of tracked pointers.
func (in *Injector) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.pointers)
}

// Get returns a copy of pointer id's state.
func (in *Injector) Get(id int) (Pointer, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	p, ok := in.pointers[id]
	if !ok {
		return Pointer{}, false
	}
	return *p, true
}

// Drain returns one splat per pointer that moved since the last drain and
// clears the moved flags. force scales the pointer delta into velocity.
func (in *Injector) Drain(force float32) []Splat {
	in.mu.Lock()
	defer in.mu.Unlock()

	var splats []Splat
	for _, p := range in.pointers {
		if !p.Moved {
			continue
		}
		p.Moved = false
		splats = append(splats, Splat{
			PointerID: p.ID,
			X:         p.TexX,
			Y:         p.TexY,
			DX:        p.DeltaX * force,
			DY:        p.DeltaY * force,
			Color:     p.Color,
		})
	}
	return splats
}

// UpdateColors advances the colorful-mode timer by dt seconds and gives every
// pointer a new color each time speed*dt accumulates past one.
func (in *Injector) UpdateColors(dt, speed float64) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.colorTimer += dt * speed
	if in.colorTimer < 1 {
		return
	}
	for in.colorTimer >= 1 {
		in.colorTimer--
	}
	for _, p := range in.pointers {
		p.Color = GenerateColor(in.rng)
	}
}

func (in *Injector) aspect() float32 {
	if in.viewH <= 0 {
		return 1
	}
	return float32(in.viewW) / float32(in.viewH)
}
