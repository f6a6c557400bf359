package sim

import (
	"errors"
	"image"
	"sync"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/post"
)

var (
	// ErrContextLost is returned by Surface.Present when the graphics
	// context went away. The simulation tears down and reinitializes.
	ErrContextLost = errors.New("graphics context lost")
	// ErrProgramLink is returned by Surface.Init when the display program
	// cannot be built. The effect is disabled; the host keeps running.
	ErrProgramLink = errors.New("display program link failed")
	// ErrRunning is returned by Start on a running simulation.
	ErrRunning = errors.New("simulation already running")
)

// Frame is what a tick hands to the surface: the grids to display and the
// settings that combine them. The grids belong to the simulation and are only
// valid during Present.
type Frame struct {
	Width, Height int
	Dye           *field.Field
	Bloom         *field.Field // nil when bloom is off
	Sunrays       *field.Field // nil when sunrays are off
	Config        config.Config
}

// Composite renders f on the CPU into dst and returns it. dst is reallocated
// when nil or of the wrong size.
func (f Frame) Composite(dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Bounds().Dx() != f.Width || dst.Bounds().Dy() != f.Height {
		dst = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	}
	post.Composite(dst, f.Dye, f.Bloom, f.Sunrays, f.Config)
	return dst
}

// Surface is the visible output the simulation presents frames to.
type Surface interface {
	// Size returns the current viewport in pixels.
	Size() (w, h int)
	// Capabilities reports the numeric formats the backend supports.
	Capabilities() field.Capabilities
	// Init builds the display program. It is called again after Release
	// when the simulation restarts.
	Init() error
	// Present composites f and shows it with premultiplied alpha.
	Present(f Frame) error
	// Release frees the display program and textures.
	Release()
}

// HeadlessSurface is an in-memory Surface. Headless runs present to it and
// tests use it to inject failures.
type HeadlessSurface struct {
	mu   sync.Mutex
	w, h int
	caps field.Capabilities

	initErr  error
	lost     bool
	ready    bool
	last     *image.RGBA
	presents int
	inits    int
	releases int
}

// NewHeadlessSurface creates a surface of w x h pixels with the given capabilities.
func NewHeadlessSurface(w, h int, caps field.Capabilities) *HeadlessSurface {
	return &HeadlessSurface{w: w, h: h, caps: caps}
}

// Size implements Surface.
func (s *HeadlessSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

// Capabilities implements Surface.
func (s *HeadlessSurface) Capabilities() field.Capabilities { return s.caps }

// Init implements Surface.
func (s *HeadlessSurface) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inits++
	if s.initErr != nil {
		return s.initErr
	}
	s.ready = true
	s.lost = false
	return nil
}

// Present implements Surface. The frame is composited on the CPU.
func (s *HeadlessSurface) Present(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lost || !s.ready {
		return ErrContextLost
	}
	s.last = f.Composite(s.last)
	s.presents++
	return nil
}

// Release implements Surface.
func (s *HeadlessSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	s.releases++
}

// Resize changes the reported viewport.
func (s *HeadlessSurface) Resize(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
}

// FailInit makes every later Init return err. nil clears it.
func (s *HeadlessSurface) FailInit(err error) {
	s.mu.Lock()
	s.initErr = err
	s.mu.Unlock()
}

// LoseContext makes Present fail until the next Init.
func (s *HeadlessSurface) LoseContext() {
	s.mu.Lock()
	s.lost = true
	s.mu.Unlock()
}

// LastFrame returns a copy of the last presented frame, or nil.
func (s *HeadlessSurface) LastFrame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	out := image.NewRGBA(s.last.Bounds())
	copy(out.Pix, s.last.Pix)
	return out
}

// Presents returns how many frames were presented.
func (s *HeadlessSurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Inits returns how many times Init was called.
func (s *HeadlessSurface) Inits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits
}

// Releases returns how many times Release was called.
func (s *HeadlessSurface) Releases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}
