// Package renderer presents the fluid in a raylib window and turns raylib
// mouse and touch input into pointer events.
package renderer

import (
	_ "embed"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/sim"
)

//go:embed shaders/display.fs
var displayShader string

// Surface is a sim.Surface backed by the raylib window. The dye, bloom and
// sunrays grids are uploaded as textures each frame and the display shader
// composites them full screen with premultiplied alpha. Present must be
// called between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	shader rl.Shader
	locs   shaderLocs
	ready  bool

	dye, bloom, sunrays gridTexture

	caps   field.Capabilities
	probed bool
	logger *slog.Logger
}

type shaderLocs struct {
	resolution, dither          int32
	shading, bloomOn, sunraysOn int32
	transparent, backColor      int32
	bloomTex, sunraysTex        int32
}

// NewSurface creates a surface for the current window. Call after rl.InitWindow.
func NewSurface(logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{logger: logger}
}

// Size implements sim.Surface.
func (s *Surface) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Capabilities implements sim.Surface. The probe runs once.
func (s *Surface) Capabilities() field.Capabilities {
	if s.probed {
		return s.caps
	}
	float := probeFormat(rl.UncompressedR32g32b32a32)
	// raylib exposes no 16-bit float pixel format; GL 3.3 contexts that
	// sample 32-bit float textures also sample and filter half floats.
	s.caps = field.Capabilities{
		FloatTextures:     float,
		HalfFloatTextures: float,
		LinearFiltering:   float,
	}
	s.probed = true
	s.logger.Info("graphics capabilities",
		"float", s.caps.FloatTextures,
		"half_float", s.caps.HalfFloatTextures,
		"linear_filtering", s.caps.LinearFiltering,
	)
	return s.caps
}

// probeFormat reports whether a texture in format can be created.
func probeFormat(format rl.PixelFormat) bool {
	img := rl.GenImageColor(4, 4, rl.Blank)
	defer rl.UnloadImage(img)
	rl.ImageFormat(img, format)
	tex := rl.LoadTextureFromImage(img)
	if !rl.IsTextureValid(tex) {
		return false
	}
	rl.UnloadTexture(tex)
	return true
}

// Init implements sim.Surface. On failure nothing is left loaded.
func (s *Surface) Init() error {
	if s.ready {
		return nil
	}
	if !rl.IsWindowReady() {
		return fmt.Errorf("%w: no window", sim.ErrProgramLink)
	}

	s.shader = rl.LoadShaderFromMemory("", displayShader)
	if !rl.IsShaderValid(s.shader) {
		return fmt.Errorf("%w: display shader", sim.ErrProgramLink)
	}
	loc := func(name string) int32 { return rl.GetShaderLocation(s.shader, name) }
	s.locs = shaderLocs{
		resolution:  loc("resolution"),
		dither:      loc("dither"),
		shading:     loc("shading"),
		bloomOn:     loc("bloomOn"),
		sunraysOn:   loc("sunraysOn"),
		transparent: loc("transparent"),
		backColor:   loc("backColor"),
		bloomTex:    loc("bloomTex"),
		sunraysTex:  loc("sunraysTex"),
	}
	if s.locs.resolution < 0 || s.locs.dither < 0 || s.locs.bloomOn < 0 {
		rl.UnloadShader(s.shader)
		return fmt.Errorf("%w: missing uniforms", sim.ErrProgramLink)
	}
	rl.SetShaderValue(s.shader, s.locs.dither, []float32{1}, rl.ShaderUniformFloat)

	float := s.Capabilities().FloatTextures
	s.dye.float, s.bloom.float, s.sunrays.float = float, float, float
	s.ready = true
	return nil
}

// Present implements sim.Surface.
func (s *Surface) Present(f sim.Frame) error {
	if !s.ready || !rl.IsWindowReady() {
		return sim.ErrContextLost
	}
	if !s.dye.upload(f.Dye) {
		return sim.ErrContextLost
	}
	bloomOn := f.Bloom != nil && s.bloom.upload(f.Bloom)
	sunraysOn := f.Sunrays != nil && s.sunrays.upload(f.Sunrays)

	d := f.Config.Display
	backR, backG, backB := d.BackColor.Normalized()
	sw, sh := s.Size()

	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	rl.BeginShaderMode(s.shader)
	rl.SetShaderValue(s.shader, s.locs.resolution, []float32{float32(sw), float32(sh)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(s.shader, s.locs.shading, []float32{flag(d.Shading)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.locs.transparent, []float32{flag(d.Transparent)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.locs.backColor, []float32{backR, backG, backB}, rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.locs.bloomOn, []float32{flag(bloomOn)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(s.shader, s.locs.sunraysOn, []float32{flag(sunraysOn)}, rl.ShaderUniformFloat)
	if bloomOn {
		rl.SetShaderValueTexture(s.shader, s.locs.bloomTex, s.bloom.tex)
	}
	if sunraysOn {
		rl.SetShaderValueTexture(s.shader, s.locs.sunraysTex, s.sunrays.tex)
	}
	rl.DrawTexturePro(s.dye.tex,
		rl.Rectangle{Width: float32(s.dye.w), Height: float32(s.dye.h)},
		rl.Rectangle{Width: float32(sw), Height: float32(sh)},
		rl.Vector2{}, 0, rl.White,
	)
	rl.EndShaderMode()
	rl.EndBlendMode()
	return nil
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Release implements sim.Surface. It is safe to call more than once.
func (s *Surface) Release() {
	s.dye.unload()
	s.bloom.unload()
	s.sunrays.unload()
	if s.ready {
		rl.UnloadShader(s.shader)
		s.ready = false
	}
}
