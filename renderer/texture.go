package renderer

import (
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/field"
)

// gridTexture mirrors one field on the GPU. With float set it holds the raw
// float32 values; otherwise values are clamped to [0, 1] and packed into
// 8-bit RGBA.
type gridTexture struct {
	tex         rl.Texture2D
	w, h, comps int
	float       bool
	loaded      bool
	pixels      []color.RGBA
}

// upload copies f into the texture, reallocating it when the grid size
// changed. It reports whether the texture is usable.
func (g *gridTexture) upload(f *field.Field) bool {
	if !g.loaded || f.W != g.w || f.H != g.h || f.Comps != g.comps {
		g.reload(f.W, f.H, f.Comps)
	}
	if !rl.IsTextureValid(g.tex) {
		return false
	}
	if g.float {
		// A float32 and a color.RGBA are both four bytes; raylib reads the
		// buffer in the texture's own format.
		rl.UpdateTexture(g.tex, unsafe.Slice((*color.RGBA)(unsafe.Pointer(&f.Data[0])), len(f.Data)))
		return true
	}
	packRGBA(g.pixels, f)
	rl.UpdateTexture(g.tex, g.pixels)
	return true
}

func (g *gridTexture) reload(w, h, comps int) {
	g.unload()
	format, ok := floatFormat(comps)
	if g.float && ok {
		img := rl.NewImage(make([]byte, w*h*comps*4), int32(w), int32(h), 1, format)
		g.tex = rl.LoadTextureFromImage(img)
	} else {
		g.float = false
		img := rl.GenImageColor(w, h, rl.Black)
		g.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		g.pixels = make([]color.RGBA, w*h)
	}
	rl.SetTextureFilter(g.tex, rl.FilterBilinear)
	rl.SetTextureWrap(g.tex, rl.WrapClamp)
	g.w, g.h, g.comps = w, h, comps
	g.loaded = true
}

func (g *gridTexture) unload() {
	if !g.loaded {
		return
	}
	rl.UnloadTexture(g.tex)
	g.pixels = nil
	g.loaded = false
}

// floatFormat returns the 32-bit float pixel format holding comps channels.
func floatFormat(comps int) (rl.PixelFormat, bool) {
	switch comps {
	case 1:
		return rl.UncompressedR32, true
	case 3:
		return rl.UncompressedR32g32b32, true
	case 4:
		return rl.UncompressedR32g32b32a32, true
	}
	return 0, false
}

// packRGBA converts f into 8-bit pixels. Single-channel fields are spread
// over red, green and blue.
func packRGBA(dst []color.RGBA, f *field.Field) {
	n := f.Comps
	for i := range dst {
		base := i * n
		r := toByte(f.Data[base])
		g, b := r, r
		if n >= 3 {
			g = toByte(f.Data[base+1])
			b = toByte(f.Data[base+2])
		} else if n == 2 {
			g, b = toByte(f.Data[base+1]), 0
		}
		dst[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
