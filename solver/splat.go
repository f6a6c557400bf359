// Package solver implements the fluid stages: splat injection, curl,
// vorticity confinement, pressure projection and advection.
package solver

import (
	"math"

	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/pointer"
)

// SplatRadius converts a radius given in percent of the short side into the
// gaussian width used in texture space. Wide viewports widen it so the splat
// stays round on screen.
func SplatRadius(percent float64, aspect float32) float32 {
	r := float32(percent / 100)
	if aspect > 1 {
		r *= aspect
	}
	return r
}

// splatCutoff is -ln of the smallest weight a splat still writes.
var splatCutoff = math.Log(1e4)

// Splat adds value weighted by exp(-d^2/radius) around texture coordinates
// (x, y) into p, then swaps. Distances along x are scaled by aspect so the
// falloff is circular in screen space. Only cells where the weight is above
// 1e-4 are evaluated; the rest are copied unchanged.
func Splat(p *field.Pair, x, y float32, value []float32, radius, aspect float32) {
	src, dst := p.Read(), p.Write()
	w, h, n := src.W, src.H, src.Comps
	invRadius := 1 / float64(radius)

	dst.CopyFrom(src)

	reach := float32(math.Sqrt(float64(radius) * splatCutoff))
	reachX := reach
	if aspect > 0 {
		reachX = reach / aspect
	}
	x0, x1 := cellSpan(x, reachX, w)
	y0, y1 := cellSpan(y, reach, h)
	if x0 > x1 || y0 > y1 {
		p.Swap()
		return
	}

	field.ParallelRows(y1-y0+1, (x1-x0+1)*n, func(r0, r1 int) {
		for cy := y0 + r0; cy < y0+r1; cy++ {
			dy := (float32(cy)+0.5)/float32(h) - y
			for cx := x0; cx <= x1; cx++ {
				dx := ((float32(cx)+0.5)/float32(w) - x) * aspect
				weight := float32(math.Exp(-float64(dx*dx+dy*dy) * invRadius))
				i := (cy*w + cx) * n
				for c := 0; c < n; c++ {
					dst.Data[i+c] += value[c] * weight
				}
			}
		}
	})
	p.Swap()
}

// cellSpan returns the inclusive range of cells of an n-cell axis whose
// centers lie within reach of the texture coordinate t. The range is empty
// (lo > hi) when it misses the grid.
func cellSpan(t, reach float32, n int) (lo, hi int) {
	lo = int(math.Floor(float64((t-reach)*float32(n) - 0.5)))
	hi = int(math.Ceil(float64((t+reach)*float32(n) - 0.5)))
	return max(lo, 0), min(hi, n-1)
}

// ApplySplats injects each splat's force into velocity and color into dye.
func ApplySplats(m *field.Manager, splats []pointer.Splat, radiusPercent float64, aspect float32) {
	radius := SplatRadius(radiusPercent, aspect)
	for _, s := range splats {
		Splat(m.Velocity, s.X, s.Y, []float32{s.DX, s.DY}, radius, aspect)
		Splat(m.Dye, s.X, s.Y, []float32{s.Color.R, s.Color.G, s.Color.B}, radius, aspect)
	}
}
