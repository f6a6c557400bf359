// Package post implements the display-side passes: bloom, sunrays and the
// final composite into an RGBA image.
package post

import (
	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
)

// Bloom extracts the parts of dye brighter than the threshold, blurs them
// down and back up the mip chain and writes the result scaled by intensity
// into dst. With fewer than two mips there is nothing to blur and dst is
// cleared.
func Bloom(dye, dst *field.Field, mips []*field.Field, cfg config.BloomConfig) {
	if len(mips) < 2 {
		dst.Clear()
		return
	}

	Prefilter(dye, dst, float32(cfg.Threshold), float32(cfg.SoftKnee))

	last := dst
	for _, mip := range mips {
		box(last, mip, false, 1)
		last = mip
	}
	for i := len(mips) - 2; i >= 0; i-- {
		box(last, mips[i], true, 1)
		last = mips[i]
	}
	box(last, dst, false, float32(cfg.Intensity))
}

// Prefilter writes the components of src above threshold into dst, with a
// quadratic soft knee around the threshold.
func Prefilter(src, dst *field.Field, threshold, softKnee float32) {
	knee := threshold*softKnee + 1e-4
	curve0 := threshold - knee
	curve1 := knee * 2
	curve2 := 0.25 / knee

	w, h := dst.W, dst.H
	field.ParallelRows(h, w, func(y0, y1 int) {
		c := make([]float32, src.Comps)
		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				src.SampleUV((float32(x)+0.5)/float32(w), v, c)
				br := max(c[0], c[1], c[2])
				rq := clampFloat(br-curve0, 0, curve1)
				rq = curve2 * rq * rq
				k := max(rq, br-threshold) / max(br, 1e-4)
				i := (y*w + x) * dst.Comps
				for ch := 0; ch < dst.Comps; ch++ {
					dst.Data[i+ch] = c[ch] * k
				}
			}
		}
	})
	dst.Quantize()
}

// box resamples src into dst by averaging four bilinear taps one source
// texel away from each destination cell center. With add set the result is
// accumulated into dst instead of replacing it.
func box(src, dst *field.Field, add bool, scale float32) {
	w, h, n := dst.W, dst.H, dst.Comps
	rx := float32(src.W) / float32(w)
	ry := float32(src.H) / float32(h)
	field.ParallelRows(h, w, func(y0, y1 int) {
		tap := make([]float32, n)
		sum := make([]float32, n)
		for y := y0; y < y1; y++ {
			sy := (float32(y)+0.5)*ry - 0.5
			for x := 0; x < w; x++ {
				sx := (float32(x)+0.5)*rx - 0.5
				for c := range sum {
					sum[c] = 0
				}
				for _, o := range [4][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
					src.Sample(sx+o[0], sy+o[1], tap)
					for c := range sum {
						sum[c] += tap[c]
					}
				}
				i := (y*w + x) * n
				for c := 0; c < n; c++ {
					v := sum[c] * 0.25 * scale
					if add {
						dst.Data[i+c] += v
					} else {
						dst.Data[i+c] = v
					}
				}
			}
		}
	})
	dst.Quantize()
}
