package post

import "github.com/pthm-cable/fluid/field"

// Radial march parameters.
const (
	sunraysSteps    = 16
	sunraysDensity  = 0.3
	sunraysDecay    = 0.95
	sunraysExposure = 0.7
)

// Sunrays renders light shafts from the screen center that are occluded by
// dense dye. temp must match dst in size; it holds the occlusion mask and
// then the horizontal blur.
func Sunrays(dye, dst, temp *field.Field, weight float32) {
	Mask(dye, temp)
	march(temp, dst, weight)
	Blur(dst, temp)
}

// Mask writes 1 where dye is clear, falling to 0.2 where it is dense.
func Mask(dye, dst *field.Field) {
	w, h := dst.W, dst.H
	field.ParallelRows(h, w, func(y0, y1 int) {
		c := make([]float32, dye.Comps)
		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				dye.SampleUV((float32(x)+0.5)/float32(w), v, c)
				br := max(c[0], c[1], c[2])
				dst.Data[y*w+x] = 1 - clampFloat(br*20, 0, 0.8)
			}
		}
	})
	dst.Quantize()
}

func march(mask, dst *field.Field, weight float32) {
	w, h := dst.W, dst.H
	field.ParallelRows(h, w, func(y0, y1 int) {
		s := make([]float32, 1)
		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				du := (u - 0.5) * sunraysDensity / sunraysSteps
				dv := (v - 0.5) * sunraysDensity / sunraysSteps

				mask.SampleUV(u, v, s)
				color := s[0]
				decay := float32(1)
				cu, cv := u, v
				for i := 0; i < sunraysSteps; i++ {
					cu -= du
					cv -= dv
					mask.SampleUV(cu, cv, s)
					color += s[0] * decay * weight
					decay *= sunraysDecay
				}
				dst.Data[y*w+x] = color * sunraysExposure
			}
		}
	})
	dst.Quantize()
}

// Blur applies a separable 5-tap gaussian to f, using temp for the
// horizontal pass.
func Blur(f, temp *field.Field) {
	blurPass(f, temp, 1, 0)
	blurPass(temp, f, 0, 1)
}

func blurPass(src, dst *field.Field, ox, oy float32) {
	const offset, center, side = 1.33333333, 0.29411764, 0.35294117
	w, h, n := dst.W, dst.H, dst.Comps
	field.ParallelRows(h, w, func(y0, y1 int) {
		a := make([]float32, n)
		b := make([]float32, n)
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				px, py := float32(x), float32(y)
				src.Sample(px-ox*offset, py-oy*offset, a)
				src.Sample(px+ox*offset, py+oy*offset, b)
				i := (y*w + x) * n
				for c := 0; c < n; c++ {
					dst.Data[i+c] = src.Data[i+c]*center + (a[c]+b[c])*side
				}
			}
		}
	})
	dst.Quantize()
}
