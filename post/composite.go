package post

import (
	"image"
	"math"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
)

// Composite renders the visible frame into dst. Dye color is optionally
// shaded by its own gradient, darkened by sunrays and brightened by bloom.
// Alpha is the brightest channel, so pixels without dye stay transparent.
// Pixels are premultiplied; with Display.Transparent unset the background
// color is blended in and alpha is 1.
//
// bloom and sunrays may be nil when their passes are disabled. Field row 0 is
// the bottom of the screen, image row 0 the top.
func Composite(dst *image.RGBA, dye, bloom, sunrays *field.Field, cfg config.Config) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	if !cfg.Bloom.Enabled {
		bloom = nil
	}
	if !cfg.Sunrays.Enabled {
		sunrays = nil
	}
	shading := cfg.Display.Shading
	transparent := cfg.Display.Transparent
	backR, backG, backB := cfg.Display.BackColor.Normalized()

	texelU := 1 / float32(w)
	texelV := 1 / float32(h)
	texelLen := float32(math.Sqrt(float64(texelU*texelU + texelV*texelV)))

	field.ParallelRows(h, w, func(y0, y1 int) {
		c := make([]float32, 3)
		n := make([]float32, 3)
		bl := make([]float32, 3)
		s := make([]float32, 1)
		for py := y0; py < y1; py++ {
			v := 1 - (float32(py)+0.5)/float32(h)
			off := dst.PixOffset(b.Min.X, b.Min.Y+py)
			row := dst.Pix[off : off+w*4]
			for px := 0; px < w; px++ {
				u := (float32(px) + 0.5) / float32(w)
				dye.SampleUV(u, v, c)

				// Shading only scales color, so empty dye skips the four taps.
				if shading && (c[0] != 0 || c[1] != 0 || c[2] != 0) {
					dye.SampleUV(u-texelU, v, n)
					lc := length(n)
					dye.SampleUV(u+texelU, v, n)
					rc := length(n)
					dye.SampleUV(u, v+texelV, n)
					tc := length(n)
					dye.SampleUV(u, v-texelV, n)
					bc := length(n)

					dx, dy, dz := rc-lc, tc-bc, texelLen
					nz := dz / float32(math.Sqrt(float64(dx*dx+dy*dy+dz*dz)))
					diffuse := clampFloat(nz+0.7, 0.7, 1)
					c[0] *= diffuse
					c[1] *= diffuse
					c[2] *= diffuse
				}

				bl[0], bl[1], bl[2] = 0, 0, 0
				if bloom != nil {
					bloom.SampleUV(u, v, bl)
				}
				if sunrays != nil {
					sunrays.SampleUV(u, v, s)
					for i := range c {
						c[i] *= s[0]
						bl[i] *= s[0]
					}
				}
				if bloom != nil {
					for i := range c {
						c[i] += linearToGamma(bl[i])
					}
				}

				for i := range c {
					c[i] = clampFloat(c[i], 0, 1)
				}
				a := max(c[0], c[1], c[2])
				if !transparent {
					c[0] += backR * (1 - a)
					c[1] += backG * (1 - a)
					c[2] += backB * (1 - a)
					a = 1
				}

				o := px * 4
				row[o] = toByte(c[0])
				row[o+1] = toByte(c[1])
				row[o+2] = toByte(c[2])
				row[o+3] = toByte(a)
			}
		}
	})
}

func linearToGamma(c float32) float32 {
	if c <= 0 {
		return 0
	}
	g := 1.055*float32(math.Pow(float64(c), 0.416666667)) - 0.055
	return max(g, 0)
}

func length(c []float32) float32 {
	return float32(math.Sqrt(float64(c[0]*c[0] + c[1]*c[1] + c[2]*c[2])))
}

func toByte(v float32) uint8 {
	return uint8(clampFloat(v, 0, 1)*255 + 0.5)
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
