// Package field provides the simulation grids: multi-component float32
// buffers, ping-pong pairs, and the manager that sizes them to the viewport.
package field

import (
	"math"

	"github.com/x448/float16"
	"gonum.org/v1/gonum/blas/blas32"
)

// Precision selects how values written into a field are stored.
type Precision uint8

const (
	// Float32 keeps full single precision.
	Float32 Precision = iota
	// Half rounds every committed value through IEEE binary16.
	Half
)

func (p Precision) String() string {
	if p == Half {
		return "half"
	}
	return "float32"
}

// Field is a W x H grid of Comps-component vectors stored row-major.
// Row 0 is the bottom of the viewport (texture convention).
type Field struct {
	W, H, Comps int
	Data        []float32

	precision Precision
	released  bool
}

// New allocates a zeroed field.
func New(w, h, comps int, p Precision) *Field {
	return &Field{
		W: w, H: h, Comps: comps,
		Data:      make([]float32, w*h*comps),
		precision: p,
	}
}

// Precision returns the storage precision.
func (f *Field) Precision() Precision { return f.precision }

// Released reports whether the field's storage has been dropped.
func (f *Field) Released() bool { return f.released }

// Release drops the backing storage. Further use of the field is a bug.
func (f *Field) Release() {
	f.Data = nil
	f.released = true
}

// Index returns the offset of component 0 of cell (x, y).
func (f *Field) Index(x, y int) int {
	return (y*f.W + x) * f.Comps
}

// At returns component c of cell (x, y), clamping coordinates to the edges.
func (f *Field) At(x, y, c int) float32 {
	x = clampInt(x, 0, f.W-1)
	y = clampInt(y, 0, f.H-1)
	return f.Data[(y*f.W+x)*f.Comps+c]
}

// Set writes component c of cell (x, y).
func (f *Field) Set(x, y, c int, v float32) {
	f.Data[(y*f.W+x)*f.Comps+c] = v
}

// SameSize reports whether two fields share dimensions and component count.
func (f *Field) SameSize(o *Field) bool {
	return f.W == o.W && f.H == o.H && f.Comps == o.Comps
}

// Clear zeroes every value.
func (f *Field) Clear() {
	clear(f.Data)
}

// Sample bilinearly interpolates all components at cell coordinates (px, py),
// where (x, y) is the center of cell x, y. Coordinates clamp to the edges.
// out must hold at least Comps values.
func (f *Field) Sample(px, py float32, out []float32) {
	maxX := float32(f.W - 1)
	maxY := float32(f.H - 1)
	if px < 0 {
		px = 0
	} else if px > maxX {
		px = maxX
	}
	if py < 0 {
		py = 0
	} else if py > maxY {
		py = maxY
	}

	x0 := int(px)
	y0 := int(py)
	fx := px - float32(x0)
	fy := py - float32(y0)
	x1 := x0 + 1
	if x1 >= f.W {
		x1 = f.W - 1
	}
	y1 := y0 + 1
	if y1 >= f.H {
		y1 = f.H - 1
	}

	n := f.Comps
	i00 := (y0*f.W + x0) * n
	i10 := (y0*f.W + x1) * n
	i01 := (y1*f.W + x0) * n
	i11 := (y1*f.W + x1) * n
	d := f.Data
	for c := 0; c < n; c++ {
		v0 := d[i00+c] + (d[i10+c]-d[i00+c])*fx
		v1 := d[i01+c] + (d[i11+c]-d[i01+c])*fx
		out[c] = v0 + (v1-v0)*fy
	}
}

// SampleUV samples at normalized texture coordinates (u, v) in [0,1].
func (f *Field) SampleUV(u, v float32, out []float32) {
	f.Sample(u*float32(f.W)-0.5, v*float32(f.H)-0.5, out)
}

// ResampleFrom fills f by bilinearly sampling src over the same normalized
// area. Component counts must match.
func (f *Field) ResampleFrom(src *Field) {
	n := f.Comps
	sx := float32(src.W) / float32(f.W)
	sy := float32(src.H) / float32(f.H)
	ParallelRows(f.H, f.W, func(y0, y1 int) {
		tmp := make([]float32, n)
		for y := y0; y < y1; y++ {
			py := (float32(y)+0.5)*sy - 0.5
			for x := 0; x < f.W; x++ {
				px := (float32(x)+0.5)*sx - 0.5
				src.Sample(px, py, tmp)
				copy(f.Data[(y*f.W+x)*n:], tmp)
			}
		}
	})
	f.Quantize()
}

// CopyFrom copies src into f. Sizes must match.
func (f *Field) CopyFrom(src *Field) {
	blas32.Copy(src.vector(), f.vector())
}

// Scale multiplies every value by s.
func (f *Field) Scale(s float32) {
	blas32.Scal(s, f.vector())
}

// MeanAbs returns the mean absolute value over all components.
func (f *Field) MeanAbs() float32 {
	if len(f.Data) == 0 {
		return 0
	}
	return blas32.Asum(f.vector()) / float32(len(f.Data))
}

// MaxAbs returns the largest absolute value over all components.
func (f *Field) MaxAbs() float32 {
	if len(f.Data) == 0 {
		return 0
	}
	idx := blas32.Iamax(f.vector())
	return float32(math.Abs(float64(f.Data[idx])))
}

// Quantize rounds stored values to the field's precision. No-op for Float32.
func (f *Field) Quantize() {
	if f.precision != Half {
		return
	}
	for i, v := range f.Data {
		f.Data[i] = float16.Fromfloat32(v).Float32()
	}
}

func (f *Field) vector() blas32.Vector {
	return blas32.Vector{N: len(f.Data), Inc: 1, Data: f.Data}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
