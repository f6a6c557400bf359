package solver

import (
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/telemetry"
)

// Velocity component u of cell x is the flow through the face between x and
// x+1 (v likewise between y and y+1). Faces on the outer walls carry no flow,
// so divergence uses backward differences and the gradient forward ones; the
// pair composes exactly to the 5-point Laplacian that Jacobi relaxes.

// ApplyWalls closes the outer walls of vel in place: u in the last column and
// v in the top row are zeroed. The left and bottom walls have no face of
// their own in this layout.
func ApplyWalls(vel *field.Field) {
	w, h := vel.W, vel.H
	for y := 0; y < h; y++ {
		vel.Data[(y*w+w-1)*2] = 0
	}
	top := (h - 1) * w * 2
	for x := 0; x < w; x++ {
		vel.Data[top+x*2+1] = 0
	}
}

// Divergence writes the net outflow of each cell of vel into div. Wall faces
// count as closed whether or not ApplyWalls ran.
func Divergence(vel, div *field.Field) {
	w, h := vel.W, vel.H
	field.ParallelRows(h, w, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 2
				var uR, uL, vT, vB float32
				if x < w-1 {
					uR = vel.Data[i]
				}
				if x > 0 {
					uL = vel.Data[i-2]
				}
				if y < h-1 {
					vT = vel.Data[i+1]
				}
				if y > 0 {
					vB = vel.Data[i+1-w*2]
				}
				div.Data[y*w+x] = (uR - uL) + (vT - vB)
			}
		}
	})
	div.Quantize()
}

// RetainPressure carries last frame's pressure into this frame scaled by
// factor, then swaps. factor 0 restarts the solve from zero.
func RetainPressure(p *field.Pair, factor float32) {
	dst := p.Write()
	dst.CopyFrom(p.Read())
	dst.Scale(factor)
	p.Swap()
}

// Jacobi runs iterations relaxation sweeps of laplacian(p) = div over the
// pressure pair. Neighbors outside the grid mirror the edge cell.
func Jacobi(p *field.Pair, div *field.Field, iterations int) {
	w, h := div.W, div.H
	for it := 0; it < iterations; it++ {
		src, dst := p.Read(), p.Write()
		field.ParallelRows(h, w, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					sum := src.At(x-1, y, 0) + src.At(x+1, y, 0) + src.At(x, y-1, 0) + src.At(x, y+1, 0)
					dst.Data[y*w+x] = (sum - div.Data[y*w+x]) * 0.25
				}
			}
		})
		p.Swap()
	}
}

// SubtractGradient removes the pressure gradient from vel, then swaps.
// Wall faces are closed with ApplyWalls.
func SubtractGradient(vel *field.Pair, pressure *field.Field) {
	src, dst := vel.Read(), vel.Write()
	w, h := src.W, src.H
	pd := pressure.Data
	field.ParallelRows(h, w, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 2
				c := y*w + x
				u, v := src.Data[i], src.Data[i+1]
				if x < w-1 {
					u -= pd[c+1] - pd[c]
				}
				if y < h-1 {
					v -= pd[c+w] - pd[c]
				}
				dst.Data[i] = u
				dst.Data[i+1] = v
			}
		}
	})
	ApplyWalls(dst)
	vel.Swap()
}

// Project makes vel approximately divergence free: walls, divergence,
// warm-started Jacobi pressure solve, gradient subtraction.
func Project(vel, pressure *field.Pair, div *field.Field, retain float32, iterations int, tr Tracer) {
	phase(tr, telemetry.PhaseDivergence)
	ApplyWalls(vel.Read())
	Divergence(vel.Read(), div)

	phase(tr, telemetry.PhasePressure)
	RetainPressure(pressure, retain)
	Jacobi(pressure, div, iterations)

	phase(tr, telemetry.PhaseGradient)
	SubtractGradient(vel, pressure.Read())
}
