package solver

import (
	"math"

	"github.com/pthm-cable/fluid/field"
)

// maxVelocity bounds the confinement output so a spike cannot blow up the grid.
const maxVelocity = 1000

// Curl writes the scalar curl of vel into curl using central differences.
func Curl(vel, curl *field.Field) {
	w, h := vel.W, vel.H
	field.ParallelRows(h, w, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				vL := vel.At(x-1, y, 1)
				vR := vel.At(x+1, y, 1)
				uT := vel.At(x, y+1, 0)
				uB := vel.At(x, y-1, 0)
				curl.Data[y*w+x] = 0.5 * (vR - vL - uT + uB)
			}
		}
	})
	curl.Quantize()
}

// Vorticity adds the confinement force, perpendicular to the gradient of
// |curl| and scaled by strength, into vel over dt seconds, then swaps.
func Vorticity(vel *field.Pair, curl *field.Field, strength, dt float32) {
	src, dst := vel.Read(), vel.Write()
	w, h := src.W, src.H
	field.ParallelRows(h, w, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				cL := abs32(curl.At(x-1, y, 0))
				cR := abs32(curl.At(x+1, y, 0))
				cT := abs32(curl.At(x, y+1, 0))
				cB := abs32(curl.At(x, y-1, 0))
				c := curl.Data[y*w+x]

				fx := 0.5 * (cT - cB)
				fy := 0.5 * (cR - cL)
				l := float32(math.Sqrt(float64(fx*fx+fy*fy))) + 1e-4
				fx = fx / l * strength * c
				fy = -fy / l * strength * c

				i := (y*w + x) * 2
				dst.Data[i] = clampFloat(src.Data[i]+fx*dt, -maxVelocity, maxVelocity)
				dst.Data[i+1] = clampFloat(src.Data[i+1]+fy*dt, -maxVelocity, maxVelocity)
			}
		}
	})
	vel.Swap()
}
