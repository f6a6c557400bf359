package solver

import "github.com/pthm-cable/fluid/field"

// Advect moves the quantity in dst along vel for dt seconds using a
// semi-Lagrangian backtrace, multiplies it by dissipation and swaps.
// dst may have a different resolution from vel; velocity is sampled at the
// matching position and the displacement is rescaled to dst cells. vel may be
// dst.Read() itself.
func Advect(dst *field.Pair, vel *field.Field, dt, dissipation float32) {
	src, out := dst.Read(), dst.Write()
	w, h, n := src.W, src.H, src.Comps
	rx := float32(vel.W) / float32(w)
	ry := float32(vel.H) / float32(h)
	// Velocity is measured in velocity-grid cells per second.
	sx := dt / rx
	sy := dt / ry

	field.ParallelRows(h, w, func(y0, y1 int) {
		uv := make([]float32, 2)
		sample := make([]float32, n)
		for y := y0; y < y1; y++ {
			vy := (float32(y)+0.5)*ry - 0.5
			for x := 0; x < w; x++ {
				vx := (float32(x)+0.5)*rx - 0.5
				vel.Sample(vx, vy, uv)
				src.Sample(float32(x)-uv[0]*sx, float32(y)-uv[1]*sy, sample)
				i := (y*w + x) * n
				for c := 0; c < n; c++ {
					out.Data[i+c] = sample[c] * dissipation
				}
			}
		}
	})
	dst.Swap()
}
