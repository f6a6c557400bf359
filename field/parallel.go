package field

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the minimum cell count to split a pass across workers.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64 * 64

// ParallelRows runs fn over [0, h) split into contiguous row chunks and
// returns once every chunk is done. width is only used for the threshold.
func ParallelRows(h, width int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if h*width < parallelThreshold || workers < 2 || h < 2 {
		fn(0, h)
		return
	}
	if workers > h {
		workers = h
	}
	rowsPer := (h + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += rowsPer {
		y1 := y0 + rowsPer
		if y1 > h {
			y1 = h
		}
		y0 := y0
		g.Go(func() error {
			fn(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
