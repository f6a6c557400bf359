package solver

import (
	"testing"

	"github.com/pthm-cable/fluid/field"
)

// Benchmark a default-radius splat into a 1820x1024 dye grid
func BenchmarkSplatDye(b *testing.B) {
	p := field.NewPair(1820, 1024, 3, field.Float32)
	color := []float32{0.1, 0.05, 0.15}
	radius := SplatRadius(0.3, 16.0/9)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Splat(p, 0.5, 0.5, color, radius, 16.0/9)
	}
}
