package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestCollectorFlushesBySimTime(t *testing.T) {
	c := NewCollector(1.0)

	if c.ShouldFlush(0.5) {
		t.Error("expected no flush before window elapses")
	}
	if !c.ShouldFlush(1.0) {
		t.Error("expected flush once window elapses")
	}

	c.RecordSplats(3)
	c.RecordSplats(2)
	c.RecordResize()
	c.RecordRestart()

	stats := c.Flush(60, 1.0, FieldSample{ActivePointers: 2, DyeMax: 0.5, Precision: "float32"})
	if stats.Splats != 5 {
		t.Errorf("expected 5 splats, got %d", stats.Splats)
	}
	if stats.Resizes != 1 || stats.Restarts != 1 {
		t.Errorf("expected 1 resize and 1 restart, got %d and %d", stats.Resizes, stats.Restarts)
	}
	if stats.ActivePointers != 2 || stats.DyeMax != 0.5 || stats.Precision != "float32" {
		t.Errorf("expected sample copied into stats, got %+v", stats)
	}
	if stats.WindowStartTick != 0 || stats.WindowEndTick != 60 {
		t.Errorf("expected window 0..60, got %d..%d", stats.WindowStartTick, stats.WindowEndTick)
	}

	// Counters reset and the window restarts at the flush time
	if c.ShouldFlush(1.5) {
		t.Error("expected new window to start at last flush")
	}
	next := c.Flush(120, 2.0, FieldSample{})
	if next.Splats != 0 || next.Resizes != 0 || next.WindowStartTick != 60 {
		t.Errorf("expected reset counters, got %+v", next)
	}
}

func TestNewCollectorDefaultsWindow(t *testing.T) {
	if d := NewCollector(0).WindowDuration(); d != 5 {
		t.Errorf("expected default window of 5s, got %v", d)
	}
}
