package telemetry

import (
	"log/slog"
)

// WindowStats holds aggregated fluid statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Input during window
	Splats         int `csv:"splats"`
	ActivePointers int `csv:"active_pointers"`

	// Field magnitudes sampled at window end
	VelocityMean   float64 `csv:"velocity_mean"`
	VelocityMax    float64 `csv:"velocity_max"`
	DivergenceMean float64 `csv:"divergence_mean"` // before projection
	PressureMax    float64 `csv:"pressure_max"`
	DyeMean        float64 `csv:"dye_mean"`
	DyeMax         float64 `csv:"dye_max"`

	// Grid layout
	SimW      int    `csv:"sim_w"`
	SimH      int    `csv:"sim_h"`
	DyeW      int    `csv:"dye_w"`
	DyeH      int    `csv:"dye_h"`
	Precision string `csv:"precision"`
	Paused    bool   `csv:"paused"`

	// Lifecycle events during window
	Resizes  int `csv:"resizes"`
	Restarts int `csv:"restarts"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("splats", s.Splats),
		slog.Int("active_pointers", s.ActivePointers),
		slog.Float64("velocity_mean", s.VelocityMean),
		slog.Float64("velocity_max", s.VelocityMax),
		slog.Float64("divergence_mean", s.DivergenceMean),
		slog.Float64("pressure_max", s.PressureMax),
		slog.Float64("dye_mean", s.DyeMean),
		slog.Float64("dye_max", s.DyeMax),
		slog.Int("sim_w", s.SimW),
		slog.Int("sim_h", s.SimH),
		slog.Int("dye_w", s.DyeW),
		slog.Int("dye_h", s.DyeH),
		slog.String("precision", s.Precision),
		slog.Bool("paused", s.Paused),
		slog.Int("resizes", s.Resizes),
		slog.Int("restarts", s.Restarts),
	)
}

// LogStats logs the window stats.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"splats", s.Splats,
		"pointers", s.ActivePointers,
		"velocity_max", s.VelocityMax,
		"divergence_mean", s.DivergenceMean,
		"dye_mean", s.DyeMean,
	)
}
