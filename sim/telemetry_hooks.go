package sim

import (
	"github.com/pthm-cable/fluid/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.simTime) {
		return
	}

	stats := s.collector.Flush(s.ticks, s.simTime, s.sampleFields())
	perfStats := s.perf.Stats()

	for _, b := range s.bookmarks.Check(stats) {
		b.LogBookmark(s.logger)
	}

	// Log stats if enabled (console output)
	if s.logStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
	}

	// Write to CSV if output manager is enabled
	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			s.logger.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			s.logger.Error("failed to write perf", "error", err)
		}
	}
}

// sampleFields measures the grids for the stats window.
func (s *Simulation) sampleFields() telemetry.FieldSample {
	m := s.fields
	vel := m.Velocity.Read()
	dye := m.Dye.Read()
	return telemetry.FieldSample{
		ActivePointers: s.input.Len(),
		VelocityMean:   float64(vel.MeanAbs()),
		VelocityMax:    float64(vel.MaxAbs()),
		DivergenceMean: float64(m.Divergence.MeanAbs()),
		PressureMax:    float64(m.Pressure.Read().MaxAbs()),
		DyeMean:        float64(dye.MeanAbs()),
		DyeMax:         float64(dye.MaxAbs()),
		SimW:           vel.W,
		SimH:           vel.H,
		DyeW:           dye.W,
		DyeH:           dye.H,
		Precision:      m.Precision().String(),
		Paused:         s.effective.Display.Paused,
	}
}
