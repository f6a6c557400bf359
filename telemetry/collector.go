package telemetry

// Collector accumulates events within time windows and produces WindowStats.
// Frames have variable length, so windows are measured in simulated seconds.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartTick int64
	windowStartTime float64

	// Event counters for current window
	splats   int
	resizes  int
	restarts int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordSplats records n splats applied this frame.
func (c *Collector) RecordSplats(n int) {
	c.splats += n
}

// RecordResize records a framebuffer reallocation.
func (c *Collector) RecordResize() {
	c.resizes++
}

// RecordRestart records a context-loss recovery.
func (c *Collector) RecordRestart() {
	c.restarts++
}

// ShouldFlush returns true if enough simulated time has passed to flush the window.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// FieldSample holds values measured from the grids at flush time.
type FieldSample struct {
	ActivePointers int
	VelocityMean   float64
	VelocityMax    float64
	DivergenceMean float64
	PressureMax    float64
	DyeMean        float64
	DyeMax         float64
	SimW, SimH     int
	DyeW, DyeH     int
	Precision      string
	Paused         bool
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, simTime float64, sample FieldSample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Splats:         c.splats,
		ActivePointers: sample.ActivePointers,

		VelocityMean:   sample.VelocityMean,
		VelocityMax:    sample.VelocityMax,
		DivergenceMean: sample.DivergenceMean,
		PressureMax:    sample.PressureMax,
		DyeMean:        sample.DyeMean,
		DyeMax:         sample.DyeMax,

		SimW:      sample.SimW,
		SimH:      sample.SimH,
		DyeW:      sample.DyeW,
		DyeH:      sample.DyeH,
		Precision: sample.Precision,
		Paused:    sample.Paused,

		Resizes:  c.resizes,
		Restarts: c.restarts,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowStartTime = simTime
	c.splats = 0
	c.resizes = 0
	c.restarts = 0

	return stats
}

// WindowDuration returns the window length in simulated seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
