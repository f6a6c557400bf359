// Package sim ties the fluid grids, pointer input, solver and post-processing
// into a frame loop with an explicit start/stop lifecycle.
package sim

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/pointer"
	"github.com/pthm-cable/fluid/post"
	"github.com/pthm-cable/fluid/solver"
	"github.com/pthm-cable/fluid/telemetry"
)

// MaxDelta caps the timestep so a slow frame cannot destabilize the solver.
const MaxDelta = time.Second / 60

// State is the lifecycle state of a Simulation.
type State uint8

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Options holds optional collaborators. Zero values get defaults.
type Options struct {
	Logger   *slog.Logger
	Perf     *telemetry.PerfCollector
	Output   *telemetry.OutputManager
	Rand     *rand.Rand
	LogStats bool
}

// Simulation owns the grids, the pointer map, the configuration and the
// frame request. All methods except those on Pointers() must be called from
// the goroutine that pumps the scheduler.
type Simulation struct {
	cfg       config.Config // as requested by the host
	effective config.Config // after capability downgrades
	format    field.Format

	sched   Scheduler
	surface Surface
	fields  *field.Manager
	input   *pointer.Injector

	state   State
	frameID FrameID
	last    time.Time
	ticks   int64
	simTime float64

	resizePending atomic.Bool

	logger    *slog.Logger
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool
}

// New creates a stopped simulation. cfg must be valid.
func New(cfg config.Config, sched Scheduler, opts Options) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Perf == nil {
		opts.Perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulation{
		cfg:       cfg,
		effective: cfg,
		sched:     sched,
		input:     pointer.NewInjector(cfg.Screen.Width, cfg.Screen.Height, opts.Rand),
		logger:    opts.Logger,
		perf:      opts.Perf,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		bookmarks: telemetry.NewBookmarkDetector(10),
		output:    opts.Output,
		logStats:  opts.LogStats,
	}, nil
}

// Start attaches to surface, allocates the grids and schedules the first
// frame. A display program failure leaves the simulation stopped; Init cleans
// up after itself, so the surface is not released again.
func (s *Simulation) Start(surface Surface) error {
	if s.state == Running {
		return ErrRunning
	}
	if err := surface.Init(); err != nil {
		s.logger.Error("fluid effect disabled", "error", err)
		return fmt.Errorf("starting simulation: %w", err)
	}
	s.surface = surface

	s.format = field.ChooseFormat(surface.Capabilities())
	s.effective = s.format.Apply(s.cfg)
	if s.format.Degraded() {
		s.logger.Warn("reduced graphics capabilities, downgrading",
			"precision", s.format.Precision.String(),
			"dye_resolution", s.effective.Fluid.DyeResolution,
			"sim_resolution", s.effective.Fluid.SimResolution,
		)
	}

	w, h := surface.Size()
	s.fields = field.NewManager(s.format.Precision, s.logger)
	s.fields.Configure(w, h, s.effective)
	s.input.SetViewport(w, h)
	s.resizePending.Store(false)

	s.state = Running
	s.last = time.Time{}
	s.schedule()
	s.logger.Info("simulation started", "view_w", w, "view_h", h, "precision", s.format.Precision.String())
	return nil
}

// Stop cancels the pending frame and releases every grid and the surface
// before returning. Stopping a stopped simulation is a no-op.
func (s *Simulation) Stop() {
	if s.state != Running {
		return
	}
	s.teardown()
	s.logger.Info("simulation stopped", "ticks", s.ticks)
}

func (s *Simulation) teardown() {
	if s.frameID != 0 {
		s.sched.CancelFrame(s.frameID)
		s.frameID = 0
	}
	s.fields.Release()
	s.fields = nil
	s.surface.Release()
	s.surface = nil
	s.state = Stopped
}

// NotifyResize tells the simulation the viewport changed. The grids are
// reallocated at the start of the next frame, however many notifications
// arrive in between.
func (s *Simulation) NotifyResize() {
	s.resizePending.Store(true)
}

// ApplyConfig validates next and makes it current. An invalid configuration
// is rejected and the previous one stays in effect.
func (s *Simulation) ApplyConfig(next config.Config) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("applying config: %w", err)
	}
	prev := s.effective
	s.cfg = next
	s.effective = next
	if s.state == Running {
		s.effective = s.format.Apply(next)
		if prev.ResolutionChanged(s.effective) {
			s.resizePending.Store(true)
		}
	}
	return nil
}

// Config returns the configuration requested by the host.
func (s *Simulation) Config() config.Config { return s.cfg }

// Effective returns the configuration in use after capability downgrades.
func (s *Simulation) Effective() config.Config { return s.effective }

// Pointers returns the input injector. It is safe for use from any goroutine.
func (s *Simulation) Pointers() *pointer.Injector { return s.input }

// Fields returns the grid manager, or nil while stopped.
func (s *Simulation) Fields() *field.Manager { return s.fields }

// Frame composites the current grids on the CPU into a new image. It returns
// nil while stopped or before the first tick.
func (s *Simulation) Frame() *image.RGBA {
	if s.fields == nil || s.ticks == 0 {
		return nil
	}
	return s.frame(s.effective).Composite(nil)
}

// frame gathers the grids the surface composites for cfg.
func (s *Simulation) frame(cfg config.Config) Frame {
	w, h := s.fields.Viewport()
	f := Frame{Width: w, Height: h, Dye: s.fields.Dye.Read(), Config: cfg}
	if cfg.Bloom.Enabled {
		f.Bloom = s.fields.Bloom
	}
	if cfg.Sunrays.Enabled {
		f.Sunrays = s.fields.Sunrays
	}
	return f
}

// State returns the lifecycle state.
func (s *Simulation) State() State { return s.state }

// Ticks returns the number of completed frames.
func (s *Simulation) Ticks() int64 { return s.ticks }

// SimTime returns the simulated seconds elapsed.
func (s *Simulation) SimTime() float64 { return s.simTime }

// Perf returns the frame timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

func (s *Simulation) schedule() {
	s.frameID = s.sched.RequestFrame(s.tick)
}

// delta returns the clamped frame time in seconds.
func (s *Simulation) delta(now time.Time) float32 {
	d := MaxDelta
	if !s.last.IsZero() {
		d = min(max(now.Sub(s.last), 0), MaxDelta)
	}
	s.last = now
	return float32(d.Seconds())
}

func (s *Simulation) tick(now time.Time) {
	s.frameID = 0
	if s.state != Running {
		return
	}

	dt := s.delta(now)
	s.perf.StartTick()

	s.checkResize()
	cfg := s.effective
	if cfg.Display.Colorful {
		s.input.UpdateColors(float64(dt), cfg.Fluid.ColorUpdateSpeed)
	}

	s.perf.StartPhase(telemetry.PhaseSplat)
	splats := s.input.Drain(float32(cfg.Fluid.SplatForce))
	if !cfg.Display.Paused {
		solver.ApplySplats(s.fields, splats, cfg.Fluid.SplatRadius, s.aspect())
		solver.Step(s.fields, cfg.Fluid, dt, s.perf)
		s.collector.RecordSplats(len(splats))
	}

	dye := s.fields.Dye.Read()
	if cfg.Bloom.Enabled {
		s.perf.StartPhase(telemetry.PhaseBloom)
		post.Bloom(dye, s.fields.Bloom, s.fields.BloomMips, cfg.Bloom)
	}
	if cfg.Sunrays.Enabled {
		s.perf.StartPhase(telemetry.PhaseSunrays)
		post.Sunrays(dye, s.fields.Sunrays, s.fields.SunraysTemp, float32(cfg.Sunrays.Weight))
	}

	s.perf.StartPhase(telemetry.PhaseComposite)
	err := s.surface.Present(s.frame(cfg))
	s.perf.EndTick()
	s.perf.RecordFrame()

	if errors.Is(err, ErrContextLost) {
		s.restart()
		return
	}
	if err != nil {
		s.logger.Error("present failed", "error", err)
	}

	s.ticks++
	s.simTime += float64(dt)
	s.flushTelemetry()
	s.schedule()
}

// checkResize reallocates grids when the viewport or a resolution setting
// changed since the last frame.
func (s *Simulation) checkResize() {
	w, h := s.surface.Size()
	vw, vh := s.fields.Viewport()
	if !s.resizePending.Swap(false) && w == vw && h == vh {
		return
	}
	s.input.SetViewport(w, h)
	if s.fields.Configure(w, h, s.effective) {
		s.collector.RecordResize()
		s.logger.Debug("viewport resized", "view_w", w, "view_h", h, "live_fields", s.fields.Live())
	}
}

// restart recovers from a lost context: full teardown, then one attempt to
// start again on the same surface.
func (s *Simulation) restart() {
	surface := s.surface
	s.logger.Warn("graphics context lost, reinitializing", "tick", s.ticks)
	s.collector.RecordRestart()
	s.teardown()
	if err := s.Start(surface); err != nil {
		s.logger.Error("reinitialization failed", "error", err)
	}
}

func (s *Simulation) aspect() float32 {
	w, h := s.fields.Viewport()
	if h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}
