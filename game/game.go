// Package game hosts the fluid simulation. In graphical mode it owns the
// raylib surface, input adapter and UI; headless it drives synthetic
// pointers against an in-memory surface.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/pointer"
	"github.com/pthm-cable/fluid/renderer"
	"github.com/pthm-cable/fluid/sim"
	"github.com/pthm-cable/fluid/telemetry"
	"github.com/pthm-cable/fluid/ui"
)

// Options configures a Game.
type Options struct {
	Config    config.Config
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
	Wanderers int    // Synthetic pointers (headless, or idle demo when > 0)
	FrameOut  string // File name under OutputDir for the final frame
	Logger    *slog.Logger
}

// wandererSpeed is the noise traversal rate of synthetic pointers.
const wandererSpeed = 0.35

// Game is the host for one Simulation.
type Game struct {
	opts   Options
	logger *slog.Logger

	sim     *sim.Simulation
	sched   *sim.FrameScheduler
	surface sim.Surface
	output  *telemetry.OutputManager

	wanderers []*pointer.Wanderer
	clock     time.Time // headless frame clock

	// Graphical mode only
	input     *renderer.Input
	panel     *ui.Panel
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	views     *ui.ViewRegistry
	startErr  error
}

// NewGameWithOptions creates the simulation and starts it on the surface
// for the selected mode. In graphical mode the window must already exist.
// A surface that cannot start is logged and leaves the game running with an
// empty background.
func NewGameWithOptions(opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := output.WriteConfig(opts.Config); err != nil {
		output.Close()
		return nil, err
	}

	g := &Game{
		opts:   opts,
		logger: opts.Logger,
		sched:  sim.NewFrameScheduler(),
		output: output,
		clock:  time.Unix(0, 0),
	}

	g.sim, err = sim.New(opts.Config, g.sched, sim.Options{
		Logger:   opts.Logger,
		Output:   output,
		Rand:     rand.New(rand.NewSource(opts.Seed)),
		LogStats: opts.LogStats,
	})
	if err != nil {
		output.Close()
		return nil, err
	}

	for i := 0; i < opts.Wanderers; i++ {
		// Negative ids never collide with touch ids; MouseID is -1.
		g.wanderers = append(g.wanderers, pointer.NewWanderer(opts.Seed+int64(i), pointer.MouseID-1-i, wandererSpeed))
	}

	if opts.Headless {
		g.surface = sim.NewHeadlessSurface(opts.Config.Screen.Width, opts.Config.Screen.Height, field.FullCapabilities())
	} else {
		g.initGraphics()
	}

	if err := g.sim.Start(g.surface); err != nil {
		if opts.Headless {
			output.Close()
			return nil, err
		}
		g.startErr = err
	}
	return g, nil
}

func (g *Game) initGraphics() {
	g.surface = renderer.NewSurface(g.logger)
	g.panel = ui.NewPanel(10, 10, 280)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 10, 300)
	g.views = ui.NewViewRegistry()
	g.input = renderer.NewInput(g.sim.Pointers())
	g.input.Blocked = g.panel.Contains
}

// Sim returns the hosted simulation.
func (g *Game) Sim() *sim.Simulation { return g.sim }

// Tick returns the number of completed simulation frames.
func (g *Game) Tick() int64 { return g.sim.Ticks() }

// Running reports whether the simulation is live.
func (g *Game) Running() bool { return g.sim.State() == sim.Running }

// applyConfig hands an edited config to the simulation, keeping the old one
// when validation fails.
func (g *Game) applyConfig(next config.Config) {
	if err := g.sim.ApplyConfig(next); err != nil {
		g.logger.Warn("config rejected", "error", err)
	}
}

// stepWanderers advances every synthetic pointer by dt seconds.
func (g *Game) stepWanderers(dt float64) {
	in := g.sim.Pointers()
	for _, w := range g.wanderers {
		w.Step(in, dt)
	}
}

// Unload stops the simulation, saves the last frame when requested and
// closes the output files.
func (g *Game) Unload() {
	frame := g.sim.Frame()
	g.sim.Stop()

	if g.opts.FrameOut != "" && frame != nil {
		if g.output == nil {
			g.logger.Warn("frame output needs an output directory", "frame_out", g.opts.FrameOut)
		} else if err := g.output.WriteFrame(g.opts.FrameOut, frame); err != nil {
			g.logger.Error("failed to write frame", "error", err)
		}
	}
	if err := g.output.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
