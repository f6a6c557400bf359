package game

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/sim"
)

func headlessOptions(t *testing.T) Options {
	t.Helper()
	cfg := config.Default()
	cfg.Screen.Width, cfg.Screen.Height = 64, 48
	cfg.Fluid.SimResolution = 16
	cfg.Fluid.DyeResolution = 32
	cfg.Fluid.PressureIterations = 4
	cfg.Bloom.Resolution = 16
	cfg.Bloom.Iterations = 3
	cfg.Sunrays.Resolution = 16
	cfg.Telemetry.StatsWindow = 0.25

	return Options{
		Config:    cfg,
		Seed:      7,
		OutputDir: t.TempDir(),
		Headless:  true,
		Wanderers: 2,
		FrameOut:  "final.png",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHeadlessRunTicksAndDrawsDye(t *testing.T) {
	g, err := NewGameWithOptions(headlessOptions(t))
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	defer g.Unload()

	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 30 {
		t.Errorf("expected 30 ticks, got %d", g.Tick())
	}
	if g.Sim().Pointers().Len() != 2 {
		t.Errorf("expected 2 wandering pointers, got %d", g.Sim().Pointers().Len())
	}

	frame := g.Sim().Frame()
	if frame == nil {
		t.Fatal("expected a composited frame")
	}
	lit := false
	for i := 3; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] > 0 {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("expected wanderers to leave visible dye")
	}
}

func TestHeadlessUnloadWritesOutput(t *testing.T) {
	opts := headlessOptions(t)
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	for i := 0; i < 30; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	if g.Running() {
		t.Error("expected simulation stopped after unload")
	}
	if g.Sim().State() != sim.Stopped {
		t.Errorf("expected stopped state, got %v", g.Sim().State())
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "final.png"} {
		info, err := os.Stat(filepath.Join(opts.OutputDir, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected %s to be non-empty", name)
		}
	}

	loaded, err := config.Load(filepath.Join(opts.OutputDir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if loaded.Fluid.SimResolution != 16 {
		t.Errorf("expected sim_resolution 16 in written config, got %d", loaded.Fluid.SimResolution)
	}
}

func TestNewGameRejectsInvalidConfig(t *testing.T) {
	opts := headlessOptions(t)
	opts.Config.Fluid.PressureIterations = 0
	if _, err := NewGameWithOptions(opts); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}
