package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and frames")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	frameOut := flag.String("frame-out", "", "Save the final frame as PNG under -output-dir")
	wanderers := flag.Int("wanderers", -1, "Synthetic pointers (-1 = 2 headless, 0 in a window)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	nWanderers := *wanderers
	if nWanderers < 0 {
		nWanderers = 0
		if *headless {
			nWanderers = 2
		}
	}

	opts := game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Headless:  *headless,
		Wanderers: nWanderers,
		FrameOut:  *frameOut,
		Logger:    logger,
	}

	if *headless {
		// Headless mode - CPU simulation against an in-memory surface
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
			"wanderers", nWanderers,
		)

		runHeadless(g, *maxTicks)
		return
	}

	// Graphical mode
	flags := uint32(rl.FlagWindowResizable)
	if cfg.Display.Transparent {
		flags |= rl.FlagWindowTransparent
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Fluid")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// headlessGame is the part of game.Game the headless loop drives.
type headlessGame interface {
	UpdateHeadless()
	Tick() int64
	Running() bool
}

// runHeadless advances g until maxTicks (0 = unlimited) or until the
// simulation stops on its own, e.g. after a failed reinitialization.
func runHeadless(g headlessGame, maxTicks int) {
	for {
		g.UpdateHeadless()

		if !g.Running() {
			slog.Warn("simulation stopped, exiting", "tick", g.Tick())
			return
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}
