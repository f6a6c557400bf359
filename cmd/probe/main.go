// Probe tool - reports the graphics capabilities, the buffer format the
// simulation would choose for them, and whether the display shader links.
//
// Usage: go run ./cmd/probe
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(64, 64, "Fluid Probe")
	defer rl.CloseWindow()

	surface := renderer.NewSurface(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	defer surface.Release()

	caps := surface.Capabilities()
	format := field.ChooseFormat(caps)
	eff := format.Apply(cfg)

	fmt.Printf("float textures:      %v\n", caps.FloatTextures)
	fmt.Printf("half float textures: %v\n", caps.HalfFloatTextures)
	fmt.Printf("linear filtering:    %v\n", caps.LinearFiltering)
	fmt.Printf("precision:           %s\n", format.Precision)
	fmt.Printf("degraded:            %v\n", format.Degraded())
	fmt.Printf("sim resolution:      %d\n", eff.Fluid.SimResolution)
	fmt.Printf("dye resolution:      %d\n", eff.Fluid.DyeResolution)
	fmt.Printf("shading/bloom/rays:  %v/%v/%v\n", eff.Display.Shading, eff.Bloom.Enabled, eff.Sunrays.Enabled)

	if err := surface.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Display shader failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("display shader:      linked")
}
