package telemetry

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/fluid/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager without error, got %v, %v", om, err)
	}
	// Nil manager is a no-op
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("expected nil-safe WriteTelemetry, got %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("expected nil-safe WritePerf, got %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected nil-safe Close, got %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 60, Splats: int(i)}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhasePressure: 40}}, i*60); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("expected header row, got %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("expected header written exactly once")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(perf), "pressure_pct") {
		t.Error("expected pressure_pct column in perf.csv")
	}
}

func TestOutputManagerWritesConfigAndFrame(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected written config to load, got %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	if err := om.WriteFrame("frame.png", img); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if fi, err := os.Stat(filepath.Join(dir, "frame.png")); err != nil || fi.Size() == 0 {
		t.Errorf("expected non-empty frame.png, got %v", err)
	}
}
