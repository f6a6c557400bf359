package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected embedded defaults to validate, got %v", err)
	}
	if cfg.Fluid.SimResolution != 128 || cfg.Fluid.DyeResolution != 1024 {
		t.Errorf("expected 128/1024 resolutions, got %d/%d", cfg.Fluid.SimResolution, cfg.Fluid.DyeResolution)
	}
	if cfg.Fluid.PressureIterations != 20 {
		t.Errorf("expected 20 pressure iterations, got %d", cfg.Fluid.PressureIterations)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fluid.yaml")
	data := "fluid:\n  curl: 12\nbloom:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fluid.Curl != 12 {
		t.Errorf("expected curl 12, got %f", cfg.Fluid.Curl)
	}
	if cfg.Bloom.Enabled {
		t.Error("expected bloom disabled")
	}
	// Untouched keys keep defaults
	if cfg.Fluid.SplatForce != 6000 {
		t.Errorf("expected default splat force, got %f", cfg.Fluid.SplatForce)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("fluid:\n  sim_resolution: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateNamesEveryBadField(t *testing.T) {
	cfg := Default()
	cfg.Fluid.SimResolution = -4
	cfg.Fluid.DensityDissipation = 1.5
	cfg.Bloom.Iterations = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, field := range []string{"fluid.sim_resolution", "fluid.density_dissipation", "bloom.iterations"} {
		if !strings.Contains(msg, field) {
			t.Errorf("expected error to mention %s, got %q", field, msg)
		}
	}
}

func TestResolutionChanged(t *testing.T) {
	a := Default()
	b := a
	b.Fluid.Curl = 5
	if a.ResolutionChanged(b) {
		t.Error("curl change should not require reallocation")
	}
	b.Fluid.DyeResolution = 512
	if !a.ResolutionChanged(b) {
		t.Error("dye resolution change should require reallocation")
	}
	c := a
	c.Bloom.Enabled = !a.Bloom.Enabled
	if !a.ResolutionChanged(c) {
		t.Error("toggling bloom should require reallocation")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Display.BackColor = Color{R: 10, G: 20, B: 30}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Display.BackColor != cfg.Display.BackColor {
		t.Errorf("expected back color %+v, got %+v", cfg.Display.BackColor, loaded.Display.BackColor)
	}
}
