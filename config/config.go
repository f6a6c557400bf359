// Package config provides configuration loading and validation for the fluid effect.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every parameter consumed by the simulation pipeline.
// A Config value is owned by one simulation instance and never mutated by
// solver stages; hosts replace it wholesale.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Display   DisplayConfig   `yaml:"display"`
	Bloom     BloomConfig     `yaml:"bloom"`
	Sunrays   SunraysConfig   `yaml:"sunrays"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScreenConfig holds window settings for the graphical host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FluidConfig holds solver and splat parameters.
type FluidConfig struct {
	SimResolution       int     `yaml:"sim_resolution"`       // Short side of the velocity/pressure grid
	DyeResolution       int     `yaml:"dye_resolution"`       // Short side of the dye grid
	DensityDissipation  float64 `yaml:"density_dissipation"`  // Dye multiplier per tick
	VelocityDissipation float64 `yaml:"velocity_dissipation"` // Velocity multiplier per tick
	Pressure            float64 `yaml:"pressure"`             // Fraction of last frame's pressure kept as warm start
	PressureIterations  int     `yaml:"pressure_iterations"`  // Jacobi sweeps per tick
	Curl                float64 `yaml:"curl"`                 // Vorticity confinement strength
	SplatRadius         float64 `yaml:"splat_radius"`         // Percent of the short side
	SplatForce          float64 `yaml:"splat_force"`          // Pointer delta multiplier
	ColorUpdateSpeed    float64 `yaml:"color_update_speed"`   // Pointer color changes per second in colorful mode
}

// DisplayConfig holds composite settings.
type DisplayConfig struct {
	Shading     bool  `yaml:"shading"`
	Colorful    bool  `yaml:"colorful"`
	Paused      bool  `yaml:"paused"`
	BackColor   Color `yaml:"back_color"`
	Transparent bool  `yaml:"transparent"`
}

// Color is an 8-bit RGB triple.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Normalized returns the color as [0,1] floats.
func (c Color) Normalized() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

// BloomConfig holds glow post-process parameters.
type BloomConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Iterations int     `yaml:"iterations"`
	Resolution int     `yaml:"resolution"`
	Intensity  float64 `yaml:"intensity"`
	Threshold  float64 `yaml:"threshold"`
	SoftKnee   float64 `yaml:"soft_knee"`
}

// SunraysConfig holds light shaft post-process parameters.
type SunraysConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Resolution int     `yaml:"resolution"`
	Weight     float64 `yaml:"weight"`
}

// TelemetryConfig holds perf sampling parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged per perf record
	StatsWindow float64 `yaml:"stats_window"` // Seconds between frame stats records
}

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate reports every out-of-range field. The returned error wraps ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, v any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s out of range (%v)", ErrInvalid, field, v))
		}
	}

	check(c.Screen.Width > 0, "screen.width", c.Screen.Width)
	check(c.Screen.Height > 0, "screen.height", c.Screen.Height)
	check(c.Screen.TargetFPS > 0, "screen.target_fps", c.Screen.TargetFPS)

	f := c.Fluid
	check(f.SimResolution > 0, "fluid.sim_resolution", f.SimResolution)
	check(f.DyeResolution > 0, "fluid.dye_resolution", f.DyeResolution)
	check(f.DensityDissipation > 0 && f.DensityDissipation <= 1, "fluid.density_dissipation", f.DensityDissipation)
	check(f.VelocityDissipation > 0 && f.VelocityDissipation <= 1, "fluid.velocity_dissipation", f.VelocityDissipation)
	check(f.Pressure >= 0 && f.Pressure <= 1, "fluid.pressure", f.Pressure)
	check(f.PressureIterations >= 1, "fluid.pressure_iterations", f.PressureIterations)
	check(f.Curl >= 0, "fluid.curl", f.Curl)
	check(f.SplatRadius > 0, "fluid.splat_radius", f.SplatRadius)
	check(f.SplatForce >= 0, "fluid.splat_force", f.SplatForce)
	check(f.ColorUpdateSpeed >= 0, "fluid.color_update_speed", f.ColorUpdateSpeed)

	b := c.Bloom
	check(b.Iterations >= 1, "bloom.iterations", b.Iterations)
	check(b.Resolution > 0, "bloom.resolution", b.Resolution)
	check(b.Intensity >= 0, "bloom.intensity", b.Intensity)
	check(b.Threshold >= 0 && b.Threshold <= 1, "bloom.threshold", b.Threshold)
	check(b.SoftKnee >= 0 && b.SoftKnee <= 1, "bloom.soft_knee", b.SoftKnee)

	check(c.Sunrays.Resolution > 0, "sunrays.resolution", c.Sunrays.Resolution)
	check(c.Sunrays.Weight >= 0, "sunrays.weight", c.Sunrays.Weight)

	check(c.Telemetry.PerfWindow >= 1, "telemetry.perf_window", c.Telemetry.PerfWindow)
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window", c.Telemetry.StatsWindow)

	return errors.Join(errs...)
}

// ResolutionChanged reports whether switching from c to next requires the
// framebuffer manager to reallocate grids.
func (c Config) ResolutionChanged(next Config) bool {
	return c.Fluid.SimResolution != next.Fluid.SimResolution ||
		c.Fluid.DyeResolution != next.Fluid.DyeResolution ||
		c.Bloom.Enabled != next.Bloom.Enabled ||
		c.Bloom.Resolution != next.Bloom.Resolution ||
		c.Bloom.Iterations != next.Bloom.Iterations ||
		c.Sunrays.Enabled != next.Sunrays.Enabled ||
		c.Sunrays.Resolution != next.Sunrays.Resolution
}

// WriteYAML writes the configuration to a YAML file.
func (c Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
