package field

import "github.com/pthm-cable/fluid/config"

// Capabilities is the result of probing the graphics backend.
type Capabilities struct {
	FloatTextures     bool // 32-bit float render targets
	HalfFloatTextures bool // 16-bit float render targets
	LinearFiltering   bool // filtered sampling of float targets
}

// FullCapabilities is what a pure CPU host provides.
func FullCapabilities() Capabilities {
	return Capabilities{FloatTextures: true, HalfFloatTextures: true, LinearFiltering: true}
}

// Format is the buffer configuration chosen for a capability set.
type Format struct {
	Precision Precision
	// Downgrade caps the dye resolution and disables shading, bloom and sunrays.
	Downgrade bool
	// ReducedResolution additionally caps the simulation grid.
	ReducedResolution bool
}

// Caps applied by a downgraded Format.
const (
	DowngradedDyeResolution = 512
	ReducedSimResolution    = 64
)

// ChooseFormat maps probed capabilities to a buffer format. It never fails:
// missing features select a cheaper format instead.
func ChooseFormat(c Capabilities) Format {
	switch {
	case !c.FloatTextures && !c.HalfFloatTextures:
		return Format{Precision: Half, Downgrade: true, ReducedResolution: true}
	case !c.LinearFiltering:
		p := Float32
		if !c.FloatTextures {
			p = Half
		}
		return Format{Precision: p, Downgrade: true}
	case c.FloatTextures:
		return Format{Precision: Float32}
	default:
		return Format{Precision: Half}
	}
}

// Degraded reports whether the format changes the requested configuration.
func (f Format) Degraded() bool {
	return f.Downgrade || f.ReducedResolution
}

// Apply returns cfg adjusted to what the format can support.
func (f Format) Apply(cfg config.Config) config.Config {
	if f.Downgrade {
		if cfg.Fluid.DyeResolution > DowngradedDyeResolution {
			cfg.Fluid.DyeResolution = DowngradedDyeResolution
		}
		cfg.Display.Shading = false
		cfg.Bloom.Enabled = false
		cfg.Sunrays.Enabled = false
	}
	if f.ReducedResolution && cfg.Fluid.SimResolution > ReducedSimResolution {
		cfg.Fluid.SimResolution = ReducedSimResolution
	}
	return cfg
}
