package solver

import (
	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/telemetry"
)

// Tracer receives the name of each stage as it starts. *telemetry.PerfCollector
// satisfies it. A nil Tracer is allowed.
type Tracer interface {
	StartPhase(name string)
}

func phase(tr Tracer, name string) {
	if tr != nil {
		tr.StartPhase(name)
	}
}

// Step advances the fluid in m by dt seconds. Splats for the tick must already
// have been applied.
func Step(m *field.Manager, cfg config.FluidConfig, dt float32, tr Tracer) {
	phase(tr, telemetry.PhaseCurl)
	Curl(m.Velocity.Read(), m.Curl)

	phase(tr, telemetry.PhaseVorticity)
	Vorticity(m.Velocity, m.Curl, float32(cfg.Curl), dt)

	Project(m.Velocity, m.Pressure, m.Divergence, float32(cfg.Pressure), cfg.PressureIterations, tr)

	phase(tr, telemetry.PhaseAdvectVelocity)
	Advect(m.Velocity, m.Velocity.Read(), dt, float32(cfg.VelocityDissipation))

	phase(tr, telemetry.PhaseAdvectDye)
	Advect(m.Dye, m.Velocity.Read(), dt, float32(cfg.DensityDissipation))
}
