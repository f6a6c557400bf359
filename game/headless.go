package game

import "github.com/pthm-cable/fluid/sim"

// UpdateHeadless advances one frame on the synthetic clock: wanderers move,
// then the scheduler runs the pending simulation frame.
func (g *Game) UpdateHeadless() {
	g.stepWanderers(sim.MaxDelta.Seconds())
	g.clock = g.clock.Add(sim.MaxDelta)
	g.sched.Pump(g.clock)
}
