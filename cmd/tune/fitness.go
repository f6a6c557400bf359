package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/game"
	"github.com/pthm-cable/fluid/solver"
)

// FitnessEvaluator runs headless simulations and scores solver settings.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      int
	seeds      []int64
	baseConfig config.Config
	costWeight float64

	mu           sync.Mutex
	lastResidual float64 // residual from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. costWeight prices one full
// 60-iteration pressure solve against one unit of relative divergence.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg config.Config, costWeight float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
		costWeight: costWeight,
	}
}

// LastResidual returns the mean relative divergence of the most recent evaluation.
func (fe *FitnessEvaluator) LastResidual() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResidual
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// relative divergence left in the flow plus the weighted solver cost.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	// Run all seeds in parallel
	residuals := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			residuals[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range residuals {
		total += r
	}
	residual := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastResidual = residual
	fe.mu.Unlock()

	cost := float64(cfg.Fluid.PressureIterations) / 60
	return residual + fe.costWeight*cost
}

// runSimulation drives one headless run and returns the relative divergence
// of the final velocity field. Invalid configs and dead runs score +Inf.
func (fe *FitnessEvaluator) runSimulation(cfg config.Config, seed int64) float64 {
	g, err := game.NewGameWithOptions(game.Options{
		Config:    cfg,
		Seed:      seed,
		Headless:  true,
		Wanderers: 2,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return math.Inf(1)
	}
	defer g.Unload()

	for g.Tick() < int64(fe.ticks) {
		g.UpdateHeadless()
	}

	m := g.Sim().Fields()
	if m == nil {
		return math.Inf(1)
	}
	return relativeDivergence(m.Velocity.Read())
}

// relativeDivergence is mean |div u| over mean |u|.
func relativeDivergence(vel *field.Field) float64 {
	speed := float64(vel.MeanAbs())
	if speed == 0 {
		return 0
	}
	div := field.New(vel.W, vel.H, 1, field.Float32)
	solver.Divergence(vel, div)
	return float64(div.MeanAbs()) / speed
}
