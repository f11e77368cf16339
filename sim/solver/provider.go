// Package solver provides field providers that stand in for the external
// flow solver: each step they receive the current distance field and return
// the field the nucleation model should evaluate next.
package solver

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/bubble-sim/bubble-sim/sim"
)

// FieldProvider advances the distance field by one solver step.
// Implementations must return a field with the grid's shape and must not
// modify dfun.
type FieldProvider interface {
	Advance(step int, dfun *mat.Dense) (*mat.Dense, error)
}

// New builds the provider selected by cfg. Randomized providers draw from the
// solver subsystem of key.
func New(g *sim.Grid, cfg sim.SolverConfig, key sim.SimulationKey) (FieldProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case "forced-liquid":
		return &ForcedLiquid{Grid: g, Value: cfg.LiquidValue}, nil
	case "rising":
		r := &Rising{Rows: cfg.Rows, Decay: cfg.Decay, Jitter: cfg.Jitter}
		if cfg.Jitter > 0 {
			r.rng = sim.NewPartitionedRNG(key).ForSubsystem(sim.SubsystemSolver)
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown solver kind %q", cfg.Kind)
}

// ForcedLiquid returns a uniformly liquid field every step, regardless of
// the incoming field. It drives every site toward re-seeding.
type ForcedLiquid struct {
	Grid  *sim.Grid
	Value float64 // must be negative
}

// Advance implements FieldProvider.
func (f *ForcedLiquid) Advance(step int, dfun *mat.Dense) (*mat.Dense, error) {
	if f.Value >= 0 {
		return nil, fmt.Errorf("forced-liquid value must be negative, got %v", f.Value)
	}
	return f.Grid.NewField(f.Value), nil
}

// Rising models bubble departure: the whole field moves up by Rows grid rows
// per step and the vacated rows next to the heater refill with liquid. Each
// vacated row is Decay deeper than the row above it, measured from the
// shifted-in liquid level.
type Rising struct {
	Rows   int
	Decay  float64
	Jitter float64 // amplitude of uniform noise in [-Jitter, Jitter]

	rng *rand.Rand
}

// Advance implements FieldProvider.
func (r *Rising) Advance(step int, dfun *mat.Dense) (*mat.Dense, error) {
	if dfun == nil {
		return nil, fmt.Errorf("rising: nil field at step %d", step)
	}
	if r.Rows < 1 {
		return nil, fmt.Errorf("rising: rows must be at least 1, got %d", r.Rows)
	}
	rows, cols := dfun.Dims()
	next := mat.NewDense(rows, cols, nil)
	shift := min(r.Rows, rows)

	for i := rows - 1; i >= shift; i-- {
		for j := 0; j < cols; j++ {
			next.Set(i, j, dfun.At(i-shift, j))
		}
	}
	for i := shift - 1; i >= 0; i-- {
		for j := 0; j < cols; j++ {
			above := -r.Decay
			if i+1 < rows {
				above = math.Min(next.At(i+1, j), 0)
			}
			next.Set(i, j, above-r.Decay)
		}
	}

	if r.rng != nil && r.Jitter > 0 {
		next.Apply(func(_, _ int, v float64) float64 {
			return v + r.Jitter*(2*r.rng.Float64()-1)
		}, next)
	}
	return next, nil
}
