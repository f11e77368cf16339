package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// SiteBaseline is the y-position of every nucleation site: the heater
// surface line, lifted off exact zero.
const SiteBaseline = 1e-13

// Sites holds index-aligned nucleation site coordinates.
type Sites struct {
	X []float64
	Y []float64
}

// Len returns the number of sites.
func (s Sites) Len() int {
	return len(s.X)
}

// validate checks that X and Y are index-aligned.
func (s Sites) validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("%w: %d x-positions, %d y-positions", ErrMisaligned, len(s.X), len(s.Y))
	}
	return nil
}

// HeaterInit places n nucleation sites on the heater segment [xmin, xmax]
// using the default simulation key.
func HeaterInit(xmin, xmax float64, n int) (Sites, error) {
	return HeaterInitWithKey(xmin, xmax, n, DefaultSimulationKey)
}

// HeaterInitWithKey places n nucleation sites on [xmin, xmax] from the first
// dimension of a 2-D scrambled Halton sequence. The scramble permutations come
// from the heater RNG subsystem of key, so the result is reproducible.
func HeaterInitWithKey(xmin, xmax float64, n int, key SimulationKey) (Sites, error) {
	if n <= 0 {
		return Sites{}, fmt.Errorf("number of sites must be positive, got %d", n)
	}
	if math.IsNaN(xmin) || math.IsInf(xmin, 0) || math.IsNaN(xmax) || math.IsInf(xmax, 0) {
		return Sites{}, fmt.Errorf("heater bounds must be finite, got [%v, %v]", xmin, xmax)
	}
	if xmax < xmin {
		return Sites{}, fmt.Errorf("heater x_max (%v) must not be less than x_min (%v)", xmax, xmin)
	}

	rng := NewPartitionedRNG(key)
	halton := samplemv.Halton{
		Kind: samplemv.Owen,
		Q:    distmv.NewUniform([]r1.Interval{{Min: xmin, Max: xmax}, {Min: 0, Max: 1}}, nil),
		Src:  rng.ForSubsystem(SubsystemHeater),
	}
	batch := mat.NewDense(n, 2, nil)
	halton.Sample(batch)

	sites := Sites{
		X: mat.Col(nil, 0, batch),
		Y: make([]float64, n),
	}
	for i := range sites.Y {
		sites.Y[i] = SiteBaseline
	}
	return sites, nil
}
