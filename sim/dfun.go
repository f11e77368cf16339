package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// seedHeight returns the vertical offset between a site and its seed center.
// The seed sits above the heater line rather than centered on it.
func seedHeight(seedRadius float64) float64 {
	return seedRadius * math.Cos(math.Pi/4)
}

// seedCenter returns the center of the circular seed for the site at (x, y).
func seedCenter(x, y, seedRadius float64) (float64, float64) {
	return x, y + seedHeight(seedRadius)
}

// unionSeed max-composes the circular seed (seedRadius - distance to center),
// divided by scale, into dst.
func unionSeed(dst *mat.Dense, g *Grid, cx, cy, seedRadius, scale float64) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := (seedRadius - math.Hypot(g.X.At(i, j)-cx, g.Y.At(i, j)-cy)) / scale
			if v > dst.At(i, j) {
				dst.Set(i, j, v)
			}
		}
	}
}

// SeedField returns the signed-distance field of a single circular seed
// placed at the site (x, y), without composition with anything else.
func SeedField(g *Grid, x, y, seedRadius float64) (*mat.Dense, error) {
	if err := validateRadius(seedRadius); err != nil {
		return nil, err
	}
	dfun := g.NewField(math.Inf(-1))
	cx, cy := seedCenter(x, y, seedRadius)
	unionSeed(dfun, g, cx, cy, seedRadius, 1)
	return dfun, nil
}

// DfunInit builds the initial distance field as the union (pointwise max)
// of one circular seed per site. Points covered by no seed hold -Inf.
func DfunInit(g *Grid, sites Sites, seedRadius float64) (*mat.Dense, error) {
	if err := sites.validate(); err != nil {
		return nil, err
	}
	if err := validateRadius(seedRadius); err != nil {
		return nil, err
	}

	dfun := g.NewField(math.Inf(-1))
	for i := range sites.X {
		cx, cy := seedCenter(sites.X[i], sites.Y[i], seedRadius)
		unionSeed(dfun, g, cx, cy, seedRadius, 1)
	}
	return dfun, nil
}

func validateRadius(seedRadius float64) error {
	if math.IsNaN(seedRadius) || math.IsInf(seedRadius, 0) || seedRadius <= 0 {
		return fmt.Errorf("seed radius must be a finite positive number, got %v", seedRadius)
	}
	return nil
}
