package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RenucleationThreshold is the number of consecutive liquid-covered
// evaluations a site needs before a new seed may be placed there.
const RenucleationThreshold = 4

// shouldRenucleate reports whether a site is armed: liquid-covered at this
// evaluation and covered for at least threshold evaluations in a row.
func shouldRenucleate(dfunSite float64, counter, threshold int) bool {
	return dfunSite < 0 && counter >= threshold
}

// Renucleate re-seeds every site that is liquid-covered now and has been for
// at least RenucleationThreshold evaluations. The new seed is the same circle
// DfunInit places, divided by dfunScale, max-composed into currDfun. The
// counter of every re-seeded site is reset to zero.
//
// currDfun is never modified. If no site fires, currDfun itself is returned.
// counters is updated in place and returned.
func Renucleate(g *Grid, sites Sites, dfunSites []float64, counters []int, currDfun *mat.Dense, dfunScale, seedRadius float64) (*mat.Dense, []int, error) {
	next, _, err := renucleate(g, sites, dfunSites, counters, currDfun, dfunScale, seedRadius, RenucleationThreshold)
	return next, counters, err
}

// renucleate is Renucleate with an explicit threshold; it also reports the
// indices of the sites that fired.
func renucleate(g *Grid, sites Sites, dfunSites []float64, counters []int, currDfun *mat.Dense, dfunScale, seedRadius float64, threshold int) (*mat.Dense, []int, error) {
	if err := sites.validate(); err != nil {
		return nil, nil, err
	}
	if len(dfunSites) != sites.Len() || len(counters) != sites.Len() {
		return nil, nil, fmt.Errorf("%w: %d sites, %d sampled values, %d counters",
			ErrMisaligned, sites.Len(), len(dfunSites), len(counters))
	}
	if err := validateRadius(seedRadius); err != nil {
		return nil, nil, err
	}
	if err := validateScale(dfunScale); err != nil {
		return nil, nil, err
	}
	if err := g.checkField("current dfun", currDfun); err != nil {
		return nil, nil, err
	}

	var next *mat.Dense
	var fired []int
	for i := range sites.X {
		if !shouldRenucleate(dfunSites[i], counters[i], threshold) {
			continue
		}
		if next == nil {
			next = mat.DenseCopyOf(currDfun)
		}
		cx, cy := seedCenter(sites.X[i], sites.Y[i], seedRadius)
		unionSeed(next, g, cx, cy, seedRadius, dfunScale)
		counters[i] = 0
		fired = append(fired, i)
	}
	if next == nil {
		return currDfun, nil, nil
	}
	return next, fired, nil
}

func validateScale(dfunScale float64) error {
	if math.IsNaN(dfunScale) || math.IsInf(dfunScale, 0) || dfunScale == 0 {
		return fmt.Errorf("dfun scale must be a finite non-zero number, got %v", dfunScale)
	}
	return nil
}
