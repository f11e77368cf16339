package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// cellIndex locates the grid cell enclosing a seed center. The returned
// (xi, yi) is the upper corner of the cell; the cell spans (xi-1, yi-1) to
// (xi, yi). Indices come from a left-biased binary search on the axes, and
// both must lie in [1, len(axis)-1].
func cellIndex(coordX, coordY []float64, cx, cy float64) (int, int, bool) {
	xi := sort.SearchFloat64s(coordX, cx)
	yi := sort.SearchFloat64s(coordY, cy)
	if xi < 1 || xi > len(coordX)-1 || yi < 1 || yi > len(coordY)-1 {
		return xi, yi, false
	}
	return xi, yi, true
}

// sampleCell returns the unweighted mean of the four corners of the cell
// whose upper corner is (xi, yi).
func sampleCell(dfun *mat.Dense, xi, yi int) float64 {
	return (dfun.At(yi, xi) + dfun.At(yi-1, xi) + dfun.At(yi, xi-1) + dfun.At(yi-1, xi-1)) / 4.0
}

// locateSites resolves the enclosing cell of every site's seed center.
// Every site is checked before any result is returned.
func locateSites(sites Sites, coordX, coordY []float64, seedRadius float64) ([][2]int, error) {
	cells := make([][2]int, sites.Len())
	for i := range sites.X {
		cx, cy := seedCenter(sites.X[i], sites.Y[i], seedRadius)
		xi, yi, ok := cellIndex(coordX, coordY, cx, cy)
		if !ok {
			return nil, fmt.Errorf("%w: site %d seed center (%v, %v) maps to cell (%d, %d); axes have %d x and %d y points",
				ErrSiteOutsideGrid, i, cx, cy, xi, yi, len(coordX), len(coordY))
		}
		cells[i] = [2]int{xi, yi}
	}
	return cells, nil
}

// TagRenucleation samples the field at every site's seed center and updates
// the per-site liquid-cover counters: a negative sample extends the run of
// covered evaluations by one, anything else resets it to zero.
//
// counters is updated in place and returned; callers must treat the returned
// slice as the authoritative state. Nothing is mutated when an error is returned.
func TagRenucleation(sites Sites, dfun *mat.Dense, coordX, coordY []float64, seedRadius float64, counters []int) ([]float64, []int, error) {
	if err := sites.validate(); err != nil {
		return nil, counters, err
	}
	if len(counters) != sites.Len() {
		return nil, counters, fmt.Errorf("%w: %d sites, %d counters", ErrMisaligned, sites.Len(), len(counters))
	}
	if err := validateRadius(seedRadius); err != nil {
		return nil, counters, err
	}
	if dfun == nil {
		return nil, counters, fmt.Errorf("%w: dfun is nil", ErrFieldShape)
	}
	if r, c := dfun.Dims(); r != len(coordY) || c != len(coordX) {
		return nil, counters, fmt.Errorf("%w: dfun is %dx%d, axes are %dx%d", ErrFieldShape, r, c, len(coordY), len(coordX))
	}

	cells, err := locateSites(sites, coordX, coordY, seedRadius)
	if err != nil {
		return nil, counters, err
	}

	dfunSites := make([]float64, sites.Len())
	for i, cell := range cells {
		dfunSites[i] = sampleCell(dfun, cell[0], cell[1])
		if dfunSites[i] < 0 {
			counters[i]++
		} else {
			counters[i] = 0
		}
	}
	return dfunSites, counters, nil
}
