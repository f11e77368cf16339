package sim

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// gridFromAxes builds a Grid whose axes are exactly xs and ys.
func gridFromAxes(t *testing.T, xs, ys []float64) *Grid {
	t.Helper()
	x := mat.NewDense(len(ys), len(xs), nil)
	y := mat.NewDense(len(ys), len(xs), nil)
	for i := range ys {
		for j := range xs {
			x.Set(i, j, xs[j])
			y.Set(i, j, ys[i])
		}
	}
	g, err := NewGrid(x, y)
	if err != nil {
		t.Fatalf("gridFromAxes: %v", err)
	}
	return g
}

// uniformGrid builds a NewUniformGrid or fails the test.
func uniformGrid(t *testing.T, xMin, xMax, yMin, yMax float64, nx, ny int) *Grid {
	t.Helper()
	g, err := NewUniformGrid(xMin, xMax, yMin, yMax, nx, ny)
	if err != nil {
		t.Fatalf("uniformGrid: %v", err)
	}
	return g
}

// fieldFunc fills a field of the grid's shape from f(row, col).
func fieldFunc(g *Grid, f func(i, j int) float64) *mat.Dense {
	out := g.NewField(0)
	r, c := out.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, f(i, j))
		}
	}
	return out
}

// singleSite returns a one-site Sites at x on the heater baseline.
func singleSite(x float64) Sites {
	return Sites{X: []float64{x}, Y: []float64{SiteBaseline}}
}
