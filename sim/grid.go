package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Grid is a structured 2-D mesh. X and Y hold per-point coordinates with rows
// indexing y and columns indexing x, matching the layout of dfun fields.
// CoordX (first row of X) and CoordY (first column of Y) are the monotone
// axes used for cell lookup. A Grid is immutable once constructed.
type Grid struct {
	X      *mat.Dense
	Y      *mat.Dense
	CoordX []float64
	CoordY []float64
}

// NewGrid builds a Grid from 2-D coordinate arrays and extracts the axes.
// Both arrays must share a shape of at least 2x2 and the extracted axes
// must be strictly increasing.
func NewGrid(x, y *mat.Dense) (*Grid, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: nil coordinate array", ErrInvalidGrid)
	}
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	if xr != yr || xc != yc {
		return nil, fmt.Errorf("%w: x is %dx%d but y is %dx%d", ErrInvalidGrid, xr, xc, yr, yc)
	}
	if xr < 2 || xc < 2 {
		return nil, fmt.Errorf("%w: need at least 2x2 points, got %dx%d", ErrInvalidGrid, xr, xc)
	}

	coordX := make([]float64, xc)
	copy(coordX, x.RawRowView(0))
	coordY := mat.Col(nil, 0, y)

	if err := validateAxis("x", coordX); err != nil {
		return nil, err
	}
	if err := validateAxis("y", coordY); err != nil {
		return nil, err
	}

	return &Grid{
		X:      mat.DenseCopyOf(x),
		Y:      mat.DenseCopyOf(y),
		CoordX: coordX,
		CoordY: coordY,
	}, nil
}

// NewUniformGrid builds an ny-by-nx mesh with evenly spaced points spanning
// [xMin, xMax] and [yMin, yMax] inclusive.
func NewUniformGrid(xMin, xMax, yMin, yMax float64, nx, ny int) (*Grid, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points per axis, got nx=%d ny=%d", ErrInvalidGrid, nx, ny)
	}
	xs := floats.Span(make([]float64, nx), xMin, xMax)
	ys := floats.Span(make([]float64, ny), yMin, yMax)

	x := mat.NewDense(ny, nx, nil)
	y := mat.NewDense(ny, nx, nil)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			x.Set(i, j, xs[j])
			y.Set(i, j, ys[i])
		}
	}
	return NewGrid(x, y)
}

// Dims returns the grid shape as (rows, cols), i.e. (len(CoordY), len(CoordX)).
func (g *Grid) Dims() (int, int) {
	return g.X.Dims()
}

// NewField allocates a field with the grid's shape, filled with v.
func (g *Grid) NewField(v float64) *mat.Dense {
	r, c := g.Dims()
	data := make([]float64, r*c)
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}
	return mat.NewDense(r, c, data)
}

// checkField reports whether f has the grid's shape.
func (g *Grid) checkField(name string, f *mat.Dense) error {
	if f == nil {
		return fmt.Errorf("%w: %s is nil", ErrFieldShape, name)
	}
	gr, gc := g.Dims()
	fr, fc := f.Dims()
	if gr != fr || gc != fc {
		return fmt.Errorf("%w: %s is %dx%d, grid is %dx%d", ErrFieldShape, name, fr, fc, gr, gc)
	}
	return nil
}

func validateAxis(name string, axis []float64) error {
	for i, v := range axis {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s axis has non-finite value %v at index %d", ErrInvalidGrid, name, v, i)
		}
		if i > 0 && v <= axis[i-1] {
			return fmt.Errorf("%w: %s axis not strictly increasing at index %d (%v <= %v)", ErrInvalidGrid, name, i, v, axis[i-1])
		}
	}
	return nil
}
