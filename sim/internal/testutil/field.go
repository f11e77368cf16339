// Package testutil provides shared test assertions for the nucleation
// packages. It depends only on gonum so that sim/ tests can import it.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFieldsIdentical fails unless want and got have the same shape and
// every element is equal under ==, with matching infinities.
func AssertFieldsIdentical(t *testing.T, want, got mat.Matrix) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("shape mismatch: got %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if w, g := want.At(i, j), got.At(i, j); w != g {
				t.Fatalf("element (%d, %d): got %v, want %v", i, j, g, w)
			}
		}
	}
}

// FieldArgMax returns the largest element of m and its position.
func FieldArgMax(m mat.Matrix) (float64, int, int) {
	r, c := m.Dims()
	best, bi, bj := math.Inf(-1), 0, 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v > best {
				best, bi, bj = v, i, j
			}
		}
	}
	return best, bi, bj
}
