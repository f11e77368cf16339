package sim

import "errors"

// Sentinel errors for nucleation operations. Callers match them with errors.Is;
// the returned errors wrap them with site- or shape-specific detail.
var (
	// ErrSiteOutsideGrid is returned when a seed center falls outside the
	// addressable grid interior (the left-biased axis search lands on index 0
	// or past the last coordinate).
	ErrSiteOutsideGrid = errors.New("site outside addressable grid interior")

	// ErrMisaligned is returned when per-site arrays differ in length.
	ErrMisaligned = errors.New("per-site arrays are not index-aligned")

	// ErrFieldShape is returned when a field does not match the grid shape.
	ErrFieldShape = errors.New("field shape does not match grid")

	// ErrInvalidGrid is returned for coordinate arrays that cannot form a structured mesh.
	ErrInvalidGrid = errors.New("invalid grid")
)
