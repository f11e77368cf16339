// Package trace provides decision-trace recording for nucleation-site analysis.
// This package has no dependencies on sim/: it stores pure data types.
package trace

// TagRecord captures one coverage-tagger evaluation of one site.
type TagRecord struct {
	Step     int     `csv:"step" yaml:"step"`
	Site     int     `csv:"site" yaml:"site"`
	X        float64 `csv:"x" yaml:"x"`
	Y        float64 `csv:"y" yaml:"y"`
	DfunSite float64 `csv:"dfun_site" yaml:"dfun_site"` // mean of the four enclosing cell corners
	Counter  int     `csv:"liquid_cover_iters" yaml:"liquid_cover_iters"`
	Covered  bool    `csv:"covered" yaml:"covered"` // DfunSite < 0
}

// RenucleationRecord captures a site that received a new seed.
type RenucleationRecord struct {
	Step          int
	Site          int
	X             float64
	Y             float64
	DfunSite      float64
	CounterBefore int // counter value that armed the trigger (>= threshold)
}
