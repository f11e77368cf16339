package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/bubble-sim/bubble-sim/sim/trace"
)

// Nucleation owns the per-run nucleation state: the grid, the fixed site
// positions and the liquid-cover counters that carry hysteresis from one
// step to the next. Losing the counters resets all hysteresis.
//
// Thread-safety: NOT thread-safe. Steps must be sequenced by a single caller.
type Nucleation struct {
	Grid   *Grid
	Sites  Sites
	Config NucleationConfig

	counters []int
	step     int
	trace    *trace.NucleationTrace
}

// StepResult is the outcome of one Nucleation.Step.
type StepResult struct {
	Step        int        // 1-based index of the completed step
	Dfun        *mat.Dense // field after re-seeding; the input field if nothing fired
	DfunSites   []float64  // sampled field value per site
	Counters    []int      // counters after tagging and re-seeding (copy)
	Renucleated []int      // indices of sites that received a new seed
}

// NewNucleation validates the configuration and checks that every site's seed
// center lies inside the addressable grid interior. All validation happens
// here so that Step only fails on bad fields.
func NewNucleation(g *Grid, sites Sites, cfg NucleationConfig, traceCfg trace.TraceConfig) (*Nucleation, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("nucleation config: %w", err)
	}
	if err := sites.validate(); err != nil {
		return nil, err
	}
	if sites.Len() == 0 {
		return nil, fmt.Errorf("at least one nucleation site required")
	}
	if _, err := locateSites(sites, g.CoordX, g.CoordY, cfg.SeedRadius); err != nil {
		return nil, err
	}

	n := &Nucleation{
		Grid:     g,
		Sites:    sites,
		Config:   cfg,
		counters: make([]int, sites.Len()),
	}
	if traceCfg.Enabled() {
		n.trace = trace.NewNucleationTrace(traceCfg)
	}
	rows, cols := g.Dims()
	logrus.Infof("nucleation: %d sites on %dx%d grid, seed_radius=%v, dfun_scale=%v, threshold=%d",
		sites.Len(), rows, cols, cfg.SeedRadius, cfg.DfunScale, cfg.Threshold())
	return n, nil
}

// InitialField returns the union-of-seeds field for every site.
func (n *Nucleation) InitialField() (*mat.Dense, error) {
	return DfunInit(n.Grid, n.Sites, n.Config.SeedRadius)
}

// Step tags every site against dfun and re-seeds the armed ones. On error the
// counters and step index are left unchanged.
func (n *Nucleation) Step(dfun *mat.Dense) (StepResult, error) {
	if err := n.Grid.checkField("dfun", dfun); err != nil {
		return StepResult{}, err
	}

	counters := n.Counters()
	dfunSites, counters, err := TagRenucleation(n.Sites, dfun, n.Grid.CoordX, n.Grid.CoordY, n.Config.SeedRadius, counters)
	if err != nil {
		return StepResult{}, fmt.Errorf("tagging step %d: %w", n.step+1, err)
	}
	before := append([]int(nil), counters...)

	next, fired, err := renucleate(n.Grid, n.Sites, dfunSites, counters, dfun, n.Config.DfunScale, n.Config.SeedRadius, n.Config.Threshold())
	if err != nil {
		return StepResult{}, fmt.Errorf("renucleating step %d: %w", n.step+1, err)
	}

	n.step++
	n.counters = counters
	for _, i := range fired {
		logrus.Debugf("[step %05d] renucleating site %d at x=%.4f (dfun=%.4f, covered %d evaluations)",
			n.step, i, n.Sites.X[i], dfunSites[i], before[i])
	}
	n.record(dfunSites, before, fired)

	return StepResult{
		Step:        n.step,
		Dfun:        next,
		DfunSites:   dfunSites,
		Counters:    n.Counters(),
		Renucleated: fired,
	}, nil
}

func (n *Nucleation) record(dfunSites []float64, tagged []int, fired []int) {
	if n.trace == nil {
		return
	}
	for i := range n.Sites.X {
		n.trace.RecordTag(trace.TagRecord{
			Step:     n.step,
			Site:     i,
			X:        n.Sites.X[i],
			Y:        n.Sites.Y[i],
			DfunSite: dfunSites[i],
			Counter:  tagged[i],
			Covered:  dfunSites[i] < 0,
		})
	}
	for _, i := range fired {
		n.trace.RecordRenucleation(trace.RenucleationRecord{
			Step:          n.step,
			Site:          i,
			X:             n.Sites.X[i],
			Y:             n.Sites.Y[i],
			DfunSite:      dfunSites[i],
			CounterBefore: tagged[i],
		})
	}
}

// Counters returns a copy of the liquid-cover counters.
func (n *Nucleation) Counters() []int {
	return append([]int(nil), n.counters...)
}

// SetCounters replaces the counters, e.g. when a driver carries them over
// from an earlier run. The length must match the site count.
func (n *Nucleation) SetCounters(counters []int) error {
	if len(counters) != n.Sites.Len() {
		return fmt.Errorf("%w: %d sites, %d counters", ErrMisaligned, n.Sites.Len(), len(counters))
	}
	n.counters = append([]int(nil), counters...)
	return nil
}

// StepIndex returns the number of completed steps.
func (n *Nucleation) StepIndex() int {
	return n.step
}

// Trace returns the collected decision trace, or nil when tracing is disabled.
func (n *Nucleation) Trace() *trace.NucleationTrace {
	return n.trace
}
