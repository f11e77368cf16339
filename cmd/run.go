package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bubble-sim/bubble-sim/sim"
	"github.com/bubble-sim/bubble-sim/sim/output"
	"github.com/bubble-sim/bubble-sim/sim/solver"
	"github.com/bubble-sim/bubble-sim/sim/trace"
)

// runNucleation samples the sites, seeds the initial field and drives the
// nucleation model for bundle.Steps solver steps. Output goes to outDir when
// it is non-empty.
func runNucleation(bundle *sim.RunBundle, outDir string, compress bool) (*trace.TraceSummary, error) {
	key := sim.NewSimulationKey(bundle.Seed)

	sites, err := sim.HeaterInitWithKey(bundle.Heater.XMin, bundle.Heater.XMax, bundle.Heater.NumSites, key)
	if err != nil {
		return nil, fmt.Errorf("sampling sites: %w", err)
	}
	g, err := bundle.Grid.Build()
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}
	n, err := sim.NewNucleation(g, sites, bundle.Nucleation, trace.TraceConfig{Level: trace.TraceLevel(bundle.TraceLevel)})
	if err != nil {
		return nil, err
	}
	provider, err := solver.New(g, bundle.Solver, key)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	om, err := output.NewOutputManager(outDir, compress)
	if err != nil {
		return nil, err
	}
	defer om.Close()
	if err := om.WriteConfig(bundle); err != nil {
		return nil, err
	}

	d, err := solver.NewDriver(n, provider, func(res sim.StepResult) error {
		return om.WriteSites(output.StepRecords(res, sites))
	})
	if err != nil {
		return nil, err
	}
	dfun, err := n.InitialField()
	if err != nil {
		return nil, fmt.Errorf("seeding initial field: %w", err)
	}
	if _, err := d.Run(dfun, bundle.Steps); err != nil {
		return nil, err
	}

	summary := trace.Summarize(n.Trace())
	if n.Trace() == nil {
		summary.Renucleations = d.Renucleations
	}
	if err := om.WriteSummary(summary); err != nil {
		return nil, err
	}
	if err := om.Close(); err != nil {
		return nil, fmt.Errorf("closing output: %w", err)
	}
	if om != nil {
		logrus.Infof("Output written to %s", om.Dir())
	}
	return summary, nil
}
