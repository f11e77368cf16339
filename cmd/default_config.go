package cmd

import (
	"github.com/spf13/pflag"

	"github.com/bubble-sim/bubble-sim/sim"
)

// resolveRunBundle loads --config (or the built-in defaults), applies every
// flag the user explicitly set and validates the result.
func resolveRunBundle(fs *pflag.FlagSet) (*sim.RunBundle, error) {
	var bundle *sim.RunBundle
	if configPath != "" {
		loaded, err := sim.LoadRunBundle(configPath)
		if err != nil {
			return nil, err
		}
		bundle = loaded
	} else {
		def := sim.DefaultRunBundle()
		bundle = &def
	}
	applyFlagOverrides(fs, bundle)
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// applyFlagOverrides copies flag values into b. Only flags the user set
// are copied: flag defaults never overwrite values from the YAML file.
func applyFlagOverrides(fs *pflag.FlagSet, b *sim.RunBundle) {
	if fs.Changed("seed") {
		b.Seed = seed
	}
	if fs.Changed("x-min") {
		b.Heater.XMin = heaterXMin
	}
	if fs.Changed("x-max") {
		b.Heater.XMax = heaterXMax
	}
	if fs.Changed("sites") {
		b.Heater.NumSites = numSites
	}
	if fs.Changed("seed-radius") {
		b.Nucleation.SeedRadius = seedRadius
	}
	if fs.Changed("dfun-scale") {
		b.Nucleation.DfunScale = dfunScale
	}
	if fs.Changed("nx") {
		b.Grid.NX = gridNX
	}
	if fs.Changed("ny") {
		b.Grid.NY = gridNY
	}
	if fs.Changed("y-min") {
		b.Grid.YMin = gridYMin
	}
	if fs.Changed("y-max") {
		b.Grid.YMax = gridYMax
	}
	if fs.Changed("steps") {
		b.Steps = steps
	}
	if fs.Changed("solver") {
		b.Solver.Kind = solverKind
	}
	if fs.Changed("trace-level") {
		b.TraceLevel = traceLevel
	}
}
