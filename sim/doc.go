// Package sim provides the nucleation-site model for boiling simulations.
//
// # Reading Guide
//
// The model is four small operations over a structured grid, leaf to root:
//   - heater.go: HeaterInit places sites on the heater with a scrambled Halton sequence
//   - dfun.go: DfunInit builds the initial distance field as a max-union of circular seeds
//   - tagger.go: TagRenucleation samples the field at each site and counts liquid-covered evaluations
//   - renucleate.go: Renucleate re-seeds sites that stayed covered for RenucleationThreshold evaluations
//
// nucleation.go wraps the four into Nucleation, which owns the counters across
// steps and sequences tagging before re-seeding.
//
// # Conventions
//
// Fields are *mat.Dense with rows indexing y and columns indexing x. Positive
// values are vapor (inside a bubble), negative values are liquid.
//
// # Architecture
//
// Sub-packages:
//   - sim/solver/: field providers standing in for the external flow solver
//   - sim/trace/: per-step decision records
//   - sim/output/: CSV and YAML run output
//   - sim/operator/: Fourier Neural Operator block configuration
package sim
