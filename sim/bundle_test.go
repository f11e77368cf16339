package sim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunBundle_ValidYAML(t *testing.T) {
	yaml := `
seed: 7
steps: 12
heater:
  x_min: -2
  x_max: 2
  num_sites: 8
nucleation:
  seed_radius: 0.1
  dfun_scale: 2.5
solver:
  kind: forced-liquid
  liquid_value: -1
trace_level: decisions
`
	path := writeTempYAML(t, yaml)
	bundle, err := LoadRunBundle(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), bundle.Seed)
	assert.Equal(t, 12, bundle.Steps)
	assert.Equal(t, HeaterConfig{XMin: -2, XMax: 2, NumSites: 8}, bundle.Heater)
	assert.Equal(t, 0.1, bundle.Nucleation.SeedRadius)
	assert.Equal(t, 2.5, bundle.Nucleation.DfunScale)
	assert.Equal(t, "forced-liquid", bundle.Solver.Kind)
	assert.Equal(t, "decisions", bundle.TraceLevel)
	require.NoError(t, bundle.Validate())
}

func TestLoadRunBundle_MissingKeysKeepDefaults(t *testing.T) {
	// GIVEN a file that only sets the step count
	path := writeTempYAML(t, "steps: 3\n")

	// WHEN loaded
	bundle, err := LoadRunBundle(path)
	require.NoError(t, err)

	// THEN every other section keeps its default
	def := DefaultRunBundle()
	assert.Equal(t, 3, bundle.Steps)
	assert.Equal(t, def.Grid, bundle.Grid)
	assert.Equal(t, def.Heater, bundle.Heater)
	assert.Equal(t, RenucleationThreshold, bundle.Nucleation.Threshold())
}

func TestLoadRunBundle_UnknownKey_ReturnsError(t *testing.T) {
	path := writeTempYAML(t, "nucleation:\n  seed_radiuss: 0.2\n")
	_, err := LoadRunBundle(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing run config")
}

func TestLoadRunBundle_NonexistentFile(t *testing.T) {
	_, err := LoadRunBundle(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadRunBundle_MalformedYAML(t *testing.T) {
	path := writeTempYAML(t, "{{invalid yaml")
	_, err := LoadRunBundle(path)
	require.Error(t, err)
}

func TestDefaultRunBundle_IsValid(t *testing.T) {
	bundle := DefaultRunBundle()
	require.NoError(t, bundle.Validate())
}

func TestRunBundle_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *RunBundle)
		want   string
	}{
		{"negative steps", func(b *RunBundle) { b.Steps = -1 }, "steps"},
		{"no sites", func(b *RunBundle) { b.Heater.NumSites = 0 }, "num_sites"},
		{"grid too small", func(b *RunBundle) { b.Grid.NX = 1 }, "nx and ny"},
		{"grid misses heater", func(b *RunBundle) { b.Grid.XMax = 4 }, "must contain heater"},
		{"zero radius", func(b *RunBundle) { b.Nucleation.SeedRadius = 0 }, "seed radius"},
		{"zero scale", func(b *RunBundle) { b.Nucleation.DfunScale = 0 }, "dfun scale"},
		{"negative threshold", func(b *RunBundle) { b.Nucleation.CoverThreshold = -2 }, "cover_threshold"},
		{"unknown solver", func(b *RunBundle) { b.Solver.Kind = "lattice-boltzmann" }, "unknown solver kind"},
		{"positive liquid", func(b *RunBundle) { b.Solver = SolverConfig{Kind: "forced-liquid", LiquidValue: 1} }, "liquid_value"},
		{"rising without rows", func(b *RunBundle) { b.Solver.Rows = 0 }, "rows"},
		{"rising without decay", func(b *RunBundle) { b.Solver.Decay = 0 }, "decay"},
		{"negative jitter", func(b *RunBundle) { b.Solver.Jitter = -0.1 }, "jitter"},
		{"bad trace level", func(b *RunBundle) { b.TraceLevel = "verbose" }, "trace_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DefaultRunBundle()
			tt.mutate(&b)
			err := b.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestRunBundle_WriteYAML_RoundTrips(t *testing.T) {
	// GIVEN a modified bundle written to disk
	b := DefaultRunBundle()
	b.Steps = 9
	b.Heater.NumSites = 5
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, b.WriteYAML(path))

	// WHEN loaded back with strict parsing
	got, err := LoadRunBundle(path)

	// THEN every field survives
	require.NoError(t, err)
	assert.Equal(t, b, *got)
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
