package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bubble-sim/bubble-sim/sim/trace"
)

// RunBundle holds the full configuration of a nucleation run, loadable from a
// YAML file. Keys missing from the file keep the values of DefaultRunBundle.
type RunBundle struct {
	Seed       int64            `yaml:"seed"`
	Steps      int              `yaml:"steps"`
	Heater     HeaterConfig     `yaml:"heater"`
	Grid       GridConfig       `yaml:"grid"`
	Nucleation NucleationConfig `yaml:"nucleation"`
	Solver     SolverConfig     `yaml:"solver"`
	TraceLevel string           `yaml:"trace_level"`
}

// SolverConfig selects and parameterizes the field provider that stands in
// for the external flow solver.
type SolverConfig struct {
	Kind        string  `yaml:"kind"`         // "forced-liquid" or "rising"
	LiquidValue float64 `yaml:"liquid_value"` // forced-liquid: uniform field value (must be < 0)
	Rows        int     `yaml:"rows"`         // rising: grid rows advected per step
	Decay       float64 `yaml:"decay"`        // rising: liquid depth added per vacated row
	Jitter      float64 `yaml:"jitter"`       // rising: amplitude of uniform noise added per step (0 disables)
}

// ValidSolverKinds is the set of recognized field provider names.
var ValidSolverKinds = map[string]bool{"forced-liquid": true, "rising": true}

// DefaultRunBundle returns the configuration used when no file is given:
// 40 sites on a 10-unit heater, meshed at the 0.03125 spacing of the
// reference pool-boiling runs.
func DefaultRunBundle() RunBundle {
	return RunBundle{
		Seed:  int64(DefaultSimulationKey),
		Steps: 50,
		Heater: HeaterConfig{
			XMin:     -5.0,
			XMax:     5.0,
			NumSites: 40,
		},
		Grid: GridConfig{
			XMin: -5.5,
			XMax: 5.5,
			YMin: 0,
			YMax: 2,
			NX:   353,
			NY:   65,
		},
		Nucleation: NewNucleationConfig(0.2, 1.0),
		Solver: SolverConfig{
			Kind:        "rising",
			LiquidValue: -1,
			Rows:        1,
			Decay:       0.03125,
		},
		TraceLevel: "none",
	}
}

// LoadRunBundle reads and parses a YAML run configuration file on top of
// DefaultRunBundle. Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRunBundle(path string) (*RunBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	bundle := DefaultRunBundle()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &bundle, nil
}

// WriteYAML saves the bundle to path.
func (b *RunBundle) WriteYAML(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling run config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run config: %w", err)
	}
	return nil
}

// Validate checks every section of the bundle.
func (b *RunBundle) Validate() error {
	if b.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", b.Steps)
	}
	if err := b.Heater.Validate(); err != nil {
		return fmt.Errorf("heater: %w", err)
	}
	if b.Grid.NX < 2 || b.Grid.NY < 2 {
		return fmt.Errorf("grid: nx and ny must be at least 2, got nx=%d ny=%d", b.Grid.NX, b.Grid.NY)
	}
	if b.Grid.XMin > b.Heater.XMin || b.Grid.XMax < b.Heater.XMax {
		return fmt.Errorf("grid: x range [%v, %v] must contain heater [%v, %v]",
			b.Grid.XMin, b.Grid.XMax, b.Heater.XMin, b.Heater.XMax)
	}
	if err := b.Nucleation.Validate(); err != nil {
		return fmt.Errorf("nucleation: %w", err)
	}
	if err := b.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if !trace.IsValidTraceLevel(b.TraceLevel) {
		return fmt.Errorf("unknown trace_level %q; valid: none, decisions", b.TraceLevel)
	}
	return nil
}

// Validate checks the solver parameters for the selected kind.
func (c SolverConfig) Validate() error {
	if !ValidSolverKinds[c.Kind] {
		return fmt.Errorf("unknown solver kind %q; valid: forced-liquid, rising", c.Kind)
	}
	switch c.Kind {
	case "forced-liquid":
		if c.LiquidValue >= 0 {
			return fmt.Errorf("liquid_value must be negative, got %v", c.LiquidValue)
		}
	case "rising":
		if c.Rows < 1 {
			return fmt.Errorf("rows must be at least 1, got %d", c.Rows)
		}
		if c.Decay <= 0 {
			return fmt.Errorf("decay must be positive, got %v", c.Decay)
		}
		if c.Jitter < 0 {
			return fmt.Errorf("jitter must be non-negative, got %v", c.Jitter)
		}
	}
	return nil
}
