// Package operator describes Fourier neural operator (FNO) blocks, the
// learned surrogate that consumes and produces distance fields. It owns the
// block configuration, its fail-fast validation and the per-layer forward
// plan; tensor math lives in the training framework, not here.
package operator

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BlockConfig is the YAML configuration of a stack of FNO layers that share
// one spectral convolution parametrization.
type BlockConfig struct {
	InChannels          int           `yaml:"in_channels"`
	OutChannels         int           `yaml:"out_channels"`
	NModes              Modes         `yaml:"n_modes"`
	OutputScalingFactor ScalingFactor `yaml:"output_scaling_factor,omitempty"`
	NLayers             int           `yaml:"n_layers"`
	UseMLP              bool          `yaml:"use_mlp"`
	MLPDropout          float64       `yaml:"mlp_dropout"`
	MLPExpansion        float64       `yaml:"mlp_expansion"`
	NonLinearity        string        `yaml:"non_linearity"`
	Stabilizer          string        `yaml:"stabilizer,omitempty"`
	Norm                string        `yaml:"norm,omitempty"`
	AdaInFeatures       int           `yaml:"ada_in_features,omitempty"`
	Preactivation       bool          `yaml:"preactivation"`
	FNOSkip             string        `yaml:"fno_skip"`
	MLPSkip             string        `yaml:"mlp_skip"`
	Separable           bool          `yaml:"separable"`
	Factorization       string        `yaml:"factorization,omitempty"`
	Rank                float64       `yaml:"rank"`
	Implementation      string        `yaml:"implementation"`
	FFTNorm             string        `yaml:"fft_norm"`
}

// DefaultBlockConfig returns a single-layer block with the library defaults.
func DefaultBlockConfig(in, out int, modes ...int) BlockConfig {
	return BlockConfig{
		InChannels:     in,
		OutChannels:    out,
		NModes:         Modes(modes),
		NLayers:        1,
		MLPExpansion:   0.5,
		NonLinearity:   "gelu",
		FNOSkip:        "linear",
		MLPSkip:        "soft-gating",
		Rank:           1.0,
		Implementation: "factorized",
		FFTNorm:        "forward",
	}
}

// LoadBlockConfig reads a YAML block configuration on top of the defaults.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadBlockConfig(path string) (*BlockConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading block config: %w", err)
	}
	cfg := DefaultBlockConfig(0, 0)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing block config: %w", err)
	}
	return &cfg, nil
}

// Modes holds the number of retained Fourier modes per spatial dimension.
// In YAML it is either a single integer (one dimension) or a list.
type Modes []int

// UnmarshalYAML accepts a scalar or a sequence.
func (m *Modes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		*m = Modes{n}
		return nil
	}
	var list []int
	if err := value.Decode(&list); err != nil {
		return err
	}
	*m = Modes(list)
	return nil
}

// ScalingFactor is the optional output resolution scaling of each layer. In
// YAML it is a scalar (every layer, every dimension), a list with one value
// per layer, or a list of per-dimension lists.
type ScalingFactor struct {
	set      bool
	scalar   float64
	perLayer []float64
	full     [][]float64
}

// UniformScaling applies s to every layer and dimension.
func UniformScaling(s float64) ScalingFactor {
	return ScalingFactor{set: true, scalar: s}
}

// PerLayerScaling applies one factor per layer to every dimension.
func PerLayerScaling(s ...float64) ScalingFactor {
	return ScalingFactor{set: true, perLayer: append([]float64(nil), s...)}
}

// FullScaling sets every layer and dimension explicitly.
func FullScaling(s [][]float64) ScalingFactor {
	full := make([][]float64, len(s))
	for i := range s {
		full[i] = append([]float64(nil), s[i]...)
	}
	return ScalingFactor{set: true, full: full}
}

// IsZero reports whether no scaling was configured.
func (s ScalingFactor) IsZero() bool { return !s.set }

// Factors expands the factor to [nLayers][nDim]. Returns nil when unset.
func (s ScalingFactor) Factors(nLayers, nDim int) ([][]float64, error) {
	if !s.set {
		return nil, nil
	}
	out := make([][]float64, nLayers)
	switch {
	case s.full != nil:
		if len(s.full) != nLayers {
			return nil, fmt.Errorf("output_scaling_factor has %d layers, n_layers is %d", len(s.full), nLayers)
		}
		for i, row := range s.full {
			if len(row) != nDim {
				return nil, fmt.Errorf("output_scaling_factor layer %d has %d dims, n_modes has %d", i, len(row), nDim)
			}
			out[i] = append([]float64(nil), row...)
		}
	case s.perLayer != nil:
		if len(s.perLayer) != nLayers {
			return nil, fmt.Errorf("output_scaling_factor has %d layers, n_layers is %d", len(s.perLayer), nLayers)
		}
		for i, f := range s.perLayer {
			out[i] = repeat(f, nDim)
		}
	default:
		for i := range out {
			out[i] = repeat(s.scalar, nDim)
		}
	}
	for i, row := range out {
		for _, f := range row {
			if f <= 0 {
				return nil, fmt.Errorf("output_scaling_factor layer %d must be positive, got %v", i, f)
			}
		}
	}
	return out, nil
}

// UnmarshalYAML accepts a scalar, a list of scalars or a list of lists.
func (s *ScalingFactor) UnmarshalYAML(value *yaml.Node) error {
	if value.ShortTag() == "!!null" {
		*s = ScalingFactor{}
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return err
		}
		*s = UniformScaling(f)
	case yaml.SequenceNode:
		if len(value.Content) > 0 && value.Content[0].Kind == yaml.SequenceNode {
			var full [][]float64
			if err := value.Decode(&full); err != nil {
				return err
			}
			*s = FullScaling(full)
			return nil
		}
		var list []float64
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = PerLayerScaling(list...)
	default:
		return fmt.Errorf("line %d: output_scaling_factor must be a number or a list", value.Line)
	}
	return nil
}

// MarshalYAML writes the factor back in the form it was given.
func (s ScalingFactor) MarshalYAML() (any, error) {
	switch {
	case !s.set:
		return nil, nil
	case s.full != nil:
		return s.full, nil
	case s.perLayer != nil:
		return s.perLayer, nil
	}
	return s.scalar, nil
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
