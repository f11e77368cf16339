package operator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrUnsupportedNorm is returned by NewBlocks for a norm outside ValidNorms.
var ErrUnsupportedNorm = errors.New("unsupported norm")

// Valid option names. Empty string means "not set" wherever it is accepted.
var (
	ValidNorms           = map[string]bool{"": true, "none": true, "instance_norm": true, "group_norm": true, "ada_in": true}
	ValidSkips           = map[string]bool{"linear": true, "identity": true, "soft-gating": true}
	ValidStabilizers     = map[string]bool{"": true, "tanh": true}
	ValidImplementations = map[string]bool{"factorized": true, "reconstructed": true}
	ValidFFTNorms        = map[string]bool{"forward": true, "backward": true, "ortho": true}
	ValidNonLinearities  = map[string]bool{"gelu": true, "relu": true, "tanh": true, "sigmoid": true, "silu": true}
	ValidFactorizations  = map[string]bool{"": true, "dense": true, "tucker": true, "cp": true, "tt": true}
)

// Blocks is a validated BlockConfig plus the values derived from it.
type Blocks struct {
	Config BlockConfig

	NDim      int         // spatial dimensions, len(n_modes)
	NumNorms  int         // norm layers per FNO layer: 2 with an MLP, else 1
	Scaling   [][]float64 // [n_layers][n_dim] output scaling, nil when unset
	MLPHidden int         // hidden channels of each MLP
}

// NewBlocks validates cfg and derives the per-layer layout. Invalid
// configuration fails immediately.
func NewBlocks(cfg BlockConfig) (*Blocks, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Blocks{
		Config:   cfg,
		NDim:     len(cfg.NModes),
		NumNorms: 1,
	}
	if cfg.UseMLP {
		b.NumNorms = 2
		b.MLPHidden = int(math.RoundToEven(float64(cfg.OutChannels) * cfg.MLPExpansion))
	}
	scaling, err := cfg.OutputScalingFactor.Factors(cfg.NLayers, b.NDim)
	if err != nil {
		return nil, err
	}
	b.Scaling = scaling
	logrus.Debugf("fno blocks: %d layers, %d->%d channels, modes=%v, norm=%q, mlp=%v",
		cfg.NLayers, cfg.InChannels, cfg.OutChannels, []int(cfg.NModes), cfg.Norm, cfg.UseMLP)
	return b, nil
}

// Validate checks every option against its allowed values.
func (c BlockConfig) Validate() error {
	if c.InChannels <= 0 || c.OutChannels <= 0 {
		return fmt.Errorf("in_channels and out_channels must be positive, got %d and %d", c.InChannels, c.OutChannels)
	}
	if len(c.NModes) == 0 {
		return fmt.Errorf("n_modes must name at least one dimension")
	}
	for i, m := range c.NModes {
		if m <= 0 {
			return fmt.Errorf("n_modes[%d] must be positive, got %d", i, m)
		}
	}
	if c.NLayers <= 0 {
		return fmt.Errorf("n_layers must be positive, got %d", c.NLayers)
	}
	if !ValidNorms[c.Norm] {
		return fmt.Errorf("%w: got norm=%q but expected none or one of instance_norm, group_norm, ada_in", ErrUnsupportedNorm, c.Norm)
	}
	if c.Norm == "ada_in" && c.AdaInFeatures <= 0 {
		return fmt.Errorf("norm ada_in requires positive ada_in_features, got %d", c.AdaInFeatures)
	}
	if !ValidSkips[c.FNOSkip] {
		return fmt.Errorf("unknown fno_skip %q; valid: %s", c.FNOSkip, validNames(ValidSkips))
	}
	if c.UseMLP && !ValidSkips[c.MLPSkip] {
		return fmt.Errorf("unknown mlp_skip %q; valid: %s", c.MLPSkip, validNames(ValidSkips))
	}
	if c.UseMLP && c.MLPExpansion <= 0 {
		return fmt.Errorf("mlp_expansion must be positive, got %v", c.MLPExpansion)
	}
	if c.MLPDropout < 0 || c.MLPDropout >= 1 {
		return fmt.Errorf("mlp_dropout must be in [0, 1), got %v", c.MLPDropout)
	}
	if !ValidNonLinearities[c.NonLinearity] {
		return fmt.Errorf("unknown non_linearity %q; valid: %s", c.NonLinearity, validNames(ValidNonLinearities))
	}
	if !ValidStabilizers[c.Stabilizer] {
		return fmt.Errorf("unknown stabilizer %q; valid: none or tanh", c.Stabilizer)
	}
	if !ValidImplementations[c.Implementation] {
		return fmt.Errorf("unknown implementation %q; valid: %s", c.Implementation, validNames(ValidImplementations))
	}
	if !ValidFFTNorms[c.FFTNorm] {
		return fmt.Errorf("unknown fft_norm %q; valid: %s", c.FFTNorm, validNames(ValidFFTNorms))
	}
	if !ValidFactorizations[c.Factorization] {
		return fmt.Errorf("unknown factorization %q; valid: %s", c.Factorization, validNames(ValidFactorizations))
	}
	if c.Rank <= 0 {
		return fmt.Errorf("rank must be positive, got %v", c.Rank)
	}
	return nil
}

// HasNorm reports whether normalization layers are configured.
func (b *Blocks) HasNorm() bool {
	return b.Config.Norm != "" && b.Config.Norm != "none"
}

// SubBlock is a view of one layer of a jointly parametrized Blocks.
type SubBlock struct {
	Parent *Blocks
	Index  int
}

// SubBlock returns the view of layer index. A single-layer Blocks has no
// sub-blocks; use it directly.
func (b *Blocks) SubBlock(index int) (*SubBlock, error) {
	if b.Config.NLayers == 1 {
		return nil, fmt.Errorf("a single layer is parametrized, use the blocks directly")
	}
	if index < 0 || index >= b.Config.NLayers {
		return nil, fmt.Errorf("layer index %d out of range [0, %d)", index, b.Config.NLayers)
	}
	return &SubBlock{Parent: b, Index: index}, nil
}

// Plan returns the forward stages of the viewed layer.
func (s *SubBlock) Plan() ([]Stage, error) {
	return s.Parent.Plan(s.Index)
}

func validNames(m map[string]bool) string {
	names := make([]string, 0, len(m))
	for name := range m {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
