package operator

import "fmt"

// Op is one kind of forward-pass stage.
type Op string

const (
	OpActivation   Op = "activation"
	OpNorm         Op = "norm"
	OpFNOSkip      Op = "fno_skip"
	OpMLPSkip      Op = "mlp_skip"
	OpResample     Op = "resample"
	OpStabilizer   Op = "stabilizer"
	OpSpectralConv Op = "spectral_conv"
	OpAddFNOSkip   Op = "add_fno_skip"
	OpMLP          Op = "mlp"
	OpAddMLPSkip   Op = "add_mlp_skip"
)

// Stage is one step of a layer's forward pass. Arg names the concrete
// instance: the norm slot for OpNorm, the resampled branch for OpResample,
// the function name for OpActivation and OpStabilizer.
type Stage struct {
	Op  Op
	Arg string
}

func (s Stage) String() string {
	if s.Arg == "" {
		return string(s.Op)
	}
	return fmt.Sprintf("%s(%s)", s.Op, s.Arg)
}

// Plan returns the ordered forward stages of layer index.
//
// Preactivation moves the activation and first norm in front of the spectral
// convolution. The activation after the skip sum runs when an MLP follows a
// post-activation layer, or when index < n_layers-index; the latter holds for
// the first half of the stack only.
func (b *Blocks) Plan(index int) ([]Stage, error) {
	cfg := b.Config
	if index < 0 || index >= cfg.NLayers {
		return nil, fmt.Errorf("layer index %d out of range [0, %d)", index, cfg.NLayers)
	}
	act := Stage{Op: OpActivation, Arg: cfg.NonLinearity}
	norm := func(slot int) Stage {
		return Stage{Op: OpNorm, Arg: fmt.Sprintf("%s[%d]", cfg.Norm, slot)}
	}
	first := b.NumNorms * index
	hasMLP := cfg.UseMLP
	pre := cfg.Preactivation

	var stages []Stage
	if pre {
		stages = append(stages, act)
		if b.HasNorm() {
			stages = append(stages, norm(first))
		}
	}

	stages = append(stages, Stage{Op: OpFNOSkip, Arg: cfg.FNOSkip})
	if b.Scaling != nil {
		stages = append(stages, Stage{Op: OpResample, Arg: "fno_skip"})
	}
	if hasMLP {
		stages = append(stages, Stage{Op: OpMLPSkip, Arg: cfg.MLPSkip})
		if b.Scaling != nil {
			stages = append(stages, Stage{Op: OpResample, Arg: "mlp_skip"})
		}
	}

	if cfg.Stabilizer == "tanh" {
		stages = append(stages, Stage{Op: OpStabilizer, Arg: "tanh"})
	}
	stages = append(stages, Stage{Op: OpSpectralConv, Arg: fmt.Sprintf("layer %d", index)})
	if !pre && b.HasNorm() {
		stages = append(stages, norm(first))
	}
	stages = append(stages, Stage{Op: OpAddFNOSkip})

	if (!pre && hasMLP) || index < cfg.NLayers-index {
		stages = append(stages, act)
	}

	if !hasMLP {
		return stages, nil
	}
	notLast := index < cfg.NLayers-1
	if pre {
		if notLast {
			stages = append(stages, act)
		}
		if b.HasNorm() {
			stages = append(stages, norm(first+1))
		}
	}
	stages = append(stages, Stage{Op: OpMLP, Arg: fmt.Sprintf("hidden=%d", b.MLPHidden)}, Stage{Op: OpAddMLPSkip})
	if !pre {
		if b.HasNorm() {
			stages = append(stages, norm(first+1))
		}
		if notLast {
			stages = append(stages, act)
		}
	}
	return stages, nil
}
