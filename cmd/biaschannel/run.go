package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bityangke/deeplab-public/internal/backend/cpu"
	"github.com/bityangke/deeplab-public/internal/backend/webgpu"
	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/config"
	"github.com/bityangke/deeplab-public/internal/logger"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// runOptions describes one synthetic forward/backward run.
type runOptions struct {
	N, C, H, W int
	Slots      int // label slots per image (image mode)
	Mode       string
	BgBias     float64
	FgBias     float64
	Ignore     []int
	Seed       int64
	Float64    bool
}

func defaultRunOptions() runOptions {
	return runOptions{N: 2, C: 21, H: 65, W: 65, Slots: 4, Mode: "IMAGE", BgBias: 1, FgBias: 1, Seed: 1}
}

// summary is the outcome of a run.
type summary struct {
	Kernel       string
	LabelType    string
	Elements     int
	Forward      time.Duration
	MaxDiff      float64 // largest |kernel - reference| over the output
	BackwardOK   bool
	LabelGradErr error
}

func (s summary) String() string {
	return fmt.Sprintf("kernel=%s label_type=%s elements=%d forward=%s max_diff=%g backward_identity=%t label_grad_rejected=%t",
		s.Kernel, s.LabelType, s.Elements, s.Forward, s.MaxDiff, s.BackwardOK,
		errors.Is(s.LabelGradErr, biaschannel.ErrUnsupported))
}

// parseIgnore parses a comma-separated list of label values.
func parseIgnore(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("ignore label %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// selectKernel returns the forward kernel for cfg.Backend and a release func.
// An unavailable WebGPU device falls back to the CPU kernel.
func selectKernel(cfg config.Config) (biaschannel.Kernel, func(), error) {
	switch cfg.GetBackend() {
	case config.BackendReference:
		return biaschannel.Reference{}, func() {}, nil
	case config.BackendCPU:
		return cpu.NewWithConfig(cfg.Parallel()).BiasChannel(), func() {}, nil
	case config.BackendWebGPU:
		gpu, err := webgpu.New()
		if err != nil {
			logger.Log.Warn("webgpu unavailable, falling back to cpu", "err", err)
			return cpu.NewWithConfig(cfg.Parallel()).BiasChannel(), func() {}, nil
		}
		return gpu.BiasChannel(), gpu.Release, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// syntheticInputs builds random activations and labels for opts. Roughly one
// label in five is the padding label or, when present, the first ignore label.
func syntheticInputs(opts runOptions, lt biaschannel.LabelType) (activation, label *tensor.RawTensor, err error) {
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // synthetic data

	dtype := tensor.Float32
	if opts.Float64 {
		dtype = tensor.Float64
	}
	activation, err = tensor.NewRaw(tensor.Shape{opts.N, opts.C, opts.H, opts.W}, dtype, tensor.CPU)
	if err != nil {
		return nil, nil, err
	}
	for i := range activation.NumElements() {
		v := rng.NormFloat64()
		if opts.Float64 {
			activation.AsFloat64()[i] = v
		} else {
			activation.AsFloat32()[i] = float32(v)
		}
	}

	labelShape := tensor.Shape{opts.N, opts.Slots, 1, 1}
	if lt == biaschannel.Pixel {
		labelShape = tensor.Shape{opts.N, 1, opts.H, opts.W}
	}
	labels := make([]int32, labelShape.NumElements())
	for i := range labels {
		switch {
		case rng.Intn(5) > 0:
			labels[i] = int32(rng.Intn(opts.C)) //nolint:gosec // bounded by C
		case len(opts.Ignore) > 0 && rng.Intn(2) == 0:
			labels[i] = int32(opts.Ignore[0]) //nolint:gosec // user-provided label value
		default:
			labels[i] = biaschannel.PaddingLabel
		}
	}
	label, err = tensor.FromSlice(labels, labelShape, tensor.CPU)
	if err != nil {
		return nil, nil, err
	}
	return activation, label, nil
}

// run executes forward with kernel, checks it against the reference kernel,
// then runs backward and checks the identity gradient.
func run(opts runOptions, kernel biaschannel.Kernel) (summary, error) {
	lt, err := biaschannel.ParseLabelType(opts.Mode)
	if err != nil {
		return summary{}, err
	}
	cfg := biaschannel.Config{BgBias: opts.BgBias, FgBias: opts.FgBias, LabelType: lt, IgnoreLabels: opts.Ignore}

	layer, err := biaschannel.NewLayer(cfg, biaschannel.WithKernel(kernel))
	if err != nil {
		return summary{}, err
	}
	ref, err := biaschannel.NewLayer(cfg)
	if err != nil {
		return summary{}, err
	}

	activation, label, err := syntheticInputs(opts, lt)
	if err != nil {
		return summary{}, err
	}

	start := time.Now()
	out, err := layer.Apply(activation, label)
	if err != nil {
		return summary{}, err
	}
	elapsed := time.Since(start)

	want, err := ref.Apply(activation, label)
	if err != nil {
		return summary{}, err
	}

	s := summary{
		Kernel:    layer.Operator().Kernel().Name(),
		LabelType: lt.String(),
		Elements:  out.NumElements(),
		Forward:   elapsed,
		MaxDiff:   maxAbsDiff(out, want),
	}

	grad := out.Clone()
	actGrad, err := tensor.NewRaw(activation.Shape(), activation.DType(), tensor.CPU)
	if err != nil {
		return s, err
	}
	if err := layer.Backward(grad, actGrad, []bool{true, false}); err != nil {
		return s, err
	}
	s.BackwardOK = maxAbsDiff(grad, actGrad) == 0
	s.LabelGradErr = layer.Backward(grad, actGrad, []bool{true, true})

	logger.Log.Info("bias channel run",
		"kernel", s.Kernel,
		"label_type", s.LabelType,
		"elements", s.Elements,
		"forward", s.Forward.String(),
		"max_diff", s.MaxDiff,
	)
	return s, nil
}

func maxAbsDiff(a, b *tensor.RawTensor) float64 {
	var m float64
	for i := range a.NumElements() {
		m = math.Max(m, math.Abs(a.Float(i)-b.Float(i)))
	}
	return m
}
