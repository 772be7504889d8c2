// Package biaschannel implements the channel-biasing operator: it adds fixed
// background/foreground biases to the channel slices of an (N, C, H, W)
// activation tensor selected by a companion label tensor.
//
// Labels are read in one of two modes:
//
//   - Image: labels are (N, L, 1, 1), a list of up to L channel indices per
//     sample. Each listed channel gets the background bias (channel 0) or the
//     foreground bias (any other channel) over its whole H×W plane. Repeated
//     channels accumulate.
//   - Pixel: labels are (N, 1, H, W), one channel index per position. Every
//     non-ignored pixel gets the background bias on channel 0, and a
//     foreground pixel also gets the foreground bias on its own channel.
//
// The operator has no learnable parameters; its gradient is the identity with
// respect to the activations and undefined with respect to the labels.
package biaschannel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bityangke/deeplab-public/internal/logger"
	"github.com/bityangke/deeplab-public/internal/metrics"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// Operator is the stateless form of the layer: immutable parameters plus a
// forward kernel. All methods are safe for concurrent use as long as every
// call gets its own buffers.
type Operator struct {
	params Params
	kernel Kernel
}

// Option customizes an Operator.
type Option func(*Operator)

// WithKernel selects the forward kernel. The default is Reference.
func WithKernel(k Kernel) Option {
	return func(op *Operator) {
		if k != nil {
			op.kernel = k
		}
	}
}

// New performs setup: it validates cfg and freezes it into an Operator.
func New(cfg Config, opts ...Option) (*Operator, error) {
	params, err := NewParams(cfg)
	if err != nil {
		metrics.RecordValidationError("setup", "invalid_config")
		logger.Log.Warn("bias channel setup rejected", "err", err)
		return nil, fmt.Errorf("biaschannel: setup: %w", err)
	}

	op := &Operator{params: params, kernel: Reference{}}
	for _, opt := range opts {
		opt(op)
	}

	logger.Log.Debug("bias channel setup",
		"bg_bias", params.BgBias(),
		"fg_bias", params.FgBias(),
		"label_type", params.LabelType().String(),
		"ignore_label", params.IgnoreLabels(),
		"kernel", op.kernel.Name(),
	)
	return op, nil
}

// Params returns the validated configuration.
func (op *Operator) Params() Params {
	return op.params
}

// Kernel returns the forward kernel in use.
func (op *Operator) Kernel() Kernel {
	return op.kernel
}

// DeriveShapes validates the input shapes and returns the derived dims.
// The output buffer must be (re)allocated to d.OutputShape() before Forward.
func (op *Operator) DeriveShapes(activation, label tensor.Shape) (Dims, error) {
	d, err := DeriveShapes(op.params.LabelType(), activation, label)
	if err != nil {
		metrics.RecordValidationError("reshape", "shape_mismatch")
		logger.Log.Warn("bias channel reshape rejected",
			"activation", []int(activation), "label", []int(label), "err", err)
		return Dims{}, fmt.Errorf("biaschannel: reshape: %w", err)
	}
	return d, nil
}

// NewOutput allocates a zeroed buffer shaped for the output (or a gradient) of d.
func (op *Operator) NewOutput(d Dims, dtype tensor.DataType, device tensor.Device) (*tensor.RawTensor, error) {
	return tensor.NewRaw(d.OutputShape(), dtype, device)
}

// Forward writes activation plus the label-driven biases into output.
// On error the content of output is unspecified.
func (op *Operator) Forward(d Dims, activation, label, output *tensor.RawTensor) error {
	if d.LabelType != op.params.LabelType() {
		metrics.RecordValidationError("forward", "shape_mismatch")
		return fmt.Errorf("biaschannel: forward: %w: dims derived for %s labels, operator reads %s labels",
			ErrShapeMismatch, d.LabelType, op.params.LabelType())
	}
	if err := d.CheckBuffers(activation, label, output); err != nil {
		metrics.RecordValidationError("forward", "shape_mismatch")
		return fmt.Errorf("biaschannel: forward: %w", err)
	}

	lt := strings.ToLower(op.params.LabelType().String())
	start := time.Now()
	st, err := op.kernel.Forward(op.params, d, activation, label, output)
	if err != nil {
		metrics.RecordValidationError("forward", errorType(err))
		logger.Log.Warn("bias channel forward failed", "kernel", op.kernel.Name(), "err", err)
		return fmt.Errorf("biaschannel: forward: %w", err)
	}

	metrics.RecordForward(op.kernel.Name(), lt, output.NumElements(), time.Since(start))
	metrics.RecordLabelStats(lt, st.Biased, st.Ignored)
	return nil
}

// Backward propagates outputGrad to activationGrad unchanged.
//
// propagate[0] requests the activation gradient and propagate[1] the label
// gradient; missing entries count as false. Requesting the label gradient is
// always an error. When the activation gradient is not requested nothing is written.
func (op *Operator) Backward(outputGrad, activationGrad *tensor.RawTensor, propagate []bool) error {
	if len(propagate) > 1 && propagate[1] {
		metrics.RecordValidationError("backward", "label_gradient")
		return fmt.Errorf("biaschannel: backward: %w: cannot propagate down to label input", ErrUnsupported)
	}
	if len(propagate) == 0 || !propagate[0] {
		return nil
	}
	if outputGrad == nil || activationGrad == nil {
		return fmt.Errorf("biaschannel: backward: %w: nil gradient buffer", ErrShapeMismatch)
	}
	if err := activationGrad.CopyFrom(outputGrad); err != nil {
		metrics.RecordValidationError("backward", "shape_mismatch")
		return fmt.Errorf("biaschannel: backward: %w: %w", ErrShapeMismatch, err)
	}

	metrics.RecordBackward(op.kernel.Name())
	return nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrInvalidLabel):
		return "invalid_label"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "kernel"
	}
}
