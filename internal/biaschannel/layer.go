package biaschannel

import (
	"fmt"

	"github.com/bityangke/deeplab-public/internal/tensor"
)

// Layer adapts Operator to the setup → (reshape → forward [→ backward])* life
// cycle of layer-based hosts. It remembers the dims of the last Reshape.
//
// A Layer is not safe for concurrent use; share the underlying Operator instead.
type Layer struct {
	op       *Operator
	dims     Dims
	reshaped bool
}

// NewLayer performs setup and returns a layer that still needs a Reshape.
func NewLayer(cfg Config, opts ...Option) (*Layer, error) {
	op, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Layer{op: op}, nil
}

// Operator returns the stateless operator behind the layer.
func (l *Layer) Operator() *Operator {
	return l.op
}

// Dims returns the dims of the last successful Reshape.
func (l *Layer) Dims() (Dims, bool) {
	return l.dims, l.reshaped
}

// Reshape derives the dims for the given input shapes and returns the output shape.
// A failed Reshape invalidates the previous one.
func (l *Layer) Reshape(activation, label tensor.Shape) (tensor.Shape, error) {
	d, err := l.op.DeriveShapes(activation, label)
	if err != nil {
		l.reshaped = false
		return nil, err
	}
	l.dims, l.reshaped = d, true
	return d.OutputShape(), nil
}

// Forward runs the operator on the dims of the last Reshape.
func (l *Layer) Forward(activation, label, output *tensor.RawTensor) error {
	if !l.reshaped {
		return fmt.Errorf("biaschannel: forward: %w", ErrNotReshaped)
	}
	return l.op.Forward(l.dims, activation, label, output)
}

// Backward propagates the output gradient; see Operator.Backward.
func (l *Layer) Backward(outputGrad, activationGrad *tensor.RawTensor, propagate []bool) error {
	return l.op.Backward(outputGrad, activationGrad, propagate)
}

// Apply reshapes for the given inputs, allocates the output and runs Forward.
func (l *Layer) Apply(activation, label *tensor.RawTensor) (*tensor.RawTensor, error) {
	if activation == nil || label == nil {
		return nil, fmt.Errorf("biaschannel: apply: %w: nil tensor", ErrShapeMismatch)
	}
	if _, err := l.Reshape(activation.Shape(), label.Shape()); err != nil {
		return nil, err
	}
	out, err := l.op.NewOutput(l.dims, activation.DType(), activation.Device())
	if err != nil {
		return nil, fmt.Errorf("biaschannel: apply: %w", err)
	}
	if err := l.Forward(activation, label, out); err != nil {
		return nil, err
	}
	return out, nil
}
