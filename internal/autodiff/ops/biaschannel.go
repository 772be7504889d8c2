package ops

import (
	"fmt"

	"github.com/bityangke/deeplab-public/internal/biaschannel"
	"github.com/bityangke/deeplab-public/internal/tensor"
)

// BiasChannelOp represents output = activation + label-selected channel biases.
//
// Backward:
//
//	grad_activation = grad_out
//
// The label tensor has no gradient; it is not included in Inputs.
type BiasChannelOp struct {
	op         *biaschannel.Operator
	activation *tensor.RawTensor
	label      *tensor.RawTensor // kept for inspection, never differentiated
	output     *tensor.RawTensor
}

// NewBiasChannelOp creates a new bias-channel operation.
func NewBiasChannelOp(op *biaschannel.Operator, activation, label, output *tensor.RawTensor) *BiasChannelOp {
	return &BiasChannelOp{
		op:         op,
		activation: activation,
		label:      label,
		output:     output,
	}
}

// Inputs returns the input tensor [activation].
func (op *BiasChannelOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.activation}
}

// Output returns the biased tensor.
func (op *BiasChannelOp) Output() *tensor.RawTensor {
	return op.output
}

// Label returns the label tensor used in the forward pass.
func (op *BiasChannelOp) Label() *tensor.RawTensor {
	return op.label
}

// Backward copies the output gradient into a fresh activation gradient.
func (op *BiasChannelOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad, err := tensor.NewRaw(op.activation.Shape(), op.activation.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("biaschannel: failed to create gradient: %v", err))
	}
	if err := op.op.Backward(outputGrad, grad, []bool{true, false}); err != nil {
		panic(fmt.Sprintf("biaschannel: backward: %v", err))
	}
	return []*tensor.RawTensor{grad}
}
