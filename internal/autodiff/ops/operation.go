// Package ops defines the operation interface recorded by the gradient tape
// and the operations of this module.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the operator's kernel before recording
//   - Backward pass: computes gradients for inputs given output gradient
//
// Supported operations:
//   - BiasChannelOp: label-driven channel biasing (d(out)/d(activation) = I;
//     the labels are not differentiable)
package ops

import "github.com/bityangke/deeplab-public/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each tensor of Inputs.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the differentiable input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
