// Package ops defines operation records and backward passes for automatic differentiation.
//
// Each operation captures its input and output RawTensors during the forward
// pass and knows how to turn an output gradient into input gradients during
// the backward pass.
package ops

import "github.com/born-ml/gcn/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor;
	// entries may be nil for inputs that do not receive gradient.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
