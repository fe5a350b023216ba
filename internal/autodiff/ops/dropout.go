package ops

import "github.com/born-ml/gcn/internal/tensor"

// DropoutOp represents inverted dropout in training mode. The forward pass
// multiplied the input element-wise by a mask holding either 0 or 1/(1-p);
// the backward pass reuses the same mask, so gradient flows only through the
// surviving elements, with the same scale.
type DropoutOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	mask   *tensor.RawTensor
}

// NewDropoutOp creates a new DropoutOp. The mask is the already scaled
// keep mask applied during the forward pass.
func NewDropoutOp(input, output, mask *tensor.RawTensor) *DropoutOp {
	return &DropoutOp{inputs: []*tensor.RawTensor{input}, output: output, mask: mask}
}

// Backward multiplies the output gradient by the saved mask.
func (op *DropoutOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.mask)}
}

// Inputs returns the input tensor.
func (op *DropoutOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the masked output tensor.
func (op *DropoutOp) Output() *tensor.RawTensor { return op.output }
