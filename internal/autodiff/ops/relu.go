package ops

import "github.com/born-ml/gcn/internal/tensor"

// ReLUOp represents a rectified linear activation: output = max(0, input).
//
// The backward pass masks the output gradient with the activation pattern:
// positions where the input was <= 0 receive zero gradient. The mask is read
// from the saved output rather than the input, which is equivalent because
// output > 0 exactly when input > 0.
type ReLUOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{inputs: []*tensor.RawTensor{input}, output: output}
}

// Backward masks the output gradient by the activation pattern.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(outputGrad)

	outData := op.output.AsFloat32()
	gradData := grad.AsFloat32()
	outGradData := outputGrad.AsFloat32()
	for i, v := range outData {
		if v > 0 {
			gradData[i] = outGradData[i]
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the activated output tensor.
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }
