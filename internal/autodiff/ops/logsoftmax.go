package ops

import "github.com/born-ml/gcn/internal/tensor"

// LogSoftmaxOp represents a row-wise log-softmax over the last dimension of a
// 2D tensor.
//
// With y = log_softmax(x) and s = softmax(x) = exp(y), the backward pass is
//
//	grad_x[i,j] = grad_y[i,j] - s[i,j] * sum_k grad_y[i,k]
//
// The softmax values are saved from the forward pass so the backward pass
// only needs one reduction per row.
type LogSoftmaxOp struct {
	inputs  []*tensor.RawTensor
	output  *tensor.RawTensor
	softmax *tensor.RawTensor
}

// NewLogSoftmaxOp creates a new LogSoftmaxOp. softmax holds exp(output)
// computed during the forward pass.
func NewLogSoftmaxOp(input, output, softmax *tensor.RawTensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{inputs: []*tensor.RawTensor{input}, output: output, softmax: softmax}
}

// Backward computes the log-softmax input gradient.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.output.Shape()
	rows, cols := shape[0], shape[1]

	grad := zerosLike(outputGrad)
	gradData := grad.AsFloat32()
	outGradData := outputGrad.AsFloat32()
	smData := op.softmax.AsFloat32()

	for r := 0; r < rows; r++ {
		base := r * cols
		var rowSum float32
		for c := 0; c < cols; c++ {
			rowSum += outGradData[base+c]
		}
		for c := 0; c < cols; c++ {
			gradData[base+c] = outGradData[base+c] - smData[base+c]*rowSum
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensor.
func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the log-softmax output tensor.
func (op *LogSoftmaxOp) Output() *tensor.RawTensor { return op.output }
