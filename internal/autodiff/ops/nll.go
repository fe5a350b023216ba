package ops

import "github.com/born-ml/gcn/internal/tensor"

// MaskedNLLOp represents a negative log-likelihood loss over log-probability
// rows, averaged across the rows selected by a boolean mask:
//
//	loss = -1/|M| * sum_{i in M} logProbs[i, target[i]]
//
// Rows outside the mask contribute nothing to the loss and receive zero
// gradient, which is how training restricts learning to labeled nodes while
// the forward pass still runs over the whole graph.
type MaskedNLLOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	target *tensor.RawTensor
	mask   *tensor.RawTensor
	count  int
}

// NewMaskedNLLOp creates a new MaskedNLLOp. count is the number of rows
// selected by the mask and must be positive.
func NewMaskedNLLOp(logProbs, target, mask, output *tensor.RawTensor, count int) *MaskedNLLOp {
	return &MaskedNLLOp{
		inputs: []*tensor.RawTensor{logProbs},
		output: output,
		target: target,
		mask:   mask,
		count:  count,
	}
}

// Backward distributes -outputGrad/count onto the target entries of the
// masked rows.
func (op *MaskedNLLOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	logProbs := op.inputs[0]
	cols := logProbs.Shape()[1]

	grad := zerosLike(logProbs)
	gradData := grad.AsFloat32()
	targets := op.target.AsInt32()
	masked := op.mask.AsBool()
	scale := -outputGrad.AsFloat32()[0] / float32(op.count)

	for i, in := range masked {
		if in {
			gradData[i*cols+int(targets[i])] = scale
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the log-probability tensor. Targets and mask carry no
// gradient and are not reported as inputs.
func (op *MaskedNLLOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the scalar loss tensor.
func (op *MaskedNLLOp) Output() *tensor.RawTensor { return op.output }
