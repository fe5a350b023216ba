package ops

import "github.com/born-ml/gcn/internal/tensor"

// GatherRowsOp represents a row selection out[i] = x[index[i]].
//
// Each output row came from exactly one input row, so the backward pass
// scatter-adds the output gradient back: rows gathered more than once, such
// as nodes with several outgoing edges, accumulate their gradients.
type GatherRowsOp struct {
	inputs  []*tensor.RawTensor
	output  *tensor.RawTensor
	index   *tensor.RawTensor
	numRows int
}

// NewGatherRowsOp creates a new GatherRowsOp. numRows is the row count of the
// gathered-from tensor, needed to size the backward scatter target.
func NewGatherRowsOp(input, index, output *tensor.RawTensor, numRows int) *GatherRowsOp {
	return &GatherRowsOp{
		inputs:  []*tensor.RawTensor{input},
		output:  output,
		index:   index,
		numRows: numRows,
	}
}

// Backward scatter-adds the output gradient into the input's shape.
func (op *GatherRowsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.ScatterAddRows(outputGrad, op.index, op.numRows)}
}

// Inputs returns the gathered-from tensor. The index tensor carries no
// gradient and is not reported as an input.
func (op *GatherRowsOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the gathered output tensor.
func (op *GatherRowsOp) Output() *tensor.RawTensor { return op.output }

// ScatterAddRowsOp represents a row accumulation out[index[i]] += src[i] into
// a zero-initialized target.
//
// The gradient of row src[i] is the gradient of the row it was added into,
// so the backward pass is a gather by the same index.
type ScatterAddRowsOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	index  *tensor.RawTensor
}

// NewScatterAddRowsOp creates a new ScatterAddRowsOp.
func NewScatterAddRowsOp(src, index, output *tensor.RawTensor) *ScatterAddRowsOp {
	return &ScatterAddRowsOp{
		inputs: []*tensor.RawTensor{src},
		output: output,
		index:  index,
	}
}

// Backward gathers the output gradient rows back to source positions.
func (op *ScatterAddRowsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.GatherRows(outputGrad, op.index)}
}

// Inputs returns the source tensor.
func (op *ScatterAddRowsOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the accumulated output tensor.
func (op *ScatterAddRowsOp) Output() *tensor.RawTensor { return op.output }
