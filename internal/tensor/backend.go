package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// The CPU backend in internal/backend/cpu is the reference implementation;
// the autodiff decorator in internal/autodiff wraps any Backend and records
// operations for backpropagation.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Matrix operations (2D)
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor                           // total sum (shape [1] result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension
	Argmax(x *RawTensor, dim int) *RawTensor               // index of maximum value along dimension

	// Row indexing operations (message passing primitives)
	//
	// GatherRows selects rows of a 2D tensor by index: out[i] = x[index[i]].
	// ScatterAddRows is its adjoint: rows of src are summed into the output
	// at positions given by index; duplicate indices accumulate.
	GatherRows(x *RawTensor, index *RawTensor) *RawTensor
	ScatterAddRows(src *RawTensor, index *RawTensor, numRows int) *RawTensor

	// Metadata
	Name() string
}
