// Package autodiff implements automatic differentiation using the decorator pattern.
//
// Backend wraps any tensor.Backend implementation and adds gradient tracking
// through a GradientTape.
//
// Architecture:
//   - Decorator pattern: Backend[B] wraps any tensor.Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Add, MatMul, GatherRows, ...) implements
//     its own backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	// ... forward pass ...
//	grads := backend.Backward(loss.Raw())
package autodiff

import (
	"fmt"
	"math"

	"github.com/born-ml/gcn/internal/autodiff/ops"
	"github.com/born-ml/gcn/internal/tensor"
)

// Backend wraps a tensor.Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
type Backend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new autodiff Backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return &Backend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *Backend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *Backend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *Backend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Add performs element-wise addition and records the operation.
func (b *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// Reshape reshapes a tensor and records the operation.
// Without recording, gradients would not flow back through broadcast bias adds.
func (b *Backend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(x, shape)
	b.tape.Record(ops.NewReshapeOp(x, result))
	return result
}

// Transpose permutes tensor axes and records the operation.
func (b *Backend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	result := b.inner.Transpose(x, axes...)
	b.tape.Record(ops.NewTransposeOp(x, result, axes))
	return result
}

// Sum reduces to a scalar without recording. Gradient-carrying reductions in
// this package go through the loss operations instead.
func (b *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Sum(x)
}

// SumDim sums along a dimension without recording. It is used by backward
// passes to reduce broadcast gradients.
func (b *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.inner.SumDim(x, dim, keepDim)
}

// Argmax returns per-row or per-column maximum indices. Not differentiable,
// never recorded.
func (b *Backend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// GatherRows selects rows by index and records the operation.
func (b *Backend[B]) GatherRows(x, index *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.GatherRows(x, index)
	b.tape.Record(ops.NewGatherRowsOp(x, index, result, x.Shape()[0]))
	return result
}

// ScatterAddRows accumulates rows at index positions and records the operation.
func (b *Backend[B]) ScatterAddRows(src, index *tensor.RawTensor, numRows int) *tensor.RawTensor {
	result := b.inner.ScatterAddRows(src, index, numRows)
	b.tape.Record(ops.NewScatterAddRowsOp(src, index, result))
	return result
}

// ReLU applies max(0, x) element-wise and records the operation.
func (b *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("relu: only float32 tensors supported, got %s", x.DType()))
	}

	result, err := tensor.NewRaw(x.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("relu: %v", err))
	}

	xData := x.AsFloat32()
	resData := result.AsFloat32()
	for i, v := range xData {
		if v > 0 {
			resData[i] = v
		}
	}

	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// Dropout multiplies x element-wise by an already scaled keep mask and records
// the operation. Mask entries are either 0 or 1/(1-p); generating the mask is
// the caller's responsibility so that eval mode can skip this entirely.
func (b *Backend[B]) Dropout(x, mask *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, mask)
	b.tape.Record(ops.NewDropoutOp(x, result, mask))
	return result
}

// LogSoftmax computes a numerically stable row-wise log-softmax over the last
// dimension of a 2D tensor and records the operation.
//
// Each row is shifted by its maximum before exponentiation, so a row of large
// logits never overflows:
//
//	y[i,j] = x[i,j] - max_i - log(sum_k exp(x[i,k] - max_i))
func (b *Backend[B]) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("log softmax: only 2D tensors supported, got %dD", len(shape)))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("log softmax: only float32 tensors supported, got %s", x.DType()))
	}

	result, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("log softmax: %v", err))
	}
	softmax, err := tensor.NewRaw(shape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("log softmax: %v", err))
	}

	rows, cols := shape[0], shape[1]
	xData := x.AsFloat32()
	resData := result.AsFloat32()
	smData := softmax.AsFloat32()

	for r := 0; r < rows; r++ {
		row := xData[r*cols : (r+1)*cols]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}

		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		logSumExp := float32(math.Log(sumExp))

		base := r * cols
		for c, v := range row {
			y := v - maxVal - logSumExp
			resData[base+c] = y
			smData[base+c] = float32(math.Exp(float64(y)))
		}
	}

	b.tape.Record(ops.NewLogSoftmaxOp(x, result, softmax))
	return result
}

// MaskedNLL computes the mean negative log-likelihood over the rows selected
// by mask and records the operation. logProbs is a [N, C] tensor of row-wise
// log-probabilities, target a [N] int32 class tensor, mask a [N] bool tensor.
// Panics if the mask selects no rows.
func (b *Backend[B]) MaskedNLL(logProbs, target, mask *tensor.RawTensor) *tensor.RawTensor {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("masked nll: expected 2D log-probs, got %dD", len(shape)))
	}
	rows, cols := shape[0], shape[1]
	if target.DType() != tensor.Int32 || target.NumElements() != rows {
		panic(fmt.Sprintf("masked nll: expected int32 target of length %d, got %s %v",
			rows, target.DType(), target.Shape()))
	}
	if mask.DType() != tensor.Bool || mask.NumElements() != rows {
		panic(fmt.Sprintf("masked nll: expected bool mask of length %d, got %s %v",
			rows, mask.DType(), mask.Shape()))
	}

	lpData := logProbs.AsFloat32()
	targets := target.AsInt32()
	masked := mask.AsBool()

	var total float64
	count := 0
	for i, in := range masked {
		if !in {
			continue
		}
		t := targets[i]
		if t < 0 || int(t) >= cols {
			panic(fmt.Sprintf("masked nll: target %d out of range [0, %d) at row %d", t, cols, i))
		}
		total += float64(lpData[i*cols+int(t)])
		count++
	}
	if count == 0 {
		panic("masked nll: mask selects no rows")
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("masked nll: %v", err))
	}
	result.AsFloat32()[0] = float32(-total / float64(count))

	b.tape.Record(ops.NewMaskedNLLOp(logProbs, target, mask, result, count))
	return result
}

// Backward seeds the output gradient with ones and walks the tape, returning
// the accumulated gradient for every tensor it reaches.
func (b *Backend[B]) Backward(output *tensor.RawTensor) map[*tensor.RawTensor]*tensor.RawTensor {
	seed, err := tensor.NewRaw(output.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("backward: %v", err))
	}
	for i := range seed.AsFloat32() {
		seed.AsFloat32()[i] = 1
	}
	return b.tape.Backward(seed, b.inner)
}
