// Package cpu implements the CPU backend on top of gonum's float32 BLAS bindings.
package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/gcn/internal/tensor"
)

// CPUBackend implements tensor operations on the host CPU.
// Dense linear algebra goes through gonum blas32; everything else is plain loops.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// binaryOp dispatches an element-wise float32 operation, using BLAS axpy for
// the same-shape add/sub fast path and a strided loop when broadcasting.
func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor, op func(x, y float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: only float32 tensors supported, got %s and %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	if !needsBroadcast {
		resData := result.AsFloat32()
		switch name {
		case "add", "sub":
			// y = a; y += ±b via BLAS
			copy(resData, a.AsFloat32())
			alpha := float32(1)
			if name == "sub" {
				alpha = -1
			}
			n := len(resData)
			blas32.Axpy(alpha,
				blas32.Vector{N: n, Inc: 1, Data: b.AsFloat32()},
				blas32.Vector{N: n, Inc: 1, Data: resData})
		default:
			aData, bData := a.AsFloat32(), b.AsFloat32()
			for i := range resData {
				resData[i] = op(aData[i], bData[i])
			}
		}
		return result
	}

	broadcastBinary(result, a, b, op)
	return result
}

// broadcastBinary applies op element-wise over the broadcasted output shape,
// mapping each output coordinate back to the (possibly size-1) source dims.
func broadcastBinary(result, a, b *tensor.RawTensor, op func(x, y float32) float32) {
	outShape := result.Shape()
	outStrides := outShape.ComputeStrides()
	resData := result.AsFloat32()
	aData, bData := a.AsFloat32(), b.AsFloat32()

	aIdx := newBroadcastIndexer(a.Shape(), outShape)
	bIdx := newBroadcastIndexer(b.Shape(), outShape)

	coords := make([]int, len(outShape))
	for i := range resData {
		rem := i
		for d := range outShape {
			coords[d] = rem / outStrides[d]
			rem %= outStrides[d]
		}
		resData[i] = op(aData[aIdx.offset(coords)], bData[bIdx.offset(coords)])
	}
}

// broadcastIndexer maps output coordinates to a flat offset in a source
// tensor whose shape broadcasts to the output shape.
type broadcastIndexer struct {
	strides []int // per output dim; 0 where the source dim is broadcast
}

func newBroadcastIndexer(srcShape, outShape tensor.Shape) broadcastIndexer {
	srcStrides := srcShape.ComputeStrides()
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(srcShape)
	for d := range outShape {
		srcDim := d - offset
		if srcDim >= 0 && srcShape[srcDim] != 1 {
			strides[d] = srcStrides[srcDim]
		}
	}
	return broadcastIndexer{strides: strides}
}

func (bi broadcastIndexer) offset(coords []int) int {
	off := 0
	for d, c := range coords {
		off += c * bi.strides[d]
	}
	return off
}
