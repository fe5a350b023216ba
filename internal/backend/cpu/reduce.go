package cpu

import (
	"fmt"

	"github.com/born-ml/gcn/internal/tensor"
)

// Sum returns the total sum of all elements as a shape-[1] tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sum: only float32 tensors supported, got %s", x.DType()))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum
	return result
}

// SumDim sums along the given dimension. With keepDim the reduced dimension
// stays as size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumdim: invalid dimension %d for shape %v", dim, shape))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sumdim: only float32 tensors supported, got %s", x.DType()))
	}

	// Collapse the shape into [outer, reduced, inner].
	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	reduced := shape[dim]

	outShape := tensor.Shape{}
	for d, size := range shape {
		switch {
		case d != dim:
			outShape = append(outShape, size)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	xData := x.AsFloat32()
	resData := result.AsFloat32()
	for o := 0; o < outer; o++ {
		for r := 0; r < reduced; r++ {
			base := (o*reduced + r) * inner
			out := o * inner
			for i := 0; i < inner; i++ {
				resData[out+i] += xData[base+i]
			}
		}
	}
	return result
}

// Argmax returns the index of the maximum value along the given dimension of
// a 2D tensor as an int32 tensor. Ties resolve to the lowest index.
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("argmax: only 2D tensors supported, got %dD", len(shape)))
	}
	if dim != 1 && dim != 0 {
		panic(fmt.Sprintf("argmax: invalid dimension %d for 2D tensor", dim))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("argmax: only float32 tensors supported, got %s", x.DType()))
	}

	rows, cols := shape[0], shape[1]
	xData := x.AsFloat32()

	if dim == 1 {
		result, err := tensor.NewRaw(tensor.Shape{rows}, tensor.Int32)
		if err != nil {
			panic(fmt.Sprintf("argmax: %v", err))
		}
		resData := result.AsInt32()
		for r := 0; r < rows; r++ {
			row := xData[r*cols : (r+1)*cols]
			best := 0
			for c := 1; c < cols; c++ {
				if row[c] > row[best] {
					best = c
				}
			}
			resData[r] = int32(best)
		}
		return result
	}

	result, err := tensor.NewRaw(tensor.Shape{cols}, tensor.Int32)
	if err != nil {
		panic(fmt.Sprintf("argmax: %v", err))
	}
	resData := result.AsInt32()
	for c := 0; c < cols; c++ {
		best := 0
		for r := 1; r < rows; r++ {
			if xData[r*cols+c] > xData[best*cols+c] {
				best = r
			}
		}
		resData[c] = int32(best)
	}
	return result
}
