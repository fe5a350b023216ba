package cpu

import (
	"fmt"

	"github.com/born-ml/gcn/internal/tensor"
)

// GatherRows selects rows of a 2D float32 tensor by index: out[i] = x[index[i]].
// Panics if any index is outside [0, rows).
func (cpu *CPUBackend) GatherRows(x, index *tensor.RawTensor) *tensor.RawTensor {
	rows, cols := rowMajor2D("gather rows", x)
	idx := rowIndex("gather rows", index, rows)

	result, err := tensor.NewRaw(tensor.Shape{len(idx), cols}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("gather rows: %v", err))
	}

	xData := x.AsFloat32()
	resData := result.AsFloat32()
	for i, r := range idx {
		copy(resData[i*cols:(i+1)*cols], xData[int(r)*cols:(int(r)+1)*cols])
	}
	return result
}

// ScatterAddRows sums rows of src into a zero-initialized [numRows, cols]
// tensor at positions given by index. Duplicate indices accumulate; they are
// never deduplicated.
func (cpu *CPUBackend) ScatterAddRows(src, index *tensor.RawTensor, numRows int) *tensor.RawTensor {
	srcRows, cols := rowMajor2D("scatter add rows", src)
	idx := rowIndex("scatter add rows", index, numRows)
	if len(idx) != srcRows {
		panic(fmt.Sprintf("scatter add rows: index length %d != source rows %d", len(idx), srcRows))
	}
	if numRows <= 0 {
		panic(fmt.Sprintf("scatter add rows: invalid row count %d", numRows))
	}

	result, err := tensor.NewRaw(tensor.Shape{numRows, cols}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("scatter add rows: %v", err))
	}

	srcData := src.AsFloat32()
	resData := result.AsFloat32()
	for i, r := range idx {
		dst := resData[int(r)*cols : (int(r)+1)*cols]
		row := srcData[i*cols : (i+1)*cols]
		for j, v := range row {
			dst[j] += v
		}
	}
	return result
}

// rowMajor2D validates a 2D float32 tensor and returns its dimensions.
func rowMajor2D(op string, t *tensor.RawTensor) (rows, cols int) {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("%s: expected 2D tensor, got %dD", op, len(shape)))
	}
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: only float32 tensors supported, got %s", op, t.DType()))
	}
	return shape[0], shape[1]
}

// rowIndex validates a 1D int32 index tensor with entries in [0, bound).
func rowIndex(op string, index *tensor.RawTensor, bound int) []int32 {
	if len(index.Shape()) != 1 {
		panic(fmt.Sprintf("%s: expected 1D index tensor, got shape %v", op, index.Shape()))
	}
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("%s: index must be int32, got %s", op, index.DType()))
	}
	idx := index.AsInt32()
	for i, r := range idx {
		if r < 0 || int(r) >= bound {
			panic(fmt.Sprintf("%s: index %d out of range [0, %d) at position %d", op, r, bound, i))
		}
	}
	return idx
}
