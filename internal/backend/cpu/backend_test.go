package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gcn/internal/backend/cpu"
	"github.com/born-ml/gcn/internal/tensor"
)

func raw(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32)
	require.NoError(t, err)
	copy(r.AsFloat32(), data)
	return r
}

func rawIndex(t *testing.T, data []int32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(tensor.Shape{len(data)}, tensor.Int32)
	require.NoError(t, err)
	copy(r.AsInt32(), data)
	return r
}

func TestMatMul(t *testing.T) {
	backend := cpu.New()

	// [[1,2],[3,4]] @ [[5,6],[7,8]] = [[19,22],[43,50]]
	a := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := raw(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	result := backend.MatMul(a, b)
	assert.Equal(t, []float32{19, 22, 43, 50}, result.AsFloat32())
	assert.True(t, result.Shape().Equal(tensor.Shape{2, 2}))
}

func TestMatMulRectangular(t *testing.T) {
	backend := cpu.New()

	// [1x3] @ [3x2] = [1x2]
	a := raw(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
	b := raw(t, []float32{1, 4, 2, 5, 3, 6}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	assert.True(t, result.Shape().Equal(tensor.Shape{1, 2}))
	assert.Equal(t, []float32{14, 32}, result.AsFloat32())
}

func TestMatMulShapeMismatch(t *testing.T) {
	backend := cpu.New()

	a := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := raw(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	assert.Panics(t, func() { backend.MatMul(a, b) })
}

func TestAddBroadcast(t *testing.T) {
	backend := cpu.New()

	// [2,3] + [1,3] broadcasts the bias row.
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := raw(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	result := backend.Add(x, bias)
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, result.AsFloat32())
}

func TestMulBroadcastColumn(t *testing.T) {
	backend := cpu.New()

	// [2,3] * [2,1] scales each row, the shape the per-edge coefficients use.
	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	coeff := raw(t, []float32{2, 10}, tensor.Shape{2, 1})

	result := backend.Mul(x, coeff)
	assert.Equal(t, []float32{2, 4, 6, 40, 50, 60}, result.AsFloat32())
}

func TestSubSameShape(t *testing.T) {
	backend := cpu.New()

	a := raw(t, []float32{5, 7, 9}, tensor.Shape{3})
	b := raw(t, []float32{1, 2, 3}, tensor.Shape{3})

	result := backend.Sub(a, b)
	assert.Equal(t, []float32{4, 5, 6}, result.AsFloat32())
	// Inputs must be untouched.
	assert.Equal(t, []float32{5, 7, 9}, a.AsFloat32())
}

func TestTranspose(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Transpose(x)

	assert.True(t, result.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, result.AsFloat32())
}

func TestReshape(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	result := backend.Reshape(x, tensor.Shape{4})

	assert.True(t, result.Shape().Equal(tensor.Shape{4}))
	assert.Equal(t, []float32{1, 2, 3, 4}, result.AsFloat32())

	assert.Panics(t, func() { backend.Reshape(x, tensor.Shape{3}) })
}

func TestSum(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	result := backend.Sum(x)

	assert.True(t, result.Shape().Equal(tensor.Shape{1}))
	assert.Equal(t, float32(10), result.AsFloat32()[0])
}

func TestSumDim(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := backend.SumDim(x, 0, false)
	assert.True(t, rows.Shape().Equal(tensor.Shape{3}))
	assert.Equal(t, []float32{5, 7, 9}, rows.AsFloat32())

	cols := backend.SumDim(x, 1, true)
	assert.True(t, cols.Shape().Equal(tensor.Shape{2, 1}))
	assert.Equal(t, []float32{6, 15}, cols.AsFloat32())
}

func TestArgmax(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 5, 3, 9, 2, 9}, tensor.Shape{2, 3})

	byRow := backend.Argmax(x, 1)
	assert.Equal(t, []int32{1, 0}, byRow.AsInt32()) // ties resolve to the lowest index

	byCol := backend.Argmax(x, 0)
	assert.Equal(t, []int32{1, 0, 1}, byCol.AsInt32())
}

func TestGatherRows(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	idx := rawIndex(t, []int32{2, 0, 2})

	result := backend.GatherRows(x, idx)
	assert.True(t, result.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float32{5, 6, 1, 2, 5, 6}, result.AsFloat32())
}

func TestGatherRowsOutOfRange(t *testing.T) {
	backend := cpu.New()

	x := raw(t, []float32{1, 2}, tensor.Shape{1, 2})
	idx := rawIndex(t, []int32{1})

	assert.Panics(t, func() { backend.GatherRows(x, idx) })
}

func TestScatterAddRows(t *testing.T) {
	backend := cpu.New()

	src := raw(t, []float32{1, 1, 2, 2, 4, 4}, tensor.Shape{3, 2})
	idx := rawIndex(t, []int32{1, 1, 0})

	result := backend.ScatterAddRows(src, idx, 2)
	assert.True(t, result.Shape().Equal(tensor.Shape{2, 2}))
	// Duplicate targets accumulate: row 1 receives both src rows 0 and 1.
	assert.Equal(t, []float32{4, 4, 3, 3}, result.AsFloat32())
}

func TestScatterAddRowsLengthMismatch(t *testing.T) {
	backend := cpu.New()

	src := raw(t, []float32{1, 2}, tensor.Shape{1, 2})
	idx := rawIndex(t, []int32{0, 0})

	assert.Panics(t, func() { backend.ScatterAddRows(src, idx, 1) })
}
