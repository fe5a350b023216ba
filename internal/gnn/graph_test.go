package gnn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gcn/internal/gnn"
)

func TestNewGraphValidation(t *testing.T) {
	_, err := gnn.NewGraph(0, nil, nil)
	assert.Error(t, err, "zero nodes")

	_, err = gnn.NewGraph(3, []int32{0, 1}, []int32{2})
	assert.Error(t, err, "unequal edge list sides")

	_, err = gnn.NewGraph(3, []int32{0, 3}, []int32{1, 2})
	assert.Error(t, err, "source out of range")

	_, err = gnn.NewGraph(3, []int32{0, 1}, []int32{1, -1})
	assert.Error(t, err, "negative target")

	g, err := gnn.NewGraph(3, []int32{0, 2}, []int32{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())
}

func TestWithSelfLoops(t *testing.T) {
	g, err := gnn.NewGraph(3, []int32{0, 2}, []int32{1, 1})
	require.NoError(t, err)

	looped := g.WithSelfLoops()

	// One loop per node appended, receiver untouched.
	assert.Equal(t, 5, looped.NumEdges())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []int32{0, 2, 0, 1, 2}, looped.Src())
	assert.Equal(t, []int32{1, 1, 0, 1, 2}, looped.Dst())
}

func TestWithSelfLoopsKeepsExistingLoops(t *testing.T) {
	// Node 0 already has a self-loop; augmentation appends another.
	g, err := gnn.NewGraph(2, []int32{0}, []int32{0})
	require.NoError(t, err)

	looped := g.WithSelfLoops()
	assert.Equal(t, 3, looped.NumEdges())

	degrees := looped.InDegrees()
	assert.Equal(t, []int32{2, 1}, degrees)
}

func TestInDegrees(t *testing.T) {
	g, err := gnn.NewGraph(3, []int32{0, 2, 0}, []int32{1, 1, 2})
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 2, 1}, g.InDegrees())
}

func TestInDegreesPositiveAfterAugmentation(t *testing.T) {
	// An isolated node has degree 0 before augmentation, at least 1 after.
	g, err := gnn.NewGraph(4, []int32{0}, []int32{1})
	require.NoError(t, err)

	for _, d := range g.WithSelfLoops().InDegrees() {
		assert.GreaterOrEqual(t, d, int32(1))
	}
}

func TestUndirectedEdges(t *testing.T) {
	src, dst := gnn.UndirectedEdges([][2]int32{{0, 1}, {2, 0}})

	assert.Equal(t, []int32{0, 1, 2, 0}, src)
	assert.Equal(t, []int32{1, 0, 0, 2}, dst)
}
