package gnn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gcn/internal/gnn"
	"github.com/born-ml/gcn/internal/nn"
	"github.com/born-ml/gcn/internal/tensor"
)

func testModelConfig() gnn.Config {
	return gnn.Config{
		InFeatures: 4,
		Hidden:     8,
		Classes:    3,
		DropoutP:   0.5,
		Bias:       true,
	}
}

func TestNewModelValidation(t *testing.T) {
	backend := newBackend()

	cfg := testModelConfig()
	cfg.Hidden = 0
	_, err := gnn.NewModel(cfg, backend)
	assert.Error(t, err)

	cfg = testModelConfig()
	cfg.Classes = -1
	_, err = gnn.NewModel(cfg, backend)
	assert.Error(t, err)

	cfg = testModelConfig()
	cfg.DropoutP = 1
	_, err = gnn.NewModel(cfg, backend)
	assert.Error(t, err)

	model, err := gnn.NewModel(testModelConfig(), backend)
	require.NoError(t, err)
	assert.Len(t, model.Parameters(), 4)
	assert.True(t, model.Training())
}

func TestModelForwardShapeAndNormalization(t *testing.T) {
	backend := newBackend()

	g, err := gnn.NewGraph(5, []int32{0, 1, 2, 3}, []int32{1, 2, 3, 4})
	require.NoError(t, err)

	model, err := gnn.NewModel(testModelConfig(), backend)
	require.NoError(t, err)
	model.SetTraining(false)

	x := tensor.Randn(tensor.Shape{5, 4}, backend)
	out := model.Forward(x, g)

	require.True(t, out.Shape().Equal(tensor.Shape{5, 3}))

	// Every output row is a log-probability distribution.
	for r := 0; r < 5; r++ {
		var sum float64
		for c := 0; c < 3; c++ {
			sum += math.Exp(float64(out.At(r, c)))
		}
		assert.InDelta(t, 1, sum, 1e-4, "row %d", r)
	}
}

func TestModelEvalDeterministic(t *testing.T) {
	backend := newBackend()

	g, err := gnn.NewGraph(4, []int32{0, 1, 2}, []int32{1, 2, 3})
	require.NoError(t, err)

	model, err := gnn.NewModel(testModelConfig(), backend)
	require.NoError(t, err)
	model.SetTraining(false)

	x := tensor.Randn(tensor.Shape{4, 4}, backend)

	// With dropout disabled two forward passes must agree exactly.
	first := model.Forward(x, g)
	second := model.Forward(x, g)
	assert.Equal(t, first.Data(), second.Data())
}

func TestModelTrainingGradientsReachAllParameters(t *testing.T) {
	backend := newBackend()

	g, err := gnn.NewGraph(4, []int32{0, 1, 2, 3}, []int32{1, 2, 3, 0})
	require.NoError(t, err)

	cfg := testModelConfig()
	cfg.DropoutP = 0 // keep the graph deterministic for the check
	model, err := gnn.NewModel(cfg, backend)
	require.NoError(t, err)

	x := tensor.Randn(tensor.Shape{4, 4}, backend)
	labels, err := tensor.FromSlice[int32, Backend]([]int32{0, 1, 2, 0}, tensor.Shape{4}, backend)
	require.NoError(t, err)
	mask, err := tensor.FromSlice[bool, Backend]([]bool{true, true, false, false}, tensor.Shape{4}, backend)
	require.NoError(t, err)

	lossFn := nn.NewNLLLoss[Backend]()

	backend.Tape().StartRecording()
	logProbs := model.Forward(x, g)
	loss := lossFn.Forward(logProbs, labels, mask)
	grads := backend.Backward(loss.Raw())
	backend.Tape().StopRecording()

	for _, param := range model.Parameters() {
		grad := grads[param.Tensor().Raw()]
		require.NotNil(t, grad, "no gradient for %s", param.Name())
		assert.True(t, grad.Shape().Equal(param.Tensor().Shape()),
			"gradient shape %v != parameter shape %v for %s",
			grad.Shape(), param.Tensor().Shape(), param.Name())
	}
}
