package gnn

import (
	"fmt"
	"math"

	"github.com/born-ml/gcn/internal/nn"
	"github.com/born-ml/gcn/internal/tensor"
)

// Conv is a normalized graph convolution layer.
//
// For node features X [N, inChannels] and a graph G it computes
//
//	out[v] = sum over edges (u, v) of coeff(u, v) * (X @ W.T + b)[u]
//
// where the edge list is G augmented with one self-loop per node and
// coeff(u, v) = 1/(sqrt(deg(v)) * sqrt(deg(u))) with deg the in-degree over
// the augmented edges. Augmentation guarantees every degree is at least 1,
// so the coefficients are always finite.
//
// The layer transforms features before aggregation: on typical citation
// graphs outChannels is much smaller than inChannels, so gathering and
// summing happens in the narrow space.
type Conv[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	weight      *nn.Parameter[B] // [outChannels, inChannels]
	bias        *nn.Parameter[B] // [outChannels], nil when disabled
	backend     B
}

// NewConv creates a graph convolution layer. Weights use Xavier/Glorot
// initialization, bias starts at zero. Returns an error for non-positive
// channel counts.
func NewConv[B tensor.Backend](inChannels, outChannels int, bias bool, backend B) (*Conv[B], error) {
	if inChannels <= 0 || outChannels <= 0 {
		return nil, fmt.Errorf("gnn: channel counts must be positive, got %d in, %d out", inChannels, outChannels)
	}

	weightShape := tensor.Shape{outChannels, inChannels}
	weight := nn.NewParameter("weight", nn.Xavier(inChannels, outChannels, weightShape, backend))

	conv := &Conv[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		weight:      weight,
		backend:     backend,
	}
	if bias {
		conv.bias = nn.NewParameter("bias", nn.Zeros(tensor.Shape{outChannels}, backend))
	}
	return conv, nil
}

// Forward runs one round of normalized message passing.
//
// x must be [NumNodes, inChannels]; the result is [NumNodes, outChannels].
// Self-loops and degrees are derived fresh from g on every call, so the same
// layer can serve graphs of any size with matching feature width.
func (c *Conv[B]) Forward(x *tensor.Tensor[float32, B], g *Graph) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Conv.Forward: expected 2D features, got shape %v", shape))
	}
	if shape[0] != g.NumNodes() {
		panic(fmt.Sprintf("Conv.Forward: feature rows %d != graph nodes %d", shape[0], g.NumNodes()))
	}
	if shape[1] != c.inChannels {
		panic(fmt.Sprintf("Conv.Forward: expected %d input channels, got %d", c.inChannels, shape[1]))
	}

	loops := g.WithSelfLoops()
	numEdges := loops.NumEdges()

	// Transform first: [N, in] @ [in, out] = [N, out].
	xw := x.MatMul(c.weight.Tensor().Transpose())
	if c.bias != nil {
		xw = xw.Add(c.bias.Tensor().Reshape(1, c.outChannels))
	}

	coeffs := edgeCoefficients(loops)
	coeffT, err := tensor.FromSlice[float32, B](coeffs, tensor.Shape{numEdges, 1}, c.backend)
	if err != nil {
		panic(fmt.Sprintf("Conv.Forward: %v", err))
	}
	srcIdx, err := tensor.FromSlice[int32, B](loops.Src(), tensor.Shape{numEdges}, c.backend)
	if err != nil {
		panic(fmt.Sprintf("Conv.Forward: %v", err))
	}
	dstIdx, err := tensor.FromSlice[int32, B](loops.Dst(), tensor.Shape{numEdges}, c.backend)
	if err != nil {
		panic(fmt.Sprintf("Conv.Forward: %v", err))
	}

	// Gather per-edge source rows, scale, and sum into the targets.
	messages := xw.GatherRows(srcIdx).Mul(coeffT)
	return messages.ScatterAddRows(dstIdx, g.NumNodes())
}

// edgeCoefficients computes 1/(sqrt(deg(dst)) * sqrt(deg(src))) per edge over
// the already augmented graph.
func edgeCoefficients(g *Graph) []float32 {
	degrees := g.InDegrees()
	invSqrt := make([]float32, len(degrees))
	for i, d := range degrees {
		invSqrt[i] = float32(1.0 / math.Sqrt(float64(d)))
	}

	src, dst := g.Src(), g.Dst()
	coeffs := make([]float32, len(src))
	for e := range src {
		coeffs[e] = invSqrt[dst[e]] * invSqrt[src[e]]
	}
	return coeffs
}

// Parameters returns [weight, bias], or [weight] when bias is disabled.
func (c *Conv[B]) Parameters() []*nn.Parameter[B] {
	if c.bias != nil {
		return []*nn.Parameter[B]{c.weight, c.bias}
	}
	return []*nn.Parameter[B]{c.weight}
}

// Weight returns the weight parameter.
func (c *Conv[B]) Weight() *nn.Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter, or nil when disabled.
func (c *Conv[B]) Bias() *nn.Parameter[B] {
	return c.bias
}

// InChannels returns the input feature width.
func (c *Conv[B]) InChannels() int {
	return c.inChannels
}

// OutChannels returns the output feature width.
func (c *Conv[B]) OutChannels() int {
	return c.outChannels
}
