package gnn

import (
	"fmt"

	"github.com/born-ml/gcn/internal/nn"
	"github.com/born-ml/gcn/internal/tensor"
)

// Config describes a two-layer graph convolution classifier.
type Config struct {
	InFeatures int     // input feature width
	Hidden     int     // hidden layer width
	Classes    int     // number of output classes
	DropoutP   float64 // drop probability between the layers
	Bias       bool    // bias terms in both conv layers
}

// Model is a two-layer node classifier:
//
//	Conv(InFeatures -> Hidden) -> ReLU -> Dropout -> Conv(Hidden -> Classes) -> LogSoftmax
//
// The output rows are log-probabilities, ready for NLLLoss. Dropout is the
// only behavior that differs between training and evaluation mode.
type Model[B tensor.Backend] struct {
	conv1      *Conv[B]
	conv2      *Conv[B]
	relu       *nn.ReLU[B]
	dropout    *nn.Dropout[B]
	logSoftmax *nn.LogSoftmax[B]
}

// NewModel creates the classifier. Returns an error for degenerate
// configuration (non-positive widths or class counts, drop probability
// outside [0, 1)).
func NewModel[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	if cfg.InFeatures <= 0 || cfg.Hidden <= 0 || cfg.Classes <= 0 {
		return nil, fmt.Errorf("gnn: model widths must be positive, got in=%d hidden=%d classes=%d",
			cfg.InFeatures, cfg.Hidden, cfg.Classes)
	}
	if cfg.DropoutP < 0 || cfg.DropoutP >= 1 {
		return nil, fmt.Errorf("gnn: dropout probability must be in [0, 1), got %v", cfg.DropoutP)
	}

	conv1, err := NewConv(cfg.InFeatures, cfg.Hidden, cfg.Bias, backend)
	if err != nil {
		return nil, err
	}
	conv2, err := NewConv(cfg.Hidden, cfg.Classes, cfg.Bias, backend)
	if err != nil {
		return nil, err
	}

	return &Model[B]{
		conv1:      conv1,
		conv2:      conv2,
		relu:       nn.NewReLU[B](),
		dropout:    nn.NewDropout[B](cfg.DropoutP),
		logSoftmax: nn.NewLogSoftmax[B](),
	}, nil
}

// SetTraining switches between training and evaluation mode. In evaluation
// mode the forward pass is deterministic: dropout becomes the identity.
func (m *Model[B]) SetTraining(training bool) {
	m.dropout.SetTraining(training)
}

// Training reports whether the model is in training mode.
func (m *Model[B]) Training() bool {
	return m.dropout.Training()
}

// Forward classifies every node of g. x must be [NumNodes, InFeatures]; the
// result is [NumNodes, Classes] row-wise log-probabilities.
func (m *Model[B]) Forward(x *tensor.Tensor[float32, B], g *Graph) *tensor.Tensor[float32, B] {
	h := m.conv1.Forward(x, g)
	h = m.relu.Forward(h)
	h = m.dropout.Forward(h)
	h = m.conv2.Forward(h, g)
	return m.logSoftmax.Forward(h)
}

// Parameters returns the trainable parameters of both conv layers.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	params := m.conv1.Parameters()
	return append(params, m.conv2.Parameters()...)
}
