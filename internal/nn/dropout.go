package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/gcn/internal/tensor"
)

// DropoutBackend is an interface for backends that apply a dropout mask with
// gradient tracking.
type DropoutBackend interface {
	Dropout(x, mask *tensor.RawTensor) *tensor.RawTensor
}

// Dropout randomly zeroes elements during training with probability p,
// scaling the survivors by 1/(1-p) so the expected activation is unchanged
// (inverted dropout). In evaluation mode it is the identity: same tensor
// values in, same tensor values out, no randomness consumed.
type Dropout[B tensor.Backend] struct {
	p        float64
	training bool
}

// NewDropout creates a new Dropout module with drop probability p.
// Panics unless 0 <= p < 1.
func NewDropout[B tensor.Backend](p float64) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p, training: true}
}

// SetTraining switches between training and evaluation mode.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether the module is in training mode.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// P returns the drop probability.
func (d *Dropout[B]) P() float64 {
	return d.p
}

// Forward applies dropout in training mode and is the identity otherwise.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}

	backend := input.Backend()
	dropBackend, ok := any(backend).(DropoutBackend)
	if !ok {
		panic("Dropout: backend must implement Dropout operation (use autodiff.Backend)")
	}

	mask, err := tensor.NewRaw(input.Shape(), tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("Dropout: %v", err))
	}

	scale := float32(1.0 / (1.0 - d.p))
	maskData := mask.AsFloat32()
	for i := range maskData {
		//nolint:gosec // Using math/rand for the dropout mask (not security-critical)
		if rand.Float64() >= d.p {
			maskData[i] = scale
		}
	}

	return tensor.New[float32, B](dropBackend.Dropout(input.Raw(), mask), backend)
}

// Parameters returns an empty slice (Dropout has no trainable parameters).
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
