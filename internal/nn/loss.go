package nn

import (
	"fmt"

	"github.com/born-ml/gcn/internal/tensor"
)

// NLLBackend is an interface for backends that compute the masked negative
// log-likelihood with gradient tracking.
type NLLBackend interface {
	MaskedNLL(logProbs, target, mask *tensor.RawTensor) *tensor.RawTensor
}

// NLLLoss computes the mean negative log-likelihood over the rows a boolean
// mask selects:
//
//	loss = -1/|M| * sum_{i in M} logProbs[i, target[i]]
//
// Rows outside the mask contribute neither to the loss nor to gradients, so
// training sees only the labeled subset while the forward pass still covers
// every row.
type NLLLoss[B tensor.Backend] struct{}

// NewNLLLoss creates a new masked NLL loss module.
func NewNLLLoss[B tensor.Backend]() *NLLLoss[B] {
	return &NLLLoss[B]{}
}

// Forward computes the masked mean NLL as a shape-[1] tensor.
//
// logProbs is [N, C] row-wise log-probabilities (the output of LogSoftmax),
// target is [N] int32 class indices, mask is [N] bool. Panics if the mask
// selects no rows.
func (l *NLLLoss[B]) Forward(
	logProbs *tensor.Tensor[float32, B],
	target *tensor.Tensor[int32, B],
	mask *tensor.Tensor[bool, B],
) *tensor.Tensor[float32, B] {
	backend := logProbs.Backend()

	if nllBackend, ok := any(backend).(NLLBackend); ok {
		raw := nllBackend.MaskedNLL(logProbs.Raw(), target.Raw(), mask.Raw())
		return tensor.New[float32, B](raw, backend)
	}

	// Plain backends still get the loss value, just without gradients.
	raw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	if err != nil {
		panic(fmt.Sprintf("NLLLoss: %v", err))
	}
	raw.AsFloat32()[0] = maskedNLLValue(logProbs.Raw(), target.Raw(), mask.Raw())
	return tensor.New[float32, B](raw, backend)
}

// maskedNLLValue computes the masked mean NLL without recording gradients.
func maskedNLLValue(logProbs, target, mask *tensor.RawTensor) float32 {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("NLLLoss: expected 2D log-probs, got %dD", len(shape)))
	}
	cols := shape[1]

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
			panic(fmt.Sprintf("NLLLoss: target %d out of range [0, %d) at row %d", t, cols, i))
		}
		total += float64(lpData[i*cols+int(t)])
		count++
	}
	if count == 0 {
		panic("NLLLoss: mask selects no rows")
	}
	return float32(-total / float64(count))
}

// Accuracy returns the fraction of masked rows whose argmax prediction equals
// the target class. When every masked prediction is correct the result is
// exactly 1.0. Panics if the mask selects no rows.
func Accuracy[B tensor.Backend](
	logProbs *tensor.Tensor[float32, B],
	target *tensor.Tensor[int32, B],
	mask *tensor.Tensor[bool, B],
) float64 {
	pred := logProbs.Argmax(1)

	predData := pred.Raw().AsInt32()
	targets := target.Raw().AsInt32()
	masked := mask.Raw().AsBool()

	correct, count := 0, 0
	for i, in := range masked {
		if !in {
			continue
		}
		if predData[i] == targets[i] {
			correct++
		}
		count++
	}
	if count == 0 {
		panic("Accuracy: mask selects no rows")
	}
	return float64(correct) / float64(count)
}
