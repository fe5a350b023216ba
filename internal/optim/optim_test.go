package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/gcn/internal/autodiff"
	"github.com/born-ml/gcn/internal/backend/cpu"
	"github.com/born-ml/gcn/internal/nn"
	"github.com/born-ml/gcn/internal/optim"
	"github.com/born-ml/gcn/internal/tensor"
)

type Backend = *autodiff.Backend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

func newParam(t *testing.T, backend Backend, name string, data []float32) *nn.Parameter[Backend] {
	t.Helper()
	ts, err := tensor.FromSlice[float32, Backend](data, tensor.Shape{len(data)}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return nn.NewParameter(name, ts)
}

func gradsFor(t *testing.T, backend Backend, param *nn.Parameter[Backend], data []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	g, err := tensor.FromSlice[float32, Backend](data, param.Tensor().Shape(), backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): g.Raw(),
	}
}

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestSGDStep(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{1, 2, 3})
	grads := gradsFor(t, backend, param, []float32{0.5, -1, 0})

	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{LR: 0.1}, backend)
	if sgd.GetLR() != 0.1 {
		t.Errorf("GetLR() = %v, want 0.1", sgd.GetLR())
	}
	sgd.Step(grads)

	// param -= lr * grad
	want := []float32{0.95, 2.1, 3}
	for i, w := range want {
		if got := param.Tensor().Data()[i]; !approxEqual(got, w) {
			t.Errorf("param[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestSGDMomentumAccumulates(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{0})
	grads := gradsFor(t, backend, param, []float32{1})

	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{
		LR:       0.1,
		Momentum: 0.9,
	}, backend)

	// Step 1: velocity = 1, param = -0.1.
	sgd.Step(grads)
	if got := param.Tensor().Data()[0]; !approxEqual(got, -0.1) {
		t.Errorf("after step 1: param = %v, want -0.1", got)
	}

	// Step 2: velocity = 0.9*1 + 1 = 1.9, param = -0.1 - 0.19 = -0.29.
	sgd.Step(grads)
	if got := param.Tensor().Data()[0]; !approxEqual(got, -0.29) {
		t.Errorf("after step 2: param = %v, want -0.29", got)
	}
}

func TestSGDWeightDecay(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{2})
	grads := gradsFor(t, backend, param, []float32{0})

	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{
		LR:          0.1,
		WeightDecay: 0.5,
	}, backend)
	sgd.Step(grads)

	// Zero gradient, so the update is pure decay: 2 - 0.1*0.5*2 = 1.9.
	if got := param.Tensor().Data()[0]; !approxEqual(got, 1.9) {
		t.Errorf("param = %v, want 1.9", got)
	}
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	backend := newBackend()
	withGrad := newParam(t, backend, "a", []float32{1})
	without := newParam(t, backend, "b", []float32{5})
	grads := gradsFor(t, backend, withGrad, []float32{1})

	sgd := optim.NewSGD([]*nn.Parameter[Backend]{withGrad, without}, optim.SGDConfig{LR: 0.1}, backend)
	sgd.Step(grads)

	if got := withGrad.Tensor().Data()[0]; !approxEqual(got, 0.9) {
		t.Errorf("updated param = %v, want 0.9", got)
	}
	if got := without.Tensor().Data()[0]; got != 5 {
		t.Errorf("gradient-free param = %v, want unchanged 5", got)
	}
}

func TestAdamDefaults(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{1})

	adam := optim.NewAdam([]*nn.Parameter[Backend]{param}, optim.AdamConfig{}, backend)
	if adam.GetLR() != 0.001 {
		t.Errorf("GetLR() = %v, want default 0.001", adam.GetLR())
	}
	if adam.GetTimestep() != 0 {
		t.Errorf("GetTimestep() = %d, want 0", adam.GetTimestep())
	}
}

func TestAdamFirstStepIsSignedLR(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{1, -1, 0.5})
	grads := gradsFor(t, backend, param, []float32{10, -0.01, 3})

	adam := optim.NewAdam([]*nn.Parameter[Backend]{param}, optim.AdamConfig{LR: 0.1}, backend)
	adam.Step(grads)

	// After bias correction the first update is lr * g/(|g|+eps), i.e.
	// roughly lr * sign(g) regardless of gradient magnitude.
	want := []float32{0.9, -0.9, 0.4}
	for i, w := range want {
		if got := param.Tensor().Data()[i]; !approxEqual(got, w) {
			t.Errorf("param[%d] = %v, want %v", i, got, w)
		}
	}
	if adam.GetTimestep() != 1 {
		t.Errorf("GetTimestep() = %d, want 1", adam.GetTimestep())
	}
}

func TestAdamWeightDecayPullsTowardZero(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{2})
	grads := gradsFor(t, backend, param, []float32{0})

	adam := optim.NewAdam([]*nn.Parameter[Backend]{param}, optim.AdamConfig{
		LR:          0.1,
		WeightDecay: 5e-4,
	}, backend)
	adam.Step(grads)

	// With a zero gradient the effective gradient is decay*param > 0,
	// so the parameter must shrink.
	if got := param.Tensor().Data()[0]; got >= 2 {
		t.Errorf("param = %v, want < 2 after decay step", got)
	}
}

func TestAdamSkipsParamsWithoutGradient(t *testing.T) {
	backend := newBackend()
	withGrad := newParam(t, backend, "a", []float32{1})
	without := newParam(t, backend, "b", []float32{5})
	grads := gradsFor(t, backend, withGrad, []float32{1})

	adam := optim.NewAdam([]*nn.Parameter[Backend]{withGrad, without}, optim.AdamConfig{LR: 0.1}, backend)
	adam.Step(grads)

	if got := without.Tensor().Data()[0]; got != 5 {
		t.Errorf("gradient-free param = %v, want unchanged 5", got)
	}
}

func TestZeroGrad(t *testing.T) {
	backend := newBackend()
	param := newParam(t, backend, "w", []float32{1})

	g, err := tensor.FromSlice[float32, Backend]([]float32{0.5}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	param.SetGrad(g)

	sgd := optim.NewSGD([]*nn.Parameter[Backend]{param}, optim.SGDConfig{}, backend)
	sgd.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad() should clear parameter gradients")
	}
}
