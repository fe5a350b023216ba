// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/gcn/internal/backend/cpu"
	"github.com/born-ml/gcn/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies the RawTensor type alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", raw.NumElements())
	}

	clone := raw.Clone()
	if clone == nil {
		t.Fatal("Clone() returned nil")
	}
	clone.AsFloat32()[0] = 42
	if raw.AsFloat32()[0] == 42 {
		t.Error("Clone() should not share the buffer")
	}
}

// TestTensorCreationHelpers exercises the facade creation wrappers through the
// CPU backend.
func TestTensorCreationHelpers(t *testing.T) {
	backend := cpu.New()

	zeros := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	for i, v := range zeros.Data() {
		if v != 0 {
			t.Errorf("Zeros[%d] = %v, want 0", i, v)
		}
	}

	full := tensor.Full(tensor.Shape{3}, float32(2.5), backend)
	for i, v := range full.Data() {
		if v != 2.5 {
			t.Errorf("Full[%d] = %v, want 2.5", i, v)
		}
	}

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	// Multiplying by the identity must reproduce x.
	eye := tensor.Eye(2, backend)
	y := x.MatMul(eye)
	for i, v := range x.Data() {
		if y.Data()[i] != v {
			t.Errorf("x @ I at %d = %v, want %v", i, y.Data()[i], v)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	shape, needed, err := tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{1, 3})
	if err != nil {
		t.Fatalf("BroadcastShapes failed: %v", err)
	}
	if !needed {
		t.Error("broadcasting should be needed for [2 3] and [1 3]")
	}
	if !shape.Equal(tensor.Shape{2, 3}) {
		t.Errorf("broadcast shape = %v, want [2 3]", shape)
	}

	if _, _, err := tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{4}); err == nil {
		t.Error("expected error for incompatible shapes")
	}
}
