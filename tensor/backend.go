// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/gcn/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: gonum BLAS for dense math plus explicit kernels
//
// Decorator backends for additional functionality:
//   - autodiff: Automatic differentiation (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/born-ml/gcn/tensor"
//	    "github.com/born-ml/gcn/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations (with broadcasting).
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor // Matrix multiplication.

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(t *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                           // Total sum (shape-[1] result).
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Sum along dimension.
	Argmax(x *RawTensor, dim int) *RawTensor               // Index of maximum value along dimension.

	// Row indexing operations for message passing.
	GatherRows(x, index *RawTensor) *RawTensor                     // out[i] = x[index[i]].
	ScatterAddRows(src, index *RawTensor, numRows int) *RawTensor  // out[index[i]] += src[i].

	// Metadata.
	Name() string // Backend name (e.g., "CPU").
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
