// Copyright 2025 DLF Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense, generic, multi-dimensional arrays.
//
// # Overview
//
// A Tensor[T] owns a flat row-major buffer plus its shape. Elements are read
// and written by full index with At and Set, or by descending one axis at a
// time with View, which returns a non-owning cursor into the same buffer:
//
//	t, _ := tensor.Full[int32](tensor.Shape{2, 3}, 1)
//	row, _ := t.View(1)
//	_ = row.Set(5, 2)        // same as t.Set(5, 1, 2)
//	v, _ := t.At(1, 2)       // 5
//
// Reshape reinterprets the buffer under a new shape of the same size.
// Permute reorders axes and physically reorders the buffer, so strides are
// always the canonical row-major strides of the current shape.
//
// # Views and staleness
//
// Views record the tensor's version when created. Reshape, Permute and Move
// bump the version; any later access through an older view fails with
// ErrStaleView instead of reading rearranged data. ConstView and
// View.ReadOnly give read-only views whose setters fail with ErrReadOnly.
//
// # Concurrency
//
// Tensors and views are not safe for concurrent use. Serialize access to a
// tensor, and to every view derived from it, yourself.
//
// # Supported Data Types
//
//   - float32, float64 (floating-point)
//   - int8, int16, int32, int64 (signed integers)
//   - uint8 (unsigned integers)
//   - bool
//
// # Text format
//
// Serialize and Deserialize convert tensors to and from whitespace-separated
// decimal text: rank, dimensions, then elements in row-major order.
package tensor
