// Copyright 2025 DLF Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"io"

	"github.com/dlf-ml/dlf/internal/serialization"
	"github.com/dlf-ml/dlf/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int8, int16, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the runtime data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Device is the placement tag of a tensor.
type Device = tensor.Device

// CPU is the host device.
var CPU = tensor.CPU

// CUDA returns the tag for a CUDA device. Tensors cannot be moved there yet.
func CUDA(index int) Device {
	return tensor.CUDA(index)
}

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense row-major tensor of T.
type Tensor[T DType] = tensor.Tensor[T]

// View is a writable cursor into a Tensor with a fixed index prefix.
type View[T DType] = tensor.View[T]

// ConstView is a read-only View.
type ConstView[T DType] = tensor.ConstView[T]

// Accessor is implemented by View and ConstView.
type Accessor[T DType] = tensor.Accessor[T]

// IndexError reports an index outside its dimension.
type IndexError = tensor.IndexError

// Errors returned by tensor operations. Match them with errors.Is.
var (
	ErrShapeMismatch      = tensor.ErrShapeMismatch
	ErrIndexOutOfRange    = tensor.ErrIndexOutOfRange
	ErrInvalidPermutation = tensor.ErrInvalidPermutation
	ErrReadOnly           = tensor.ErrReadOnly
	ErrStaleView          = tensor.ErrStaleView
	ErrDeviceUnavailable  = tensor.ErrDeviceUnavailable
	ErrParse              = serialization.ErrParse
)

// Creation functions

// New creates a tensor with zero-valued elements.
//
// Example:
//
//	x, err := tensor.New[float32](tensor.Shape{2, 3})
func New[T DType](shape Shape) (*Tensor[T], error) {
	return tensor.New[T](shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape) (*Tensor[T], error) {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) (*Tensor[T], error) {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x, err := tensor.Full[float32](tensor.Shape{2, 3}, 3.14)
func Full[T DType](shape Shape, value T) (*Tensor[T], error) {
	return tensor.Full(shape, value)
}

// FromSlice creates a tensor from a Go slice in row-major order.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// Scalar creates a rank-0 tensor.
func Scalar[T DType](value T) *Tensor[T] {
	return tensor.Scalar(value)
}

// Serialization

// Serialize renders t as whitespace-separated decimal text.
func Serialize[T DType](t *Tensor[T]) string {
	return serialization.Serialize(t)
}

// Deserialize parses the output of Serialize.
func Deserialize[T DType](s string) (*Tensor[T], error) {
	return serialization.Deserialize[T](s)
}

// Encode writes t to w in the text format.
func Encode[T DType](w io.Writer, t *Tensor[T]) error {
	return serialization.Encode(w, t)
}

// Decode reads a tensor in the text format from r.
func Decode[T DType](r io.Reader) (*Tensor[T], error) {
	return serialization.Decode[T](r)
}
