// Package interop adapts tensors to the array representations other runtimes
// and libraries expect.
package interop

import (
	"github.com/dlf-ml/dlf/internal/tensor"
)

// Buffer describes a tensor the way array-buffer protocols do: a typed
// snapshot of the elements plus shape and byte strides.
type Buffer struct {
	Data     any    // []T snapshot of the flat buffer
	Format   string // Element format character
	ItemSize int    // Bytes per element
	Shape    []int
	Strides  []int // Byte strides, row-major
	ReadOnly bool
}

// NewBuffer builds a row-major Buffer for t. The data is copied, so the
// buffer stays valid after t is mutated.
func NewBuffer[T tensor.DType](t *tensor.Tensor[T]) Buffer {
	dt := t.DType()
	item := dt.Size()

	strides := t.Strides()
	for i := range strides {
		strides[i] *= item
	}

	return Buffer{
		Data:     t.Data(),
		Format:   FormatOf(dt),
		ItemSize: item,
		Shape:    t.Shape(),
		Strides:  strides,
		ReadOnly: true,
	}
}

// FormatOf returns the struct-module style format character for dt.
func FormatOf(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return "f"
	case tensor.Float64:
		return "d"
	case tensor.Int8:
		return "b"
	case tensor.Int16:
		return "h"
	case tensor.Int32:
		return "i"
	case tensor.Int64:
		return "q"
	case tensor.Uint8:
		return "B"
	case tensor.Bool:
		return "?"
	default:
		return ""
	}
}
