package tensor

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of a tensor.
// A zero-length shape is a scalar; any zero dimension makes the tensor empty.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1 // Scalar has 1 element
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative and that the product of the
// non-zero dimensions fits in an int, so NumElements and strides never wrap.
// Zero dimensions are legal and denote an empty tensor.
func (s Shape) Validate() error {
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("%w: invalid dimension at index %d: %d (must be >= 0)", ErrShapeMismatch, i, dim)
		}
		if dim == 0 {
			continue
		}
		if n > math.MaxInt/dim {
			return fmt.Errorf("%w: shape %v has more elements than fit in an int", ErrShapeMismatch, s)
		}
		n *= dim
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Offset maps a full index tuple to its flat position in a row-major buffer.
//
// It fails with ErrShapeMismatch when len(indices) != len(s) and with an
// *IndexError (matching ErrIndexOutOfRange) when any component is outside
// [0, s[i]).
func (s Shape) Offset(indices []int) (int, error) {
	if len(indices) != len(s) {
		return 0, fmt.Errorf("%w: expected %d indices, got %d", ErrShapeMismatch, len(s), len(indices))
	}

	offset := 0
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		if err := checkIndex(i, indices[i], s[i]); err != nil {
			return 0, err
		}
		offset += indices[i] * stride
		stride *= s[i]
	}
	return offset, nil
}

// String formats the shape as [d0 d1 ...].
func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}

func checkIndex(dim, idx, size int) error {
	if idx < 0 || idx >= size {
		return &IndexError{Dim: dim, Index: idx, Size: size}
	}
	return nil
}

// nextIndex advances idx to the next row-major position within shape.
// It returns false once every position has been visited.
func nextIndex(idx []int, shape Shape) bool {
	for pos := len(idx) - 1; pos >= 0; pos-- {
		idx[pos]++
		if idx[pos] < shape[pos] {
			return true
		}
		idx[pos] = 0
	}
	return false
}
