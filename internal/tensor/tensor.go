package tensor

import (
	"fmt"
	"iter"
	"slices"

	"github.com/dlf-ml/dlf/internal/parallel"
)

// Tensor is a dense, row-major, multi-dimensional array of T.
//
// A Tensor exclusively owns its flat buffer; len(data) == shape.NumElements()
// holds after every successful call. Strides are derived from the shape on
// demand and are always canonical, because Permute physically reorders the
// buffer rather than reinterpreting strides.
//
// Tensors are not safe for concurrent use. Callers that share a tensor (or
// views derived from it) across goroutines must serialize access themselves,
// e.g. with one writer lock per tensor.
//
// Example:
//
//	t, _ := tensor.Full[int32](tensor.Shape{2, 3}, 1)
//	_ = t.Set(7, 1, 2)
//	v, _ := t.At(1, 2) // 7
type Tensor[T DType] struct {
	data    []T
	shape   Shape
	device  Device
	version uint64 // Bumped by every structural mutation; see View.
}

// New creates a tensor of the given shape with zero-valued elements.
func New[T DType](shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor[T]{
		data:   make([]T, shape.NumElements()),
		shape:  shape.Clone(),
		device: CPU,
	}, nil
}

// Zeros is an alias of New that reads better next to Ones.
func Zeros[T DType](shape Shape) (*Tensor[T], error) {
	return New[T](shape)
}

// Full creates a tensor with every element set to value.
//
// Example:
//
//	t, _ := tensor.Full[float32](tensor.Shape{2, 2}, 0.5)
func Full[T DType](shape Shape, value T) (*Tensor[T], error) {
	t, err := New[T](shape)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = value
	}
	return t, nil
}

// Ones creates a tensor filled with ones (true for bool).
func Ones[T DType](shape Shape) (*Tensor[T], error) {
	return Full(shape, one[T]())
}

// FromSlice creates a tensor from a Go slice in row-major order.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	return &Tensor[T]{
		data:   slices.Clone(data),
		shape:  shape.Clone(),
		device: CPU,
	}, nil
}

// Scalar creates a rank-0 tensor holding value.
func Scalar[T DType](value T) *Tensor[T] {
	return &Tensor[T]{data: []T{value}, shape: Shape{}, device: CPU}
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.shape.Clone()
}

// Strides returns the row-major strides of the current shape.
func (t *Tensor[T]) Strides() []int {
	return t.shape.ComputeStrides()
}

// Rank returns the number of dimensions.
func (t *Tensor[T]) Rank() int {
	return len(t.shape)
}

// Size returns the total number of elements.
func (t *Tensor[T]) Size() int {
	return len(t.data)
}

// Empty reports whether the tensor holds no elements.
func (t *Tensor[T]) Empty() bool {
	return len(t.data) == 0
}

// Data returns a snapshot of the flat buffer in row-major order.
func (t *Tensor[T]) Data() []T {
	return slices.Clone(t.data)
}

// DType returns the tensor's runtime data type.
func (t *Tensor[T]) DType() DataType {
	return DataTypeOf[T]()
}

// Device returns the device the tensor lives on.
func (t *Tensor[T]) Device() Device {
	return t.device
}

// Version returns the structural version. It changes whenever Reshape,
// Permute or Move succeed.
func (t *Tensor[T]) Version() uint64 {
	return t.version
}

// At returns the element at the given full index.
func (t *Tensor[T]) At(indices ...int) (T, error) {
	off, err := t.shape.Offset(indices)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.data[off], nil
}

// Set stores value at the given full index.
func (t *Tensor[T]) Set(value T, indices ...int) error {
	off, err := t.shape.Offset(indices)
	if err != nil {
		return err
	}
	t.data[off] = value
	return nil
}

// Flat returns the element at position i of the flat buffer.
func (t *Tensor[T]) Flat(i int) (T, error) {
	if err := checkIndex(0, i, len(t.data)); err != nil {
		var zero T
		return zero, err
	}
	return t.data[i], nil
}

// SetFlat stores value at position i of the flat buffer.
func (t *Tensor[T]) SetFlat(i int, value T) error {
	if err := checkIndex(0, i, len(t.data)); err != nil {
		return err
	}
	t.data[i] = value
	return nil
}

// Reshape reinterprets the buffer under a new shape with the same number of
// elements. Element order is unchanged. Views taken earlier become stale.
func (t *Tensor[T]) Reshape(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	if shape.NumElements() != len(t.data) {
		return fmt.Errorf("%w: cannot reshape %v (%d elements) to %v (%d elements)",
			ErrShapeMismatch, t.shape, len(t.data), shape, shape.NumElements())
	}
	t.shape = shape.Clone()
	t.version++
	return nil
}

// Permute reorders the tensor's axes so that new axis i is old axis axes[i].
//
// The buffer is materialized in the new order, so strides stay row-major and
// At/View address the permuted logical layout directly. For a [2,3] tensor
// holding 1..6, Permute(1, 0) yields shape [3,2] and buffer 1 4 2 5 3 6.
// Views taken earlier become stale.
func (t *Tensor[T]) Permute(axes ...int) error {
	return t.PermuteParallel(permuteConfig, axes...)
}

// PermuteParallel is Permute with an explicit worker configuration for the
// element copy.
func (t *Tensor[T]) PermuteParallel(cfg parallel.Config, axes ...int) error {
	if err := validatePermutation(axes, len(t.shape)); err != nil {
		return err
	}

	oldStrides := t.shape.ComputeStrides()
	newShape := make(Shape, len(axes))
	srcStrides := make([]int, len(axes))
	for i, ax := range axes {
		newShape[i] = t.shape[ax]
		srcStrides[i] = oldStrides[ax]
	}

	dst := make([]T, len(t.data))
	src := t.data
	parallel.ForRange(len(dst), func(start, end int) {
		gather(dst, src, newShape, srcStrides, start, end)
	}, cfg)

	t.data = dst
	t.shape = newShape
	t.version++
	return nil
}

// permuteConfig is used by Permute; small tensors always copy inline.
var permuteConfig = parallel.DefaultConfig()

func validatePermutation(axes []int, rank int) error {
	if len(axes) != rank {
		return fmt.Errorf("%w: permutation has %d axes, tensor has rank %d", ErrShapeMismatch, len(axes), rank)
	}
	seen := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			return fmt.Errorf("%w: %v is not a permutation of 0..%d", ErrInvalidPermutation, axes, rank-1)
		}
		seen[ax] = true
	}
	return nil
}

// gather fills dst[start:end] where dst is laid out row-major over dstShape
// and element k of dst reads src at sum(coord[j] * srcStrides[j]).
func gather[T DType](dst, src []T, dstShape Shape, srcStrides []int, start, end int) {
	rank := len(dstShape)
	dstStrides := dstShape.ComputeStrides()

	coord := make([]int, rank)
	off := 0
	rem := start
	for j := 0; j < rank; j++ {
		coord[j] = rem / dstStrides[j]
		rem %= dstStrides[j]
		off += coord[j] * srcStrides[j]
	}

	for i := start; i < end; i++ {
		dst[i] = src[off]
		for j := rank - 1; j >= 0; j-- {
			coord[j]++
			off += srcStrides[j]
			if coord[j] < dstShape[j] {
				break
			}
			off -= coord[j] * srcStrides[j]
			coord[j] = 0
		}
	}
}

// Transform replaces every element x with f(x), visiting the buffer in
// ascending flat order.
func (t *Tensor[T]) Transform(f func(T) T) {
	for i, v := range t.data {
		t.data[i] = f(v)
	}
}

// Equal reports whether both tensors have the same shape and the same
// elements in flat order.
func (t *Tensor[T]) Equal(other *Tensor[T]) bool {
	if other == nil {
		return false
	}
	return t.shape.Equal(other.shape) && slices.Equal(t.data, other.data)
}

// Clone returns a deep copy with an independent buffer.
func (t *Tensor[T]) Clone() *Tensor[T] {
	return &Tensor[T]{
		data:   slices.Clone(t.data),
		shape:  t.shape.Clone(),
		device: t.device,
	}
}

// Flatten returns a rank-1 copy of t holding its elements in row-major
// order.
func (t *Tensor[T]) Flatten() *Tensor[T] {
	return &Tensor[T]{
		data:   slices.Clone(t.data),
		shape:  Shape{len(t.data)},
		device: t.device,
	}
}

// Move transfers the buffer to a new tensor. The receiver is left empty with
// shape [0], and views taken from it become stale.
func (t *Tensor[T]) Move() *Tensor[T] {
	moved := &Tensor[T]{
		data:   t.data,
		shape:  t.shape,
		device: t.device,
	}
	t.data = []T{}
	t.shape = Shape{0}
	t.version++
	return moved
}

// All iterates over every element in row-major order, yielding a fresh
// index tuple with each value.
func (t *Tensor[T]) All() iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		if len(t.data) == 0 {
			return
		}
		idx := make([]int, len(t.shape))
		for _, v := range t.data {
			if !yield(slices.Clone(idx), v) {
				return
			}
			nextIndex(idx, t.shape)
		}
	}
}

// To moves the tensor to device. Only the current device is reachable, in
// which case To is a no-op.
func (t *Tensor[T]) To(device Device) error {
	if device == t.device {
		return nil
	}
	return fmt.Errorf("%w: cannot transfer tensor from %s to %s", ErrDeviceUnavailable, t.device, device)
}

// String returns a short description of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.DType(), t.shape, t.device)
}

func one[T DType]() T {
	var dummy T
	var v any
	switch any(dummy).(type) {
	case float32:
		v = float32(1)
	case float64:
		v = float64(1)
	case int8:
		v = int8(1)
	case int16:
		v = int16(1)
	case int32:
		v = int32(1)
	case int64:
		v = int64(1)
	case uint8:
		v = uint8(1)
	case bool:
		v = true
	}
	return v.(T)
}
