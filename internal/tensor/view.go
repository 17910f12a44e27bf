package tensor

import (
	"fmt"
	"slices"
)

// Accessor is the behavior shared by View and ConstView.
//
// A ConstView satisfies Accessor, but its Set and SetValue always fail with
// ErrReadOnly.
type Accessor[T DType] interface {
	Shape() Shape
	Indices() []int
	At(indices ...int) (T, error)
	Set(value T, indices ...int) error
	Value() (T, error)
	SetValue(value T) error

	// block returns the contiguous slice of the owner's buffer covered by
	// the accessor.
	block() ([]T, error)
}

// View is a non-owning cursor into a Tensor with a fixed index prefix.
//
// Each call to View fixes one more leading index; once every dimension is
// fixed the view denotes a single element reachable with Value and SetValue.
// A View records the owner's version when it is created and fails with
// ErrStaleView after the owner is reshaped, permuted or moved.
//
// Example:
//
//	row, _ := t.View(1)   // t has shape [2, 3]
//	cell, _ := row.View(2)
//	_ = cell.SetValue(9)  // same as t.Set(9, 1, 2)
type View[T DType] struct {
	owner     *Tensor[T]
	prefix    []int
	remaining Shape
	version   uint64
}

// View fixes the leading index of t.
func (t *Tensor[T]) View(index int) (*View[T], error) {
	return newView(t, nil, index)
}

// ConstView fixes the leading index of t and returns a read-only view.
func (t *Tensor[T]) ConstView(index int) (*ConstView[T], error) {
	v, err := newView(t, nil, index)
	if err != nil {
		return nil, err
	}
	return &ConstView[T]{v: *v}, nil
}

func newView[T DType](owner *Tensor[T], prefix []int, index int) (*View[T], error) {
	depth := len(prefix)
	if depth >= len(owner.shape) {
		return nil, fmt.Errorf("%w: cannot fix index %d of a rank-%d tensor",
			ErrIndexOutOfRange, depth, len(owner.shape))
	}
	if err := checkIndex(depth, index, owner.shape[depth]); err != nil {
		return nil, err
	}

	fixed := make([]int, depth+1)
	copy(fixed, prefix)
	fixed[depth] = index

	return &View[T]{
		owner:     owner,
		prefix:    fixed,
		remaining: owner.shape[depth+1:].Clone(),
		version:   owner.version,
	}, nil
}

// Shape returns the dimensions not yet fixed by the view.
func (v *View[T]) Shape() Shape {
	return v.remaining.Clone()
}

// Indices returns the fixed index prefix.
func (v *View[T]) Indices() []int {
	return slices.Clone(v.prefix)
}

// Rank returns the number of dimensions not yet fixed.
func (v *View[T]) Rank() int {
	return len(v.remaining)
}

// IsScalar reports whether every dimension is fixed.
func (v *View[T]) IsScalar() bool {
	return len(v.remaining) == 0
}

// View fixes the next index.
func (v *View[T]) View(index int) (*View[T], error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	return newView(v.owner, v.prefix, index)
}

// ReadOnly returns a read-only view over the same elements.
func (v *View[T]) ReadOnly() *ConstView[T] {
	return &ConstView[T]{v: *v}
}

// At returns the element at the remaining indices.
func (v *View[T]) At(indices ...int) (T, error) {
	full, err := v.resolve(indices)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.owner.At(full...)
}

// Set stores value at the remaining indices.
func (v *View[T]) Set(value T, indices ...int) error {
	full, err := v.resolve(indices)
	if err != nil {
		return err
	}
	return v.owner.Set(value, full...)
}

// Value returns the element of a scalar view.
func (v *View[T]) Value() (T, error) {
	if !v.IsScalar() {
		var zero T
		return zero, fmt.Errorf("%w: view with remaining shape %v is not a scalar", ErrShapeMismatch, v.remaining)
	}
	return v.At()
}

// SetValue stores value through a scalar view.
func (v *View[T]) SetValue(value T) error {
	if !v.IsScalar() {
		return fmt.Errorf("%w: view with remaining shape %v is not a scalar", ErrShapeMismatch, v.remaining)
	}
	return v.Set(value)
}

// Fill sets every element covered by the view to value.
func (v *View[T]) Fill(value T) error {
	blk, err := v.block()
	if err != nil {
		return err
	}
	for i := range blk {
		blk[i] = value
	}
	return nil
}

// Equal compares the elements of two views in row-major order. Views with
// different remaining shapes are an error rather than unequal.
func (v *View[T]) Equal(other Accessor[T]) (bool, error) {
	return equalAccessors[T](v, other)
}

// Materialize copies the viewed elements into a new tensor with the view's
// remaining shape.
func (v *View[T]) Materialize() (*Tensor[T], error) {
	blk, err := v.block()
	if err != nil {
		return nil, err
	}
	return FromSlice(blk, v.remaining)
}

func (v *View[T]) check() error {
	if v.version != v.owner.version {
		return fmt.Errorf("%w: view at %v created at version %d, tensor is at version %d",
			ErrStaleView, v.prefix, v.version, v.owner.version)
	}
	return nil
}

// resolve validates indices against the remaining shape and prepends the
// fixed prefix.
func (v *View[T]) resolve(indices []int) ([]int, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	if len(indices) != len(v.remaining) {
		return nil, fmt.Errorf("%w: view expects %d indices, got %d", ErrShapeMismatch, len(v.remaining), len(indices))
	}
	for i, idx := range indices {
		if err := checkIndex(len(v.prefix)+i, idx, v.remaining[i]); err != nil {
			return nil, err
		}
	}
	full := make([]int, 0, len(v.prefix)+len(indices))
	full = append(full, v.prefix...)
	return append(full, indices...), nil
}

func (v *View[T]) block() ([]T, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	strides := v.owner.shape.ComputeStrides()
	base := 0
	for i, idx := range v.prefix {
		base += idx * strides[i]
	}
	return v.owner.data[base : base+v.remaining.NumElements()], nil
}

// ConstView is a read-only View. Descending from a ConstView yields another
// ConstView, so a read-only borrow can never be widened into a writable one.
type ConstView[T DType] struct {
	v View[T]
}

// Shape returns the dimensions not yet fixed by the view.
func (c *ConstView[T]) Shape() Shape { return c.v.Shape() }

// Indices returns the fixed index prefix.
func (c *ConstView[T]) Indices() []int { return c.v.Indices() }

// Rank returns the number of dimensions not yet fixed.
func (c *ConstView[T]) Rank() int { return c.v.Rank() }

// IsScalar reports whether every dimension is fixed.
func (c *ConstView[T]) IsScalar() bool { return c.v.IsScalar() }

// View fixes the next index.
func (c *ConstView[T]) View(index int) (*ConstView[T], error) {
	next, err := c.v.View(index)
	if err != nil {
		return nil, err
	}
	return &ConstView[T]{v: *next}, nil
}

// At returns the element at the remaining indices.
func (c *ConstView[T]) At(indices ...int) (T, error) { return c.v.At(indices...) }

// Value returns the element of a scalar view.
func (c *ConstView[T]) Value() (T, error) { return c.v.Value() }

// Set always fails with ErrReadOnly.
func (c *ConstView[T]) Set(_ T, _ ...int) error {
	return fmt.Errorf("%w: set at %v", ErrReadOnly, c.v.prefix)
}

// SetValue always fails with ErrReadOnly.
func (c *ConstView[T]) SetValue(_ T) error {
	return fmt.Errorf("%w: set at %v", ErrReadOnly, c.v.prefix)
}

// Equal compares the elements of two views in row-major order.
func (c *ConstView[T]) Equal(other Accessor[T]) (bool, error) {
	return equalAccessors[T](c, other)
}

// Materialize copies the viewed elements into a new tensor.
func (c *ConstView[T]) Materialize() (*Tensor[T], error) { return c.v.Materialize() }

func (c *ConstView[T]) block() ([]T, error) { return c.v.block() }

func equalAccessors[T DType](a, b Accessor[T]) (bool, error) {
	if isNilAccessor(a) || isNilAccessor(b) {
		return false, fmt.Errorf("%w: cannot compare with a nil view", ErrShapeMismatch)
	}
	x, err := a.block()
	if err != nil {
		return false, err
	}
	y, err := b.block()
	if err != nil {
		return false, err
	}
	if !a.Shape().Equal(b.Shape()) {
		return false, fmt.Errorf("%w: cannot compare views of shape %v and %v", ErrShapeMismatch, a.Shape(), b.Shape())
	}
	return slices.Equal(x, y), nil
}

// isNilAccessor reports whether a is nil or wraps a nil view pointer.
func isNilAccessor[T DType](a Accessor[T]) bool {
	switch v := a.(type) {
	case nil:
		return true
	case *View[T]:
		return v == nil
	case *ConstView[T]:
		return v == nil
	}
	return false
}
