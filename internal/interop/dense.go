package interop

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/dlf-ml/dlf/internal/tensor"
)

// ToDense copies a rank-1 or rank-2 float64 tensor into a gonum matrix.
// A vector becomes a single row. gonum cannot represent zero-sized
// matrices, so empty tensors are rejected.
func ToDense(t *tensor.Tensor[float64]) (*mat.Dense, error) {
	shape := t.Shape()

	var rows, cols int
	switch len(shape) {
	case 1:
		rows, cols = 1, shape[0]
	case 2:
		rows, cols = shape[0], shape[1]
	default:
		return nil, fmt.Errorf("%w: ToDense needs rank 1 or 2, got shape %v", tensor.ErrShapeMismatch, shape)
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: ToDense cannot represent empty shape %v", tensor.ErrShapeMismatch, shape)
	}

	// Data returns a fresh copy, which mat.NewDense may adopt.
	return mat.NewDense(rows, cols, t.Data()), nil
}

// FromDense copies any gonum matrix into a rank-2 float64 tensor.
func FromDense(m mat.Matrix) *tensor.Tensor[float64] {
	rows, cols := m.Dims()
	data := make([]float64, rows*cols)
	for i := range rows {
		for j := range cols {
			data[i*cols+j] = m.At(i, j)
		}
	}

	t, err := tensor.FromSlice(data, tensor.Shape{rows, cols})
	if err != nil {
		panic(err) // len(data) == rows*cols by construction
	}
	return t
}
