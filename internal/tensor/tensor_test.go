package tensor

import (
	"math"
	"testing"

	"github.com/dlf-ml/dlf/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func arange(t *testing.T, shape Shape) *Tensor[int64] {
	t.Helper()
	data := make([]int64, shape.NumElements())
	for i := range data {
		data[i] = int64(i + 1)
	}
	x, err := FromSlice(data, shape)
	require.NoError(t, err)
	return x
}

func sequentialConfig() parallel.Config {
	return parallel.Sequential()
}

func chunkedConfig() parallel.Config {
	return parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}
}

func allIndices(shape Shape) [][]int {
	if shape.NumElements() == 0 {
		return nil
	}
	idx := make([]int, len(shape))
	var out [][]int
	for {
		out = append(out, append([]int(nil), idx...))
		if !nextIndex(idx, shape) {
			return out
		}
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int8, 1},
		{Int16, 2},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dtype.Size(), "%s.Size()", tt.dtype)
	}
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, Float32, DataTypeOf[float32]())
	assert.Equal(t, Float64, DataTypeOf[float64]())
	assert.Equal(t, Int8, DataTypeOf[int8]())
	assert.Equal(t, Int16, DataTypeOf[int16]())
	assert.Equal(t, Int32, DataTypeOf[int32]())
	assert.Equal(t, Int64, DataTypeOf[int64]())
	assert.Equal(t, Uint8, DataTypeOf[uint8]())
	assert.Equal(t, Bool, DataTypeOf[bool]())
	assert.True(t, Float64.IsFloat())
	assert.False(t, Int64.IsFloat())
	assert.Equal(t, "unknown", DataType(99).String())
}

// Construction

func TestFullAtEveryRank(t *testing.T) {
	shapes := []Shape{{}, {4}, {2, 3}, {2, 3, 4}}

	for _, s := range shapes {
		x, err := Full[int32](s, 5)
		require.NoError(t, err)
		assert.Equal(t, s.NumElements(), x.Size())

		for _, idx := range allIndices(s) {
			v, err := x.At(idx...)
			require.NoError(t, err)
			assert.Equal(t, int32(5), v, "shape %v index %v", s, idx)

			require.NoError(t, x.Set(int32(idx2flat(s, idx)+100), idx...))
			v, err = x.At(idx...)
			require.NoError(t, err)
			assert.Equal(t, int32(idx2flat(s, idx)+100), v)
		}
	}
}

func idx2flat(s Shape, idx []int) int {
	off, _ := s.Offset(idx)
	return off
}

func TestNewDefaultsToZero(t *testing.T) {
	x, err := New[float64](Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, x.Data())
	assert.Equal(t, CPU, x.Device())
	assert.Equal(t, Float64, x.DType())
}

func TestOnes(t *testing.T) {
	b, err := Ones[bool](Shape{2})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, b.Data())

	i, err := Ones[int8](Shape{3})
	require.NoError(t, err)
	assert.Equal(t, []int8{1, 1, 1}, i.Data())

	z, err := Zeros[uint8](Shape{2})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0}, z.Data())
}

func TestFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	x, err := FromSlice(data, Shape{2, 3})
	require.NoError(t, err)

	data[0] = 100
	v, err := x.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, float32(1), v, "FromSlice must copy its input")

	_, err = FromSlice([]float32{1, 2, 3}, Shape{2, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New[float32](Shape{2, -1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestScalar(t *testing.T) {
	s := Scalar(int16(7))
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, 1, s.Size())
	assert.False(t, s.Empty())
	assert.Empty(t, s.Strides())

	v, err := s.At()
	require.NoError(t, err)
	assert.Equal(t, int16(7), v)

	_, err = s.At(0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = s.View(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSizeAndEmpty(t *testing.T) {
	for _, s := range []Shape{{}, {0}, {3}, {2, 0}, {2, 3}} {
		x, err := New[int32](s)
		require.NoError(t, err)
		assert.Equal(t, s.NumElements(), x.Size(), "Shape%v", s)
		assert.Equal(t, x.Size() == 0, x.Empty(), "Shape%v", s)
		assert.Equal(t, len(s), x.Rank())
	}
}

func TestStrides(t *testing.T) {
	x, err := New[int32](Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, x.Strides())
}

// Access errors

func TestOutOfRangeScenario(t *testing.T) {
	x, err := Full[int32](Shape{2, 3}, 1)
	require.NoError(t, err)

	_, err = x.At(2, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = x.At(0, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = x.At(0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.ErrorIs(t, x.Set(1, -1, 0), ErrIndexOutOfRange)

	err = x.Reshape(Shape{4, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, Shape{2, 3}, x.Shape(), "failed reshape must not mutate")
}

func TestEmptyTensorScenario(t *testing.T) {
	x, err := New[int32](Shape{0, 0})
	require.NoError(t, err)

	assert.Equal(t, 0, x.Size())
	assert.True(t, x.Empty())

	_, err = x.At(0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = x.View(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	count := 0
	for range x.All() {
		count++
	}
	assert.Zero(t, count)
}

func TestOversizedShapeRejected(t *testing.T) {
	huge := []Shape{
		{math.MaxInt/2 + 1, 2},
		{65536, 65536, 65536, 65536, 65536},
	}
	for _, shape := range huge {
		_, err := New[int32](shape)
		assert.ErrorIs(t, err, ErrShapeMismatch, "New(%v)", shape)

		_, err = Full[int32](shape, 1)
		assert.ErrorIs(t, err, ErrShapeMismatch, "Full(%v)", shape)

		x := arange(t, Shape{2, 2})
		assert.ErrorIs(t, x.Reshape(shape), ErrShapeMismatch, "Reshape(%v)", shape)
		assert.Equal(t, Shape{2, 2}, x.Shape())
	}

	// A zero dimension makes any other extent legal, and nothing is addressable.
	x, err := New[int32](Shape{0, math.MaxInt, math.MaxInt})
	require.NoError(t, err)
	assert.True(t, x.Empty())
	_, err = x.At(0, 0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestFlatAccess(t *testing.T) {
	x := arange(t, Shape{2, 3})

	v, err := x.Flat(4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	require.NoError(t, x.SetFlat(4, 50))
	v, err = x.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), v)

	_, err = x.Flat(6)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, x.SetFlat(-1, 0), ErrIndexOutOfRange)
}

// Reshape

func TestReshapePreservesBuffer(t *testing.T) {
	x := arange(t, Shape{2, 3, 4})
	original := x.Data()

	require.NoError(t, x.Reshape(Shape{6, 4}))
	assert.Equal(t, Shape{6, 4}, x.Shape())
	assert.Equal(t, []int{4, 1}, x.Strides())

	require.NoError(t, x.Reshape(Shape{24}))
	require.NoError(t, x.Reshape(Shape{4, 3, 2}))
	assert.Equal(t, original, x.Data())

	require.NoError(t, x.Reshape(Shape{1, 24, 1}))
	assert.Equal(t, original, x.Data())
}

func TestReshapeBumpsVersion(t *testing.T) {
	x := arange(t, Shape{2, 3})
	v0 := x.Version()
	require.NoError(t, x.Reshape(Shape{3, 2}))
	assert.Greater(t, x.Version(), v0)

	v1 := x.Version()
	assert.Error(t, x.Reshape(Shape{5}))
	assert.Equal(t, v1, x.Version(), "failed reshape must not bump version")
}

// Transform

func TestTransformScenario(t *testing.T) {
	x, err := Full[int32](Shape{2, 3}, 1)
	require.NoError(t, err)

	x.Transform(func(v int32) int32 { return v + 1 })
	for _, v := range x.Data() {
		assert.Equal(t, int32(2), v)
	}
}

func TestTransformOrderIsFlatAscending(t *testing.T) {
	x := arange(t, Shape{2, 2})
	var seen []int64
	x.Transform(func(v int64) int64 {
		seen = append(seen, v)
		return v * 2
	})
	assert.Equal(t, []int64{1, 2, 3, 4}, seen)
	assert.Equal(t, []int64{2, 4, 6, 8}, x.Data())
}

// Permute

func TestPermuteScenario(t *testing.T) {
	x, err := Full[int32](Shape{2, 3}, 1)
	require.NoError(t, err)
	x.Transform(func(v int32) int32 { return v + 1 })

	require.NoError(t, x.Permute(1, 0))
	assert.Equal(t, Shape{3, 2}, x.Shape())
	assert.Equal(t, []int{2, 1}, x.Strides())
	for _, v := range x.Data() {
		assert.Equal(t, int32(2), v)
	}
}

func TestPermuteMaterializes(t *testing.T) {
	x := arange(t, Shape{2, 3})

	require.NoError(t, x.Permute(1, 0))
	assert.Equal(t, []int64{1, 4, 2, 5, 3, 6}, x.Data())

	want := map[[2]int]int64{
		{0, 0}: 1, {0, 1}: 4,
		{1, 0}: 2, {1, 1}: 5,
		{2, 0}: 3, {2, 1}: 6,
	}
	for idx, w := range want {
		v, err := x.At(idx[0], idx[1])
		require.NoError(t, err)
		assert.Equal(t, w, v, "index %v", idx)

		row, err := x.View(idx[0])
		require.NoError(t, err)
		cell, err := row.View(idx[1])
		require.NoError(t, err)
		got, err := cell.Value()
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}

func TestPermuteRank3MatchesDefinition(t *testing.T) {
	src := arange(t, Shape{2, 3, 4})
	axes := []int{2, 0, 1}

	x := src.Clone()
	require.NoError(t, x.Permute(axes...))
	assert.Equal(t, Shape{4, 2, 3}, x.Shape())

	for _, idx := range allIndices(x.Shape()) {
		old := make([]int, 3)
		for i, ax := range axes {
			old[ax] = idx[i]
		}
		want, err := src.At(old...)
		require.NoError(t, err)
		got, err := x.At(idx...)
		require.NoError(t, err)
		assert.Equal(t, want, got, "index %v", idx)
	}
}

func TestPermuteParallelMatchesSequential(t *testing.T) {
	src := arange(t, Shape{8, 16, 32})

	seq := src.Clone()
	require.NoError(t, seq.PermuteParallel(sequentialConfig(), 2, 1, 0))

	par := src.Clone()
	require.NoError(t, par.PermuteParallel(chunkedConfig(), 2, 1, 0))

	assert.True(t, seq.Equal(par))
}

func TestPermuteInverseRestores(t *testing.T) {
	src := arange(t, Shape{3, 4, 5})
	x := src.Clone()

	require.NoError(t, x.Permute(1, 2, 0))
	require.NoError(t, x.Permute(2, 0, 1))
	assert.True(t, src.Equal(x))
}

func TestPermuteErrors(t *testing.T) {
	x := arange(t, Shape{2, 3})
	before := x.Data()

	assert.ErrorIs(t, x.Permute(0), ErrShapeMismatch)
	assert.ErrorIs(t, x.Permute(0, 1, 2), ErrShapeMismatch)
	assert.ErrorIs(t, x.Permute(0, 0), ErrInvalidPermutation)
	assert.ErrorIs(t, x.Permute(0, 2), ErrInvalidPermutation)
	assert.ErrorIs(t, x.Permute(-1, 0), ErrInvalidPermutation)

	assert.Equal(t, Shape{2, 3}, x.Shape())
	assert.Equal(t, before, x.Data())
	assert.Zero(t, x.Version())
}

func TestPermuteEmptyAndScalar(t *testing.T) {
	e, err := New[int32](Shape{2, 0, 3})
	require.NoError(t, err)
	require.NoError(t, e.Permute(2, 1, 0))
	assert.Equal(t, Shape{3, 0, 2}, e.Shape())
	assert.Equal(t, 0, e.Size())

	s := Scalar[int32](4)
	require.NoError(t, s.Permute())
	v, err := s.At()
	require.NoError(t, err)
	assert.Equal(t, int32(4), v)
}

// Equality, copy, move

func TestEqual(t *testing.T) {
	a := arange(t, Shape{2, 3})
	b := arange(t, Shape{2, 3})
	assert.True(t, a.Equal(b))

	require.NoError(t, b.Reshape(Shape{3, 2}))
	assert.False(t, a.Equal(b), "same buffer, different shape")

	c := arange(t, Shape{2, 3})
	require.NoError(t, c.Set(0, 1, 1))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestCloneIsIndependent(t *testing.T) {
	a := arange(t, Shape{2, 2})
	b := a.Clone()
	require.NoError(t, b.Set(99, 0, 0))

	v, err := a.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestFlatten(t *testing.T) {
	a := arange(t, Shape{2, 3})
	flat := a.Flatten()
	assert.Equal(t, Shape{6}, flat.Shape())
	assert.Equal(t, a.Data(), flat.Data())

	require.NoError(t, flat.SetFlat(0, 99))
	v, err := a.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "flatten copies the buffer")

	s := Scalar[int64](5).Flatten()
	assert.Equal(t, Shape{1}, s.Shape())

	e, err := New[int64](Shape{3, 0})
	require.NoError(t, err)
	assert.Equal(t, Shape{0}, e.Flatten().Shape())
}

func TestMove(t *testing.T) {
	a := arange(t, Shape{2, 2})
	view, err := a.View(0)
	require.NoError(t, err)

	b := a.Move()
	assert.Equal(t, Shape{2, 2}, b.Shape())
	assert.Equal(t, []int64{1, 2, 3, 4}, b.Data())

	assert.True(t, a.Empty())
	assert.Equal(t, Shape{0}, a.Shape())
	assert.Equal(t, a.Shape().NumElements(), a.Size())

	_, err = view.At(0)
	assert.ErrorIs(t, err, ErrStaleView)
}

// Iteration

func TestAllRowMajor(t *testing.T) {
	x := arange(t, Shape{2, 2})

	var idxs [][]int
	var vals []int64
	for idx, v := range x.All() {
		idxs = append(idxs, idx)
		vals = append(vals, v)
	}
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, idxs)
	assert.Equal(t, []int64{1, 2, 3, 4}, vals)

	n := 0
	for range x.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

// Device

func TestDeviceTo(t *testing.T) {
	x := arange(t, Shape{2})
	assert.NoError(t, x.To(CPU))
	assert.ErrorIs(t, x.To(CUDA(0)), ErrDeviceUnavailable)
}

func TestString(t *testing.T) {
	x, err := New[int32](Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, "Tensor[int32][2 3] on cpu", x.String())
}
