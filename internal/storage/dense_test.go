package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseZeroFilled(t *testing.T) {
	d, err := NewDense(Shape{3, 3}, Int8)
	require.NoError(t, err)

	v, err := d.Get([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, Int8, v.DType())
	assert.True(t, v.IsZero())
	assert.Equal(t, 9, d.NumStored())
}

func TestDenseFilledDefault(t *testing.T) {
	d, err := NewDenseFilled(Shape{3, 3}, ValueOf(0.1))
	require.NoError(t, err)

	v, err := d.Get([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.1, v.Float64())
	assert.Equal(t, 0.1, d.Default().Float64())
}

func TestDenseCyclicInitialElements(t *testing.T) {
	elems := []Value{ValueOf(int32(1)), ValueOf(int32(2)), ValueOf(int32(3))}
	d, err := NewDenseFrom(Shape{2, 4}, Int32, elems)
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 2, 3, 1, 2, 3, 1, 2}, d.AsInt32())

	exact, err := NewDenseFrom(Shape{1, 3}, Int32, elems)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3}, exact.AsInt32())

	_, err = NewDenseFrom(Shape{1, 2}, Int32, elems)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDenseSetGetRowMajor(t *testing.T) {
	d, err := NewDense(Shape{4, 3}, Float64)
	require.NoError(t, err)

	rows := [][]float64{{14, 9, 3}, {2, 11, 15}, {0, 12, 17}, {5, 2, 3}}
	for i, row := range rows {
		for j, x := range row {
			written, err := d.Set([]int{i, j}, ValueOf(x))
			require.NoError(t, err)
			assert.Equal(t, x, written.Float64())
		}
	}
	assert.Equal(t, []float64{14, 9, 3, 2, 11, 15, 0, 12, 17, 5, 2, 3}, d.AsFloat64())
}

func TestDenseSetConvertsToStorageType(t *testing.T) {
	d, err := NewDense(Shape{2}, Int16)
	require.NoError(t, err)

	written, err := d.Set([]int{0}, ValueOf(7.9))
	require.NoError(t, err)
	assert.Equal(t, Int16, written.DType())
	assert.Equal(t, []int16{7, 0}, d.AsInt16())
}

func TestDenseCloneIsDeep(t *testing.T) {
	d, err := NewDense(Shape{2, 2}, Float32)
	require.NoError(t, err)
	_, err = d.Set([]int{0, 0}, ValueOf(float32(1)))
	require.NoError(t, err)

	c := d.Clone().(*DenseStorage)
	_, err = c.Set([]int{0, 0}, ValueOf(float32(3)))
	require.NoError(t, err)

	assert.Equal(t, float32(1), d.AsFloat32()[0])
	assert.Equal(t, float32(3), c.AsFloat32()[0])
}

func TestDenseTypedViewPanicsOnWrongType(t *testing.T) {
	d, err := NewDense(Shape{2}, Int64)
	require.NoError(t, err)
	assert.Panics(t, func() { d.AsFloat64() })
	assert.Len(t, d.AsInt64(), 2)
	assert.Len(t, d.Data(), 16)
}

func TestDenseGenericView(t *testing.T) {
	d, err := NewDense(Shape{2, 2}, Int16)
	require.NoError(t, err)
	copy(View[int16](d), []int16{1, -2, 3, -4})

	assert.Equal(t, int64(-4), mustGet(t, d, 1, 1).Int64())
	assert.Panics(t, func() { View[int32](d) })
}

func TestDenseEachStoredVisitsAll(t *testing.T) {
	d, err := NewDenseFrom(Shape{2, 2}, Uint8, []Value{ValueOf(uint8(1)), ValueOf(uint8(2)), ValueOf(uint8(3)), ValueOf(uint8(4))})
	require.NoError(t, err)

	var seen [][]int
	var vals []int64
	d.EachStored(func(coords []int, v Value) {
		seen = append(seen, append([]int(nil), coords...))
		vals = append(vals, v.Int64())
	})
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, seen)
	assert.Equal(t, []int64{1, 2, 3, 4}, vals)
}

func TestDenseRejectsOverflowingShape(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		dtype DataType
	}{
		{"count wraps to zero", Shape{1 << 32, 1 << 32}, Int8},
		{"count wraps negative", Shape{1 << 62, 2}, Int8},
		{"byte size overflows", Shape{1 << 61}, Float64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDense(tt.shape, tt.dtype)
			require.ErrorIs(t, err, ErrInvalidShape)
			assert.Nil(t, d)

			_, err = NewDenseFilled(tt.shape, ValueOf(int8(1)))
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}
