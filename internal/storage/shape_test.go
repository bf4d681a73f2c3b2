package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeStrides(t *testing.T) {
	assert.Equal(t, []int{16, 8, 1}, Shape{3, 2, 8}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
	assert.Equal(t, 48, Shape{3, 2, 8}.NumElements())
	assert.Equal(t, Shape{4, 4}, Square(4))
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{1, 10}.Validate())
	assert.ErrorIs(t, Shape{}.Validate(), ErrInvalidShape)
	assert.ErrorIs(t, Shape{3, 0}.Validate(), ErrInvalidShape)
	assert.ErrorIs(t, Shape{-2}.Validate(), ErrInvalidShape)
}

func TestShapeElementCount(t *testing.T) {
	n, err := Shape{3, 2, 8}.ElementCount(8)
	require.NoError(t, err)
	assert.Equal(t, 48, n)

	_, err = Shape{1 << 32, 1 << 32}.ElementCount(1)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = Shape{1 << 62, 2}.ElementCount(1)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = Shape{1 << 61}.ElementCount(8)
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = Shape{2, 0}.ElementCount(1)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestShapeCheckCoords(t *testing.T) {
	s := Shape{1, 10}

	require.NoError(t, s.CheckCoords([]int{0, 9}))

	tests := []struct {
		name   string
		coords []int
		axis   int
	}{
		{"negative row", []int{-1, 0}, 0},
		{"row at size", []int{1, 0}, 0},
		{"col at size", []int{0, 10}, 1},
		{"negative col", []int{0, -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckCoords(tt.coords)
			require.ErrorIs(t, err, ErrOutOfRange)

			var idxErr *IndexError
			require.True(t, errors.As(err, &idxErr))
			assert.Equal(t, tt.axis, idxErr.Axis)
		})
	}

	assert.ErrorIs(t, s.CheckCoords([]int{0}), ErrDimensionality)
}

func TestShapeCloneIsIndependent(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 2, s[0])
	assert.True(t, s.Equal(Shape{2, 3}))
	assert.False(t, s.Equal(Shape{2, 3, 1}))
}
