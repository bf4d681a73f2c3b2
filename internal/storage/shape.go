package storage

import (
	"fmt"
	"math"
)

// Shape represents the dimensions of a matrix.
type Shape []int

// Square returns the rank-2 shape n×n.
func Square(n int) Shape {
	return Shape{n, n}
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of addressable elements.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// ElementCount returns the number of elements of a valid shape. It fails with
// ErrInvalidShape when the count, or its size in bytes for elements of width
// bytes, does not fit in an int.
func (s Shape) ElementCount(width int) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	n := 1
	for _, dim := range s {
		if dim > math.MaxInt/n {
			return 0, fmt.Errorf("%w: element count of %v overflows int", ErrInvalidShape, []int(s))
		}
		n *= dim
	}
	if width > 0 && n > math.MaxInt/width {
		return 0, fmt.Errorf("%w: %d elements of %d bytes overflow int", ErrInvalidShape, n, width)
	}
	return n, nil
}

// Validate checks that the shape has at least one dimension and all dimensions are > 0.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: rank must be at least 1", ErrInvalidShape)
	}
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("%w: dimension %d is %d (must be > 0)", ErrInvalidShape, i, dim)
		}
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
// stride[i] is the product of all dimensions after i.
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

// CheckCoords verifies that coords addresses an element of the shape.
// Negative coordinates are always rejected.
func (s Shape) CheckCoords(coords []int) error {
	if len(coords) != len(s) {
		return fmt.Errorf("%w: got %d coordinates for rank %d", ErrDimensionality, len(coords), len(s))
	}
	for axis, idx := range coords {
		if idx < 0 || idx >= s[axis] {
			return &IndexError{Axis: axis, Index: idx, Size: s[axis]}
		}
	}
	return nil
}

// Offset returns the row-major buffer offset of coords, which must already be checked.
func Offset(coords, strides []int) int {
	off := 0
	for i, idx := range coords {
		off += idx * strides[i]
	}
	return off
}
