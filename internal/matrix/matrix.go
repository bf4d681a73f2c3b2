// Package matrix implements the logical matrix on top of the three storage
// formats. A Matrix owns exactly one storage.Storage and forwards element
// access to it; operations that produce a new matrix never share storage
// with their inputs.
package matrix

import (
	"fmt"
	"strings"

	"github.com/born-ml/nmatrix/internal/storage"
)

// Matrix is an N-dimensional matrix backed by dense, list or Yale storage.
type Matrix struct {
	s storage.Storage
}

// Square returns the rank-2 shape {n, n}.
func Square(n int) storage.Shape {
	return storage.Square(n)
}

// New creates a zero-filled dense matrix.
func New(shape storage.Shape, dtype storage.DataType) (*Matrix, error) {
	d, err := storage.NewDense(shape, dtype)
	if err != nil {
		return nil, fmt.Errorf("new dense matrix: %w", err)
	}
	return &Matrix{s: d}, nil
}

// NewWithDefault creates a dense matrix with every element set to def.
// The element type is taken from def.
func NewWithDefault(shape storage.Shape, def storage.Value) (*Matrix, error) {
	d, err := storage.NewDenseFilled(shape, def)
	if err != nil {
		return nil, fmt.Errorf("new dense matrix: %w", err)
	}
	return &Matrix{s: d}, nil
}

// NewOf creates an empty matrix of the given storage kind.
//
// The element type comes from WithDType, or from the WithDefault value when
// no type is given, or is Float64 when neither option is present. Yale
// storage only supports the zero default.
func NewOf(kind storage.Kind, shape storage.Shape, opts ...Option) (*Matrix, error) {
	o, err := gatherOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("new %s matrix: %w", kind, err)
	}

	var s storage.Storage
	switch kind {
	case storage.Dense:
		s, err = storage.NewDenseFilled(shape, o.def)
	case storage.List:
		s, err = storage.NewList(shape, o.def)
	case storage.Yale:
		if !o.def.IsZero() {
			return nil, fmt.Errorf("new yale matrix: %w: %s (yale defaults to zero)", storage.ErrInvalidDefault, o.def)
		}
		s, err = storage.NewYale(shape, o.dtype)
	default:
		return nil, fmt.Errorf("new matrix: %w: %d", storage.ErrUnknownKind, int(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("new %s matrix: %w", kind, err)
	}
	return &Matrix{s: s}, nil
}

// FromSlice creates a dense matrix holding a copy of data in row-major order.
func FromSlice[T storage.Element](shape storage.Shape, data []T) (*Matrix, error) {
	dtype := storage.DataTypeOf[T]()
	count, err := shape.ElementCount(dtype.Size())
	if err != nil {
		return nil, fmt.Errorf("new dense matrix: %w", err)
	}
	if len(data) != count {
		return nil, fmt.Errorf("new dense matrix: %w: shape %v requires %d elements, but got %d",
			storage.ErrDimensionMismatch, shape, count, len(data))
	}
	d, err := storage.NewDense(shape, dtype)
	if err != nil {
		return nil, fmt.Errorf("new dense matrix: %w", err)
	}
	copy(storage.View[T](d), data)
	return &Matrix{s: d}, nil
}

// FromStorage wraps s. The matrix takes ownership of s.
func FromStorage(s storage.Storage) *Matrix {
	return &Matrix{s: s}
}

// Storage returns the underlying storage.
func (m *Matrix) Storage() storage.Storage { return m.s }

// Kind returns the storage format.
func (m *Matrix) Kind() storage.Kind { return m.s.Kind() }

// DType returns the element type.
func (m *Matrix) DType() storage.DataType { return m.s.DType() }

// Shape returns a copy of the dimensions.
func (m *Matrix) Shape() storage.Shape { return m.s.Shape() }

// Rank returns the number of dimensions.
func (m *Matrix) Rank() int { return m.s.Rank() }

// Default returns the value read at coordinates with no stored entry.
func (m *Matrix) Default() storage.Value { return m.s.Default() }

// NumStored returns the number of explicitly stored elements.
func (m *Matrix) NumStored() int { return m.s.NumStored() }

// Get returns the element at coords.
func (m *Matrix) Get(coords ...int) (storage.Value, error) {
	return m.s.Get(coords)
}

// Set writes v at coords, converting it to the matrix element type,
// and returns the value written.
func (m *Matrix) Set(v storage.Value, coords ...int) (storage.Value, error) {
	return m.s.Set(coords, v)
}

// GetAs returns the element at coords converted to T.
func GetAs[T storage.Element](m *Matrix, coords ...int) (T, error) {
	v, err := m.Get(coords...)
	if err != nil {
		var zero T
		return zero, err
	}
	return storage.As[T](v), nil
}

// SetAs writes v at coords.
func SetAs[T storage.Element](m *Matrix, v T, coords ...int) error {
	_, err := m.Set(storage.ValueOf(v), coords...)
	return err
}

// Dup returns a deep copy of m.
func (m *Matrix) Dup() *Matrix {
	return &Matrix{s: m.s.Clone()}
}

// Densify returns a dense copy of m.
func (m *Matrix) Densify() (*Matrix, error) {
	return m.Convert(storage.Dense)
}

// Convert returns a copy of m in the given storage format.
func (m *Matrix) Convert(kind storage.Kind) (*Matrix, error) {
	s, err := storage.Convert(m.s, kind)
	if err != nil {
		return nil, fmt.Errorf("convert %s to %s: %w", m.s.Kind(), kind, err)
	}
	return &Matrix{s: s}, nil
}

// Cast returns a copy of m with elements converted to dtype.
func (m *Matrix) Cast(dtype storage.DataType) (*Matrix, error) {
	s, err := storage.Cast(m.s, dtype)
	if err != nil {
		return nil, fmt.Errorf("cast %s to %s: %w", m.s.DType(), dtype, err)
	}
	return &Matrix{s: s}, nil
}

// Equal reports whether m and other have the same shape and equal values at
// every coordinate, regardless of storage format.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	return storage.Equal(m.s, other.s)
}

// String renders a header line followed by the elements of rank 1 and
// rank 2 matrices. Higher ranks print the header only.
func (m *Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %v default=%s stored=%d",
		m.s.Kind(), m.s.DType(), []int(m.s.Shape()), m.s.Default(), m.s.NumStored())

	shape := m.s.Shape()
	switch len(shape) {
	case 1:
		sb.WriteString("\n")
		writeRow(&sb, m.s, shape[0], func(j int) []int { return []int{j} })
	case 2:
		for i := 0; i < shape[0]; i++ {
			sb.WriteString("\n")
			writeRow(&sb, m.s, shape[1], func(j int) []int { return []int{i, j} })
		}
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, s storage.Storage, n int, at func(j int) []int) {
	sb.WriteByte('[')
	for j := 0; j < n; j++ {
		if j > 0 {
			sb.WriteString(", ")
		}
		v, _ := s.Get(at(j))
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
}
