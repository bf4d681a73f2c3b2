// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package matrix

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nmatrix/internal/matrix"
	"github.com/born-ml/nmatrix/internal/serialization"
	"github.com/born-ml/nmatrix/internal/storage"
)

// Version is the library version recorded in saved files.
const Version = serialization.LibraryVersion

// Type aliases for public API

// Matrix is an N-dimensional matrix backed by dense, list or Yale storage.
type Matrix = matrix.Matrix

// Option configures NewOf.
type Option = matrix.Option

// Shape represents the dimensions of a matrix.
// Example: Shape{3, 2, 8} is a rank-3 matrix with 48 coordinates.
type Shape = storage.Shape

// DataType is the runtime element type tag of a matrix.
type DataType = storage.DataType

// Element is a constraint for Go types that map onto a DataType.
type Element = storage.Element

// Data type constants.
const (
	Int8    DataType = storage.Int8
	Int16   DataType = storage.Int16
	Int32   DataType = storage.Int32
	Int64   DataType = storage.Int64
	Uint8   DataType = storage.Uint8
	Float32 DataType = storage.Float32
	Float64 DataType = storage.Float64
)

// Kind identifies a storage format.
type Kind = storage.Kind

// Storage kinds.
const (
	Dense Kind = storage.Dense
	List  Kind = storage.List
	Yale  Kind = storage.Yale
)

// Value is a single element tagged with its DataType.
type Value = storage.Value

// IndexError describes a coordinate outside its axis. It matches ErrOutOfRange.
type IndexError = storage.IndexError

// ReaderOptions configures validation when loading files.
type ReaderOptions = serialization.ReaderOptions

// Errors reported by matrix operations.
var (
	ErrOutOfRange             = storage.ErrOutOfRange
	ErrDimensionMismatch      = storage.ErrDimensionMismatch
	ErrDimensionality         = storage.ErrDimensionality
	ErrUnsupportedElementType = storage.ErrUnsupportedElementType
	ErrInvalidShape           = storage.ErrInvalidShape
	ErrTypeMismatch           = storage.ErrTypeMismatch
	ErrNotDense               = storage.ErrNotDense
	ErrUnknownKind            = storage.ErrUnknownKind
	ErrInvalidDefault         = storage.ErrInvalidDefault
	ErrChecksumMismatch       = serialization.ErrChecksumMismatch
	ErrInvalidMagic           = serialization.ErrInvalidMagic
)

// Square returns the rank-2 shape {n, n}.
func Square(n int) Shape {
	return matrix.Square(n)
}

// New creates a zero-filled dense matrix.
func New(shape Shape, dtype DataType) (*Matrix, error) {
	return matrix.New(shape, dtype)
}

// NewWithDefault creates a dense matrix with every element set to def.
func NewWithDefault(shape Shape, def Value) (*Matrix, error) {
	return matrix.NewWithDefault(shape, def)
}

// NewOf creates an empty matrix of the given storage kind.
//
// Example:
//
//	m, err := matrix.NewOf(matrix.List, matrix.Shape{3, 2, 8}, matrix.WithDType(matrix.Int32))
func NewOf(kind Kind, shape Shape, opts ...Option) (*Matrix, error) {
	return matrix.NewOf(kind, shape, opts...)
}

// WithDType sets the element type for NewOf.
func WithDType(dt DataType) Option {
	return matrix.WithDType(dt)
}

// WithDefault sets the default value for NewOf.
func WithDefault(v Value) Option {
	return matrix.WithDefault(v)
}

// FromSlice creates a dense matrix holding a copy of data in row-major order.
func FromSlice[T Element](shape Shape, data []T) (*Matrix, error) {
	return matrix.FromSlice(shape, data)
}

// FromGonum copies a gonum matrix into a dense matrix of the given type.
func FromGonum(a mat.Matrix, dtype DataType) (*Matrix, error) {
	return matrix.FromGonum(a, dtype)
}

// Multiply returns a·b as a fresh dense matrix.
func Multiply(a, b *Matrix) (*Matrix, error) {
	return matrix.Multiply(a, b)
}

// ValueOf wraps a Go scalar as a Value.
func ValueOf[T Element](v T) Value {
	return storage.ValueOf(v)
}

// ParseValue parses s as a value of type dt.
func ParseValue(dt DataType, s string) (Value, error) {
	return storage.ParseValue(dt, s)
}

// ParseDataType converts a type name such as "float64" to a DataType.
func ParseDataType(s string) (DataType, error) {
	return storage.ParseDataType(s)
}

// ParseKind converts a kind name such as "yale" to a Kind.
func ParseKind(s string) (Kind, error) {
	return storage.ParseKind(s)
}

// GetAs returns the element at coords converted to T.
func GetAs[T Element](m *Matrix, coords ...int) (T, error) {
	return matrix.GetAs[T](m, coords...)
}

// SetAs writes v at coords.
func SetAs[T Element](m *Matrix, v T, coords ...int) error {
	return matrix.SetAs(m, v, coords...)
}

// DefaultReaderOptions returns strict validation with checksum verification.
func DefaultReaderOptions() ReaderOptions {
	return serialization.DefaultReaderOptions()
}

// Save writes m to path in .nmx format.
func Save(path string, m *Matrix) error {
	return matrix.Save(path, m)
}

// SaveWithMetadata writes m and custom metadata to path.
func SaveWithMetadata(path string, m *Matrix, metadata map[string]string) error {
	return matrix.SaveWithMetadata(path, m, metadata)
}

// Load reads a matrix from a .nmx file with strict validation.
func Load(path string) (*Matrix, error) {
	return matrix.Load(path)
}

// LoadWithOptions reads a matrix from a .nmx file.
func LoadWithOptions(path string, opts ReaderOptions) (*Matrix, error) {
	return matrix.LoadWithOptions(path, opts)
}

// Write writes m to w in .nmx format.
func Write(w io.Writer, m *Matrix) error {
	return matrix.Write(w, m)
}

// Read reads a matrix in .nmx format from r.
func Read(r io.Reader) (*Matrix, error) {
	return matrix.Read(r)
}
