// Package storage provides the physical storage formats behind an N-dimensional matrix:
// dense contiguous buffers, recursive sparse lists, and compressed-row Yale storage.
package storage

import "fmt"

// Element is a constraint for Go types that map onto a DataType.
type Element interface {
	int8 | int16 | int32 | int64 | uint8 | float32 | float64
}

// DataType is the runtime element type tag of a matrix.
type DataType int

// Supported element types.
const (
	Int8 DataType = iota
	Int16
	Int32
	Int64
	Uint8
	Float32
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the type is a floating-point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// Valid reports whether dt is one of the supported tags.
func (dt DataType) Valid() bool {
	return dt >= Int8 && dt <= Float64
}

// Zero returns the natural default of the type.
func (dt DataType) Zero() Value {
	return Value{dtype: dt}
}

// ParseDataType converts a name produced by String back to a DataType.
func ParseDataType(s string) (DataType, error) {
	for dt := Int8; dt <= Float64; dt++ {
		if dt.String() == s {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedElementType, s)
}

// DataTypeOf returns the DataType matching the Go type T.
func DataTypeOf[T Element]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
