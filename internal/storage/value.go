package storage

import (
	"math"
	"strconv"
)

// Value is a single matrix element tagged with its DataType.
//
// The payload is kept in canonical form: floats as their IEEE-754 bits,
// integers as two's complement truncated to the type's width. The zero
// Value is an int8 zero.
type Value struct {
	dtype DataType
	bits  uint64
}

// ValueOf wraps a Go scalar as a Value of the matching DataType.
func ValueOf[T Element](v T) Value {
	switch x := any(v).(type) {
	case int8:
		return Value{dtype: Int8, bits: uint64(uint8(x))}
	case int16:
		return Value{dtype: Int16, bits: uint64(uint16(x))}
	case int32:
		return Value{dtype: Int32, bits: uint64(uint32(x))}
	case int64:
		return Value{dtype: Int64, bits: uint64(x)}
	case uint8:
		return Value{dtype: Uint8, bits: uint64(x)}
	case float32:
		return Value{dtype: Float32, bits: uint64(math.Float32bits(x))}
	case float64:
		return Value{dtype: Float64, bits: math.Float64bits(x)}
	default:
		panic("unsupported type")
	}
}

// FromFloat64 converts f to a Value of type dt. Integer types truncate toward zero.
func FromFloat64(dt DataType, f float64) Value {
	switch dt {
	case Float32:
		return Value{dtype: dt, bits: uint64(math.Float32bits(float32(f)))}
	case Float64:
		return Value{dtype: dt, bits: math.Float64bits(f)}
	default:
		return FromInt64(dt, int64(f))
	}
}

// FromInt64 converts i to a Value of type dt. Narrower integer types wrap.
func FromInt64(dt DataType, i int64) Value {
	switch dt {
	case Float32:
		return Value{dtype: dt, bits: uint64(math.Float32bits(float32(i)))}
	case Float64:
		return Value{dtype: dt, bits: math.Float64bits(float64(i))}
	default:
		return fromBits(dt, uint64(i))
	}
}

// FromBits builds a Value of type dt from a canonical payload as returned by
// Bits. Bits above the type's width are dropped.
func FromBits(dt DataType, bits uint64) Value {
	return fromBits(dt, bits)
}

// fromBits builds a Value from a raw payload, masking it to the type's width.
func fromBits(dt DataType, bits uint64) Value {
	switch dt.Size() {
	case 1:
		bits &= 0xff
	case 2:
		bits &= 0xffff
	case 4:
		bits &= 0xffffffff
	}
	return Value{dtype: dt, bits: bits}
}

// DType returns the element type of the value.
func (v Value) DType() DataType {
	return v.dtype
}

// Bits returns the canonical payload: IEEE-754 bits for floats, two's
// complement truncated to the type's width for integers.
func (v Value) Bits() uint64 {
	return v.bits
}

// Float64 returns the value as a float64.
func (v Value) Float64() float64 {
	switch v.dtype {
	case Float32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case Float64:
		return math.Float64frombits(v.bits)
	default:
		return float64(v.Int64())
	}
}

// Int64 returns the value as an int64. Floats truncate toward zero.
func (v Value) Int64() int64 {
	switch v.dtype {
	case Int8:
		return int64(int8(v.bits))
	case Int16:
		return int64(int16(v.bits))
	case Int32:
		return int64(int32(v.bits))
	case Int64:
		return int64(v.bits)
	case Uint8:
		return int64(uint8(v.bits))
	default:
		return int64(v.Float64())
	}
}

// Convert returns v converted to type dt.
func (v Value) Convert(dt DataType) Value {
	if v.dtype == dt {
		return v
	}
	if v.dtype.IsFloat() {
		return FromFloat64(dt, v.Float64())
	}
	return FromInt64(dt, v.Int64())
}

// Equal reports exact numeric equality. Negative and positive zero are equal
// and NaN equals nothing, itself included.
func (v Value) Equal(o Value) bool {
	if v.dtype == o.dtype {
		switch v.dtype {
		case Float32:
			return math.Float32frombits(uint32(v.bits)) == math.Float32frombits(uint32(o.bits))
		case Float64:
			return math.Float64frombits(v.bits) == math.Float64frombits(o.bits)
		default:
			return v.bits == o.bits
		}
	}
	if v.dtype.IsFloat() || o.dtype.IsFloat() {
		return v.Float64() == o.Float64()
	}
	return v.Int64() == o.Int64()
}

// IsZero reports whether v equals the zero of its type.
func (v Value) IsZero() bool {
	return v.Equal(v.dtype.Zero())
}

// String formats the value in its natural representation.
func (v Value) String() string {
	switch v.dtype {
	case Float32:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
	case Float64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	default:
		return strconv.FormatInt(v.Int64(), 10)
	}
}

// ParseValue parses s as a value of type dt.
func ParseValue(dt DataType, s string) (Value, error) {
	if dt.IsFloat() {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		return FromFloat64(dt, f), nil
	}
	if dt == Uint8 {
		u, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return Value{}, err
		}
		return FromInt64(dt, int64(u)), nil
	}
	i, err := strconv.ParseInt(s, 10, 8*dt.Size())
	if err != nil {
		return Value{}, err
	}
	return FromInt64(dt, i), nil
}

// As returns v converted to the Go type T.
func As[T Element](v Value) T {
	c := v.Convert(DataTypeOf[T]())
	var out T
	switch p := any(&out).(type) {
	case *int8:
		*p = int8(c.bits)
	case *int16:
		*p = int16(c.bits)
	case *int32:
		*p = int32(c.bits)
	case *int64:
		*p = int64(c.bits)
	case *uint8:
		*p = uint8(c.bits)
	case *float32:
		*p = math.Float32frombits(uint32(c.bits))
	case *float64:
		*p = math.Float64frombits(c.bits)
	}
	return out
}
