package storage

import (
	"fmt"
	"unsafe"
)

// DenseStorage keeps every element in one contiguous row-major buffer.
type DenseStorage struct {
	buf    []byte   // Element buffer
	shape  Shape    // Matrix dimensions
	stride []int    // Row-major strides
	dtype  DataType // Element type
	fill   Value    // Initial fill, reported as the default
}

// NewDense creates a zero-filled dense storage.
func NewDense(shape Shape, dtype DataType) (*DenseStorage, error) {
	return NewDenseFrom(shape, dtype, nil)
}

// NewDenseFilled creates a dense storage with every element set to fill.
// The element type is taken from fill.
func NewDenseFilled(shape Shape, fill Value) (*DenseStorage, error) {
	return NewDenseFrom(shape, fill.DType(), []Value{fill})
}

// NewDenseFrom creates a dense storage initialized from elements.
//
// An element list of the exact matrix size is copied as is; a shorter list is
// repeated cyclically until the buffer is full; an empty list leaves the
// buffer zeroed. When elements has a single entry it is also the default.
func NewDenseFrom(shape Shape, dtype DataType, elements []Value) (*DenseStorage, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedElementType, int(dtype))
	}
	count, err := shape.ElementCount(dtype.Size())
	if err != nil {
		return nil, err
	}
	if len(elements) > count {
		return nil, fmt.Errorf("%w: %d initial elements for %d slots", ErrDimensionMismatch, len(elements), count)
	}

	d := &DenseStorage{
		buf:    make([]byte, count*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		fill:   dtype.Zero(),
	}
	if len(elements) == 1 {
		d.fill = elements[0].Convert(dtype)
	}
	if len(elements) > 0 {
		width := dtype.Size()
		for i := 0; i < count; i++ {
			storeBits(d.buf, width, i, elements[i%len(elements)].Convert(dtype).bits)
		}
	}
	return d, nil
}

func (d *DenseStorage) sealed() {}

// Kind returns Dense.
func (d *DenseStorage) Kind() Kind { return Dense }

// DType returns the element type.
func (d *DenseStorage) DType() DataType { return d.dtype }

// Shape returns a copy of the dimensions.
func (d *DenseStorage) Shape() Shape { return d.shape.Clone() }

// Rank returns the number of dimensions.
func (d *DenseStorage) Rank() int { return len(d.shape) }

// Default returns the value the buffer was filled with.
func (d *DenseStorage) Default() Value { return d.fill }

// Strides returns the row-major strides.
func (d *DenseStorage) Strides() []int { return append([]int(nil), d.stride...) }

// NumElements returns the number of elements in the buffer.
func (d *DenseStorage) NumElements() int { return d.shape.NumElements() }

// NumStored returns the number of elements; dense storage materializes all of them.
func (d *DenseStorage) NumStored() int { return d.NumElements() }

// Get returns the element at coords.
func (d *DenseStorage) Get(coords []int) (Value, error) {
	if err := d.shape.CheckCoords(coords); err != nil {
		return Value{}, err
	}
	return d.At(Offset(coords, d.stride)), nil
}

// Set writes v at coords.
func (d *DenseStorage) Set(coords []int, v Value) (Value, error) {
	if err := d.shape.CheckCoords(coords); err != nil {
		return Value{}, err
	}
	v = v.Convert(d.dtype)
	storeBits(d.buf, d.dtype.Size(), Offset(coords, d.stride), v.bits)
	return v, nil
}

// At returns the element at a flat row-major offset.
func (d *DenseStorage) At(offset int) Value {
	return Value{dtype: d.dtype, bits: loadBits(d.buf, d.dtype.Size(), offset)}
}

// SetAt writes v, converted to the storage type, at a flat row-major offset.
// The offset is not bounds-checked beyond the slice bounds of the buffer.
func (d *DenseStorage) SetAt(offset int, v Value) {
	storeBits(d.buf, d.dtype.Size(), offset, v.Convert(d.dtype).bits)
}

// Clone copies the whole buffer.
func (d *DenseStorage) Clone() Storage {
	buf := make([]byte, len(d.buf))
	copy(buf, d.buf)
	return &DenseStorage{
		buf:    buf,
		shape:  d.shape.Clone(),
		stride: append([]int(nil), d.stride...),
		dtype:  d.dtype,
		fill:   d.fill,
	}
}

// EachStored visits every element in row-major order.
func (d *DenseStorage) EachStored(fn func(coords []int, v Value)) {
	coords := make([]int, len(d.shape))
	for off := 0; ; off++ {
		fn(coords, d.At(off))
		if !nextCoords(coords, d.shape) {
			return
		}
	}
}

// Data returns the raw byte buffer.
// WARNING: Direct access to underlying memory.
func (d *DenseStorage) Data() []byte {
	return d.buf
}

// AsInt8 interprets the buffer as []int8.
// Panics if the dtype is not Int8.
func (d *DenseStorage) AsInt8() []int8 {
	d.mustBe(Int8)
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*int8)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsInt16 interprets the buffer as []int16.
// Panics if the dtype is not Int16.
func (d *DenseStorage) AsInt16() []int16 {
	d.mustBe(Int16)
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*int16)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsInt32 interprets the buffer as []int32.
// Panics if the dtype is not Int32.
func (d *DenseStorage) AsInt32() []int32 {
	d.mustBe(Int32)
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsInt64 interprets the buffer as []int64.
// Panics if the dtype is not Int64.
func (d *DenseStorage) AsInt64() []int64 {
	d.mustBe(Int64)
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsUint8 interprets the buffer as []uint8.
// Panics if the dtype is not Uint8.
func (d *DenseStorage) AsUint8() []uint8 {
	d.mustBe(Uint8)
	return d.buf
}

// AsFloat32 interprets the buffer as []float32.
// Panics if the dtype is not Float32.
func (d *DenseStorage) AsFloat32() []float32 {
	d.mustBe(Float32)
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// AsFloat64 interprets the buffer as []float64.
// Panics if the dtype is not Float64.
func (d *DenseStorage) AsFloat64() []float64 {
	d.mustBe(Float64)
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

// View interprets the buffer of d as []T without copying.
// Panics if T does not match the dtype of d.
func View[T Element](d *DenseStorage) []T {
	d.mustBe(DataTypeOf[T]())
	//nolint:gosec // unsafe.Slice for zero-copy access, length bounded by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&d.buf[0])), d.NumElements())
}

func (d *DenseStorage) mustBe(dt DataType) {
	if d.dtype != dt {
		panic(fmt.Sprintf("storage dtype is %s, not %s", d.dtype, dt))
	}
}
