package storage

import "fmt"

// indexWidth is the byte width of one ija entry.
const indexWidth = 8

// YaleStorage is the classic compressed-row sparse format, rank 2 only.
//
// Layout, with rows = shape[0]:
//
//	ija[0..rows]    row pointers; ija[0] = rows+1
//	a[0..rows-1]    diagonal, always materialized
//	a[rows]         default (the dtype's zero)
//	ija[k], a[k]    for k in [ija[r], ija[r+1]): the non-default
//	                off-diagonal entries of row r, columns strictly increasing
//
// Both arrays have length ija[rows].
type YaleStorage struct {
	ija   arena
	a     arena
	shape Shape
	dtype DataType
}

// NewYale creates an empty Yale storage.
func NewYale(shape Shape, dtype DataType) (*YaleStorage, error) {
	return NewYaleWithCapacity(shape, dtype, 0)
}

// NewYaleWithCapacity creates an empty Yale storage with room for capacity
// off-diagonal entries before the first reallocation.
func NewYaleWithCapacity(shape Shape, dtype DataType, capacity int) (*YaleStorage, error) {
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: yale storage requires rank 2, got rank %d", ErrDimensionality, len(shape))
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedElementType, int(dtype))
	}

	rows := shape[0]
	y := &YaleStorage{
		ija:   newArena(indexWidth, rows+1+max(capacity, 0)),
		a:     newArena(dtype.Size(), rows+1+max(capacity, 0)),
		shape: shape.Clone(),
		dtype: dtype,
	}
	for r := 0; r <= rows; r++ {
		y.ija.append(uint64(rows + 1))
		y.a.append(0)
	}
	return y, nil
}

func (y *YaleStorage) sealed() {}

// Kind returns Yale.
func (y *YaleStorage) Kind() Kind { return Yale }

// DType returns the element type.
func (y *YaleStorage) DType() DataType { return y.dtype }

// Shape returns a copy of the dimensions.
func (y *YaleStorage) Shape() Shape { return y.shape.Clone() }

// Rank returns 2.
func (y *YaleStorage) Rank() int { return 2 }

func (y *YaleStorage) rows() int { return y.shape[0] }

// Default returns the value stored in the a[rows] slot.
func (y *YaleStorage) Default() Value {
	return y.value(y.rows())
}

func (y *YaleStorage) value(k int) Value {
	return Value{dtype: y.dtype, bits: y.a.load(k)}
}

func (y *YaleStorage) ptr(r int) int {
	return int(y.ija.load(r))
}

// search finds col among the off-diagonal entries of row. It returns the
// position of the entry, or the position where it would be inserted.
func (y *YaleStorage) search(row, col int) (int, bool) {
	lo, hi := y.ptr(row), y.ptr(row+1)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := int(y.ija.load(mid))
		switch {
		case c == col:
			return mid, true
		case c < col:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// Get returns the element at (row, col).
func (y *YaleStorage) Get(coords []int) (Value, error) {
	if err := y.shape.CheckCoords(coords); err != nil {
		return Value{}, err
	}
	row, col := coords[0], coords[1]
	if row == col {
		return y.value(row), nil
	}
	if k, ok := y.search(row, col); ok {
		return y.value(k), nil
	}
	return y.Default(), nil
}

// Set writes v at (row, col). Off the diagonal, writing the default removes a
// stored entry and writing anything else inserts or overwrites one.
func (y *YaleStorage) Set(coords []int, v Value) (Value, error) {
	if err := y.shape.CheckCoords(coords); err != nil {
		return Value{}, err
	}
	v = v.Convert(y.dtype)
	row, col := coords[0], coords[1]
	if row == col {
		y.a.store(row, v.bits)
		return v, nil
	}

	k, found := y.search(row, col)
	switch {
	case v.Equal(y.Default()):
		if found {
			y.ija.remove(k)
			y.a.remove(k)
			y.shiftRowPtrs(row, -1)
		}
	case found:
		y.a.store(k, v.bits)
	default:
		y.ija.reserve(1)
		y.a.reserve(1)
		y.ija.insert(k, uint64(col))
		y.a.insert(k, v.bits)
		y.shiftRowPtrs(row, +1)
	}
	return v, nil
}

// shiftRowPtrs adds delta to the pointers of every row after row.
func (y *YaleStorage) shiftRowPtrs(row, delta int) {
	for r := row + 1; r <= y.rows(); r++ {
		y.ija.store(r, uint64(y.ptr(r)+delta))
	}
}

// Clone copies both arrays.
func (y *YaleStorage) Clone() Storage {
	return &YaleStorage{
		ija:   y.ija.clone(),
		a:     y.a.clone(),
		shape: y.shape.Clone(),
		dtype: y.dtype,
	}
}

// Capacity returns how many entries (diagonal and default slots included)
// fit before the arrays reallocate.
func (y *YaleStorage) Capacity() int {
	return min(y.ija.Cap(), y.a.Cap())
}

// Size returns the length of both arrays, ija[rows].
func (y *YaleStorage) Size() int {
	return y.ptr(y.rows())
}

// NumStored returns the non-default diagonal entries plus the off-diagonal entries.
func (y *YaleStorage) NumStored() int {
	n := y.Size() - (y.rows() + 1)
	def := y.Default()
	for r := 0; r < min(y.rows(), y.shape[1]); r++ {
		if !y.value(r).Equal(def) {
			n++
		}
	}
	return n
}

// RowPtr returns a copy of ija[0..rows].
func (y *YaleStorage) RowPtr() []int {
	out := make([]int, y.rows()+1)
	for r := range out {
		out[r] = y.ptr(r)
	}
	return out
}

// ColIdx returns a copy of the off-diagonal column indices.
func (y *YaleStorage) ColIdx() []int {
	start := y.rows() + 1
	out := make([]int, y.Size()-start)
	for k := range out {
		out[k] = int(y.ija.load(start + k))
	}
	return out
}

// Values returns a copy of the off-diagonal values, parallel to ColIdx.
func (y *YaleStorage) Values() []Value {
	start := y.rows() + 1
	out := make([]Value, y.Size()-start)
	for k := range out {
		out[k] = y.value(start + k)
	}
	return out
}

// Diagonal returns a copy of the materialized diagonal.
func (y *YaleStorage) Diagonal() []Value {
	out := make([]Value, min(y.rows(), y.shape[1]))
	for r := range out {
		out[r] = y.value(r)
	}
	return out
}

// EachNonDefault visits every non-default entry in row-major order, the
// diagonal merged into its row by column.
func (y *YaleStorage) EachNonDefault(fn func(row, col int, v Value)) {
	def := y.Default()
	for row := 0; row < y.rows(); row++ {
		diag := row < y.shape[1] && !y.value(row).Equal(def)
		for k := y.ptr(row); k < y.ptr(row+1); k++ {
			col := int(y.ija.load(k))
			if diag && row < col {
				fn(row, row, y.value(row))
				diag = false
			}
			fn(row, col, y.value(k))
		}
		if diag {
			fn(row, row, y.value(row))
		}
	}
}

// EachStored visits every non-default entry in row-major order.
func (y *YaleStorage) EachStored(fn func(coords []int, v Value)) {
	coords := make([]int, 2)
	y.EachNonDefault(func(row, col int, v Value) {
		coords[0], coords[1] = row, col
		fn(coords, v)
	})
}
