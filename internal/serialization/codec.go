package serialization

import (
	"encoding/binary"
	"fmt"

	"github.com/born-ml/nmatrix/internal/storage"
)

// sectionBuilder appends named sections to a data buffer.
type sectionBuilder struct {
	data     []byte
	sections []SectionMeta
}

func (b *sectionBuilder) indices(name string, idx []int) {
	start := len(b.data)
	for _, i := range idx {
		b.data = binary.LittleEndian.AppendUint64(b.data, uint64(i))
	}
	b.add(name, len(idx), start)
}

func (b *sectionBuilder) values(name string, dtype storage.DataType, vals []storage.Value) {
	start := len(b.data)
	for _, v := range vals {
		b.data = appendValue(b.data, dtype, v)
	}
	b.add(name, len(vals), start)
}

func (b *sectionBuilder) add(name string, count, start int) {
	b.sections = append(b.sections, SectionMeta{
		Name:   name,
		Count:  int64(count),
		Offset: int64(start),
		Size:   int64(len(b.data) - start),
	})
}

// appendValue writes v, converted to dtype, in little-endian order.
func appendValue(buf []byte, dtype storage.DataType, v storage.Value) []byte {
	bits := v.Convert(dtype).Bits()
	switch dtype.Size() {
	case 1:
		return append(buf, byte(bits))
	case 2:
		return binary.LittleEndian.AppendUint16(buf, uint16(bits))
	case 4:
		return binary.LittleEndian.AppendUint32(buf, uint32(bits))
	default:
		return binary.LittleEndian.AppendUint64(buf, bits)
	}
}

func loadValue(buf []byte, dtype storage.DataType, i int) storage.Value {
	w := dtype.Size()
	p := buf[i*w : (i+1)*w]
	switch w {
	case 1:
		return storage.FromBits(dtype, uint64(p[0]))
	case 2:
		return storage.FromBits(dtype, uint64(binary.LittleEndian.Uint16(p)))
	case 4:
		return storage.FromBits(dtype, uint64(binary.LittleEndian.Uint32(p)))
	default:
		return storage.FromBits(dtype, binary.LittleEndian.Uint64(p))
	}
}

// encode lays out the sections of s and fills the storage fields of a header.
func encode(s storage.Storage) (Header, []byte, error) {
	h := Header{
		Kind:    s.Kind().String(),
		DType:   s.DType().String(),
		Shape:   []int(s.Shape()),
		Default: s.Default().String(),
	}
	var b sectionBuilder

	switch st := s.(type) {
	case *storage.DenseStorage:
		vals := make([]storage.Value, st.NumElements())
		for i := range vals {
			vals[i] = st.At(i)
		}
		b.values(SectionData, st.DType(), vals)

	case *storage.ListStorage:
		var (
			coords []int
			vals   []storage.Value
		)
		st.EachStored(func(c []int, v storage.Value) {
			coords = append(coords, c...)
			vals = append(vals, v)
		})
		b.indices(SectionCoords, coords)
		b.values(SectionValues, st.DType(), vals)

	case *storage.YaleStorage:
		rowPtr := st.RowPtr()
		base := rowPtr[0]
		for i := range rowPtr {
			rowPtr[i] -= base
		}
		b.indices(SectionRowPtr, rowPtr)
		b.indices(SectionColIdx, st.ColIdx())
		b.values(SectionValues, st.DType(), st.Values())
		b.values(SectionDiagonal, st.DType(), st.Diagonal())

	default:
		return Header{}, nil, fmt.Errorf("%w: %T", storage.ErrUnknownKind, s)
	}

	h.Sections = b.sections
	return h, b.data, nil
}

// sectionReader resolves named sections of a data buffer.
type sectionReader struct {
	h    *Header
	data []byte
}

// section returns the bytes of the named section after checking that they
// lie inside the buffer and hold count items of width bytes.
func (r sectionReader) section(name string, width int) ([]byte, int, error) {
	meta, ok := r.h.Section(name)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrMissingSection, name)
	}
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > int64(len(r.data)) {
		return nil, 0, &ValidationError{
			Type:    "out_of_bounds",
			Section: name,
			Details: fmt.Sprintf("offset %d + size %d > data_size %d", meta.Offset, meta.Size, len(r.data)),
		}
	}
	if meta.Count < 0 || meta.Count*int64(width) != meta.Size {
		return nil, 0, &ValidationError{
			Type:    "size_mismatch",
			Section: name,
			Details: fmt.Sprintf("%d items of %d bytes in %d bytes", meta.Count, width, meta.Size),
		}
	}
	return r.data[meta.Offset : meta.Offset+meta.Size], int(meta.Count), nil
}

func (r sectionReader) indices(name string) ([]int, error) {
	buf, n, err := r.section(name, IndexSize)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		out[i] = int(binary.LittleEndian.Uint64(buf[i*IndexSize:]))
	}
	return out, nil
}

func (r sectionReader) values(name string, dtype storage.DataType) ([]storage.Value, error) {
	buf, n, err := r.section(name, dtype.Size())
	if err != nil {
		return nil, err
	}
	out := make([]storage.Value, n)
	for i := range out {
		out[i] = loadValue(buf, dtype, i)
	}
	return out, nil
}

// decode rebuilds a storage from a header and its data section.
func decode(h *Header, data []byte) (storage.Storage, error) {
	kind, err := storage.ParseKind(h.Kind)
	if err != nil {
		return nil, err
	}
	dtype, err := storage.ParseDataType(h.DType)
	if err != nil {
		return nil, err
	}
	shape := storage.Shape(h.Shape)
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	def, err := storage.ParseValue(dtype, h.Default)
	if err != nil {
		return nil, fmt.Errorf("%w: default %q: %v", ErrCorruptStructure, h.Default, err)
	}

	r := sectionReader{h: h, data: data}
	switch kind {
	case storage.Dense:
		return decodeDense(r, shape, def)
	case storage.List:
		return decodeList(r, shape, def)
	default:
		return decodeYale(r, shape, def)
	}
}

func decodeDense(r sectionReader, shape storage.Shape, def storage.Value) (storage.Storage, error) {
	count, err := shape.ElementCount(def.DType().Size())
	if err != nil {
		return nil, err
	}
	vals, err := r.values(SectionData, def.DType())
	if err != nil {
		return nil, err
	}
	if len(vals) != count {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrCorruptStructure, len(vals), []int(shape))
	}
	d, err := storage.NewDenseFilled(shape, def)
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		d.SetAt(i, v)
	}
	return d, nil
}

func decodeList(r sectionReader, shape storage.Shape, def storage.Value) (storage.Storage, error) {
	coords, err := r.indices(SectionCoords)
	if err != nil {
		return nil, err
	}
	vals, err := r.values(SectionValues, def.DType())
	if err != nil {
		return nil, err
	}
	rank := shape.Rank()
	if len(coords) != len(vals)*rank {
		return nil, fmt.Errorf("%w: %d indices for %d entries of rank %d", ErrCorruptStructure, len(coords), len(vals), rank)
	}
	l, err := storage.NewList(shape, def)
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if _, err := l.Set(coords[i*rank:(i+1)*rank], v); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorruptStructure, i, err)
		}
	}
	return l, nil
}

func decodeYale(r sectionReader, shape storage.Shape, def storage.Value) (storage.Storage, error) {
	if shape.Rank() != 2 {
		return nil, fmt.Errorf("%w: yale storage requires rank 2, got rank %d", storage.ErrDimensionality, shape.Rank())
	}
	if !def.IsZero() {
		return nil, fmt.Errorf("%w: yale default %s", ErrCorruptStructure, def)
	}
	dtype := def.DType()
	rowPtr, err := r.indices(SectionRowPtr)
	if err != nil {
		return nil, err
	}
	colIdx, err := r.indices(SectionColIdx)
	if err != nil {
		return nil, err
	}
	vals, err := r.values(SectionValues, dtype)
	if err != nil {
		return nil, err
	}
	diag, err := r.values(SectionDiagonal, dtype)
	if err != nil {
		return nil, err
	}

	rows, cols := shape[0], shape[1]
	switch {
	case len(rowPtr) != rows+1:
		return nil, fmt.Errorf("%w: %d row pointers for %d rows", ErrCorruptStructure, len(rowPtr), rows)
	case rowPtr[0] != 0 || rowPtr[rows] != len(colIdx):
		return nil, fmt.Errorf("%w: row pointers span [%d, %d] for %d entries", ErrCorruptStructure, rowPtr[0], rowPtr[rows], len(colIdx))
	case len(vals) != len(colIdx):
		return nil, fmt.Errorf("%w: %d values for %d column indices", ErrCorruptStructure, len(vals), len(colIdx))
	case len(diag) != min(rows, cols):
		return nil, fmt.Errorf("%w: diagonal of length %d", ErrCorruptStructure, len(diag))
	}
	for row := 0; row < rows; row++ {
		if rowPtr[row] > rowPtr[row+1] {
			return nil, fmt.Errorf("%w: row pointers decrease at row %d", ErrCorruptStructure, row)
		}
	}

	y, err := storage.NewYaleWithCapacity(shape, dtype, len(colIdx))
	if err != nil {
		return nil, err
	}
	coords := make([]int, 2)
	for i, v := range diag {
		coords[0], coords[1] = i, i
		if _, err := y.Set(coords, v); err != nil {
			return nil, err
		}
	}
	for row := 0; row < rows; row++ {
		lo, hi := rowPtr[row], rowPtr[row+1]
		for k := lo; k < hi; k++ {
			col := colIdx[k]
			if col < 0 || col >= cols || col == row || (k > lo && col <= colIdx[k-1]) {
				return nil, fmt.Errorf("%w: column %d in row %d", ErrCorruptStructure, col, row)
			}
			coords[0], coords[1] = row, col
			if _, err := y.Set(coords, vals[k]); err != nil {
				return nil, err
			}
		}
	}
	return y, nil
}
