package storage

import "fmt"

// Convert returns a new storage of the given kind holding the same values as s.
// Converting to the kind s already has returns a clone.
//
// Dense and list targets inherit the source default. Yale storage always
// defaults to the dtype's zero, so when the source default is non-zero every
// coordinate is materialized explicitly.
func Convert(s Storage, kind Kind) (Storage, error) {
	if kind == s.Kind() {
		return s.Clone(), nil
	}
	switch kind {
	case Dense:
		d, err := NewDenseFilled(s.Shape(), s.Default())
		if err != nil {
			return nil, err
		}
		copyEntries(d, s)
		return d, nil
	case List:
		l, err := NewList(s.Shape(), s.Default())
		if err != nil {
			return nil, err
		}
		copyEntries(l, s)
		return l, nil
	case Yale:
		y, err := NewYale(s.Shape(), s.DType())
		if err != nil {
			return nil, err
		}
		if s.Default().IsZero() {
			copyEntries(y, s)
			return y, nil
		}
		// A non-zero default has no Yale slot, so every coordinate is written.
		// coords walks the shape shared by s and y and is always in range.
		coords := make([]int, 2)
		shape := s.Shape()
		for {
			v, _ := s.Get(coords)
			_, _ = y.Set(coords, v)
			if !nextCoords(coords, shape) {
				return y, nil
			}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// copyEntries writes every stored entry of src that differs from dst's default.
// Coordinates have already been validated against the shared shape.
func copyEntries(dst, src Storage) {
	def := dst.Default()
	src.EachStored(func(coords []int, v Value) {
		if v.Convert(dst.DType()).Equal(def) {
			return
		}
		_, _ = dst.Set(coords, v)
	})
}

// Cast returns a copy of s with the same kind whose elements and default are
// converted to dtype.
func Cast(s Storage, dtype DataType) (Storage, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedElementType, int(dtype))
	}
	var out Storage
	switch s.Kind() {
	case Dense:
		d, err := NewDenseFilled(s.Shape(), s.Default().Convert(dtype))
		if err != nil {
			return nil, err
		}
		out = d
	case List:
		l, err := NewList(s.Shape(), s.Default().Convert(dtype))
		if err != nil {
			return nil, err
		}
		out = l
	case Yale:
		y, err := NewYale(s.Shape(), dtype)
		if err != nil {
			return nil, err
		}
		out = y
	}
	copyEntries(out, s)
	return out, nil
}

// Equal reports whether a and b have the same shape and every coordinate
// reads the same value, independent of storage kind and element type.
func Equal(a, b Storage) bool {
	shape := a.Shape()
	if !shape.Equal(b.Shape()) {
		return false
	}

	if a.Default().Equal(b.Default()) {
		same := true
		check := func(other Storage) func([]int, Value) {
			return func(coords []int, v Value) {
				if !same {
					return
				}
				// coords comes from a storage of the same shape.
				w, _ := other.Get(coords)
				if !v.Equal(w) {
					same = false
				}
			}
		}
		a.EachStored(check(b))
		if same {
			b.EachStored(check(a))
		}
		return same
	}

	// Defaults differ, so every coordinate is compared. The shapes are equal
	// and coords stays in range.
	coords := make([]int, len(shape))
	for {
		v, _ := a.Get(coords)
		w, _ := b.Get(coords)
		if !v.Equal(w) {
			return false
		}
		if !nextCoords(coords, shape) {
			return true
		}
	}
}
