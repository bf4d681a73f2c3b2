package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nmatrix/internal/storage"
)

var _ mat.Matrix = (*Matrix)(nil)

// Dims returns the row and column counts of a rank-2 matrix.
// It panics with mat.ErrShape for any other rank.
func (m *Matrix) Dims() (r, c int) {
	shape := m.s.Shape()
	if len(shape) != 2 {
		panic(mat.ErrShape)
	}
	return shape[0], shape[1]
}

// At returns element (i, j) as a float64. It panics on an out-of-range
// index, as gonum matrices do.
func (m *Matrix) At(i, j int) float64 {
	r, c := m.Dims()
	if uint(i) >= uint(r) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(c) {
		panic(mat.ErrColAccess)
	}
	v, _ := m.s.Get([]int{i, j})
	return v.Float64()
}

// T returns an implicit transpose of m.
func (m *Matrix) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// FromGonum copies a gonum matrix into a dense matrix of the given element type.
func FromGonum(a mat.Matrix, dtype storage.DataType) (*Matrix, error) {
	r, c := a.Dims()
	d, err := storage.NewDense(storage.Shape{r, c}, dtype)
	if err != nil {
		return nil, fmt.Errorf("from gonum: %w", err)
	}
	coords := make([]int, 2)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			coords[0], coords[1] = i, j
			if _, err := d.Set(coords, storage.FromFloat64(dtype, a.At(i, j))); err != nil {
				return nil, fmt.Errorf("from gonum: %w", err)
			}
		}
	}
	return &Matrix{s: d}, nil
}
