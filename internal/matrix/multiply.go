package matrix

import (
	"errors"
	"fmt"

	"github.com/born-ml/nmatrix/internal/blas"
	"github.com/born-ml/nmatrix/internal/parallel"
	"github.com/born-ml/nmatrix/internal/storage"
)

// Multiply returns the matrix product m·other. See Multiply.
func (m *Matrix) Multiply(other *Matrix) (*Matrix, error) {
	return Multiply(m, other)
}

// Multiply returns the matrix product a·b as a fresh dense matrix.
//
// Both operands must be rank 2, dense and of the same element type, and the
// column count of a must equal the row count of b. Sparse operands are not
// densified implicitly; call Densify first. Float32 and Float64 go through the
// BLAS kernel, other types through a native accumulation loop.
func Multiply(a, b *Matrix) (*Matrix, error) {
	as, bs := a.s.Shape(), b.s.Shape()
	if len(as) != 2 || len(bs) != 2 {
		return nil, fmt.Errorf("multiply: %w: rank %d by rank %d", storage.ErrDimensionality, len(as), len(bs))
	}
	if as[1] != bs[0] {
		return nil, fmt.Errorf("multiply: %w: %v by %v", storage.ErrDimensionMismatch, []int(as), []int(bs))
	}
	ad, aok := a.s.(*storage.DenseStorage)
	bd, bok := b.s.(*storage.DenseStorage)
	if !aok || !bok {
		return nil, fmt.Errorf("multiply: %w: %s by %s", storage.ErrNotDense, a.s.Kind(), b.s.Kind())
	}
	if ad.DType() != bd.DType() {
		return nil, fmt.Errorf("multiply: %w: %s by %s", storage.ErrTypeMismatch, ad.DType(), bd.DType())
	}

	c, err := storage.NewDense(storage.Shape{as[0], bs[1]}, ad.DType())
	if err != nil {
		return nil, fmt.Errorf("multiply: %w", err)
	}
	err = blas.Gemm(ad, bd, c)
	if errors.Is(err, storage.ErrUnsupportedElementType) {
		err = blas.Generic(ad, bd, c, parallel.DefaultConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("multiply: %w", err)
	}
	return &Matrix{s: c}, nil
}
