// Package blas is the dense general matrix multiply boundary of the engine.
//
// Floating-point operands go to gonum's BLAS (blas32/blas64 Gemm) with
// row-major layout and native precision. Integer operands are rejected by
// Gemm with ErrUnsupportedElementType; callers multiply them with Generic,
// a plain accumulation loop.
package blas

import (
	"fmt"

	gblas "gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/nmatrix/internal/parallel"
	"github.com/born-ml/nmatrix/internal/storage"
)

// Dgemm computes c = a·b for row-major float64 buffers, a (m×k), b (k×n), c (m×n).
// Each leading dimension equals the operand's column count.
func Dgemm(m, k, n int, a, b, c []float64) {
	blas64.Gemm(gblas.NoTrans, gblas.NoTrans, 1,
		blas64.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas64.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas64.General{Rows: m, Cols: n, Stride: n, Data: c})
}

// Sgemm computes c = a·b for row-major float32 buffers without widening to float64.
func Sgemm(m, k, n int, a, b, c []float32) {
	blas32.Gemm(gblas.NoTrans, gblas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c})
}

// dims validates operand shapes and returns (m, k, n).
func dims(a, b, c *storage.DenseStorage) (int, int, int, error) {
	as, bs, cs := a.Shape(), b.Shape(), c.Shape()
	if len(as) != 2 || len(bs) != 2 || len(cs) != 2 {
		return 0, 0, 0, fmt.Errorf("gemm: %w: need rank 2 operands, got %v @ %v -> %v",
			storage.ErrDimensionality, as, bs, cs)
	}
	m, k, n := as[0], as[1], bs[1]
	if bs[0] != k || cs[0] != m || cs[1] != n {
		return 0, 0, 0, fmt.Errorf("gemm: %w: %v @ %v -> %v", storage.ErrDimensionMismatch, as, bs, cs)
	}
	if a.DType() != b.DType() || a.DType() != c.DType() {
		return 0, 0, 0, fmt.Errorf("gemm: %w: %s @ %s -> %s",
			storage.ErrTypeMismatch, a.DType(), b.DType(), c.DType())
	}
	return m, k, n, nil
}

// Gemm writes a·b into c using the floating-point BLAS kernel.
// It fails with ErrUnsupportedElementType for integer element types.
func Gemm(a, b, c *storage.DenseStorage) error {
	m, k, n, err := dims(a, b, c)
	if err != nil {
		return err
	}
	switch a.DType() {
	case storage.Float32:
		Sgemm(m, k, n, a.AsFloat32(), b.AsFloat32(), c.AsFloat32())
	case storage.Float64:
		Dgemm(m, k, n, a.AsFloat64(), b.AsFloat64(), c.AsFloat64())
	default:
		return fmt.Errorf("gemm: %w: %s", storage.ErrUnsupportedElementType, a.DType())
	}
	return nil
}

// Generic writes a·b into c with an accumulation loop in the operands'
// native type. Integer overflow wraps. Rows are split across goroutines
// according to cfg.
func Generic(a, b, c *storage.DenseStorage, cfg parallel.Config) error {
	m, k, n, err := dims(a, b, c)
	if err != nil {
		return err
	}
	switch a.DType() {
	case storage.Int8:
		gemmLoop(m, k, n, a.AsInt8(), b.AsInt8(), c.AsInt8(), cfg)
	case storage.Int16:
		gemmLoop(m, k, n, a.AsInt16(), b.AsInt16(), c.AsInt16(), cfg)
	case storage.Int32:
		gemmLoop(m, k, n, a.AsInt32(), b.AsInt32(), c.AsInt32(), cfg)
	case storage.Int64:
		gemmLoop(m, k, n, a.AsInt64(), b.AsInt64(), c.AsInt64(), cfg)
	case storage.Uint8:
		gemmLoop(m, k, n, a.AsUint8(), b.AsUint8(), c.AsUint8(), cfg)
	case storage.Float32:
		gemmLoop(m, k, n, a.AsFloat32(), b.AsFloat32(), c.AsFloat32(), cfg)
	case storage.Float64:
		gemmLoop(m, k, n, a.AsFloat64(), b.AsFloat64(), c.AsFloat64(), cfg)
	default:
		return fmt.Errorf("gemm: %w: %s", storage.ErrUnsupportedElementType, a.DType())
	}
	return nil
}

// gemmLoop computes C[i,j] = Σ_p A[i,p]·B[p,j]. For each row it sweeps p
// outermost so B is read sequentially; the sum for a given cell is taken in
// increasing p order.
func gemmLoop[T storage.Element](m, k, n int, a, b, c []T, cfg parallel.Config) {
	parallel.ForRange(m, func(start, end int) {
		for i := start; i < end; i++ {
			row := c[i*n : (i+1)*n]
			clear(row)
			for p := 0; p < k; p++ {
				aip := a[i*k+p]
				bp := b[p*n : (p+1)*n]
				for j := range row {
					row[j] += aip * bp[j]
				}
			}
		}
	}, cfg)
}
