// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides N-dimensional numeric matrices with interchangeable
// storage formats.
//
// # Overview
//
// A Matrix is one logical matrix backed by one of three storage kinds:
//   - Dense: one contiguous row-major buffer, O(1) access
//   - List: nested ordered maps holding only non-default entries
//   - Yale: compressed-row storage for rank-2 matrices, diagonal kept apart
//
// Every in-range coordinate reads either a stored value or the matrix
// default. Writing the default into a sparse matrix removes the entry.
//
// # Basic Usage
//
//	import "github.com/born-ml/nmatrix/matrix"
//
//	func main() {
//	    a, _ := matrix.NewOf(matrix.List, matrix.Square(3), matrix.WithDType(matrix.Float64))
//	    a.Set(matrix.ValueOf(2.0), 0, 1)
//
//	    d, _ := a.Densify()
//	    p, _ := d.Multiply(d)
//	    fmt.Println(p)
//	}
//
// # Supported Data Types
//
//   - int8, int16, int32, int64 (signed integers)
//   - uint8 (unsigned bytes)
//   - float32, float64 (floating-point)
//
// # Multiplication
//
// Multiply requires two dense rank-2 operands of the same type. Float32 and
// Float64 products run on gonum's BLAS; integer products use a native
// accumulation loop where overflow wraps. Sparse operands must be densified
// explicitly.
//
// # Errors
//
// Failures are reported with sentinel errors (ErrOutOfRange,
// ErrDimensionMismatch, ErrDimensionality, ErrUnsupportedElementType and
// others) that can be matched with errors.Is. Out-of-range coordinates also
// carry an *IndexError.
//
// # Persistence
//
// Save and Load use the checksummed .nmx format; Write and Read do the same
// over io.Writer and io.Reader.
package matrix
