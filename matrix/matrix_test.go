// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package matrix_test

import (
	"errors"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/nmatrix/matrix"
)

// TestPublicAPI exercises the re-exported constructors and accessors.
func TestPublicAPI(t *testing.T) {
	m, err := matrix.New(matrix.Shape{2, 3}, matrix.Int16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.Kind() != matrix.Dense {
		t.Errorf("Kind() = %v, want dense", m.Kind())
	}
	if m.DType() != matrix.Int16 {
		t.Errorf("DType() = %v, want int16", m.DType())
	}
	if err := matrix.SetAs(m, int16(-5), 1, 2); err != nil {
		t.Fatalf("SetAs failed: %v", err)
	}
	got, err := matrix.GetAs[int16](m, 1, 2)
	if err != nil || got != -5 {
		t.Errorf("GetAs = %d, %v; want -5", got, err)
	}

	dup := m.Dup()
	if err := matrix.SetAs(dup, int16(1), 1, 2); err != nil {
		t.Fatalf("SetAs failed: %v", err)
	}
	if got, _ := matrix.GetAs[int16](m, 1, 2); got != -5 {
		t.Errorf("Dup shares storage with the original")
	}
}

// TestPublicErrors checks that sentinels match through the facade.
func TestPublicErrors(t *testing.T) {
	m, err := matrix.NewOf(matrix.Yale, matrix.Square(2))
	if err != nil {
		t.Fatalf("NewOf failed: %v", err)
	}

	_, err = m.Get(2, 0)
	if !errors.Is(err, matrix.ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange, got %v", err)
	}
	var idx *matrix.IndexError
	if !errors.As(err, &idx) || idx.Axis != 0 || idx.Index != 2 {
		t.Errorf("Expected IndexError for axis 0, got %v", err)
	}

	if _, err := matrix.NewOf(matrix.Yale, matrix.Shape{2, 2, 2}); !errors.Is(err, matrix.ErrDimensionality) {
		t.Errorf("Expected ErrDimensionality, got %v", err)
	}
	if _, err := matrix.NewOf(matrix.Yale, matrix.Square(2), matrix.WithDefault(matrix.ValueOf(1.0))); !errors.Is(err, matrix.ErrInvalidDefault) {
		t.Errorf("Expected ErrInvalidDefault, got %v", err)
	}
	if _, err := matrix.Multiply(m, m); !errors.Is(err, matrix.ErrNotDense) {
		t.Errorf("Expected ErrNotDense, got %v", err)
	}
	if _, err := matrix.ParseKind("csr"); !errors.Is(err, matrix.ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
	if _, err := matrix.ParseDataType("complex64"); !errors.Is(err, matrix.ErrUnsupportedElementType) {
		t.Errorf("Expected ErrUnsupportedElementType, got %v", err)
	}
}

// TestSaveLoad round-trips through a file with metadata.
func TestSaveLoad(t *testing.T) {
	m, err := matrix.NewOf(matrix.List, matrix.Shape{3, 4}, matrix.WithDefault(matrix.ValueOf(int64(-1))))
	if err != nil {
		t.Fatalf("NewOf failed: %v", err)
	}
	if err := matrix.SetAs(m, int64(42), 2, 3); err != nil {
		t.Fatalf("SetAs failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "m.nmx")
	if err := matrix.SaveWithMetadata(path, m, map[string]string{"name": "m"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	back, err := matrix.LoadWithOptions(path, matrix.DefaultReaderOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !back.Equal(m) {
		t.Errorf("Loaded matrix differs:\n%v\nwant\n%v", back, m)
	}
}

// TestGonumInterop multiplies through gonum and compares with Multiply.
func TestGonumInterop(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	m, err := matrix.FromGonum(a, matrix.Float64)
	if err != nil {
		t.Fatalf("FromGonum failed: %v", err)
	}

	var want mat.Dense
	want.Mul(a, a)

	got, err := m.Multiply(m)
	if err != nil {
		t.Fatalf("Multiply failed: %v", err)
	}
	if !mat.Equal(got, &want) {
		t.Errorf("Multiply = %v, want %v", mat.Formatted(got), mat.Formatted(&want))
	}
}
