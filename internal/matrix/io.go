package matrix

import (
	"fmt"
	"io"

	"github.com/born-ml/nmatrix/internal/serialization"
)

// Save writes m to path in .nmx format.
func Save(path string, m *Matrix) error {
	return SaveWithMetadata(path, m, nil)
}

// SaveWithMetadata writes m and a custom metadata map to path.
func SaveWithMetadata(path string, m *Matrix, metadata map[string]string) error {
	w, err := serialization.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := w.WriteStorage(m.s, metadata); err != nil {
		_ = w.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads a matrix from a .nmx file with strict validation.
func Load(path string) (*Matrix, error) {
	return LoadWithOptions(path, serialization.DefaultReaderOptions())
}

// LoadWithOptions reads a matrix from a .nmx file.
func LoadWithOptions(path string, opts serialization.ReaderOptions) (*Matrix, error) {
	r, err := serialization.OpenWithOptions(path, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer r.Close()

	s, err := r.ReadStorage()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &Matrix{s: s}, nil
}

// Write writes m to w in .nmx format.
func Write(w io.Writer, m *Matrix) error {
	return serialization.WriteTo(w, m.s, nil)
}

// Read reads a matrix in .nmx format from r.
func Read(r io.Reader) (*Matrix, error) {
	s, _, err := serialization.ReadFrom(r, serialization.DefaultReaderOptions())
	if err != nil {
		return nil, err
	}
	return &Matrix{s: s}, nil
}
