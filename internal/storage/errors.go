package storage

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrOutOfRange             = errors.New("out of range")
	ErrDimensionMismatch      = errors.New("dimension mismatch")
	ErrDimensionality         = errors.New("unsupported dimensionality")
	ErrUnsupportedElementType = errors.New("unsupported element type")
	ErrInvalidShape           = errors.New("invalid shape")
	ErrTypeMismatch           = errors.New("element type mismatch")
	ErrNotDense               = errors.New("operand is not dense")
	ErrUnknownKind            = errors.New("unknown storage kind")
	ErrInvalidDefault         = errors.New("invalid default value")
)

// IndexError describes a coordinate that falls outside its axis.
type IndexError struct {
	Axis  int // Axis the coordinate belongs to
	Index int // Offending coordinate
	Size  int // Size of the axis
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for axis %d (size %d)", e.Index, e.Axis, e.Size)
}

// Unwrap makes errors.Is(err, ErrOutOfRange) succeed.
func (e *IndexError) Unwrap() error {
	return ErrOutOfRange
}
