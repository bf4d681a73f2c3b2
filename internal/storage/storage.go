package storage

import "fmt"

// Kind identifies one of the three storage formats.
type Kind int

// Supported storage formats.
const (
	Dense Kind = iota
	List
	Yale
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Dense:
		return "dense"
	case List:
		return "list"
	case Yale:
		return "yale"
	default:
		return "unknown"
	}
}

// ParseKind converts a name produced by String back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "dense":
		return Dense, nil
	case "list":
		return List, nil
	case "yale":
		return Yale, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Storage is the uniform element-access contract implemented by DenseStorage,
// ListStorage and YaleStorage. The set is closed: the unexported method keeps
// other packages from adding implementations.
type Storage interface {
	Kind() Kind
	DType() DataType
	Shape() Shape
	Rank() int

	// Default is the value read at coordinates with no stored entry.
	Default() Value

	// Get returns the element at coords.
	Get(coords []int) (Value, error)

	// Set converts v to the storage's type, writes it at coords and returns
	// the value actually written.
	Set(coords []int, v Value) (Value, error)

	// Clone returns a deep copy sharing no memory with the receiver.
	Clone() Storage

	// NumStored returns how many entries are explicitly materialized.
	NumStored() int

	// EachStored calls fn for every materialized entry in row-major order.
	// The coords slice is reused between calls.
	EachStored(fn func(coords []int, v Value))

	sealed()
}

// nextCoords advances coords to the next row-major position and reports
// whether one exists.
func nextCoords(coords []int, shape Shape) bool {
	for axis := len(coords) - 1; axis >= 0; axis-- {
		coords[axis]++
		if coords[axis] < shape[axis] {
			return true
		}
		coords[axis] = 0
	}
	return false
}
