package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrSectionOverlap     = errors.New("section offsets overlap")
	ErrOutOfBounds        = errors.New("section extends beyond data section")
	ErrMissingSection     = errors.New("missing section")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrCorruptStructure   = errors.New("corrupt storage structure")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type     string // Type of error (e.g., "section_overlap", "out_of_bounds")
	Section  string // Primary section involved
	Section2 string // Secondary section (for overlap errors)
	Details  string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Section2 != "" {
		return fmt.Sprintf("%s: sections %q and %q: %s", e.Type, e.Section, e.Section2, e.Details)
	}
	if e.Section != "" {
		return fmt.Sprintf("%s: section %q: %s", e.Type, e.Section, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
