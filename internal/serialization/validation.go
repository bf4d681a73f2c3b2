package serialization

import (
	"fmt"
	"slices"
	"sort"

	"github.com/born-ml/nmatrix/internal/storage"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize   = 16 * 1024 * 1024 // 16MB - maximum header size
	MaxDataSize     = 1 << 40          // 1TB - maximum data section size
	MaxRank         = 32               // Maximum number of dimensions
	MaxSectionCount = 16               // Maximum number of sections in a file
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal performs basic validation checks only.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

// ValidateSectionOffsets checks for overlapping sections and out-of-bounds access.
func ValidateSectionOffsets(sections []SectionMeta, dataSize int64) error {
	if len(sections) > MaxSectionCount {
		return &ValidationError{
			Type:    "too_many_sections",
			Details: fmt.Sprintf("got %d, max %d", len(sections), MaxSectionCount),
		}
	}

	sorted := make([]SectionMeta, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, s := range sorted {
		if s.Offset < 0 || s.Size < 0 || s.Count < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Section: s.Name,
				Details: fmt.Sprintf("offset=%d, size=%d, count=%d (negative values not allowed)", s.Offset, s.Size, s.Count),
			}
		}

		if s.Offset+s.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Section: s.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", s.Offset, s.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if s.Offset+s.Size > next.Offset {
				return &ValidationError{
					Type:     "section_overlap",
					Section:  s.Name,
					Section2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						s.Offset, s.Offset+s.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateHeader performs header validation at the requested level.
//
// Normal checks the kind, element type, shape and section names. Strict also
// checks section offsets and, for dense files, that the data section holds
// exactly one value per element.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	kind, err := storage.ParseKind(h.Kind)
	if err != nil {
		return &ValidationError{Type: "invalid_kind", Details: err.Error()}
	}
	dtype, err := storage.ParseDataType(h.DType)
	if err != nil {
		return &ValidationError{Type: "invalid_dtype", Details: err.Error()}
	}
	if len(h.Shape) > MaxRank {
		return &ValidationError{
			Type:    "rank_too_large",
			Details: fmt.Sprintf("rank %d > max %d", len(h.Shape), MaxRank),
		}
	}
	if err := storage.Shape(h.Shape).Validate(); err != nil {
		return &ValidationError{Type: "invalid_shape", Details: err.Error()}
	}
	if kind == storage.Yale && len(h.Shape) != 2 {
		return &ValidationError{
			Type:    "invalid_shape",
			Details: fmt.Sprintf("yale storage requires rank 2, got rank %d", len(h.Shape)),
		}
	}

	want := kindSections[kind]
	for _, s := range h.Sections {
		if !slices.Contains(want, s.Name) {
			return &ValidationError{
				Type:    "unknown_section",
				Section: s.Name,
				Details: fmt.Sprintf("not part of %s storage", kind),
			}
		}
	}
	for _, name := range want {
		if _, ok := h.Section(name); !ok {
			return &ValidationError{
				Type:    "missing_section",
				Section: name,
				Details: fmt.Sprintf("required by %s storage", kind),
			}
		}
	}

	if level != ValidationStrict {
		return nil
	}
	if err := ValidateSectionOffsets(h.Sections, dataSize); err != nil {
		return err
	}
	if kind == storage.Dense {
		data, _ := h.Section(SectionData)
		count, err := storage.Shape(h.Shape).ElementCount(dtype.Size())
		if err != nil || int64(count) > dataSize/int64(dtype.Size()) || data.Count != int64(count) {
			return &ValidationError{
				Type:    "size_mismatch",
				Section: SectionData,
				Details: fmt.Sprintf("%d values for shape %v", data.Count, h.Shape),
			}
		}
	}
	return nil
}
