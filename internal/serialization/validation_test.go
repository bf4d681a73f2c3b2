package serialization

import (
	"errors"
	"strings"
	"testing"
)

func denseHeader() Header {
	return Header{
		Kind:     "dense",
		DType:    "int32",
		Shape:    []int{2, 3},
		Default:  "0",
		Sections: []SectionMeta{{Name: SectionData, Count: 6, Offset: 0, Size: 24}},
	}
}

// TestValidateSectionOffsets_Overlap detects overlapping section regions.
func TestValidateSectionOffsets_Overlap(t *testing.T) {
	tests := []struct {
		name     string
		sections []SectionMeta
		dataSize int64
		wantType string
	}{
		{
			name: "partial overlap at boundary",
			sections: []SectionMeta{
				{Name: SectionRowPtr, Offset: 0, Size: 32},
				{Name: SectionColIdx, Offset: 31, Size: 16},
			},
			dataSize: 64,
			wantType: "section_overlap",
		},
		{
			name: "exact boundary",
			sections: []SectionMeta{
				{Name: SectionCoords, Offset: 0, Size: 32},
				{Name: SectionValues, Offset: 32, Size: 8},
			},
			dataSize: 40,
		},
		{
			name:     "beyond data section",
			sections: []SectionMeta{{Name: SectionData, Offset: 8, Size: 64}},
			dataSize: 64,
			wantType: "out_of_bounds",
		},
		{
			name:     "negative size",
			sections: []SectionMeta{{Name: SectionData, Offset: 0, Size: -1}},
			dataSize: 64,
			wantType: "negative_offset",
		},
		{
			name: "empty sections share an offset",
			sections: []SectionMeta{
				{Name: SectionCoords, Offset: 0, Size: 0},
				{Name: SectionValues, Offset: 0, Size: 0},
			},
			dataSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSectionOffsets(tt.sections, tt.dataSize)
			if tt.wantType == "" {
				if err != nil {
					t.Fatalf("Expected no error, got: %v", err)
				}
				return
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T (%v)", err, err)
			}
			if validationErr.Type != tt.wantType {
				t.Errorf("Expected %s error, got %s", tt.wantType, validationErr.Type)
			}
		})
	}
}

// TestValidateHeader covers header checks at every level.
func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(h *Header)
		dataSize int64
		level    ValidationLevel
		wantType string
	}{
		{name: "valid dense", mutate: func(*Header) {}, dataSize: 24, level: ValidationStrict},
		{name: "unknown kind", mutate: func(h *Header) { h.Kind = "coo" }, dataSize: 24, level: ValidationNormal, wantType: "invalid_kind"},
		{name: "unknown dtype", mutate: func(h *Header) { h.DType = "bool" }, dataSize: 24, level: ValidationNormal, wantType: "invalid_dtype"},
		{name: "zero dimension", mutate: func(h *Header) { h.Shape = []int{2, 0} }, dataSize: 24, level: ValidationNormal, wantType: "invalid_shape"},
		{name: "rank too large", mutate: func(h *Header) { h.Shape = make([]int, MaxRank+1) }, dataSize: 24, level: ValidationNormal, wantType: "rank_too_large"},
		{name: "yale rank 3", mutate: func(h *Header) { h.Kind = "yale"; h.Shape = []int{2, 2, 2} }, dataSize: 24, level: ValidationNormal, wantType: "invalid_shape"},
		{name: "foreign section", mutate: func(h *Header) { h.Sections[0].Name = SectionRowPtr }, dataSize: 24, level: ValidationNormal, wantType: "unknown_section"},
		{name: "missing section", mutate: func(h *Header) { h.Sections = nil }, dataSize: 24, level: ValidationNormal, wantType: "missing_section"},
		{name: "short data section", mutate: func(*Header) {}, dataSize: 16, level: ValidationStrict, wantType: "out_of_bounds"},
		{name: "wrong element count", mutate: func(h *Header) { h.Shape = []int{3, 3} }, dataSize: 24, level: ValidationStrict, wantType: "size_mismatch"},
		{name: "normal skips offsets", mutate: func(*Header) {}, dataSize: 16, level: ValidationNormal},
		{name: "none skips everything", mutate: func(h *Header) { h.Kind = "coo" }, dataSize: 0, level: ValidationNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := denseHeader()
			tt.mutate(&h)
			err := ValidateHeader(&h, tt.dataSize, tt.level)
			if tt.wantType == "" {
				if err != nil {
					t.Fatalf("Expected no error, got: %v", err)
				}
				return
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T (%v)", err, err)
			}
			if validationErr.Type != tt.wantType {
				t.Errorf("Expected %s error, got %s (%v)", tt.wantType, validationErr.Type, err)
			}
		})
	}
}

// TestValidationError_Format checks the error message layout.
func TestValidationError_Format(t *testing.T) {
	err := &ValidationError{Type: "section_overlap", Section: "a", Section2: "b", Details: "x"}
	if !strings.Contains(err.Error(), `sections "a" and "b"`) {
		t.Errorf("unexpected message: %s", err.Error())
	}
	err = &ValidationError{Type: "truncated", Details: "short"}
	if err.Error() != "truncated: short" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
