package serialization

import (
	"time"

	"github.com/born-ml/nmatrix/internal/storage"
)

// LibraryVersion is recorded in every file written by this package.
const LibraryVersion = "0.1.0"

// Format constants.
const (
	MagicBytes      = "NMAT"
	FormatVersion   = 1    // Fixed 64-byte header with SHA-256 checksum
	HeaderAlignment = 64   // Align the data section to 64 bytes
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	IndexSize       = 8    // Byte width of a serialized index
)

// Flags for the .nmx format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Section names. Which sections a file carries depends on its storage kind.
const (
	SectionData     = "data"     // dense: every element in row-major order
	SectionCoords   = "coords"   // list: rank indices per stored entry
	SectionValues   = "values"   // list and yale: stored values
	SectionRowPtr   = "row_ptr"  // yale: rows+1 row pointers
	SectionColIdx   = "col_idx"  // yale: off-diagonal column indices
	SectionDiagonal = "diagonal" // yale: materialized diagonal
)

// kindSections lists the sections each storage kind writes, in file order.
var kindSections = map[storage.Kind][]string{
	storage.Dense: {SectionData},
	storage.List:  {SectionCoords, SectionValues},
	storage.Yale:  {SectionRowPtr, SectionColIdx, SectionValues, SectionDiagonal},
}

// Header represents the JSON header in a .nmx file.
type Header struct {
	FormatVersion int               `json:"format_version"`     // Version of the .nmx format
	WriterVersion string            `json:"writer_version"`     // Library version that created this file
	CreatedAt     time.Time         `json:"created_at"`         // When the file was created
	Kind          string            `json:"kind"`               // Storage kind ("dense", "list", "yale")
	DType         string            `json:"dtype"`              // Element type (e.g., "int32", "float64")
	Shape         []int             `json:"shape"`              // Matrix shape
	Default       string            `json:"default"`            // Default value in its text form
	Sections      []SectionMeta     `json:"sections"`           // Data section layout
	Metadata      map[string]string `json:"metadata,omitempty"` // Custom metadata
}

// SectionMeta describes a region of the data section.
type SectionMeta struct {
	Name   string `json:"name"`   // Section name (e.g., "row_ptr")
	Count  int64  `json:"count"`  // Number of items
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of data)
	Size   int64  `json:"size"`   // Size in bytes
}

// Section returns the metadata of the named section.
func (h *Header) Section(name string) (SectionMeta, bool) {
	for _, s := range h.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionMeta{}, false
}

// alignedOffset returns the data section offset for a JSON header of headerSize bytes.
func alignedOffset(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return pos + (HeaderAlignment-pos%HeaderAlignment)%HeaderAlignment
}
