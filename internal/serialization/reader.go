package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/nmatrix/internal/storage"
)

// Checksum is the SHA-256 digest of a data section.
type Checksum [ChecksumSize]byte

// checksumOf hashes an in-memory data section.
func checksumOf(data []byte) Checksum {
	return sha256.Sum256(data)
}

// checksumFrom hashes a data section streamed from r.
func checksumFrom(r io.Reader) (Checksum, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return Checksum{}, err
	}
	var c Checksum
	h.Sum(c[:0])
	return c, nil
}

// String returns the digest in hex.
func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// verify reports ErrChecksumMismatch when c differs from the stored digest.
func (c Checksum) verify(stored Checksum) error {
	if c != stored {
		return fmt.Errorf("%w: data hashes to %s, header records %s", ErrChecksumMismatch, c, stored)
	}
	return nil
}

// Reader reads matrices from .nmx files.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	dataOffset int64    // Offset where the data section starts
	dataSize   int64    // Size of the data section
	checksum   Checksum // SHA-256 checksum of the data section
	opts       ReaderOptions
	closed     bool
}

// ReaderOptions configures the behavior of Reader and ReadFrom.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// DefaultReaderOptions returns strict validation with checksum verification.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{ValidationLevel: ValidationStrict}
}

// fixedHeader holds the decoded 64-byte file prefix.
type fixedHeader struct {
	flags      uint32
	headerSize uint64
	dataSize   uint64
	checksum   Checksum
}

func readFixedHeader(r io.Reader) (fixedHeader, error) {
	buf := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fixedHeader{}, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(buf[0:4]) != MagicBytes {
		return fixedHeader{}, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, buf[0:4], MagicBytes)
	}
	if version := binary.LittleEndian.Uint32(buf[4:8]); version != FormatVersion {
		return fixedHeader{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	fh := fixedHeader{
		flags:      binary.LittleEndian.Uint32(buf[8:12]),
		headerSize: binary.LittleEndian.Uint64(buf[16:24]),
		dataSize:   binary.LittleEndian.Uint64(buf[24:32]),
	}
	copy(fh.checksum[:], buf[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if fh.headerSize > MaxHeaderSize {
		return fixedHeader{}, ErrHeaderTooLarge
	}
	if fh.dataSize > MaxDataSize {
		return fixedHeader{}, &ValidationError{
			Type:    "data_too_large",
			Details: fmt.Sprintf("data size %d > max %d", fh.dataSize, int64(MaxDataSize)),
		}
	}
	return fh, nil
}

func readHeaderJSON(r io.Reader, size uint64) (Header, error) {
	headerBytes := make([]byte, size)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return Header{}, fmt.Errorf("failed to read header JSON: %w", err)
	}
	var h Header
	if err := json.Unmarshal(headerBytes, &h); err != nil {
		return Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	return h, nil
}

// readData reads exactly size bytes without trusting size for allocation.
func readData(r io.Reader, size int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("failed to read data section: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("failed to read data section: %w", io.ErrUnexpectedEOF)
	}
	return buf.Bytes(), nil
}

// Open opens a .nmx file with default options (strict validation).
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, DefaultReaderOptions())
}

// OpenWithOptions opens a .nmx file with custom options. The header is parsed
// and validated, and the checksum verified unless skipped.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := &Reader{file: file, opts: opts}
	if err := reader.parseHeader(); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return reader, nil
}

func (r *Reader) parseHeader() error {
	fh, err := readFixedHeader(r.file)
	if err != nil {
		return err
	}
	r.flags = fh.flags
	r.checksum = fh.checksum

	if r.header, err = readHeaderJSON(r.file, fh.headerSize); err != nil {
		return err
	}

	//nolint:gosec // G115: both sizes were bounded by readFixedHeader
	r.dataOffset, r.dataSize = alignedOffset(int64(fh.headerSize)), int64(fh.dataSize)

	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if r.dataOffset+r.dataSize > info.Size() {
		return &ValidationError{
			Type:    "truncated",
			Details: fmt.Sprintf("data section [%d-%d] beyond file size %d", r.dataOffset, r.dataOffset+r.dataSize, info.Size()),
		}
	}

	if err := ValidateHeader(&r.header, r.dataSize, r.opts.ValidationLevel); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if !r.opts.SkipChecksumValidation {
		if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek to data section: %w", err)
		}
		computed, err := checksumFrom(io.LimitReader(r.file, r.dataSize))
		if err != nil {
			return fmt.Errorf("failed to read data section for checksum: %w", err)
		}
		if err := computed.verify(r.checksum); err != nil {
			return err
		}
	}
	return nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Checksum returns the data checksum recorded in the fixed header.
func (r *Reader) Checksum() Checksum {
	return r.checksum
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// HasMetadata reports whether the metadata flag is set.
func (r *Reader) HasMetadata() bool {
	return r.flags&FlagHasMetadata != 0
}

// ReadStorage decodes the matrix storage held by the file.
func (r *Reader) ReadStorage() (storage.Storage, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to data section: %w", err)
	}
	data, err := readData(r.file, r.dataSize)
	if err != nil {
		return nil, err
	}
	s, err := decode(&r.header, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s storage: %w", r.header.Kind, err)
	}
	return s, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFrom reads a matrix storage from an io.Reader.
// This is useful for reading from buffers or network connections.
func ReadFrom(reader io.Reader, opts ReaderOptions) (storage.Storage, Header, error) {
	fh, err := readFixedHeader(reader)
	if err != nil {
		return nil, Header{}, err
	}
	header, err := readHeaderJSON(reader, fh.headerSize)
	if err != nil {
		return nil, Header{}, err
	}

	//nolint:gosec // G115: both sizes were bounded by readFixedHeader
	headerSize, dataSize := int64(fh.headerSize), int64(fh.dataSize)
	if padding := alignedOffset(headerSize) - FixedHeaderSize - headerSize; padding > 0 {
		if _, err := io.CopyN(io.Discard, reader, padding); err != nil {
			return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	if err := ValidateHeader(&header, dataSize, opts.ValidationLevel); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}

	data, err := readData(reader, dataSize)
	if err != nil {
		return nil, Header{}, err
	}
	if !opts.SkipChecksumValidation {
		if err := checksumOf(data).verify(fh.checksum); err != nil {
			return nil, Header{}, err
		}
	}

	s, err := decode(&header, data)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to decode %s storage: %w", header.Kind, err)
	}
	return s, header, nil
}
