// Package serialization implements the .nmx file format for matrices of any
// storage kind.
//
//	Format Structure:
//	  [64 bytes: Fixed header]
//	    0x00 Magic "NMAT"
//	    0x04 Version (uint32 LE)
//	    0x08 Flags (uint32 LE)
//	    0x10 Header size (uint64 LE)
//	    0x18 Data size (uint64 LE)
//	    0x20 SHA-256 of the data section (32 bytes)
//	  [Header: JSON metadata]
//	  [Padding to a 64-byte boundary]
//	  [Data section: named sections, little-endian]
//
// Dense matrices write one "data" section with every element. List matrices
// write "coords" (rank int64 indices per entry) and "values". Yale matrices
// write "row_ptr", "col_idx", "values" and "diagonal", the off-diagonal
// pointers being relative to the start of col_idx.
//
// Example usage:
//
//	w, err := serialization.Create("m.nmx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.WriteStorage(m.Storage(), nil); err != nil {
//	    log.Fatal(err)
//	}
//	w.Close()
//
//	r, err := serialization.Open("m.nmx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	s, err := r.ReadStorage()
package serialization
