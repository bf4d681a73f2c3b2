package storage

import "encoding/binary"

// loadBits reads the element of the given byte width at index i.
func loadBits(buf []byte, width, i int) uint64 {
	off := i * width
	switch width {
	case 1:
		return uint64(buf[off])
	case 2:
		return uint64(binary.NativeEndian.Uint16(buf[off:]))
	case 4:
		return uint64(binary.NativeEndian.Uint32(buf[off:]))
	default:
		return binary.NativeEndian.Uint64(buf[off:])
	}
}

// storeBits writes the low width bytes of bits at index i.
func storeBits(buf []byte, width, i int, bits uint64) {
	off := i * width
	switch width {
	case 1:
		buf[off] = byte(bits)
	case 2:
		binary.NativeEndian.PutUint16(buf[off:], uint16(bits))
	case 4:
		binary.NativeEndian.PutUint32(buf[off:], uint32(bits))
	default:
		binary.NativeEndian.PutUint64(buf[off:], bits)
	}
}

// arena is a growable buffer of fixed-width elements with explicit length and
// capacity tracking. Growth doubles the backing slice so repeated inserts
// reallocate O(log n) times.
type arena struct {
	buf   []byte
	width int
	n     int
}

func newArena(width, capacity int) arena {
	return arena{buf: make([]byte, capacity*width), width: width}
}

// Len returns the number of elements in use.
func (a *arena) Len() int {
	return a.n
}

// Cap returns the number of elements the buffer can hold without growing.
func (a *arena) Cap() int {
	return len(a.buf) / a.width
}

// reserve guarantees room for extra more elements.
func (a *arena) reserve(extra int) {
	need := a.n + extra
	if need <= a.Cap() {
		return
	}
	newCap := max(a.Cap()*2, need, 4)
	buf := make([]byte, newCap*a.width)
	copy(buf, a.buf[:a.n*a.width])
	a.buf = buf
}

func (a *arena) load(i int) uint64 {
	return loadBits(a.buf, a.width, i)
}

func (a *arena) store(i int, bits uint64) {
	storeBits(a.buf, a.width, i, bits)
}

func (a *arena) append(bits uint64) {
	a.reserve(1)
	a.store(a.n, bits)
	a.n++
}

// insert shifts elements [i, n) right by one and writes bits at i.
// The caller reserves capacity first.
func (a *arena) insert(i int, bits uint64) {
	w := a.width
	copy(a.buf[(i+1)*w:(a.n+1)*w], a.buf[i*w:a.n*w])
	a.store(i, bits)
	a.n++
}

// remove shifts elements (i, n) left by one.
func (a *arena) remove(i int) {
	w := a.width
	copy(a.buf[i*w:(a.n-1)*w], a.buf[(i+1)*w:a.n*w])
	a.n--
	clear(a.buf[a.n*w : (a.n+1)*w])
}

// bytes returns the in-use part of the buffer.
func (a *arena) bytes() []byte {
	return a.buf[:a.n*a.width]
}

func (a *arena) clone() arena {
	buf := make([]byte, len(a.buf))
	copy(buf, a.buf)
	return arena{buf: buf, width: a.width, n: a.n}
}
