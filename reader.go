package bite

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

var le = binary.LittleEndian

// Reader is a sequential cursor over an in-memory buffer with absolute
// seeking. All multi-byte reads are little-endian. Any read that would run
// past the end of the buffer fails with ErrUnexpectedEOF and leaves the
// cursor where it was; no partial data is ever returned.
type Reader struct {
	data []byte
	off  int
}

// NewReader wraps data without copying it.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset reports the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining reports how many bytes are left past the cursor.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Len reports the total buffer length.
func (r *Reader) Len() int {
	return len(r.data)
}

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset > len(r.data) {
		return fmt.Errorf("%w: seek to %d in %d byte buffer", ErrUnexpectedEOF, offset, len(r.data))
	}
	r.off = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	return r.Seek(r.off + n)
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrUnexpectedEOF, n, r.off, len(r.data)-r.off)
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out, nil
}

// Bytes reads a fixed-length byte run. The returned slice aliases the
// underlying buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	return r.take(n)
}

// Peek returns the next n bytes without advancing the cursor.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.data) {
		return nil, fmt.Errorf("%w: peek %d bytes at offset %d, have %d",
			ErrUnexpectedEOF, n, r.off, len(r.data)-r.off)
	}
	return r.data[r.off : r.off+n], nil
}

// String reads a fixed-length field and trims trailing NUL padding.
func (r *Reader) String(n int) (string, error) {
	raw, err := r.take(n)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(raw), "\x00"), nil
}

// Uint8 reads one unsigned byte.
func (r *Reader) Uint8() (uint8, error) {
	raw, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() (uint16, error) {
	raw, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return le.Uint16(raw), nil
}

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	raw, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return le.Uint32(raw), nil
}

// Uint64 reads a little-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	raw, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return le.Uint64(raw), nil
}

// Int8 reads one signed byte.
func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Int64 reads a little-endian int64.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Float32 reads a little-endian IEEE 754 float32.
func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

// fields decodes a fixed-layout record, latching the first read error so
// header decoders can read every field and check once at the end.
type fields struct {
	r   *Reader
	err error
}

func (f *fields) u8() uint8 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Uint8()
	f.err = err
	return v
}

func (f *fields) u16() uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Uint16()
	f.err = err
	return v
}

func (f *fields) u32() uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Uint32()
	f.err = err
	return v
}

func (f *fields) u64() uint64 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Uint64()
	f.err = err
	return v
}

func (f *fields) i32() int32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Int32()
	f.err = err
	return v
}

func (f *fields) f32() float32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.Float32()
	f.err = err
	return v
}

func (f *fields) bytes(n int) []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.r.Bytes(n)
	f.err = err
	return v
}

func (f *fields) skip(n int) {
	if f.err != nil {
		return
	}
	f.err = f.r.Skip(n)
}
