// Package wire implements low-level binary primitives for the MessagePack format.
//
// This package handles the mechanical byte manipulation required to read
// MessagePack's wire encoding: format bytes, big-endian fixed-width integers,
// floats, and length-delimited payloads.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrUnexpectedEOF is returned when a read would run past the end of the input.
var ErrUnexpectedEOF = errors.New("wire: unexpected end of input")

// Reader reads MessagePack data from a byte buffer.
// It tracks position for sequential reads.
//
// Reader is a value type: copying one yields an independent cursor over the
// same buffer, which is how speculative decoding rewinds after a failed
// attempt. Payload slices returned by ReadBytes alias the underlying buffer,
// so the buffer must outlive them.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader from the given byte slice.
// The Reader does not copy the data; it reads directly from the slice.
func NewReader(data []byte) Reader {
	return Reader{data: data, pos: 0}
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// Len returns the total length of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of bytes left to read.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// EOF returns true if all bytes have been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

// Peek returns the next byte without advancing the position.
// Returns 0 and ErrUnexpectedEOF if at end of input.
func (r *Reader) Peek() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	return r.data[r.pos], nil
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes and advances the position.
// The returned slice aliases the underlying buffer; it is not a copy.
// Returns ErrUnexpectedEOF if fewer than n bytes remain.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, ErrUnexpectedEOF
	}
	result := r.data[r.pos : r.pos+n]
	r.pos += n
	return result, nil
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if len(r.data)-r.pos < 2 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if len(r.data)-r.pos < 4 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadUint64 reads a big-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if len(r.data)-r.pos < 8 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

// ReadInt16 reads a big-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadFloat32 reads an IEEE 754 single in big-endian byte order.
func (r *Reader) ReadFloat32() (float32, error) {
	bits, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads an IEEE 754 double in big-endian byte order.
func (r *Reader) ReadFloat64() (float64, error) {
	bits, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// Skip advances the position by n bytes without reading.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > len(r.data)-r.pos {
		return ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

// Reset resets the reader to the beginning of the data.
func (r *Reader) Reset() {
	r.pos = 0
}

// Data returns the underlying byte slice.
func (r *Reader) Data() []byte {
	return r.data
}
