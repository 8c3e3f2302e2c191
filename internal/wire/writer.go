package wire

import (
	"encoding/binary"
	"math"
)

// Writer writes MessagePack data to a byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a new Writer with an initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

// WriteByte writes a single byte. Implements io.ByteWriter.
// Always returns nil error for in-memory buffer.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// WriteBytes writes a slice of bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString writes the raw bytes of a string.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteUint16 writes a big-endian uint16.
func (w *Writer) WriteUint16(n uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], n)
	w.buf = append(w.buf, buf[:]...)
}

// WriteUint32 writes a big-endian uint32.
func (w *Writer) WriteUint32(n uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	w.buf = append(w.buf, buf[:]...)
}

// WriteUint64 writes a big-endian uint64.
func (w *Writer) WriteUint64(n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	w.buf = append(w.buf, buf[:]...)
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(n int8) {
	w.buf = append(w.buf, byte(n))
}

// WriteInt16 writes a big-endian int16.
func (w *Writer) WriteInt16(n int16) {
	w.WriteUint16(uint16(n))
}

// WriteInt32 writes a big-endian int32.
func (w *Writer) WriteInt32(n int32) {
	w.WriteUint32(uint32(n))
}

// WriteInt64 writes a big-endian int64.
func (w *Writer) WriteInt64(n int64) {
	w.WriteUint64(uint64(n))
}

// WriteFloat32 writes an IEEE 754 single in big-endian byte order.
func (w *Writer) WriteFloat32(f float32) {
	w.WriteUint32(math.Float32bits(f))
}

// WriteFloat64 writes an IEEE 754 double in big-endian byte order.
func (w *Writer) WriteFloat64(f float64) {
	w.WriteUint64(math.Float64bits(f))
}
