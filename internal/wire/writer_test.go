package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestWriteUint16(t *testing.T) {
	tests := []struct {
		value    uint16
		expected []byte
	}{
		{0, []byte{0x00, 0x00}},
		{1, []byte{0x00, 0x01}},
		{0x1234, []byte{0x12, 0x34}},
		{0xffff, []byte{0xff, 0xff}},
	}

	for _, tt := range tests {
		w := NewWriter(16)
		w.WriteUint16(tt.value)
		if !bytes.Equal(w.Bytes(), tt.expected) {
			t.Errorf("WriteUint16(%d) = %v, want %v", tt.value, w.Bytes(), tt.expected)
		}
	}
}

func TestWriteUint32(t *testing.T) {
	tests := []struct {
		value    uint32
		expected []byte
	}{
		{0, []byte{0x00, 0x00, 0x00, 0x00}},
		{0xdeadbeef, []byte{0xde, 0xad, 0xbe, 0xef}},
		{math.MaxUint32, []byte{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		w := NewWriter(16)
		w.WriteUint32(tt.value)
		if !bytes.Equal(w.Bytes(), tt.expected) {
			t.Errorf("WriteUint32(%d) = %v, want %v", tt.value, w.Bytes(), tt.expected)
		}
	}
}

func TestWriteUint64(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint64(0x0102030405060708)
	expected := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("WriteUint64 = %v, want %v", w.Bytes(), expected)
	}
}

func TestWriteFloat64(t *testing.T) {
	tests := []struct {
		value    float64
		expected []byte
	}{
		{0, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{1, []byte{0x3f, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{-1, []byte{0xbf, 0xf0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		w := NewWriter(16)
		w.WriteFloat64(tt.value)
		if !bytes.Equal(w.Bytes(), tt.expected) {
			t.Errorf("WriteFloat64(%v) = %v, want %v", tt.value, w.Bytes(), tt.expected)
		}

		// Verify round-trip
		r := NewReader(w.Bytes())
		got, err := r.ReadFloat64()
		if err != nil {
			t.Fatalf("ReadFloat64 failed: %v", err)
		}
		if got != tt.value {
			t.Errorf("round-trip: got %v, want %v", got, tt.value)
		}
	}
}

func TestWriteFloat32RoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 3.14, float32(math.Inf(1)), math.MaxFloat32}

	for _, v := range values {
		w := NewWriter(16)
		w.WriteFloat32(v)

		r := NewReader(w.Bytes())
		got, err := r.ReadFloat32()
		if err != nil {
			t.Fatalf("ReadFloat32 failed for %v: %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip: got %v, want %v", got, v)
		}
	}
}

func TestIntRoundTrip(t *testing.T) {
	w := NewWriter(32)
	w.WriteInt8(-1)
	w.WriteInt16(-2)
	w.WriteInt32(-3)
	w.WriteInt64(math.MinInt64)

	r := NewReader(w.Bytes())
	if v, err := r.ReadInt8(); err != nil || v != -1 {
		t.Errorf("ReadInt8 = %d, %v; want -1", v, err)
	}
	if v, err := r.ReadInt16(); err != nil || v != -2 {
		t.Errorf("ReadInt16 = %d, %v; want -2", v, err)
	}
	if v, err := r.ReadInt32(); err != nil || v != -3 {
		t.Errorf("ReadInt32 = %d, %v; want -3", v, err)
	}
	if v, err := r.ReadInt64(); err != nil || v != math.MinInt64 {
		t.Errorf("ReadInt64 = %d, %v; want MinInt64", v, err)
	}
	if !r.EOF() {
		t.Errorf("expected EOF, %d bytes remaining", r.Remaining())
	}
}

func TestWriteString(t *testing.T) {
	w := NewWriter(16)
	w.WriteString("hello")
	if !bytes.Equal(w.Bytes(), []byte("hello")) {
		t.Errorf("WriteString = %v, want %v", w.Bytes(), []byte("hello"))
	}
}

func TestWriterReset(t *testing.T) {
	w := NewWriter(16)
	w.WriteByte(0x42)
	w.WriteByte(0x43)

	if w.Len() != 2 {
		t.Errorf("expected len 2, got %d", w.Len())
	}

	w.Reset()

	if w.Len() != 0 {
		t.Errorf("after reset, expected len 0, got %d", w.Len())
	}
}
