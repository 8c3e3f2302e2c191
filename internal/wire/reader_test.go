package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadBytesAliasesBuffer(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	r := NewReader(data)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("ReadBytes = %v, want [1 2 3]", got)
	}

	// The returned slice views the input, not a copy.
	data[0] = 9
	if got[0] != 9 {
		t.Error("ReadBytes returned a copy; want a view of the input buffer")
	}
	if r.Pos() != 3 || r.Remaining() != 2 {
		t.Errorf("Pos = %d, Remaining = %d; want 3, 2", r.Pos(), r.Remaining())
	}
}

func TestReadTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(r *Reader) error
	}{
		{"byte-empty", nil, func(r *Reader) error { _, err := r.ReadByte(); return err }},
		{"bytes-short", []byte{1}, func(r *Reader) error { _, err := r.ReadBytes(2); return err }},
		{"uint16-short", []byte{1}, func(r *Reader) error { _, err := r.ReadUint16(); return err }},
		{"uint32-short", []byte{1, 2, 3}, func(r *Reader) error { _, err := r.ReadUint32(); return err }},
		{"uint64-short", []byte{1, 2, 3, 4, 5, 6, 7}, func(r *Reader) error { _, err := r.ReadUint64(); return err }},
		{"float32-short", []byte{1}, func(r *Reader) error { _, err := r.ReadFloat32(); return err }},
		{"float64-short", []byte{1}, func(r *Reader) error { _, err := r.ReadFloat64(); return err }},
		{"skip-past-end", []byte{1}, func(r *Reader) error { return r.Skip(2) }},
		{"peek-empty", nil, func(r *Reader) error { _, err := r.Peek(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			if err := tt.read(&r); !errors.Is(err, ErrUnexpectedEOF) {
				t.Errorf("got %v, want ErrUnexpectedEOF", err)
			}
		})
	}
}

func TestReadBytesNegative(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.ReadBytes(-1); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("ReadBytes(-1) = %v, want ErrUnexpectedEOF", err)
	}
}

func TestReaderCopyIsIndependent(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}

	fork := r
	if _, err := fork.ReadBytes(3); err != nil {
		t.Fatal(err)
	}

	// Advancing the fork must not move the original cursor.
	if r.Pos() != 1 {
		t.Errorf("original Pos = %d, want 1", r.Pos())
	}
	if fork.Pos() != 4 || !fork.EOF() {
		t.Errorf("fork Pos = %d, EOF = %v; want 4, true", fork.Pos(), fork.EOF())
	}
}

func TestReaderPeekDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0xc0})
	b, err := r.Peek()
	if err != nil || b != 0xc0 {
		t.Fatalf("Peek = %#x, %v; want 0xc0", b, err)
	}
	if r.Pos() != 0 {
		t.Errorf("Peek advanced the position to %d", r.Pos())
	}
}

func TestReaderReset(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, _ = r.ReadByte()
	r.Reset()
	if r.Pos() != 0 || r.Remaining() != 2 {
		t.Errorf("after Reset: Pos = %d, Remaining = %d", r.Pos(), r.Remaining())
	}
}
