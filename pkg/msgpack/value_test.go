package msgpack

import (
	"bytes"
	"errors"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"nil", Nil()},
		{"bool", Bool(true)},
		{"int", Int(-100)},
		{"uint", Uint(100)},
		{"float32", Float32(1.25)},
		{"float64", Float64(-0.5)},
		{"string", Str("hello")},
		{"binary", Bin([]byte{0, 1, 2})},
		{"ext", Ext(-2, []byte{9, 9})},
		{"array", Array(Int(1), Str("two"), Nil())},
		{"map", Map(
			MapEntry{Key: Uint(0), Value: Str("zero")},
			MapEntry{Key: Str("k"), Value: Array(Bool(false))},
		)},
		{"nested", Array(Map(MapEntry{Key: Nil(), Value: Array()}), Bin(nil))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := SerializeValue(tt.v)
			got, err := DeserializeAny(data)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(tt.v) {
				t.Fatalf("round trip gave %#v, want %#v", got, tt.v)
			}
			// A second encode of the decoded tree is byte-identical.
			if !bytes.Equal(SerializeValue(got), data) {
				t.Fatal("re-encode differs")
			}
		})
	}
}

func TestValueEqualNumeric(t *testing.T) {
	if !Int(42).Equal(Uint(42)) {
		t.Error("Int(42) should equal Uint(42)")
	}
	if !Uint(42).Equal(Int(42)) {
		t.Error("Uint(42) should equal Int(42)")
	}
	if Int(-1).Equal(Uint(1<<64 - 1)) {
		t.Error("sign wraparound must not compare equal")
	}
	if Float32(1.5).Equal(Float64(1.5)) {
		t.Error("float widths are distinct kinds")
	}
	if Str("a").Equal(Bin([]byte("a"))) {
		t.Error("string and binary are distinct kinds")
	}
}

func TestValueIndexLastWins(t *testing.T) {
	m := Map(
		MapEntry{Key: Uint(0), Value: Str("first")},
		MapEntry{Key: Uint(1), Value: Str("other")},
		MapEntry{Key: Uint(0), Value: Str("last")},
	)
	got, ok := m.Index(Uint(0))
	if !ok || got.AsStr() != "last" {
		t.Fatalf("Index(0) = %#v, %t; want last entry", got, ok)
	}
	// Int and Uint keys are interchangeable for lookup.
	got, ok = m.Index(Int(1))
	if !ok || got.AsStr() != "other" {
		t.Fatalf("Index(Int(1)) = %#v, %t", got, ok)
	}
	if _, ok := m.Index(Uint(9)); ok {
		t.Fatal("absent key reported present")
	}
	if _, ok := Str("x").Index(Uint(0)); ok {
		t.Fatal("Index on non-map reported present")
	}
}

func TestValueOwnsPayloads(t *testing.T) {
	buf := []byte{0xc4, 0x02, 0xaa, 0xbb}
	v, err := DeserializeAny(buf)
	if err != nil {
		t.Fatal(err)
	}
	buf[2] = 0x00
	if !bytes.Equal(v.AsBin(), []byte{0xaa, 0xbb}) {
		t.Fatal("value payload aliases the decode buffer")
	}

	src := []byte{1, 2}
	b := Bin(src)
	src[0] = 9
	if b.AsBin()[0] != 1 {
		t.Fatal("Bin did not copy its argument")
	}
}

func TestValueAccessorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Str("x").AsInt()
}

func TestDeserializeAnyTrailingBytes(t *testing.T) {
	_, err := DeserializeAny([]byte{0xc0, 0xc0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestDeserializeAnyDepthLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0x91}, 2000)
	data = append(data, 0xc0)
	_, err := DeserializeAny(data)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}

	if _, err := DeserializeAny(data, WithMaxDepth(5000)); err != nil {
		t.Fatalf("raised limit still failed: %v", err)
	}
}

func TestDeserializeAnyTruncatedContainer(t *testing.T) {
	// Map header claims a pair that never arrives.
	_, err := DeserializeAny([]byte{0x81, 0x00})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestValueGoString(t *testing.T) {
	v := Map(MapEntry{Key: Uint(0), Value: Array(Str("a"), Nil())})
	got := v.GoString()
	want := `Map({Uint(0): Array(Str("a"), Nil())})`
	if got != want {
		t.Fatalf("GoString = %s, want %s", got, want)
	}
}
