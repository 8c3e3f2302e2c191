package msgpack

import (
	"fmt"
	"strings"
)

type valueKind uint8

const (
	kindNil valueKind = iota
	kindBool
	kindInt
	kindUint
	kindFloat32
	kindFloat64
	kindString
	kindBinary
	kindArray
	kindMap
	kindExt
)

func (k valueKind) String() string {
	switch k {
	case kindNil:
		return "nil"
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindUint:
		return "uint"
	case kindFloat32:
		return "float32"
	case kindFloat64:
		return "float64"
	case kindString:
		return "string"
	case kindBinary:
		return "binary"
	case kindArray:
		return "array"
	case kindMap:
		return "map"
	case kindExt:
		return "ext"
	default:
		return fmt.Sprintf("valueKind(%d)", k)
	}
}

// MapEntry is one key-value pair of a map value. Entry order is preserved and
// duplicate keys are representable.
type MapEntry struct {
	Key   Value
	Value Value
}

// ExtValue is the payload of an extension value.
type ExtValue struct {
	Type int8
	Data []byte
}

// Value is an owned dynamic MessagePack object. The zero Value is nil.
//
// Unlike tokens, a Value never aliases a decode buffer: string, binary, and
// ext payloads are copied on construction, so values stay valid after the
// source bytes are reused.
type Value struct {
	kind valueKind
	data interface{}
}

// Nil returns the nil value.
func Nil() Value {
	return Value{kind: kindNil}
}

// Bool returns a boolean value.
func Bool(v bool) Value {
	return Value{kind: kindBool, data: v}
}

// Int returns a signed integer value.
func Int(v int64) Value {
	return Value{kind: kindInt, data: v}
}

// Uint returns an unsigned integer value.
func Uint(v uint64) Value {
	return Value{kind: kindUint, data: v}
}

// Float32 returns a single-precision float value.
func Float32(v float32) Value {
	return Value{kind: kindFloat32, data: v}
}

// Float64 returns a double-precision float value.
func Float64(v float64) Value {
	return Value{kind: kindFloat64, data: v}
}

// Str returns a string value.
func Str(v string) Value {
	return Value{kind: kindString, data: v}
}

// Bin returns a binary value holding a copy of b.
func Bin(b []byte) Value {
	c := make([]byte, len(b))
	copy(c, b)
	return Value{kind: kindBinary, data: c}
}

// Array returns an array value.
func Array(elems ...Value) Value {
	return Value{kind: kindArray, data: elems}
}

// Map returns a map value from ordered entries.
func Map(entries ...MapEntry) Value {
	return Value{kind: kindMap, data: entries}
}

// Ext returns an extension value holding a copy of data.
func Ext(typ int8, data []byte) Value {
	c := make([]byte, len(data))
	copy(c, data)
	return Value{kind: kindExt, data: ExtValue{Type: typ, Data: c}}
}

// IsNil returns true for the nil value.
func (v Value) IsNil() bool { return v.kind == kindNil }

// IsBool returns true for boolean values.
func (v Value) IsBool() bool { return v.kind == kindBool }

// IsInt returns true for signed integer values.
func (v Value) IsInt() bool { return v.kind == kindInt }

// IsUint returns true for unsigned integer values.
func (v Value) IsUint() bool { return v.kind == kindUint }

// IsFloat32 returns true for single-precision float values.
func (v Value) IsFloat32() bool { return v.kind == kindFloat32 }

// IsFloat64 returns true for double-precision float values.
func (v Value) IsFloat64() bool { return v.kind == kindFloat64 }

// IsStr returns true for string values.
func (v Value) IsStr() bool { return v.kind == kindString }

// IsBin returns true for binary values.
func (v Value) IsBin() bool { return v.kind == kindBinary }

// IsArray returns true for array values.
func (v Value) IsArray() bool { return v.kind == kindArray }

// IsMap returns true for map values.
func (v Value) IsMap() bool { return v.kind == kindMap }

// IsExt returns true for extension values.
func (v Value) IsExt() bool { return v.kind == kindExt }

func (v Value) mustBe(k valueKind) {
	if v.kind != k {
		panic(fmt.Sprintf("msgpack: value is %s, not %s", v.kind, k))
	}
}

// AsBool returns the boolean payload, panicking if the value is not a bool.
func (v Value) AsBool() bool {
	v.mustBe(kindBool)
	return v.data.(bool)
}

// AsInt returns the signed integer payload, panicking if the value is not an
// int.
func (v Value) AsInt() int64 {
	v.mustBe(kindInt)
	return v.data.(int64)
}

// AsUint returns the unsigned integer payload, panicking if the value is not
// a uint.
func (v Value) AsUint() uint64 {
	v.mustBe(kindUint)
	return v.data.(uint64)
}

// AsFloat32 returns the float payload, panicking if the value is not a
// float32.
func (v Value) AsFloat32() float32 {
	v.mustBe(kindFloat32)
	return v.data.(float32)
}

// AsFloat64 returns the float payload, panicking if the value is not a
// float64.
func (v Value) AsFloat64() float64 {
	v.mustBe(kindFloat64)
	return v.data.(float64)
}

// AsStr returns the string payload, panicking if the value is not a string.
func (v Value) AsStr() string {
	v.mustBe(kindString)
	return v.data.(string)
}

// AsBin returns the binary payload, panicking if the value is not binary.
func (v Value) AsBin() []byte {
	v.mustBe(kindBinary)
	return v.data.([]byte)
}

// AsArray returns the element slice, panicking if the value is not an array.
func (v Value) AsArray() []Value {
	v.mustBe(kindArray)
	return v.data.([]Value)
}

// AsMap returns the ordered entries, panicking if the value is not a map.
func (v Value) AsMap() []MapEntry {
	v.mustBe(kindMap)
	return v.data.([]MapEntry)
}

// AsExt returns the extension payload, panicking if the value is not an ext.
func (v Value) AsExt() ExtValue {
	v.mustBe(kindExt)
	return v.data.(ExtValue)
}

// Index looks up key in a map value. When the map holds duplicate keys the
// last entry wins, matching how a streaming reader would overwrite earlier
// bindings. The second result is false if v is not a map or the key is absent.
func (v Value) Index(key Value) (Value, bool) {
	if v.kind != kindMap {
		return Value{}, false
	}
	entries := v.data.([]MapEntry)
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Key.Equal(key) {
			return entries[i].Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality. Int and Uint values compare by numeric
// value across the sign boundary; Float32 and Float64 are distinct kinds and
// never equal each other. Maps compare as ordered entry sequences.
func (v Value) Equal(o Value) bool {
	if v.kind == kindInt && o.kind == kindUint {
		return numEqual(v.data.(int64), o.data.(uint64))
	}
	if v.kind == kindUint && o.kind == kindInt {
		return numEqual(o.data.(int64), v.data.(uint64))
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindNil:
		return true
	case kindBool:
		return v.data.(bool) == o.data.(bool)
	case kindInt:
		return v.data.(int64) == o.data.(int64)
	case kindUint:
		return v.data.(uint64) == o.data.(uint64)
	case kindFloat32:
		return v.data.(float32) == o.data.(float32)
	case kindFloat64:
		return v.data.(float64) == o.data.(float64)
	case kindString:
		return v.data.(string) == o.data.(string)
	case kindBinary:
		return bytesEqual(v.data.([]byte), o.data.([]byte))
	case kindArray:
		a, b := v.data.([]Value), o.data.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case kindMap:
		a, b := v.data.([]MapEntry), o.data.([]MapEntry)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Key.Equal(b[i].Key) || !a[i].Value.Equal(b[i].Value) {
				return false
			}
		}
		return true
	case kindExt:
		a, b := v.data.(ExtValue), o.data.(ExtValue)
		return a.Type == b.Type && bytesEqual(a.Data, b.Data)
	}
	return false
}

func numEqual(i int64, u uint64) bool {
	return i >= 0 && uint64(i) == u
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GoString renders the value as a Go-ish literal, for test failures and
// debug logs.
func (v Value) GoString() string {
	var sb strings.Builder
	v.goString(&sb)
	return sb.String()
}

func (v Value) goString(sb *strings.Builder) {
	switch v.kind {
	case kindNil:
		sb.WriteString("Nil()")
	case kindBool:
		fmt.Fprintf(sb, "Bool(%t)", v.data.(bool))
	case kindInt:
		fmt.Fprintf(sb, "Int(%d)", v.data.(int64))
	case kindUint:
		fmt.Fprintf(sb, "Uint(%d)", v.data.(uint64))
	case kindFloat32:
		fmt.Fprintf(sb, "Float32(%v)", v.data.(float32))
	case kindFloat64:
		fmt.Fprintf(sb, "Float64(%v)", v.data.(float64))
	case kindString:
		fmt.Fprintf(sb, "Str(%q)", v.data.(string))
	case kindBinary:
		fmt.Fprintf(sb, "Bin(%#v)", v.data.([]byte))
	case kindArray:
		sb.WriteString("Array(")
		for i, e := range v.data.([]Value) {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.goString(sb)
		}
		sb.WriteString(")")
	case kindMap:
		sb.WriteString("Map(")
		for i, e := range v.data.([]MapEntry) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("{")
			e.Key.goString(sb)
			sb.WriteString(": ")
			e.Value.goString(sb)
			sb.WriteString("}")
		}
		sb.WriteString(")")
	case kindExt:
		e := v.data.(ExtValue)
		fmt.Fprintf(sb, "Ext(%d, %#v)", e.Type, e.Data)
	}
}

// WriteValue writes a complete value tree.
func (e *Encoder) WriteValue(v Value) {
	switch v.kind {
	case kindNil:
		e.WriteNil()
	case kindBool:
		e.WriteBool(v.data.(bool))
	case kindInt:
		e.WriteInt(v.data.(int64))
	case kindUint:
		e.WriteUint(v.data.(uint64))
	case kindFloat32:
		e.WriteFloat32(v.data.(float32))
	case kindFloat64:
		e.WriteFloat64(v.data.(float64))
	case kindString:
		e.WriteString(v.data.(string))
	case kindBinary:
		e.WriteBinary(v.data.([]byte))
	case kindArray:
		elems := v.data.([]Value)
		e.WriteArrayHeader(uint32(len(elems)))
		for _, elem := range elems {
			e.WriteValue(elem)
		}
	case kindMap:
		entries := v.data.([]MapEntry)
		e.WriteMapHeader(uint32(len(entries)))
		for _, entry := range entries {
			e.WriteValue(entry.Key)
			e.WriteValue(entry.Value)
		}
	case kindExt:
		ext := v.data.(ExtValue)
		e.WriteExt(ext.Type, ext.Data)
	}
}

// ReadValue reads one complete object into an owned value tree. Nesting
// beyond the decoder's depth limit fails with an ErrInvalidInput-wrapped
// error.
func (d *Decoder) ReadValue() (Value, error) {
	return d.readValue(0)
}

func (d *Decoder) readValue(depth int) (Value, error) {
	if depth > d.maxDepth {
		return Value{}, fmt.Errorf("%w: nesting exceeds depth limit %d", ErrInvalidInput, d.maxDepth)
	}
	tok, err := d.ReadToken()
	if err != nil {
		return Value{}, err
	}
	switch tok.Kind {
	case TokenNil:
		return Nil(), nil
	case TokenBool:
		return Bool(tok.Bool), nil
	case TokenInt:
		return Int(tok.Int), nil
	case TokenUint:
		return Uint(tok.Uint), nil
	case TokenFloat32:
		return Float32(float32(tok.Float)), nil
	case TokenFloat64:
		return Float64(tok.Float), nil
	case TokenString:
		return Str(string(tok.Bytes)), nil
	case TokenBinary:
		return Bin(tok.Bytes), nil
	case TokenArrayHeader:
		elems := make([]Value, 0, minInt(int(tok.Length), 64))
		for i := uint32(0); i < tok.Length; i++ {
			elem, err := d.readValue(depth + 1)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, elem)
		}
		return Value{kind: kindArray, data: elems}, nil
	case TokenMapHeader:
		entries := make([]MapEntry, 0, minInt(int(tok.Length), 64))
		for i := uint32(0); i < tok.Length; i++ {
			key, err := d.readValue(depth + 1)
			if err != nil {
				return Value{}, err
			}
			val, err := d.readValue(depth + 1)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return Value{kind: kindMap, data: entries}, nil
	case TokenExt:
		return Ext(tok.ExtType, tok.Bytes), nil
	}
	return Value{}, fmt.Errorf("%w: unknown token kind %d", ErrInvalidInput, tok.Kind)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SerializeValue encodes a value tree to bytes.
func SerializeValue(v Value) []byte {
	e := NewEncoder()
	e.WriteValue(v)
	return e.Bytes()
}

// DeserializeAny decodes exactly one object from data into a value tree.
// Trailing bytes after the object fail with an ErrInvalidInput-wrapped error.
func DeserializeAny(data []byte, opts ...DecoderOption) (Value, error) {
	d := NewDecoder(data, opts...)
	v, err := d.ReadValue()
	if err != nil {
		return Value{}, err
	}
	if !d.EOF() {
		return Value{}, fmt.Errorf("%w: %d trailing bytes after object", ErrInvalidInput, len(data)-d.Pos())
	}
	return v, nil
}
