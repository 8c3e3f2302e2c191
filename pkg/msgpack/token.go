package msgpack

import (
	"fmt"

	"github.com/Idein/msgpack-schema/internal/wire"
)

// TokenKind identifies the kind of a wire token.
type TokenKind uint8

const (
	TokenNil TokenKind = iota
	TokenBool
	TokenInt
	TokenUint
	TokenFloat32
	TokenFloat64
	TokenString
	TokenBinary
	TokenArrayHeader
	TokenMapHeader
	TokenExt
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenNil:
		return "nil"
	case TokenBool:
		return "bool"
	case TokenInt:
		return "int"
	case TokenUint:
		return "uint"
	case TokenFloat32:
		return "float32"
	case TokenFloat64:
		return "float64"
	case TokenString:
		return "string"
	case TokenBinary:
		return "binary"
	case TokenArrayHeader:
		return "array header"
	case TokenMapHeader:
		return "map header"
	case TokenExt:
		return "ext"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// Token is a borrowed view of one primitive unit in a byte stream. Only the
// field selected by Kind is meaningful. Bytes aliases the decode buffer for
// String, Binary, and Ext tokens; the buffer must outlive the token. An
// ArrayHeader is followed in the stream by Length encoded elements, a
// MapHeader by Length key-value pairs.
type Token struct {
	Kind    TokenKind
	Bool    bool
	Int     int64   // Int: value of a signed-encoded integer
	Uint    uint64  // Uint: value of an unsigned-encoded integer
	Float   float64 // Float32/Float64: numeric value (exact for both widths)
	Bytes   []byte  // String/Binary/Ext: payload view
	Length  uint32  // ArrayHeader/MapHeader: element count
	ExtType int8    // Ext: application-defined type id
}

// Encoder writes MessagePack tokens to an in-memory buffer, always choosing
// the narrowest wire representation that exactly holds the value.
type Encoder struct {
	w *wire.Writer
}

// NewEncoder creates a new encoder.
func NewEncoder() *Encoder {
	return &Encoder{w: wire.NewWriter(256)}
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}

// Reset clears the buffer for reuse.
func (e *Encoder) Reset() {
	e.w.Reset()
}

// WriteNil writes the nil object.
func (e *Encoder) WriteNil() {
	e.w.WriteByte(formatNil)
}

// WriteBool writes a boolean.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.w.WriteByte(formatTrue)
	} else {
		e.w.WriteByte(formatFalse)
	}
}

// WriteUint writes an unsigned integer using the narrowest encoding:
// positive fixint, then uint 8/16/32/64.
func (e *Encoder) WriteUint(v uint64) {
	switch {
	case v <= uint64(formatPosFixintMax):
		e.w.WriteByte(byte(v))
	case v <= 0xff:
		e.w.WriteByte(formatUint8)
		e.w.WriteByte(byte(v))
	case v <= 0xffff:
		e.w.WriteByte(formatUint16)
		e.w.WriteUint16(uint16(v))
	case v <= 0xffffffff:
		e.w.WriteByte(formatUint32)
		e.w.WriteUint32(uint32(v))
	default:
		e.w.WriteByte(formatUint64)
		e.w.WriteUint64(v)
	}
}

// WriteInt writes a signed integer using the narrowest encoding. Non-negative
// values take the unsigned ladder (positive fixint, uint 8/16/...), negative
// values take negative fixint then int 8/16/32/64.
func (e *Encoder) WriteInt(v int64) {
	if v >= 0 {
		e.WriteUint(uint64(v))
		return
	}
	switch {
	case v >= -32:
		e.w.WriteByte(byte(v))
	case v >= -128:
		e.w.WriteByte(formatInt8)
		e.w.WriteInt8(int8(v))
	case v >= -32768:
		e.w.WriteByte(formatInt16)
		e.w.WriteInt16(int16(v))
	case v >= -2147483648:
		e.w.WriteByte(formatInt32)
		e.w.WriteInt32(int32(v))
	default:
		e.w.WriteByte(formatInt64)
		e.w.WriteInt64(v)
	}
}

// WriteFloat32 writes a single-precision float.
func (e *Encoder) WriteFloat32(v float32) {
	e.w.WriteByte(formatFloat32)
	e.w.WriteFloat32(v)
}

// WriteFloat64 writes a double-precision float.
func (e *Encoder) WriteFloat64(v float64) {
	e.w.WriteByte(formatFloat64)
	e.w.WriteFloat64(v)
}

// WriteString writes a string object (fixstr, then str 8/16/32).
// The bytes are written as-is; they need not be valid UTF-8.
func (e *Encoder) WriteString(s string) {
	e.writeStringHeader(len(s))
	e.w.WriteString(s)
}

// WriteStringBytes writes a string object from a byte slice.
func (e *Encoder) WriteStringBytes(b []byte) {
	e.writeStringHeader(len(b))
	e.w.WriteBytes(b)
}

func (e *Encoder) writeStringHeader(n int) {
	switch {
	case n < 32:
		e.w.WriteByte(formatFixstrMin | byte(n))
	case n <= 0xff:
		e.w.WriteByte(formatStr8)
		e.w.WriteByte(byte(n))
	case n <= 0xffff:
		e.w.WriteByte(formatStr16)
		e.w.WriteUint16(uint16(n))
	default:
		e.w.WriteByte(formatStr32)
		e.w.WriteUint32(uint32(n))
	}
}

// WriteBinary writes a binary object (bin 8/16/32).
func (e *Encoder) WriteBinary(b []byte) {
	n := len(b)
	switch {
	case n <= 0xff:
		e.w.WriteByte(formatBin8)
		e.w.WriteByte(byte(n))
	case n <= 0xffff:
		e.w.WriteByte(formatBin16)
		e.w.WriteUint16(uint16(n))
	default:
		e.w.WriteByte(formatBin32)
		e.w.WriteUint32(uint32(n))
	}
	e.w.WriteBytes(b)
}

// WriteArrayHeader writes an array header for n elements
// (fixarray, then array 16/32).
func (e *Encoder) WriteArrayHeader(n uint32) {
	switch {
	case n < 16:
		e.w.WriteByte(formatFixarrayMin | byte(n))
	case n <= 0xffff:
		e.w.WriteByte(formatArray16)
		e.w.WriteUint16(uint16(n))
	default:
		e.w.WriteByte(formatArray32)
		e.w.WriteUint32(n)
	}
}

// WriteMapHeader writes a map header for n key-value pairs
// (fixmap, then map 16/32).
func (e *Encoder) WriteMapHeader(n uint32) {
	switch {
	case n < 16:
		e.w.WriteByte(formatFixmapMin | byte(n))
	case n <= 0xffff:
		e.w.WriteByte(formatMap16)
		e.w.WriteUint16(uint16(n))
	default:
		e.w.WriteByte(formatMap32)
		e.w.WriteUint32(n)
	}
}

// WriteExt writes an extension object. Payload lengths of exactly 1, 2, 4, 8,
// or 16 bytes use the fixext forms; everything else uses ext 8/16/32.
func (e *Encoder) WriteExt(typ int8, data []byte) {
	switch len(data) {
	case 1:
		e.w.WriteByte(formatFixext1)
	case 2:
		e.w.WriteByte(formatFixext2)
	case 4:
		e.w.WriteByte(formatFixext4)
	case 8:
		e.w.WriteByte(formatFixext8)
	case 16:
		e.w.WriteByte(formatFixext16)
	default:
		n := len(data)
		switch {
		case n <= 0xff:
			e.w.WriteByte(formatExt8)
			e.w.WriteByte(byte(n))
		case n <= 0xffff:
			e.w.WriteByte(formatExt16)
			e.w.WriteUint16(uint16(n))
		default:
			e.w.WriteByte(formatExt32)
			e.w.WriteUint32(uint32(n))
		}
	}
	e.w.WriteInt8(typ)
	e.w.WriteBytes(data)
}

// WriteToken writes a single token.
func (e *Encoder) WriteToken(t Token) {
	switch t.Kind {
	case TokenNil:
		e.WriteNil()
	case TokenBool:
		e.WriteBool(t.Bool)
	case TokenInt:
		e.WriteInt(t.Int)
	case TokenUint:
		e.WriteUint(t.Uint)
	case TokenFloat32:
		e.WriteFloat32(float32(t.Float))
	case TokenFloat64:
		e.WriteFloat64(t.Float)
	case TokenString:
		e.WriteStringBytes(t.Bytes)
	case TokenBinary:
		e.WriteBinary(t.Bytes)
	case TokenArrayHeader:
		e.WriteArrayHeader(t.Length)
	case TokenMapHeader:
		e.WriteMapHeader(t.Length)
	case TokenExt:
		e.WriteExt(t.ExtType, t.Bytes)
	default:
		panic(fmt.Sprintf("msgpack: unknown token kind %d", t.Kind))
	}
}

// DefaultMaxDepth is the default nesting depth limit for ReadValue.
// This prevents stack exhaustion from deeply nested malicious input.
const DefaultMaxDepth = 1000

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxDepth sets the maximum nesting depth accepted by ReadValue
// (default 1000).
func WithMaxDepth(depth int) DecoderOption {
	return func(d *Decoder) {
		d.maxDepth = depth
	}
}

// Decoder reads MessagePack tokens from a byte buffer.
//
// A Decoder is a plain value over a borrowed buffer: copying one yields an
// independent cursor, so a failed speculative decode on the copy leaves the
// original untouched.
type Decoder struct {
	r        wire.Reader
	maxDepth int
}

// NewDecoder creates a new decoder for the given data. The data is not
// copied; tokens returned by ReadToken view it directly.
func NewDecoder(data []byte, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		r:        wire.NewReader(data),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pos returns the current read position.
func (d *Decoder) Pos() int {
	return d.r.Pos()
}

// EOF returns true if all bytes have been consumed.
func (d *Decoder) EOF() bool {
	return d.r.EOF()
}

// PeekCode returns the next format code byte without consuming it.
func (d *Decoder) PeekCode() (byte, error) {
	b, err := d.r.Peek()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return b, nil
}

// ReadToken reads a single token. Any integer width is accepted for a logical
// integer value; truncated payloads and the reserved code 0xc1 fail with an
// ErrInvalidInput-wrapped error.
func (d *Decoder) ReadToken() (Token, error) {
	code, err := d.r.ReadByte()
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch {
	case code <= formatPosFixintMax:
		return Token{Kind: TokenUint, Uint: uint64(code)}, nil
	case code >= formatNegFixintMin:
		return Token{Kind: TokenInt, Int: int64(int8(code))}, nil
	case code >= formatFixmapMin && code <= formatFixmapMax:
		return Token{Kind: TokenMapHeader, Length: uint32(code & 0x0f)}, nil
	case code >= formatFixarrayMin && code <= formatFixarrayMax:
		return Token{Kind: TokenArrayHeader, Length: uint32(code & 0x0f)}, nil
	case code >= formatFixstrMin && code <= formatFixstrMax:
		return d.readStringPayload(int(code & 0x1f))
	}

	switch code {
	case formatNil:
		return Token{Kind: TokenNil}, nil
	case formatFalse:
		return Token{Kind: TokenBool, Bool: false}, nil
	case formatTrue:
		return Token{Kind: TokenBool, Bool: true}, nil

	case formatUint8:
		v, err := d.r.ReadByte()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenUint, Uint: uint64(v)}, nil
	case formatUint16:
		v, err := d.r.ReadUint16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenUint, Uint: uint64(v)}, nil
	case formatUint32:
		v, err := d.r.ReadUint32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenUint, Uint: uint64(v)}, nil
	case formatUint64:
		v, err := d.r.ReadUint64()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenUint, Uint: v}, nil

	case formatInt8:
		v, err := d.r.ReadInt8()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenInt, Int: int64(v)}, nil
	case formatInt16:
		v, err := d.r.ReadInt16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenInt, Int: int64(v)}, nil
	case formatInt32:
		v, err := d.r.ReadInt32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenInt, Int: int64(v)}, nil
	case formatInt64:
		v, err := d.r.ReadInt64()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenInt, Int: v}, nil

	case formatFloat32:
		v, err := d.r.ReadFloat32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenFloat32, Float: float64(v)}, nil
	case formatFloat64:
		v, err := d.r.ReadFloat64()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenFloat64, Float: v}, nil

	case formatStr8:
		n, err := d.r.ReadByte()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readStringPayload(int(n))
	case formatStr16:
		n, err := d.r.ReadUint16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readStringPayload(int(n))
	case formatStr32:
		n, err := d.r.ReadUint32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readStringPayload(int(n))

	case formatBin8:
		n, err := d.r.ReadByte()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readBinaryPayload(int(n))
	case formatBin16:
		n, err := d.r.ReadUint16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readBinaryPayload(int(n))
	case formatBin32:
		n, err := d.r.ReadUint32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readBinaryPayload(int(n))

	case formatArray16:
		n, err := d.r.ReadUint16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenArrayHeader, Length: uint32(n)}, nil
	case formatArray32:
		n, err := d.r.ReadUint32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenArrayHeader, Length: n}, nil

	case formatMap16:
		n, err := d.r.ReadUint16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenMapHeader, Length: uint32(n)}, nil
	case formatMap32:
		n, err := d.r.ReadUint32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return Token{Kind: TokenMapHeader, Length: n}, nil

	case formatFixext1:
		return d.readExtPayload(code, 1)
	case formatFixext2:
		return d.readExtPayload(code, 2)
	case formatFixext4:
		return d.readExtPayload(code, 4)
	case formatFixext8:
		return d.readExtPayload(code, 8)
	case formatFixext16:
		return d.readExtPayload(code, 16)
	case formatExt8:
		n, err := d.r.ReadByte()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readExtPayload(code, int(n))
	case formatExt16:
		n, err := d.r.ReadUint16()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readExtPayload(code, int(n))
	case formatExt32:
		n, err := d.r.ReadUint32()
		if err != nil {
			return Token{}, d.truncated(code, err)
		}
		return d.readExtPayload(code, int(n))
	}

	return Token{}, fmt.Errorf("%w: reserved format code 0xc1", ErrInvalidInput)
}

func (d *Decoder) readStringPayload(n int) (Token, error) {
	b, err := d.r.ReadBytes(n)
	if err != nil {
		return Token{}, fmt.Errorf("%w: string payload: %v", ErrInvalidInput, err)
	}
	return Token{Kind: TokenString, Bytes: b}, nil
}

func (d *Decoder) readBinaryPayload(n int) (Token, error) {
	b, err := d.r.ReadBytes(n)
	if err != nil {
		return Token{}, fmt.Errorf("%w: binary payload: %v", ErrInvalidInput, err)
	}
	return Token{Kind: TokenBinary, Bytes: b}, nil
}

func (d *Decoder) readExtPayload(code byte, n int) (Token, error) {
	typ, err := d.r.ReadInt8()
	if err != nil {
		return Token{}, d.truncated(code, err)
	}
	b, err := d.r.ReadBytes(n)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %s payload: %v", ErrInvalidInput, FormatName(code), err)
	}
	return Token{Kind: TokenExt, ExtType: typ, Bytes: b}, nil
}

func (d *Decoder) truncated(code byte, err error) error {
	return fmt.Errorf("%w: truncated %s: %v", ErrInvalidInput, FormatName(code), err)
}

// Skip consumes one complete object, including the sub-elements of arrays and
// maps, and discards it. The walk is iterative, so nesting depth is bounded
// only by the input's own length.
func (d *Decoder) Skip() error {
	count := uint64(1)
	for count > 0 {
		count--
		tok, err := d.ReadToken()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokenArrayHeader:
			count += uint64(tok.Length)
		case TokenMapHeader:
			count += 2 * uint64(tok.Length)
		}
	}
	return nil
}
