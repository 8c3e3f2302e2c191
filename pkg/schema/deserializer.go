package schema

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/Idein/msgpack-schema/pkg/msgpack"
)

// Decode failure kinds, re-exported from pkg/msgpack. Every decode error
// satisfies errors.Is(err, ErrInvalidInput). Errors additionally matching
// ErrUnexpectedType mean the input was well-formed but its shape did not fit
// the schema; untagged enum resolution treats exactly those as a signal to
// try the next variant.
var (
	ErrInvalidInput   = msgpack.ErrInvalidInput
	ErrUnexpectedType = msgpack.ErrUnexpectedType
)

// Deserialize decodes one instance of the schema from data. Trailing bytes
// after the instance fail with an ErrInvalidInput-wrapped error.
func Deserialize(data []byte, s Schema, opts ...msgpack.DecoderOption) (any, error) {
	d := msgpack.NewDecoder(data, opts...)
	v, err := s.decodeValue(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, fmt.Errorf("%w: %d trailing bytes after object", ErrInvalidInput, len(data)-d.Pos())
	}
	return v, nil
}

// TryDeserialize decodes like Deserialize but reports a shape mismatch as
// ok=false instead of an error. The error result is reserved for hard input
// corruption such as truncation.
func TryDeserialize(data []byte, s Schema, opts ...msgpack.DecoderOption) (v any, ok bool, err error) {
	v, err = Deserialize(data, s, opts...)
	if err != nil {
		if errors.Is(err, ErrUnexpectedType) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

func typeErr(want string, got msgpack.TokenKind) error {
	return fmt.Errorf("%w: want %s, got %s", ErrUnexpectedType, want, got)
}

func (boolSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenBool {
		return nil, typeErr("bool", tok.Kind)
	}
	return tok.Bool, nil
}

func (intSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case msgpack.TokenInt:
		return tok.Int, nil
	case msgpack.TokenUint:
		if tok.Uint > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows a signed integer", ErrUnexpectedType, tok.Uint)
		}
		return int64(tok.Uint), nil
	}
	return nil, typeErr("integer", tok.Kind)
}

func (uintSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case msgpack.TokenUint:
		return tok.Uint, nil
	case msgpack.TokenInt:
		if tok.Int < 0 {
			return nil, fmt.Errorf("%w: %d is negative", ErrUnexpectedType, tok.Int)
		}
		return uint64(tok.Int), nil
	}
	return nil, typeErr("integer", tok.Kind)
}

func (float32Schema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenFloat32 {
		return nil, typeErr("float32", tok.Kind)
	}
	return float32(tok.Float), nil
}

func (float64Schema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenFloat64 {
		return nil, typeErr("float64", tok.Kind)
	}
	return tok.Float, nil
}

func (stringSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenString {
		return nil, typeErr("string", tok.Kind)
	}
	if !utf8.Valid(tok.Bytes) {
		return nil, fmt.Errorf("%w: string payload is not valid UTF-8", ErrUnexpectedType)
	}
	return string(tok.Bytes), nil
}

func (binarySchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenBinary {
		return nil, typeErr("binary", tok.Kind)
	}
	b := make([]byte, len(tok.Bytes))
	copy(b, tok.Bytes)
	return b, nil
}

func (anySchema) decodeValue(d *msgpack.Decoder) (any, error) {
	return d.ReadValue()
}

func (s optionSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	fork := *d
	tok, err := fork.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind == msgpack.TokenNil {
		*d = fork
		return nil, nil
	}
	return s.inner.decodeValue(d)
}

func (s arraySchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenArrayHeader {
		return nil, typeErr("array", tok.Kind)
	}
	elems := make([]any, 0, minLen(tok.Length))
	for i := uint32(0); i < tok.Length; i++ {
		elem, err := s.elem.decodeValue(d)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

func minLen(n uint32) int {
	if n > 64 {
		return 64
	}
	return int(n)
}

func (s newtypeSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	return s.inner.decodeValue(d)
}

func (s tupleSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenArrayHeader {
		return nil, typeErr("array", tok.Kind)
	}
	if tok.Length != uint32(len(s.elems)) {
		return nil, fmt.Errorf("%w: array length %d, want %d", ErrUnexpectedType, tok.Length, len(s.elems))
	}
	elems := make([]any, len(s.elems))
	for i, elem := range s.elems {
		v, err := elem.decodeValue(d)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return elems, nil
}

// mapKey identifies one map key during struct decode. Signed and unsigned
// encodings of the same number collapse to the same key.
type mapKey struct {
	neg  bool
	bits uint64
}

// setEntry pairs a key with a decoder positioned at the start of its value.
type setEntry struct {
	key mapKey
	dec msgpack.Decoder
}

// readWorkingSet consumes n key-value pairs, capturing for each a cursor at
// the value's first byte. A non-integer key means the map is well-formed but
// the wrong shape for a tagged struct; a repeated key is a hard failure.
func readWorkingSet(d *msgpack.Decoder, n uint32) ([]setEntry, error) {
	set := make([]setEntry, 0, minLen(n))
	for i := uint32(0); i < n; i++ {
		tok, err := d.ReadToken()
		if err != nil {
			return nil, err
		}
		var key mapKey
		switch tok.Kind {
		case msgpack.TokenUint:
			key = mapKey{bits: tok.Uint}
		case msgpack.TokenInt:
			key = mapKey{neg: tok.Int < 0, bits: uint64(tok.Int)}
		default:
			return nil, fmt.Errorf("%w: map key must be an integer, got %s", ErrUnexpectedType, tok.Kind)
		}
		for _, entry := range set {
			if entry.key == key {
				return nil, fmt.Errorf("%w: duplicate map key", ErrInvalidInput)
			}
		}
		valueDec := *d
		if err := d.Skip(); err != nil {
			return nil, err
		}
		set = append(set, setEntry{key: key, dec: valueDec})
	}
	return set, nil
}

func lookupTag(set []setEntry, tag uint32) (msgpack.Decoder, bool) {
	key := mapKey{bits: uint64(tag)}
	for _, entry := range set {
		if entry.key == key {
			return entry.dec, true
		}
	}
	return msgpack.Decoder{}, false
}

func (s *namedStructSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenMapHeader {
		return nil, typeErr("map", tok.Kind)
	}
	set, err := readWorkingSet(d, tok.Length)
	if err != nil {
		return nil, err
	}
	return s.decodeFields(set)
}

// decodeFields binds declared fields from the working set. Unknown keys are
// left untouched, which is what makes them forward-compatible noise rather
// than errors. Flatten fields consume their sub-tags from the same set.
func (s *namedStructSchema) decodeFields(set []setEntry) ([]any, error) {
	out := make([]any, len(s.fields))
	for i, f := range s.fields {
		if f.flatten {
			inner := f.schema.(*namedStructSchema)
			v, err := inner.decodeFields(set)
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		dec, present := lookupTag(set, f.tag)
		if !present {
			if !f.optional {
				return nil, fmt.Errorf("%w: missing field with tag %d", ErrUnexpectedType, f.tag)
			}
			out[i] = nil
			continue
		}
		v, err := f.schema.decodeValue(&dec)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s untaggedStructSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	if tok.Kind != msgpack.TokenArrayHeader {
		return nil, typeErr("array", tok.Kind)
	}
	if tok.Length != uint32(len(s.fields)) {
		return nil, fmt.Errorf("%w: array length %d, want %d", ErrUnexpectedType, tok.Length, len(s.fields))
	}
	out := make([]any, len(s.fields))
	for i, f := range s.fields {
		v, err := f.decodeValue(d)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *enumSchema) decodeValue(d *msgpack.Decoder) (any, error) {
	if s.untagged {
		return s.decodeUntagged(d)
	}
	tok, err := d.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case msgpack.TokenUint, msgpack.TokenInt:
		tag, ok := tokenTag(tok)
		if !ok {
			return nil, fmt.Errorf("%w: variant tag out of range", ErrUnexpectedType)
		}
		variant, ok := s.variantByTag(tag)
		if !ok {
			return nil, fmt.Errorf("%w: no variant with tag %d", ErrUnexpectedType, tag)
		}
		if variant.kind == variantNewtype {
			return nil, fmt.Errorf("%w: variant %d carries a payload", ErrUnexpectedType, tag)
		}
		return EnumValue{Tag: tag}, nil
	case msgpack.TokenArrayHeader:
		if tok.Length != 2 {
			return nil, fmt.Errorf("%w: variant array length %d, want 2", ErrUnexpectedType, tok.Length)
		}
		tagTok, err := d.ReadToken()
		if err != nil {
			return nil, err
		}
		if tagTok.Kind != msgpack.TokenUint && tagTok.Kind != msgpack.TokenInt {
			return nil, typeErr("variant tag", tagTok.Kind)
		}
		tag, ok := tokenTag(tagTok)
		if !ok {
			return nil, fmt.Errorf("%w: variant tag out of range", ErrUnexpectedType)
		}
		variant, ok := s.variantByTag(tag)
		if !ok {
			return nil, fmt.Errorf("%w: no variant with tag %d", ErrUnexpectedType, tag)
		}
		if variant.kind != variantNewtype {
			return nil, fmt.Errorf("%w: variant %d carries no payload", ErrUnexpectedType, tag)
		}
		v, err := variant.inner.decodeValue(d)
		if err != nil {
			return nil, err
		}
		return EnumValue{Tag: tag, Value: v}, nil
	}
	return nil, typeErr("variant tag or array", tok.Kind)
}

// tokenTag narrows an integer token to the tag domain.
func tokenTag(tok msgpack.Token) (uint32, bool) {
	switch tok.Kind {
	case msgpack.TokenUint:
		if tok.Uint > math.MaxUint32 {
			return 0, false
		}
		return uint32(tok.Uint), true
	case msgpack.TokenInt:
		if tok.Int < 0 || tok.Int > math.MaxUint32 {
			return 0, false
		}
		return uint32(tok.Int), true
	}
	return 0, false
}

// decodeUntagged tries each variant in declared order against a copy of the
// cursor; the first success is adopted. A shape mismatch moves to the next
// candidate, anything harder aborts the whole decode.
func (s *enumSchema) decodeUntagged(d *msgpack.Decoder) (any, error) {
	for _, variant := range s.variants {
		fork := *d
		v, err := variant.inner.decodeValue(&fork)
		if err == nil {
			*d = fork
			return EnumValue{Tag: variant.tag, Value: v}, nil
		}
		if !errors.Is(err, ErrUnexpectedType) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no variant matched", ErrUnexpectedType)
}
