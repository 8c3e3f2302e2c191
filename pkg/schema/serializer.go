package schema

import (
	"fmt"

	"github.com/Idein/msgpack-schema/pkg/msgpack"
)

// Serialize encodes an instance under its schema. Encoding is total: a value
// conforming to the schema's instance model cannot fail to serialize.
// Serialize panics on a non-conforming instance.
func Serialize(v any, s Schema) []byte {
	e := msgpack.NewEncoder()
	s.encodeValue(e, v)
	return e.Bytes()
}

func instanceFields(v any, n int, what string) []any {
	fields, ok := v.([]any)
	if !ok || len(fields) != n {
		panic(fmt.Sprintf("schema: %s instance must be a %d-element []any, got %T", what, n, v))
	}
	return fields
}

func (boolSchema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteBool(v.(bool))
}

func (intSchema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteInt(v.(int64))
}

func (uintSchema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteUint(v.(uint64))
}

func (float32Schema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteFloat32(v.(float32))
}

func (float64Schema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteFloat64(v.(float64))
}

func (stringSchema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteString(v.(string))
}

func (binarySchema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteBinary(v.([]byte))
}

func (anySchema) encodeValue(e *msgpack.Encoder, v any) {
	e.WriteValue(v.(msgpack.Value))
}

func (s optionSchema) encodeValue(e *msgpack.Encoder, v any) {
	if v == nil {
		e.WriteNil()
		return
	}
	s.inner.encodeValue(e, v)
}

func (s arraySchema) encodeValue(e *msgpack.Encoder, v any) {
	elems, ok := v.([]any)
	if !ok {
		panic(fmt.Sprintf("schema: array instance must be []any, got %T", v))
	}
	e.WriteArrayHeader(uint32(len(elems)))
	for _, elem := range elems {
		s.elem.encodeValue(e, elem)
	}
}

func (s newtypeSchema) encodeValue(e *msgpack.Encoder, v any) {
	s.inner.encodeValue(e, v)
}

func (s tupleSchema) encodeValue(e *msgpack.Encoder, v any) {
	elems := instanceFields(v, len(s.elems), "tuple")
	e.WriteArrayHeader(uint32(len(s.elems)))
	for i, elem := range s.elems {
		elem.encodeValue(e, elems[i])
	}
}

func (s *namedStructSchema) encodeValue(e *msgpack.Encoder, v any) {
	fields := instanceFields(v, len(s.fields), "struct")
	e.WriteMapHeader(uint32(s.pairCount(fields)))
	s.writePairs(e, fields)
}

// pairCount returns the number of key-value pairs the instance contributes,
// counting through flatten fields and skipping absent optionals.
func (s *namedStructSchema) pairCount(fields []any) int {
	n := 0
	for i, f := range s.fields {
		switch {
		case f.flatten:
			inner := f.schema.(*namedStructSchema)
			n += inner.pairCount(instanceFields(fields[i], len(inner.fields), "flattened struct"))
		case f.optional && fields[i] == nil:
		default:
			n++
		}
	}
	return n
}

func (s *namedStructSchema) writePairs(e *msgpack.Encoder, fields []any) {
	for i, f := range s.fields {
		switch {
		case f.flatten:
			inner := f.schema.(*namedStructSchema)
			inner.writePairs(e, instanceFields(fields[i], len(inner.fields), "flattened struct"))
		case f.optional && fields[i] == nil:
		default:
			e.WriteUint(uint64(f.tag))
			f.schema.encodeValue(e, fields[i])
		}
	}
}

func (s untaggedStructSchema) encodeValue(e *msgpack.Encoder, v any) {
	fields := instanceFields(v, len(s.fields), "untagged struct")
	e.WriteArrayHeader(uint32(len(s.fields)))
	for i, f := range s.fields {
		f.encodeValue(e, fields[i])
	}
}

func (s *enumSchema) encodeValue(e *msgpack.Encoder, v any) {
	ev, ok := v.(EnumValue)
	if !ok {
		panic(fmt.Sprintf("schema: enum instance must be EnumValue, got %T", v))
	}
	variant, ok := s.variantByTag(ev.Tag)
	if !ok {
		panic(fmt.Sprintf("schema: enum has no variant with tag %d", ev.Tag))
	}
	if s.untagged {
		variant.inner.encodeValue(e, ev.Value)
		return
	}
	switch variant.kind {
	case variantUnit, variantEmptyTuple:
		e.WriteUint(uint64(variant.tag))
	case variantNewtype:
		e.WriteArrayHeader(2)
		e.WriteUint(uint64(variant.tag))
		variant.inner.encodeValue(e, ev.Value)
	}
}
