// Package schema implements schema-directed MessagePack encoding and
// decoding. A Schema describes one target shape: a struct with small-integer
// field tags, a transparent newtype, a positional tuple, or a tagged sum
// type. Serialize walks a schema and a conforming instance to produce the
// compact tagged encoding; Deserialize walks bytes under the same schema,
// tolerating unknown keys and resolving untagged sum types by trial decoding.
//
// Instances are dynamic: struct and tuple instances are []any slices in
// declared field order, enum instances are EnumValue, and leaves map to the
// obvious Go types (Int to int64, String to string, Any to msgpack.Value,
// and so on). An absent optional field is a nil slot.
//
// Schema constructors validate their shape eagerly and panic on authoring
// errors such as duplicate tags. A constructed Schema is immutable and safe
// for concurrent use.
package schema

import (
	"fmt"

	"github.com/Idein/msgpack-schema/pkg/msgpack"
)

// Schema describes one encodable shape. Implementations are built with the
// constructors in this package; the interface is sealed.
type Schema interface {
	encodeValue(e *msgpack.Encoder, v any)
	decodeValue(d *msgpack.Decoder) (any, error)
}

type (
	boolSchema    struct{}
	intSchema     struct{}
	uintSchema    struct{}
	float32Schema struct{}
	float64Schema struct{}
	stringSchema  struct{}
	binarySchema  struct{}
	anySchema     struct{}

	optionSchema struct{ inner Schema }
	arraySchema  struct{ elem Schema }

	newtypeSchema struct{ inner Schema }

	tupleSchema struct{ elems []Schema }

	namedStructSchema struct{ fields []FieldDef }

	untaggedStructSchema struct{ fields []Schema }

	enumSchema struct {
		variants []VariantDef
		untagged bool
	}
)

// Bool describes a boolean. Instances are Go bool.
func Bool() Schema { return boolSchema{} }

// Int describes a signed integer. Instances are int64; any wire width is
// accepted on decode.
func Int() Schema { return intSchema{} }

// Uint describes an unsigned integer. Instances are uint64.
func Uint() Schema { return uintSchema{} }

// Float32 describes a single-precision float. Instances are float32.
func Float32() Schema { return float32Schema{} }

// Float64 describes a double-precision float. Instances are float64.
func Float64() Schema { return float64Schema{} }

// String describes a string. Instances are Go string.
func String() Schema { return stringSchema{} }

// Binary describes a byte blob. Instances are []byte.
func Binary() Schema { return binarySchema{} }

// Any describes an arbitrary object with no fixed shape. Instances are
// msgpack.Value; decode always succeeds on well-formed input.
func Any() Schema { return anySchema{} }

// Option describes a possibly-nil value. An instance is either nil or an
// instance of the inner schema; nil encodes as the nil object.
func Option(inner Schema) Schema { return optionSchema{inner: inner} }

// Array describes a homogeneous sequence. Instances are []any of elem
// instances.
func Array(elem Schema) Schema { return arraySchema{elem: elem} }

// Newtype describes a single-field wrapper encoded transparently as its
// inner value, with no wrapper of any kind on the wire. Instances are the
// inner schema's instances directly.
func Newtype(inner Schema) Schema { return newtypeSchema{inner: inner} }

// Tuple describes a positional product of two or more elements, encoded as a
// fixed-length array. Instances are []any in element order.
func Tuple(elems ...Schema) Schema {
	if len(elems) < 2 {
		panic("schema: a tuple requires at least two elements")
	}
	return tupleSchema{elems: elems}
}

// FieldDef declares one field of a tagged struct. Build with Field,
// OptionalField, or FlattenField.
type FieldDef struct {
	tag      uint32
	optional bool
	flatten  bool
	schema   Schema
}

// Field declares a required field carrying the given tag.
func Field(tag uint32, s Schema) FieldDef {
	return FieldDef{tag: tag, schema: s}
}

// OptionalField declares a field whose absence is legal. An absent field
// contributes no key-value pair to the encoded map and binds nil on decode.
func OptionalField(tag uint32, s Schema) FieldDef {
	return FieldDef{tag: tag, optional: true, schema: s}
}

// FlattenField declares a field whose inner tagged struct's pairs are
// spliced directly into the containing map instead of nesting a sub-map.
// The schema must be a NamedStruct.
func FlattenField(s Schema) FieldDef {
	return FieldDef{flatten: true, schema: s}
}

// NamedStruct describes a struct whose fields carry small non-negative
// integer tags, encoded as a map from tag to field value. Instances are
// []any in declared field order; a flatten slot holds the inner struct's
// []any instance.
//
// NamedStruct panics if a tag repeats within the struct, including tags
// contributed through flatten fields, or if a flatten field's schema is not
// itself a NamedStruct.
func NamedStruct(fields ...FieldDef) Schema {
	s := &namedStructSchema{fields: fields}
	s.checkTags(make(map[uint32]bool))
	return s
}

func (s *namedStructSchema) checkTags(seen map[uint32]bool) {
	for _, f := range s.fields {
		if f.flatten {
			inner, ok := f.schema.(*namedStructSchema)
			if !ok {
				panic("schema: a flatten field requires a NamedStruct schema")
			}
			inner.checkTags(seen)
			continue
		}
		if seen[f.tag] {
			panic(fmt.Sprintf("schema: duplicate field tag %d", f.tag))
		}
		seen[f.tag] = true
	}
}

// UntaggedStruct describes a struct encoded positionally as a fixed-length
// array, with no tags and no map wrapper. Instances are []any in declared
// field order.
func UntaggedStruct(fields ...Schema) Schema {
	return untaggedStructSchema{fields: fields}
}

type variantKind uint8

const (
	variantUnit variantKind = iota
	variantEmptyTuple
	variantNewtype
)

// VariantDef declares one variant of an enum. Build with UnitVariant,
// EmptyTupleVariant, or NewtypeVariant.
type VariantDef struct {
	tag   uint32
	kind  variantKind
	inner Schema
}

// UnitVariant declares a payload-free variant encoded as its bare tag.
func UnitVariant(tag uint32) VariantDef {
	return VariantDef{tag: tag, kind: variantUnit}
}

// EmptyTupleVariant declares a zero-arity tuple variant. It encodes
// identically to a unit variant.
func EmptyTupleVariant(tag uint32) VariantDef {
	return VariantDef{tag: tag, kind: variantEmptyTuple}
}

// NewtypeVariant declares a variant carrying one inner value, encoded as the
// two-element array [tag, inner].
func NewtypeVariant(tag uint32, inner Schema) VariantDef {
	return VariantDef{tag: tag, kind: variantNewtype, inner: inner}
}

// EnumValue is an instance of an enum schema: the active variant's tag plus
// its payload. Value is nil for unit and empty-tuple variants, and the inner
// schema's instance for newtype variants.
type EnumValue struct {
	Tag   uint32
	Value any
}

// Enum describes a tagged sum type. A unit or empty-tuple variant encodes as
// its bare integer tag; a newtype variant encodes as [tag, inner]. Instances
// are EnumValue.
//
// Enum panics if a tag repeats across variants.
func Enum(variants ...VariantDef) Schema {
	checkVariantTags(variants)
	return &enumSchema{variants: variants}
}

// UntaggedEnum describes a sum type whose active variant is encoded as its
// inner value alone; the tag never reaches the wire. Decoding tries each
// variant in declared order against an independent cursor and accepts the
// first that succeeds. Instances are EnumValue.
//
// UntaggedEnum panics unless every variant is a newtype variant, or if a tag
// repeats.
func UntaggedEnum(variants ...VariantDef) Schema {
	checkVariantTags(variants)
	for _, v := range variants {
		if v.kind != variantNewtype {
			panic(fmt.Sprintf("schema: untagged enum variant %d must carry a newtype payload", v.tag))
		}
	}
	return &enumSchema{variants: variants, untagged: true}
}

func checkVariantTags(variants []VariantDef) {
	seen := make(map[uint32]bool, len(variants))
	for _, v := range variants {
		if seen[v.tag] {
			panic(fmt.Sprintf("schema: duplicate variant tag %d", v.tag))
		}
		seen[v.tag] = true
	}
}

func (s *enumSchema) variantByTag(tag uint32) (VariantDef, bool) {
	for _, v := range s.variants {
		if v.tag == tag {
			return v, true
		}
	}
	return VariantDef{}, false
}
