package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedStructRejectsDuplicateTags(t *testing.T) {
	assert.PanicsWithValue(t, "schema: duplicate field tag 1", func() {
		NamedStruct(Field(0, Int()), Field(1, String()), Field(1, Bool()))
	})
}

func TestNamedStructRejectsDuplicateTagsThroughFlatten(t *testing.T) {
	inner := NamedStruct(Field(1, String()))
	assert.Panics(t, func() {
		NamedStruct(Field(1, Int()), FlattenField(inner))
	})
}

func TestFlattenRequiresNamedStruct(t *testing.T) {
	assert.Panics(t, func() {
		NamedStruct(FlattenField(UntaggedStruct(Int(), Int())))
	})
	assert.Panics(t, func() {
		NamedStruct(FlattenField(String()))
	})
}

func TestTupleRequiresTwoElements(t *testing.T) {
	assert.Panics(t, func() { Tuple(Int()) })
	assert.Panics(t, func() { Tuple() })
	assert.NotPanics(t, func() { Tuple(Int(), Int()) })
}

func TestEnumRejectsDuplicateVariantTags(t *testing.T) {
	assert.PanicsWithValue(t, "schema: duplicate variant tag 2", func() {
		Enum(UnitVariant(2), NewtypeVariant(2, Int()))
	})
}

func TestUntaggedEnumRequiresNewtypeVariants(t *testing.T) {
	assert.Panics(t, func() {
		UntaggedEnum(NewtypeVariant(0, String()), UnitVariant(1))
	})
	assert.NotPanics(t, func() {
		UntaggedEnum(NewtypeVariant(0, String()), NewtypeVariant(1, Int()))
	})
}

func TestSerializePanicsOnNonConformingInstance(t *testing.T) {
	s := NamedStruct(Field(0, Int()))
	assert.Panics(t, func() { Serialize("not a struct", s) })
	assert.Panics(t, func() { Serialize([]any{int64(1), int64(2)}, s) })
	assert.Panics(t, func() { Serialize(EnumValue{Tag: 9}, Enum(UnitVariant(0))) })
}

func TestSchemasAreReusable(t *testing.T) {
	s := NamedStruct(Field(0, Uint()), OptionalField(2, String()))
	first := Serialize([]any{uint64(42), "John"}, s)
	second := Serialize([]any{uint64(42), "John"}, s)
	require.Equal(t, first, second)

	v1, err := Deserialize(first, s)
	require.NoError(t, err)
	v2, err := Deserialize(second, s)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}
