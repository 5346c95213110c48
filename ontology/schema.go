package ontology

import (
	"github.com/RealEstateCore/DTDL2MD/dtmi"
)

// SchemaType is the closed set of schema variants.
type SchemaType int

const (
	SchemaPrimitive SchemaType = iota
	SchemaArray
	SchemaMap
	SchemaEnum
	SchemaObject
)

func (t SchemaType) String() string {
	switch t {
	case SchemaPrimitive:
		return "primitive"
	case SchemaArray:
		return "array"
	case SchemaMap:
		return "map"
	case SchemaEnum:
		return "enum"
	case SchemaObject:
		return "object"
	default:
		return "unknown"
	}
}

// Primitive schema names. DTDL v2 defines the first block, v3 adds the second,
// the geospatial names are standard schemas available in both.
var primitives = map[string]bool{
	"boolean": true, "date": true, "dateTime": true, "double": true, "duration": true,
	"float": true, "integer": true, "long": true, "string": true, "time": true,

	"byte": true, "bytes": true, "decimal": true, "short": true, "uuid": true,
	"unsignedByte": true, "unsignedShort": true, "unsignedInteger": true, "unsignedLong": true,

	"point": true, "lineString": true, "polygon": true,
	"multiPoint": true, "multiLineString": true, "multiPolygon": true,
}

// IsPrimitive reports whether name is a primitive or standard geospatial schema.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// Schema is the value type of a property, telemetry, command payload or
// relationship property. Which fields are set depends on Type.
type Schema struct {
	id          dtmi.ID
	Type        SchemaType
	DisplayName Localized
	Description Localized

	// Primitive is the canonical name for SchemaPrimitive.
	Primitive string

	// Element is the item schema for SchemaArray.
	Element *Schema

	// MapKey and MapValue are set for SchemaMap.
	MapKey   *SchemaField
	MapValue *SchemaField

	// ValueSchema is the primitive underlying an enum (integer or string).
	ValueSchema string
	// EnumValues are ordered for SchemaEnum.
	EnumValues []EnumValue

	// Fields are set for SchemaObject.
	Fields []*SchemaField
}

// SchemaField is a named, schema-typed slot: an object field or a map key/value.
type SchemaField struct {
	Name        string
	DisplayName Localized
	Schema      *Schema
}

// EnumValue is one named value of an enum.
type EnumValue struct {
	Name        string
	DisplayName Localized
	// Value is the raw enum value rendered as a string.
	Value string
}

func (s *Schema) ID() dtmi.ID      { return s.id }
func (s *Schema) Kind() EntityKind { return EntitySchema }

// primitiveID returns the identifier DTDL assigns to a primitive schema.
func primitiveID(name string) dtmi.ID {
	return dtmi.MustParse("dtmi:dtdl:instance:Schema:" + name + ";2")
}

// NewPrimitive returns a primitive schema, or nil if name is not a primitive.
func NewPrimitive(name string) *Schema {
	if !IsPrimitive(name) {
		return nil
	}
	return &Schema{id: primitiveID(name), Type: SchemaPrimitive, Primitive: name}
}

// NewArray returns an array schema.
func NewArray(id dtmi.ID, element *Schema) *Schema {
	return &Schema{id: id, Type: SchemaArray, Element: element}
}

// NewMap returns a map schema.
func NewMap(id dtmi.ID, key, value *SchemaField) *Schema {
	return &Schema{id: id, Type: SchemaMap, MapKey: key, MapValue: value}
}

// NewEnum returns an enum schema with string values named after values.
func NewEnum(id dtmi.ID, valueSchema string, names ...string) *Schema {
	values := make([]EnumValue, len(names))
	for i, n := range names {
		values[i] = EnumValue{Name: n, Value: n}
	}
	return &Schema{id: id, Type: SchemaEnum, ValueSchema: valueSchema, EnumValues: values}
}

// NewObject returns an object schema.
func NewObject(id dtmi.ID, fields ...*SchemaField) *Schema {
	return &Schema{id: id, Type: SchemaObject, Fields: fields}
}

// NewSchema returns an empty schema of the given type. The loader fills in
// the variant fields after construction so that named schemas can reference
// each other.
func NewSchema(id dtmi.ID, t SchemaType) *Schema {
	return &Schema{id: id, Type: t}
}
