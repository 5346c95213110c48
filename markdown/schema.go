package markdown

import (
	"strings"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/ontology"
)

// MaxSchemaDepth bounds schema nesting. DTDL caps complex schema nesting at
// 5 levels, so only a graph the loader could not have produced from valid
// models reaches it. Cycles are caught separately.
const MaxSchemaDepth = 64

// FormatSchema renders a schema as a short display string:
//
//	string
//	array (double)
//	map (string->array (enum (A, B)))
//
// Objects render as their identifier. A nil schema renders as "".
// A schema that contains itself, or nests deeper than MaxSchemaDepth, fails
// with errors.ErrRender naming the offending schema.
func FormatSchema(s *ontology.Schema) (string, error) {
	var b strings.Builder
	if err := writeSchema(&b, s, make(map[dtmi.ID]bool), 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeSchema(b *strings.Builder, s *ontology.Schema, path map[dtmi.ID]bool, depth int) error {
	if s == nil {
		return nil
	}
	id := s.ID()
	if depth > MaxSchemaDepth {
		return errors.NewRenderError(id.String(), "nested deeper than %d", MaxSchemaDepth)
	}
	if !id.IsZero() {
		if path[id] {
			return errors.NewRenderError(id.String(), "schema cycle")
		}
		path[id] = true
		defer delete(path, id)
	}

	switch s.Type {
	case ontology.SchemaPrimitive:
		b.WriteString(s.Primitive)

	case ontology.SchemaArray:
		b.WriteString("array (")
		if err := writeSchema(b, s.Element, path, depth+1); err != nil {
			return err
		}
		b.WriteString(")")

	case ontology.SchemaMap:
		b.WriteString("map (")
		if s.MapKey != nil {
			if err := writeSchema(b, s.MapKey.Schema, path, depth+1); err != nil {
				return err
			}
		}
		b.WriteString("->")
		if s.MapValue != nil {
			if err := writeSchema(b, s.MapValue.Schema, path, depth+1); err != nil {
				return err
			}
		}
		b.WriteString(")")

	case ontology.SchemaEnum:
		names := make([]string, len(s.EnumValues))
		for i, v := range s.EnumValues {
			names[i] = v.Name
		}
		b.WriteString("enum (")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(")")

	default:
		// Objects and anything unrecognized fall back to the identifier.
		b.WriteString(id.String())
	}
	return nil
}
