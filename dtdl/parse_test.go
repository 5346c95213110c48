package dtdl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/markdown"
	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootMidLeaf = `[
  {
    "@context": "dtmi:dtdl:context;3",
    "@id": "dtmi:example:Root;1",
    "@type": "Interface"
  },
  {
    "@context": "dtmi:dtdl:context;3",
    "@id": "dtmi:example:Mid;1",
    "@type": "Interface",
    "extends": "dtmi:example:Root;1",
    "contents": [
      {"@type": "Property", "name": "serial", "schema": "string", "writable": true}
    ]
  },
  {
    "@context": ["dtmi:dtdl:context;3", "dtmi:dtdl:extension:quantitativeTypes;1"],
    "@id": "dtmi:example:Leaf;1",
    "@type": "Interface",
    "displayName": {"en": "Leaf", "sv": "Löv"},
    "description": "The leaf.",
    "extends": ["dtmi:example:Mid;1"],
    "contents": [
      {
        "@type": "Relationship",
        "name": "connectsTo",
        "displayName": "Connects to",
        "target": "dtmi:example:Root;1",
        "maxMultiplicity": 1,
        "properties": [
          {"@type": "Property", "name": "since", "schema": "dateTime"}
        ]
      },
      {"@type": ["Telemetry", "Temperature"], "name": "temp", "schema": "double", "unit": "degreeCelsius"},
      {"@type": "Component", "name": "sub", "schema": "dtmi:example:Root;1"}
    ]
  }
]`

func id(s string) dtmi.ID {
	return dtmi.MustParse(s)
}

func parse(t *testing.T, docs ...string) (*ontology.Ontology, error) {
	t.Helper()
	in := make([]Document, len(docs))
	for i, d := range docs {
		in[i] = Document{Source: filepath.Join("models", "doc"+string(rune('a'+i))+".json"), Data: []byte(d)}
	}
	return Parse(in, nil)
}

func mustParse(t *testing.T, docs ...string) *ontology.Ontology {
	t.Helper()
	ont, err := parse(t, docs...)
	require.NoError(t, err)
	return ont
}

func iface(t *testing.T, ont *ontology.Ontology, s string) *ontology.Interface {
	t.Helper()
	i, err := ont.LookupInterface(id(s))
	require.NoError(t, err)
	return i
}

func TestParseRootMidLeaf(t *testing.T) {
	ont := mustParse(t, rootMidLeaf)
	require.Len(t, ont.Interfaces(), 3)

	leaf := iface(t, ont, "dtmi:example:Leaf;1")
	mid := iface(t, ont, "dtmi:example:Mid;1")
	require.Len(t, leaf.Extends, 1)
	assert.Same(t, mid, leaf.Extends[0])
	assert.Equal(t, "Leaf", leaf.DisplayName.Preferred())
	assert.Equal(t, "The leaf.", leaf.Description.Preferred())

	// component skipped, semantic type ignored, serial inherited
	var names []string
	for _, c := range leaf.Contents {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"connectsTo", "temp", "serial"}, names)

	serial := leaf.Contents[2]
	assert.Equal(t, mid.ID(), serial.DefinedIn)
	assert.True(t, serial.Writable())
	assert.Equal(t, "string", serial.Schema().Primitive)

	rel := leaf.Contents[0].Relationship
	require.NotNil(t, rel)
	require.NotNil(t, rel.Target)
	assert.Equal(t, "dtmi:example:Root;1", rel.Target.String())
	assert.Nil(t, rel.MinMultiplicity)
	require.NotNil(t, rel.MaxMultiplicity)
	assert.Equal(t, 1, *rel.MaxMultiplicity)
	require.Len(t, rel.Properties, 1)
	assert.Equal(t, "dateTime", rel.Properties[0].Schema().Primitive)
	assert.Equal(t, "Connects to", leaf.Contents[0].DisplayName.Preferred())

	assert.Equal(t, ontology.KindTelemetry, leaf.Contents[1].Kind)
}

func TestParseNamedAndInlineSchemas(t *testing.T) {
	doc := `{
	  "@context": "dtmi:dtdl:context;2",
	  "@id": "dtmi:example:Thermostat;1",
	  "@type": "Interface",
	  "schemas": [
	    {
	      "@id": "dtmi:example:Mode;1",
	      "@type": "Enum",
	      "valueSchema": "integer",
	      "enumValues": [
	        {"name": "A", "enumValue": 1},
	        {"name": "B", "enumValue": 2}
	      ]
	    }
	  ],
	  "contents": [
	    {
	      "@type": "Property",
	      "name": "modes",
	      "schema": {
	        "@type": "Map",
	        "mapKey": {"name": "zone", "schema": "string"},
	        "mapValue": {"name": "modes", "schema": {"@type": "Array", "elementSchema": "dtmi:example:Mode;1"}}
	      }
	    },
	    {
	      "@type": "Command",
	      "name": "reboot",
	      "request": {"name": "delay", "schema": "duration"},
	      "response": {"name": "status", "schema": {"@type": "Object", "fields": [{"name": "ok", "schema": "boolean"}]}}
	    }
	  ]
	}`
	ont := mustParse(t, doc)

	mode, err := ont.Lookup(id("dtmi:example:Mode;1"))
	require.NoError(t, err)
	assert.Equal(t, ontology.EntitySchema, mode.Kind())

	thermostat := iface(t, ont, "dtmi:example:Thermostat;1")
	require.Len(t, thermostat.Schemas, 1)
	assert.Equal(t, []ontology.EnumValue{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}}, thermostat.Schemas[0].EnumValues)

	modes := thermostat.Contents[0].Schema()
	require.NotNil(t, modes)
	assert.Contains(t, modes.ID().String(), ":"+dtmi.SchemaSegment+":")
	assert.Same(t, thermostat.Schemas[0], modes.MapValue.Schema.Element)

	formatted, err := markdown.FormatSchema(modes)
	require.NoError(t, err)
	assert.Equal(t, "map (string->array (enum (A, B)))", formatted)

	cmd := thermostat.Contents[1].Command
	require.NotNil(t, cmd)
	assert.Equal(t, "delay", cmd.Request.Name)
	assert.Equal(t, "duration", cmd.Request.Schema.Primitive)
	require.Len(t, cmd.Response.Schema.Fields, 1)
	assert.Equal(t, "ok", cmd.Response.Schema.Fields[0].Name)
}

func TestParseSchemaReferenceAcrossDocuments(t *testing.T) {
	user := `{
	  "@context": "dtmi:dtdl:context;3",
	  "@id": "dtmi:example:User;1",
	  "@type": "Interface",
	  "contents": [{"@type": "Property", "name": "list", "schema": "dtmi:example:List;1"}]
	}`
	owner := `{
	  "@context": "dtmi:dtdl:context;3",
	  "@id": "dtmi:example:Owner;1",
	  "@type": "Interface",
	  "schemas": [{"@id": "dtmi:example:List;1", "@type": "Array", "elementSchema": "long"}]
	}`
	ont := mustParse(t, user, owner)

	list := iface(t, ont, "dtmi:example:User;1").Contents[0].Schema()
	require.NotNil(t, list)
	assert.Equal(t, ontology.SchemaArray, list.Type)
	assert.Equal(t, "long", list.Element.Primitive)
}

func TestParseSelfReferentialSchemaIsRenderFailure(t *testing.T) {
	doc := `{
	  "@context": "dtmi:dtdl:context;3",
	  "@id": "dtmi:example:Tree;1",
	  "@type": "Interface",
	  "schemas": [{"@id": "dtmi:example:Nodes;1", "@type": "Array", "elementSchema": "dtmi:example:Nodes;1"}],
	  "contents": [{"@type": "Property", "name": "nodes", "schema": "dtmi:example:Nodes;1"}]
	}`
	ont := mustParse(t, doc)

	_, err := markdown.FormatSchema(iface(t, ont, "dtmi:example:Tree;1").Contents[0].Schema())
	assert.True(t, errors.IsRenderError(err))
}

func TestParseInlineExtends(t *testing.T) {
	doc := `{
	  "@context": "dtmi:dtdl:context;3",
	  "@id": "dtmi:example:Child;1",
	  "@type": "Interface",
	  "extends": {
	    "@id": "dtmi:example:InlineParent;1",
	    "@type": "Interface",
	    "contents": [{"@type": "Telemetry", "name": "level", "schema": "float"}]
	  }
	}`
	ont := mustParse(t, doc)

	child := iface(t, ont, "dtmi:example:Child;1")
	parent := iface(t, ont, "dtmi:example:InlineParent;1")
	require.Len(t, child.Extends, 1)
	assert.Same(t, parent, child.Extends[0])
	require.Len(t, child.Contents, 1)
	assert.Equal(t, parent.ID(), child.Contents[0].DefinedIn)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		sentinel error
		contains string
	}{
		{
			name:     "malformed json",
			doc:      `{"@context": `,
			sentinel: errors.ErrInvalidModel,
			contains: "doca.json",
		},
		{
			name:     "missing context",
			doc:      `{"@id": "dtmi:example:A;1", "@type": "Interface"}`,
			sentinel: errors.ErrInvalidModel,
			contains: "@context",
		},
		{
			name:     "unsupported context",
			doc:      `{"@context": "dtmi:dtdl:context;4", "@id": "dtmi:example:A;1", "@type": "Interface"}`,
			sentinel: errors.ErrInvalidModel,
			contains: "not supported",
		},
		{
			name:     "not an interface",
			doc:      `{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Object"}`,
			sentinel: errors.ErrInvalidModel,
			contains: "not an Interface",
		},
		{
			name:     "bad identifier",
			doc:      `{"@context": "dtmi:dtdl:context;3", "@id": "urn:example:A", "@type": "Interface"}`,
			sentinel: errors.ErrInvalidModel,
			contains: "urn:example:A",
		},
		{
			name: "unknown content type",
			doc: `{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface",
			       "contents": [{"@type": "Gadget", "name": "g"}]}`,
			sentinel: errors.ErrInvalidModel,
			contains: "dtmi:example:A;1",
		},
		{
			name: "duplicate content name",
			doc: `{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface",
			       "contents": [{"@type": "Property", "name": "p", "schema": "string"},
			                    {"@type": "Telemetry", "name": "p", "schema": "string"}]}`,
			sentinel: errors.ErrInvalidModel,
			contains: "duplicate",
		},
		{
			name:     "missing extends target",
			doc:      `{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface", "extends": "dtmi:example:Gone;1"}`,
			sentinel: errors.ErrNotFound,
			contains: "dtmi:example:Gone;1",
		},
		{
			name: "missing schema reference",
			doc: `{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface",
			       "contents": [{"@type": "Property", "name": "p", "schema": "dtmi:example:Nope;1"}]}`,
			sentinel: errors.ErrNotFound,
			contains: "dtmi:example:Nope;1",
		},
		{
			name: "missing relationship target",
			doc: `{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:Room;1", "@type": "Interface",
			       "contents": [{"@type": "Relationship", "name": "isPartOf", "target": "dtmi:example:NoSuchThing;1"}]}`,
			sentinel: errors.ErrNotFound,
			contains: "isPartOf",
		},
		{
			name: "extends cycle",
			doc: `[{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface", "extends": "dtmi:example:B;1"},
			       {"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:B;1", "@type": "Interface", "extends": "dtmi:example:A;1"}]`,
			sentinel: errors.ErrPlacement,
		},
		{
			name: "duplicate interface",
			doc: `[{"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface"},
			       {"@context": "dtmi:dtdl:context;3", "@id": "dtmi:example:A;1", "@type": "Interface"}]`,
			sentinel: errors.ErrInvalidModel,
			contains: "duplicate identifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(rootMidLeaf), 0o644))

	ont, err := Load([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, ont.Len())

	_, err = Load([]string{filepath.Join(dir, "missing.json")}, nil)
	assert.Error(t, err)
}
