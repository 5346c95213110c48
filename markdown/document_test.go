package markdown

import (
	"strings"
	"testing"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, ont *ontology.Ontology, name string) string {
	t.Helper()
	r := NewRenderer(ont, ontology.NewHierarchy(ont, 0))
	doc, err := r.Render(lookup(t, ont, name))
	require.NoError(t, err)
	return doc
}

func TestRenderLeafDocument(t *testing.T) {
	ont := rootMidLeaf(t)

	want := `[Root](../Root.md) > [Mid](Mid.md) > Leaf

# Leaf

The leaf device.

**Display name:** Leaf

**DTMI:** dtmi:example:Leaf;1

---

## Relationships

| Name | Display name | Description | Multiplicity | Target | Properties | Writable |
|---|---|---|---|---|---|---|
| connectsTo | Connects to |  | 0-Infinity | [Root](../Root.md) |  | false |

## Properties

### Inherited Properties

- [Mid](Mid.md): serial
`
	assert.Equal(t, want, render(t, ont, "Leaf"))
}

func TestRenderRootDocument(t *testing.T) {
	ont := rootMidLeaf(t)

	want := `# Root

**DTMI:** dtmi:example:Root;1

---

## Child interfaces

- [Mid](Mid/Mid.md)

## Target Of

### Direct

- [Leaf.connectsTo](Mid/Leaf.md)
`
	assert.Equal(t, want, render(t, ont, "Root"))
}

func TestRenderMidOmitsDescendantReferences(t *testing.T) {
	doc := render(t, rootMidLeaf(t), "Mid")
	assert.Contains(t, doc, "[Root](../Root.md) > Mid\n")
	assert.Contains(t, doc, "## Child interfaces\n\n- [Leaf](Leaf.md)\n")
	assert.NotContains(t, doc, "connectsTo")
	assert.NotContains(t, doc, "## Target Of")
}

func TestRenderAllSections(t *testing.T) {
	lo, hi := 1, 3
	hasPart := ontology.NewRelationship("hasPart", examplePtr("Space"))
	hasPart.Relationship.MinMultiplicity = &lo
	hasPart.Relationship.MaxMultiplicity = &hi
	hasPart.Relationship.Writable = true
	hasPart.Relationship.Properties = []*ontology.Content{
		ontology.NewProperty("since", ontology.NewPrimitive("date"), false),
		ontology.NewProperty("share", ontology.NewPrimitive("double"), false),
	}
	hasPart.Description = ontology.Localized{"en": "Parts of\nthis | space"}

	external := dtmi.MustParse("dtmi:other:Thing;1")
	reset := ontology.NewCommand("reset",
		&ontology.CommandPayload{Name: "delay", Schema: ontology.NewPrimitive("duration")}, nil)

	ont := build(t,
		declare("Space").with(
			hasPart,
			ontology.NewRelationship("linked", &external),
			ontology.NewRelationship("any", nil),
			ontology.NewProperty("name", ontology.NewPrimitive("string"), true),
			ontology.NewTelemetry("occupancy", ontology.NewPrimitive("integer")),
			reset,
		),
		ifaceDecl{iface: ontology.NewInterface(external)},
		declare("Room", "Space").with(
			ontology.NewTelemetry("temperature", ontology.NewPrimitive("double")),
		),
	)

	space := render(t, ont, "Space")
	assert.Contains(t, space,
		"| hasPart |  | Parts of this \\| space | 1-3 | [Space](Space.md) | since (date), share (double) | true |\n")
	assert.Contains(t, space, "| linked |  |  | 0-Infinity | [Thing](../Thing.md) |  | false |\n")
	assert.Contains(t, space, "| any |  |  | 0-Infinity |  |  | false |\n")
	assert.Contains(t, space, "| Name | Display name | Description | Schema | Writable |\n|---|---|---|---|---|\n| name |  |  | string | true |\n")
	assert.Contains(t, space, "## Telemetries\n\n| Name | Display name | Description | Schema |\n|---|---|---|---|\n| occupancy |  |  | integer |\n")
	assert.Contains(t, space, "## Commands\n\n| Name | Display name | Description | Request schema | Response schema |\n|---|---|---|---|---|\n| reset |  |  | duration |  |\n")
	assert.Contains(t, space, "## Target Of\n\n### Direct\n\n- [Space.hasPart](Space.md)\n")

	// section order
	order := []string{"## Child interfaces", "## Relationships", "## Properties", "## Telemetries", "## Commands", "## Target Of"}
	last := -1
	for _, h := range order {
		idx := strings.Index(space, h)
		require.GreaterOrEqual(t, idx, 0, h)
		assert.Greater(t, idx, last, h)
		last = idx
	}

	room := render(t, ont, "Room")
	assert.Contains(t, room, "### Inherited Relationships\n\n- [Space](Space.md): any, hasPart, linked\n")
	assert.Contains(t, room, "## Telemetries\n\n| Name | Display name | Description | Schema |\n|---|---|---|---|\n| temperature |  |  | double |\n\n### Inherited Telemetries\n\n- [Space](Space.md): occupancy\n")
	assert.Contains(t, room, "### Inherited Commands\n\n- [Space](Space.md): reset\n")
	assert.Contains(t, room, "## Target Of\n\n### Inherited\n\n- [Space.hasPart](Space.md)\n")
}

func TestRenderFailsOnSchemaCycle(t *testing.T) {
	loop := ontology.NewArray(exampleID("Loop"), nil)
	loop.Element = loop
	ont := build(t, declare("Broken").with(ontology.NewProperty("p", loop, false)))

	_, err := NewRenderer(ont, ontology.NewHierarchy(ont, 0)).Render(lookup(t, ont, "Broken"))
	require.Error(t, err)
	assert.True(t, errors.IsRenderError(err))
	assert.Contains(t, err.Error(), "dtmi:example:Broken;1")
}

func TestMultiplicity(t *testing.T) {
	two := 2
	assert.Equal(t, "0-Infinity", Multiplicity(&ontology.Relationship{}))
	assert.Equal(t, "2-Infinity", Multiplicity(&ontology.Relationship{MinMultiplicity: &two}))
	assert.Equal(t, "0-2", Multiplicity(&ontology.Relationship{MaxMultiplicity: &two}))
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b c d`, escapeCell("a | b\nc\r\nd"))
}
