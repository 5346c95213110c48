package ontology

import (
	"testing"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/stretchr/testify/require"
)

func testID(name string) dtmi.ID {
	return dtmi.MustParse("dtmi:example:" + name + ";1")
}

func targetPtr(name string) *dtmi.ID {
	id := testID(name)
	return &id
}

// decl declares one interface for buildOntology.
type decl struct {
	name     string
	extends  []string
	contents []*Content
}

func buildOntology(t *testing.T, decls ...decl) *Ontology {
	t.Helper()
	b := NewBuilder()
	for _, d := range decls {
		iface := NewInterface(testID(d.name))
		iface.Contents = d.contents
		parents := make([]dtmi.ID, len(d.extends))
		for i, p := range d.extends {
			parents[i] = testID(p)
		}
		require.NoError(t, b.AddInterface(iface, parents...))
	}
	ont, err := b.Build()
	require.NoError(t, err)
	return ont
}

func mustInterface(t *testing.T, ont *Ontology, name string) *Interface {
	t.Helper()
	iface, err := ont.LookupInterface(testID(name))
	require.NoError(t, err)
	return iface
}

func names(ifaces []*Interface) []string {
	out := make([]string, len(ifaces))
	for i, iface := range ifaces {
		out[i] = iface.Name()
	}
	return out
}

func contentNames(cs []*Content) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// buildingOntology is a small multi-kind fixture with a diamond.
//
//	Space ── Building ──┐
//	   └──── Zone ──────┴── Campus
//	Asset (root)
func buildingOntology(t *testing.T) *Ontology {
	str := NewPrimitive("string")
	return buildOntology(t,
		decl{name: "Space", contents: []*Content{
			NewProperty("name", str, true),
			NewRelationship("hasPart", targetPtr("Space")),
			NewTelemetry("occupancy", NewPrimitive("integer")),
		}},
		decl{name: "Building", extends: []string{"Space"}, contents: []*Content{
			NewProperty("address", str, false),
			NewRelationship("hasAsset", targetPtr("Asset")),
		}},
		decl{name: "Zone", extends: []string{"Space"}, contents: []*Content{
			NewProperty("zoneType", str, false),
			NewCommand("reset", nil, nil),
		}},
		decl{name: "Campus", extends: []string{"Building", "Zone"}, contents: []*Content{
			NewProperty("acres", NewPrimitive("double"), false),
		}},
		decl{name: "Asset", contents: []*Content{
			NewRelationship("locatedIn", targetPtr("Space")),
			NewRelationship("servedBy", nil),
		}},
	)
}
