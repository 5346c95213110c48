package markdown

import (
	"testing"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/ontology"
	"github.com/stretchr/testify/require"
)

func exampleID(name string) dtmi.ID {
	return dtmi.MustParse("dtmi:example:" + name + ";1")
}

func examplePtr(name string) *dtmi.ID {
	id := exampleID(name)
	return &id
}

type ifaceDecl struct {
	iface   *ontology.Interface
	extends []string
}

func declare(name string, extends ...string) ifaceDecl {
	return ifaceDecl{iface: ontology.NewInterface(exampleID(name)), extends: extends}
}

func (d ifaceDecl) with(contents ...*ontology.Content) ifaceDecl {
	d.iface.Contents = append(d.iface.Contents, contents...)
	return d
}

func build(t *testing.T, decls ...ifaceDecl) *ontology.Ontology {
	t.Helper()
	b := ontology.NewBuilder()
	for _, d := range decls {
		parents := make([]dtmi.ID, len(d.extends))
		for i, p := range d.extends {
			parents[i] = exampleID(p)
		}
		require.NoError(t, b.AddInterface(d.iface, parents...))
	}
	ont, err := b.Build()
	require.NoError(t, err)
	return ont
}

func lookup(t *testing.T, ont *ontology.Ontology, name string) *ontology.Interface {
	t.Helper()
	iface, err := ont.LookupInterface(exampleID(name))
	require.NoError(t, err)
	return iface
}

// rootMidLeaf: Root, Mid extends Root, Leaf extends Mid with connectsTo -> Root.
func rootMidLeaf(t *testing.T) *ontology.Ontology {
	leaf := declare("Leaf", "Mid")
	leaf.iface.DisplayName = ontology.Localized{"en": "Leaf"}
	leaf.iface.Description = ontology.Localized{"en": "The leaf device."}
	rel := ontology.NewRelationship("connectsTo", examplePtr("Root"))
	rel.DisplayName = ontology.Localized{"en": "Connects to"}

	return build(t,
		declare("Root"),
		declare("Mid", "Root").with(ontology.NewProperty("serial", ontology.NewPrimitive("string"), false)),
		leaf.with(rel),
	)
}
