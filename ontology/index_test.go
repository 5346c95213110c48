package ontology

import (
	"testing"

	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ont := buildingOntology(t)

	e, err := ont.Lookup(testID("Zone"))
	require.NoError(t, err)
	assert.Equal(t, EntityInterface, e.Kind())
	assert.Equal(t, "Zone", e.(*Interface).Name())

	_, err = ont.Lookup(testID("Missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "dtmi:example:Missing;1")
}

func TestLookupInterfaceRejectsSchema(t *testing.T) {
	b := NewBuilder()
	enum := NewEnum(testID("Color"), "string", "Red", "Green")
	require.NoError(t, b.AddSchema(enum))
	ont, err := b.Build()
	require.NoError(t, err)

	s, err := ont.Lookup(testID("Color"))
	require.NoError(t, err)
	assert.Equal(t, EntitySchema, s.Kind())

	_, err = ont.LookupInterface(testID("Color"))
	assert.True(t, errors.IsNotFoundError(err))
}

func TestInterfacesInsertionOrder(t *testing.T) {
	ont := buildingOntology(t)
	assert.Equal(t, []string{"Space", "Building", "Zone", "Campus", "Asset"}, names(ont.Interfaces()))
	assert.Equal(t, 5, ont.Len())
}

func TestChildrenOf(t *testing.T) {
	ont := buildingOntology(t)

	assert.Equal(t, []string{"Building", "Zone"}, names(ont.ChildrenOf(mustInterface(t, ont, "Space"))))
	assert.Equal(t, []string{"Campus"}, names(ont.ChildrenOf(mustInterface(t, ont, "Zone"))))
	assert.Empty(t, ont.ChildrenOf(mustInterface(t, ont, "Asset")))
}

func TestChildrenOfUsesIdentity(t *testing.T) {
	ont := buildingOntology(t)
	impostor := NewInterface(testID("Space"))
	assert.Empty(t, ont.ChildrenOf(impostor))
}

func TestBuilderFlattensContents(t *testing.T) {
	ont := buildingOntology(t)
	campus := mustInterface(t, ont, "Campus")

	// own first, then Building's effective contents, then Zone's not yet seen
	assert.Equal(t,
		[]string{"acres", "address", "hasAsset", "name", "hasPart", "occupancy", "zoneType", "reset"},
		contentNames(campus.Contents))

	for _, c := range campus.Contents {
		if c.Name == "name" {
			assert.Equal(t, testID("Space"), c.DefinedIn)
		}
	}
}

func TestBuilderErrors(t *testing.T) {
	t.Run("duplicate identifier", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddInterface(NewInterface(testID("A"))))
		err := b.AddInterface(NewInterface(testID("A")))
		assert.True(t, errors.Is(err, errors.ErrInvalidModel))
	})

	t.Run("missing parent", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddInterface(NewInterface(testID("A")), testID("Ghost")))
		_, err := b.Build()
		assert.True(t, errors.IsNotFoundError(err))
		assert.Contains(t, err.Error(), "Ghost")
	})

	t.Run("extends cycle", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddInterface(NewInterface(testID("A")), testID("B")))
		require.NoError(t, b.AddInterface(NewInterface(testID("B")), testID("A")))
		_, err := b.Build()
		assert.True(t, errors.IsPlacementError(err))
	})

	t.Run("missing relationship target", func(t *testing.T) {
		b := NewBuilder()
		room := NewInterface(testID("Room"))
		room.Contents = []*Content{NewRelationship("isPartOf", targetPtr("NoSuchThing"))}
		require.NoError(t, b.AddInterface(room))
		_, err := b.Build()
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
		assert.Contains(t, err.Error(), "NoSuchThing")
		assert.Contains(t, err.Error(), "isPartOf")
	})

	t.Run("relationship targets a schema", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddSchema(NewEnum(testID("E"), "string", "X")))
		a := NewInterface(testID("A"))
		a.Contents = []*Content{NewRelationship("r", targetPtr("E"))}
		require.NoError(t, b.AddInterface(a))
		_, err := b.Build()
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("extends a schema", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.AddSchema(NewEnum(testID("E"), "string", "X")))
		require.NoError(t, b.AddInterface(NewInterface(testID("A")), testID("E")))
		_, err := b.Build()
		assert.True(t, errors.Is(err, errors.ErrInvalidModel))
	})
}

func TestLocalizedPreferred(t *testing.T) {
	assert.Equal(t, "", Localized(nil).Preferred())
	assert.Equal(t, "Room", Localized{"sv": "Rum", "en": "Room"}.Preferred())
	assert.Equal(t, "Raum", Localized{"sv": "Rum", "de": "Raum"}.Preferred())
}
