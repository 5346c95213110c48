package ontology

import (
	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
)

// Ontology maps identifiers to entities. It is read-only once built and safe
// for concurrent readers.
type Ontology struct {
	entities   []Entity
	byID       map[dtmi.ID]Entity
	interfaces []*Interface
	children   map[*Interface][]*Interface
}

func newOntology(entities []Entity) *Ontology {
	o := &Ontology{
		entities: entities,
		byID:     make(map[dtmi.ID]Entity, len(entities)),
		children: make(map[*Interface][]*Interface),
	}
	for _, e := range entities {
		o.byID[e.ID()] = e
		if iface, ok := e.(*Interface); ok {
			o.interfaces = append(o.interfaces, iface)
		}
	}
	for _, child := range o.interfaces {
		seen := make(map[*Interface]bool, len(child.Extends))
		for _, parent := range child.Extends {
			if seen[parent] {
				continue
			}
			seen[parent] = true
			o.children[parent] = append(o.children[parent], child)
		}
	}
	return o
}

// Lookup returns the entity with the given identifier.
// Fails with errors.ErrNotFound when absent.
func (o *Ontology) Lookup(id dtmi.ID) (Entity, error) {
	e, ok := o.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError(id.String())
	}
	return e, nil
}

// LookupInterface returns the interface with the given identifier.
func (o *Ontology) LookupInterface(id dtmi.ID) (*Interface, error) {
	e, err := o.Lookup(id)
	if err != nil {
		return nil, err
	}
	iface, ok := e.(*Interface)
	if !ok {
		return nil, errors.Wrapf(errors.NewNotFoundError(id.String()), "%s is a %s, not an interface", id, e.Kind())
	}
	return iface, nil
}

// Interfaces returns every interface in insertion order. Callers must not modify the slice.
func (o *Ontology) Interfaces() []*Interface {
	return o.interfaces
}

// ChildrenOf returns the interfaces that list iface in Extends, compared by
// identity, in Interfaces order.
func (o *Ontology) ChildrenOf(iface *Interface) []*Interface {
	return o.children[iface]
}

// Len returns the number of entities.
func (o *Ontology) Len() int {
	return len(o.entities)
}

// Builder assembles an Ontology from declared interfaces and schemas.
//
// Interfaces are added with only their own declared contents. Build links
// extends identifiers to interfaces, stamps DefinedIn on declared members and
// computes each interface's effective contents.
type Builder struct {
	entities []Entity
	byID     map[dtmi.ID]Entity
	extends  map[*Interface][]dtmi.ID
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		byID:    make(map[dtmi.ID]Entity),
		extends: make(map[*Interface][]dtmi.ID),
	}
}

func (b *Builder) add(e Entity) error {
	if e.ID().IsZero() {
		return errors.NewInvalidModelError("%s without identifier", e.Kind())
	}
	if _, dup := b.byID[e.ID()]; dup {
		return errors.NewInvalidModelError("duplicate identifier %s", e.ID())
	}
	b.byID[e.ID()] = e
	b.entities = append(b.entities, e)
	return nil
}

// AddInterface registers an interface and the identifiers of its parents in declared order.
func (b *Builder) AddInterface(iface *Interface, extends ...dtmi.ID) error {
	if err := b.add(iface); err != nil {
		return err
	}
	b.extends[iface] = extends
	return nil
}

// AddSchema registers a named schema so it can be looked up by identifier.
func (b *Builder) AddSchema(s *Schema) error {
	return b.add(s)
}

// Has reports whether an entity with the identifier was added.
func (b *Builder) Has(id dtmi.ID) bool {
	_, ok := b.byID[id]
	return ok
}

// Build links the graph and returns the ontology.
// Missing parents and relationship targets fail with errors.ErrNotFound,
// extends cycles with errors.ErrPlacement.
func (b *Builder) Build() (*Ontology, error) {
	for _, e := range b.entities {
		iface, ok := e.(*Interface)
		if !ok {
			continue
		}
		for _, parentID := range b.extends[iface] {
			target, ok := b.byID[parentID]
			if !ok {
				return nil, errors.Wrapf(errors.NewNotFoundError(parentID.String()), "extends of %s", iface.ID())
			}
			parent, ok := target.(*Interface)
			if !ok {
				return nil, errors.NewInvalidModelError("%s extends %s, which is a %s", iface.ID(), parentID, target.Kind())
			}
			iface.Extends = append(iface.Extends, parent)
		}
		for _, c := range iface.Contents {
			if c.DefinedIn.IsZero() {
				c.DefinedIn = iface.ID()
			}
			if err := b.checkTarget(iface, c); err != nil {
				return nil, err
			}
		}
	}

	f := &flattener{done: make(map[*Interface]bool), active: make(map[*Interface]bool)}
	for _, e := range b.entities {
		if iface, ok := e.(*Interface); ok {
			if err := f.flatten(iface); err != nil {
				return nil, err
			}
		}
	}

	return newOntology(b.entities), nil
}

// checkTarget requires a declared relationship target to be an interface in the builder.
func (b *Builder) checkTarget(iface *Interface, c *Content) error {
	if c.Kind != KindRelationship || c.Relationship == nil || c.Relationship.Target == nil {
		return nil
	}
	id := *c.Relationship.Target
	target, ok := b.byID[id]
	if !ok {
		return errors.Wrapf(errors.NewNotFoundError(id.String()), "relationship %s of %s", c.Name, iface.ID())
	}
	if target.Kind() != EntityInterface {
		return errors.Wrapf(errors.NewNotFoundError(id.String()),
			"relationship %s of %s targets a %s", c.Name, iface.ID(), target.Kind())
	}
	return nil
}

// flattener appends inherited members to each interface's contents, parents first.
type flattener struct {
	done   map[*Interface]bool
	active map[*Interface]bool
}

func (f *flattener) flatten(iface *Interface) error {
	if f.done[iface] {
		return nil
	}
	if f.active[iface] {
		return errors.NewPlacementError(iface.ID().String(), "extends cycle")
	}
	f.active[iface] = true
	defer delete(f.active, iface)

	names := make(map[string]bool, len(iface.Contents))
	for _, c := range iface.Contents {
		names[c.Name] = true
	}
	for _, parent := range iface.Extends {
		if err := f.flatten(parent); err != nil {
			return err
		}
		for _, c := range parent.Contents {
			if names[c.Name] {
				continue
			}
			names[c.Name] = true
			iface.Contents = append(iface.Contents, c)
		}
	}

	f.done[iface] = true
	return nil
}
