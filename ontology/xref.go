package ontology

import (
	"github.com/RealEstateCore/DTDL2MD/dtmi"
)

// Reference is a relationship together with the interface that declares it.
type Reference struct {
	Source       *Interface
	Relationship *Content
}

// Label returns Source.relationship, the form used in Target Of lists.
func (r Reference) Label() string {
	return r.Source.Name() + "." + r.Relationship.Name
}

// TargetSet is a set of interface identifiers queried by RelationshipsTargeting.
type TargetSet map[dtmi.ID]struct{}

// NewTargetSet builds a set from ids.
func NewTargetSet(ids ...dtmi.ID) TargetSet {
	s := make(TargetSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s TargetSet) Contains(id dtmi.ID) bool {
	_, ok := s[id]
	return ok
}

// RelationshipsTargeting returns every directly declared relationship whose
// target is one of ids. Inherited copies are never reported, so each
// relationship appears once, against the interface that declares it.
// Order: Interfaces order, then declaration order.
func (o *Ontology) RelationshipsTargeting(ids ...dtmi.ID) []Reference {
	return o.RelationshipsTargetingSet(NewTargetSet(ids...))
}

// RelationshipsTargetingSet is RelationshipsTargeting for a prebuilt set.
func (o *Ontology) RelationshipsTargetingSet(targets TargetSet) []Reference {
	if len(targets) == 0 {
		return nil
	}
	var refs []Reference
	for _, iface := range o.interfaces {
		for _, rel := range Direct(iface, KindRelationship) {
			if rel.Relationship == nil || rel.Relationship.Target == nil {
				continue
			}
			if targets.Contains(*rel.Relationship.Target) {
				refs = append(refs, Reference{Source: iface, Relationship: rel})
			}
		}
	}
	return refs
}

// Ancestors returns every transitive parent of iface, not only the ones on
// the placement chain, in depth-first declared order with duplicates removed.
func (o *Ontology) Ancestors(iface *Interface) []*Interface {
	var out []*Interface
	seen := map[*Interface]bool{iface: true}
	var walk func(*Interface)
	walk = func(i *Interface) {
		for _, p := range i.Extends {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
			walk(p)
		}
	}
	walk(iface)
	return out
}

// Descendants returns every interface that transitively extends iface, in
// breadth-first ChildrenOf order with duplicates removed.
func (o *Ontology) Descendants(iface *Interface) []*Interface {
	var out []*Interface
	seen := map[*Interface]bool{iface: true}
	queue := []*Interface{iface}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range o.ChildrenOf(current) {
			if seen[child] {
				continue
			}
			seen[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// TargetOf returns the relationships that point at iface.
//
// direct holds relationships targeting iface itself. inherited holds those
// targeting one of its ancestors, leaving out relationships declared by iface
// or by its descendants (those concern the subtree, not iface) and anything
// already in direct. A relationship iface declares on itself therefore shows
// up in direct when it targets iface and never in inherited.
func (o *Ontology) TargetOf(iface *Interface) (direct, inherited []Reference) {
	direct = o.RelationshipsTargeting(iface.ID())

	ancestors := o.Ancestors(iface)
	if len(ancestors) == 0 {
		return direct, nil
	}
	ids := make([]dtmi.ID, len(ancestors))
	for i, a := range ancestors {
		ids[i] = a.ID()
	}

	excluded := map[*Interface]bool{iface: true}
	for _, d := range o.Descendants(iface) {
		excluded[d] = true
	}
	listed := make(map[*Content]bool, len(direct))
	for _, r := range direct {
		listed[r.Relationship] = true
	}

	for _, r := range o.RelationshipsTargeting(ids...) {
		if excluded[r.Source] || listed[r.Relationship] {
			continue
		}
		inherited = append(inherited, r)
	}
	return direct, inherited
}
