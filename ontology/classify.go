package ontology

import (
	"sort"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
)

// All returns the effective members of kind visible on iface, in content order.
func All(iface *Interface, kind ContentKind) []*Content {
	return filter(iface, kind, func(*Content) bool { return true })
}

// Direct returns the members of kind declared by iface itself.
func Direct(iface *Interface, kind ContentKind) []*Content {
	return filter(iface, kind, func(c *Content) bool { return c.DefinedIn == iface.ID() })
}

// Inherited returns the members of kind iface receives from an ancestor.
func Inherited(iface *Interface, kind ContentKind) []*Content {
	return filter(iface, kind, func(c *Content) bool { return c.DefinedIn != iface.ID() })
}

func filter(iface *Interface, kind ContentKind, keep func(*Content) bool) []*Content {
	var out []*Content
	for _, c := range iface.Contents {
		if c.Kind == kind && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// InheritedGroup collects the inherited members declared by one ancestor.
type InheritedGroup struct {
	DefinedIn dtmi.ID
	// Members are sorted by name.
	Members []*Content
}

// Names returns the member names in order.
func (g InheritedGroup) Names() []string {
	names := make([]string, len(g.Members))
	for i, c := range g.Members {
		names[i] = c.Name
	}
	return names
}

// InheritedGroups groups Inherited(iface, kind) by declaring interface.
// Groups are ordered by identifier string and members by name.
func InheritedGroups(iface *Interface, kind ContentKind) []InheritedGroup {
	byOwner := make(map[dtmi.ID][]*Content)
	for _, c := range Inherited(iface, kind) {
		byOwner[c.DefinedIn] = append(byOwner[c.DefinedIn], c)
	}

	groups := make([]InheritedGroup, 0, len(byOwner))
	for owner, members := range byOwner {
		sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		groups = append(groups, InheritedGroup{DefinedIn: owner, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].DefinedIn.String() < groups[j].DefinedIn.String()
	})
	return groups
}
