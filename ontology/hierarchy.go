package ontology

import (
	"path"
	"sync"

	"github.com/RealEstateCore/DTDL2MD/dtmi"
	"github.com/RealEstateCore/DTDL2MD/errors"
)

// DefaultMaxDepth bounds ancestor chain recursion when no limit is configured.
const DefaultMaxDepth = 256

// DocExtension is appended to document file names.
const DocExtension = ".md"

// Hierarchy places interfaces on the output directory tree.
//
// Each interface is placed along its longest ancestor chain. The chain is used
// for layout only; content inheritance still considers every ancestor.
// Results are memoized per identifier for the lifetime of the Hierarchy, so
// build a new one per run. Safe for concurrent use.
type Hierarchy struct {
	ont      *Ontology
	maxDepth int

	mu     sync.Mutex
	chains map[dtmi.ID][]*Interface
}

// NewHierarchy returns a resolver over ont. maxDepth <= 0 selects DefaultMaxDepth.
func NewHierarchy(ont *Ontology, maxDepth int) *Hierarchy {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Hierarchy{
		ont:      ont,
		maxDepth: maxDepth,
		chains:   make(map[dtmi.ID][]*Interface),
	}
}

// AncestorChain returns the longest path from a root down to iface's parent,
// in root-to-parent order. Roots have an empty chain. When several parents
// yield chains of the same maximal length the first declared parent wins.
//
// Fails with errors.ErrPlacement on an extends cycle or when the chain would
// exceed the configured depth.
func (h *Hierarchy) AncestorChain(iface *Interface) ([]*Interface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	chain, err := h.chain(iface, make(map[*Interface]bool), 0)
	if err != nil {
		return nil, err
	}
	out := make([]*Interface, len(chain))
	copy(out, chain)
	return out, nil
}

// chain must be called with h.mu held. Cached slices are never mutated.
func (h *Hierarchy) chain(iface *Interface, inProgress map[*Interface]bool, depth int) ([]*Interface, error) {
	if cached, ok := h.chains[iface.ID()]; ok {
		return cached, nil
	}
	if inProgress[iface] {
		return nil, errors.NewPlacementError(iface.ID().String(), "extends cycle in ancestor chain")
	}
	if depth > h.maxDepth {
		return nil, errors.NewPlacementError(iface.ID().String(), "ancestor chain deeper than %d", h.maxDepth)
	}
	inProgress[iface] = true
	defer delete(inProgress, iface)

	var best []*Interface
	var bestParent *Interface
	for _, parent := range iface.Extends {
		parentChain, err := h.chain(parent, inProgress, depth+1)
		if err != nil {
			return nil, err
		}
		if bestParent == nil || len(parentChain) > len(best) {
			best, bestParent = parentChain, parent
		}
	}

	var result []*Interface
	if bestParent != nil {
		result = make([]*Interface, 0, len(best)+1)
		result = append(result, best...)
		result = append(result, bestParent)
	}
	h.chains[iface.ID()] = result
	return result, nil
}

// IsContainer reports whether iface has children and therefore gets its own subdirectory.
func (h *Hierarchy) IsContainer(iface *Interface) bool {
	return len(h.ont.ChildrenOf(iface)) > 0
}

// Dir returns the slash-separated directory of iface relative to the output root.
// Roots live at "".
func (h *Hierarchy) Dir(iface *Interface) (string, error) {
	chain, err := h.AncestorChain(iface)
	if err != nil {
		return "", err
	}
	segments := make([]string, len(chain))
	for i, a := range chain {
		segments[i] = a.Name()
	}
	return path.Join(segments...), nil
}

// DocPath returns the slash-separated document path relative to the output
// root: Dir/[Name/]Name.md, with the extra segment only for containers.
func (h *Hierarchy) DocPath(iface *Interface) (string, error) {
	dir, err := h.Dir(iface)
	if err != nil {
		return "", err
	}
	if h.IsContainer(iface) {
		dir = path.Join(dir, iface.Name())
	}
	return path.Join(dir, iface.Name()+DocExtension), nil
}
