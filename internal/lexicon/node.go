package lexicon

import (
	"github.com/Iron-Ham/vizlex/internal/property"
)

// nodeID indexes the registry arena.
type nodeID int

const noParent nodeID = -1

// entry is one arena slot. Links are arena indices, never pointers.
type entry struct {
	prop     *property.Descriptor
	parent   nodeID
	children []nodeID
}

// Node is a handle to one lexicon node. Handles are comparable: two handles
// are == iff they refer to the same node of the same registry. The zero Node
// refers to nothing and must not be used.
type Node struct {
	reg *Registry
	id  nodeID
}

// Property returns the wrapped descriptor; never nil.
func (n Node) Property() *property.Descriptor {
	n.reg.mu.RLock()
	defer n.reg.mu.RUnlock()
	return n.reg.nodes[n.id].prop
}

// Parent returns the parent node. The bool is false only for the root.
func (n Node) Parent() (Node, bool) {
	n.reg.mu.RLock()
	defer n.reg.mu.RUnlock()

	p := n.reg.nodes[n.id].parent
	if p == noParent {
		return Node{}, false
	}
	return Node{reg: n.reg, id: p}, true
}

// Children returns the current children in insertion order. The slice is a
// snapshot owned by the caller.
func (n Node) Children() []Node {
	n.reg.mu.RLock()
	defer n.reg.mu.RUnlock()

	ids := n.reg.nodes[n.id].children
	out := make([]Node, len(ids))
	for i, c := range ids {
		out[i] = Node{reg: n.reg, id: c}
	}
	return out
}

// IsRoot reports whether n is the lexicon root.
func (n Node) IsRoot() bool {
	return n.id == 0
}

// Depth returns the number of parent links between n and the root.
func (n Node) Depth() int {
	n.reg.mu.RLock()
	defer n.reg.mu.RUnlock()

	depth := 0
	for p := n.reg.nodes[n.id].parent; p != noParent; p = n.reg.nodes[p].parent {
		depth++
	}
	return depth
}

// IsZero reports whether n is the zero Node.
func (n Node) IsZero() bool {
	return n.reg == nil
}
