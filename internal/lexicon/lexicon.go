// Package lexicon implements the visual property lexicon: a rooted tree of
// property descriptors that grows at runtime as producers register new
// properties, and that consumers query to resolve a property's ancestors
// and descendants.
//
// # Invariants
//
//   - Exactly one root, fixed at construction, with no parent.
//   - Every other node has exactly one parent and reaches the root by a
//     finite, acyclic parent chain.
//   - A descriptor is registered iff its ID is in the index, and the indexed
//     node is reachable from the root.
//   - Nodes are never removed or reparented.
//
// # Insertion
//
// Insert validates in a fixed order and either attaches exactly one node or
// changes nothing:
//
//  1. the new descriptor is already registered: ErrAlreadyRegistered
//  2. the parent is nil: ErrNullArgument
//  3. the parent is not registered: ErrUnknownProperty
//  4. otherwise the node is attached and indexed
//
// # Concurrency
//
// Registry is safe for concurrent use. Insert holds the write lock across
// validation, attach and index update; queries hold the read lock.
package lexicon

import (
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Reader is the query side of a lexicon, used by rendering and styling code.
type Reader interface {
	// Root returns the root descriptor. Every call returns the same pointer.
	Root() *property.Descriptor

	// NodeFor returns the node wrapping d. The bool is false when d is not
	// registered. A nil d is an ErrNullArgument.
	NodeFor(d *property.Descriptor) (Node, bool, error)

	// Descendants returns d and every descriptor below it, breadth-first.
	Descendants(d *property.Descriptor) ([]*property.Descriptor, error)

	// Ancestors returns the parent chain of d, nearest first, ending at the root.
	Ancestors(d *property.Descriptor) ([]*property.Descriptor, error)

	// Lookup finds a registered descriptor by ID.
	Lookup(id string) (*property.Descriptor, bool)

	// Len returns the number of registered descriptors, root included.
	Len() int
}

// Lexicon is a Reader that producers can extend.
type Lexicon interface {
	Reader

	// Insert registers d as a new child of parent.
	Insert(d, parent *property.Descriptor) error
}

// Observer is notified of every Insert outcome, after the registry lock is
// released. Implementations must be safe for concurrent use.
type Observer interface {
	Inserted(d, parent *property.Descriptor)
	Rejected(d *property.Descriptor, err error)
}

var _ Lexicon = (*Registry)(nil)
