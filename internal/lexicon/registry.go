package lexicon

import (
	"sync"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/logging"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Registry is the arena-backed Lexicon implementation.
type Registry struct {
	root *property.Descriptor

	mu        sync.RWMutex
	nodes     []entry           // nodes[0] is the root
	index     map[string]nodeID // descriptor ID -> arena slot
	observers []Observer
	logger    *logging.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for insert outcomes.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// NewRegistry creates a registry whose tree consists of root alone.
func NewRegistry(root *property.Descriptor, opts ...Option) (*Registry, error) {
	if root == nil {
		return nil, errors.NewNullArgumentError("root")
	}

	r := &Registry{
		root:   root,
		nodes:  []entry{{prop: root, parent: noParent}},
		index:  map[string]nodeID{root.ID(): 0},
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("lexicon")
	return r, nil
}

// Observe adds an observer for subsequent Insert calls.
func (r *Registry) Observe(o Observer) {
	if o == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Root returns the root descriptor.
func (r *Registry) Root() *property.Descriptor {
	return r.root
}

// NodeFor returns the node wrapping d.
func (r *Registry) NodeFor(d *property.Descriptor) (Node, bool, error) {
	if d == nil {
		return Node{}, false, errors.NewNullArgumentError("property")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.index[d.ID()]
	if !ok {
		return Node{}, false, nil
	}
	return Node{reg: r, id: id}, true, nil
}

// Lookup finds a registered descriptor by ID.
func (r *Registry) Lookup(id string) (*property.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.nodes[n].prop, true
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Descendants returns d and its whole subtree in breadth-first order.
func (r *Registry) Descendants(d *property.Descriptor) ([]*property.Descriptor, error) {
	if d == nil {
		return nil, errors.NewNullArgumentError("property")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	start, ok := r.index[d.ID()]
	if !ok {
		return nil, errors.NewUnknownPropertyError(d.ID())
	}

	var out []*property.Descriptor
	queue := []nodeID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, r.nodes[id].prop)
		queue = append(queue, r.nodes[id].children...)
	}
	return out, nil
}

// All returns every registered descriptor, breadth-first from the root.
func (r *Registry) All() []*property.Descriptor {
	all, _ := r.Descendants(r.root)
	return all
}

// Ancestors returns the parent chain of d, nearest first. The root has none.
func (r *Registry) Ancestors(d *property.Descriptor) ([]*property.Descriptor, error) {
	if d == nil {
		return nil, errors.NewNullArgumentError("property")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.index[d.ID()]
	if !ok {
		return nil, errors.NewUnknownPropertyError(d.ID())
	}

	var out []*property.Descriptor
	for p := r.nodes[id].parent; p != noParent; p = r.nodes[p].parent {
		out = append(out, r.nodes[p].prop)
	}
	return out, nil
}

// Insert registers d as a new child of parent. See the package
// documentation for the validation order.
func (r *Registry) Insert(d, parent *property.Descriptor) error {
	observers, err := r.insert(d, parent)

	log := r.logger.WithProperty(idOf(d))
	if err != nil {
		log.Warn("property rejected", "parent", idOf(parent), "error", err.Error())
		for _, o := range observers {
			o.Rejected(d, err)
		}
		return err
	}

	log.Debug("property registered", "parent", parent.ID())
	for _, o := range observers {
		o.Inserted(d, parent)
	}
	return nil
}

// insert performs validation and the attach under the write lock. It returns
// a snapshot of the observers so they are called without the lock held.
func (r *Registry) insert(d, parent *property.Descriptor) ([]Observer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	observers := append([]Observer(nil), r.observers...)

	// A nil descriptor has no identity to check for registration.
	if d == nil {
		return observers, errors.NewNullArgumentError("property")
	}
	if _, exists := r.index[d.ID()]; exists {
		return observers, errors.NewAlreadyRegisteredError(d.ID())
	}
	if parent == nil {
		return observers, errors.NewNullArgumentError("parent")
	}
	pid, ok := r.index[parent.ID()]
	if !ok {
		return observers, errors.NewUnknownPropertyError(parent.ID())
	}

	id := nodeID(len(r.nodes))
	r.nodes = append(r.nodes, entry{prop: d, parent: pid})
	r.nodes[pid].children = append(r.nodes[pid].children, id)
	r.index[d.ID()] = id
	return observers, nil
}

func idOf(d *property.Descriptor) string {
	if d == nil {
		return "<nil>"
	}
	return d.ID()
}
