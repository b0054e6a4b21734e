package lexicon

import (
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Walk visits the tree depth-first in pre-order starting at the root,
// children in insertion order. Returning false from fn skips the subtree
// below the node just visited. No lock is held while fn runs, so fn may
// query the lexicon.
func Walk(lex Reader, fn func(Node) bool) {
	root, ok, err := lex.NodeFor(lex.Root())
	if err != nil || !ok {
		return
	}
	walk(root, fn)
}

// WalkFrom is Walk starting at the node for d.
func WalkFrom(lex Reader, d *property.Descriptor, fn func(Node) bool) error {
	start, ok, err := lex.NodeFor(d)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewUnknownPropertyError(d.ID())
	}
	walk(start, fn)
	return nil
}

func walk(start Node, fn func(Node) bool) {
	stack := []Node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// Select returns registered descriptors whose IDs match a glob pattern
// ("NODE_*", "EDGE_{SOURCE,TARGET}_*"), breadth-first from the root.
func Select(lex Reader, pattern string) ([]*property.Descriptor, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid pattern").WithValue(pattern).WithCause(err)
	}

	all, err := lex.Descendants(lex.Root())
	if err != nil {
		return nil, err
	}

	var out []*property.Descriptor
	for _, d := range all {
		if g.Match(d.ID()) {
			out = append(out, d)
		}
	}
	return out, nil
}

// IsAncestor reports whether a is a strict ancestor of d.
func IsAncestor(lex Reader, a, d *property.Descriptor) (bool, error) {
	if a == nil {
		return false, errors.NewNullArgumentError("ancestor")
	}
	chain, err := lex.Ancestors(d)
	if err != nil {
		return false, err
	}
	for _, p := range chain {
		if p.SameAs(a) {
			return true, nil
		}
	}
	return false, nil
}

// Walk is the method form of the package-level Walk.
func (r *Registry) Walk(fn func(Node) bool) {
	Walk(r, fn)
}

// Select is the method form of the package-level Select.
func (r *Registry) Select(pattern string) ([]*property.Descriptor, error) {
	return Select(r, pattern)
}
