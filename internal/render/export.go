package render

import (
	"encoding/json"

	"github.com/Iron-Ham/vizlex/internal/basic"
	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/schema"
)

// TreeNode is the JSON form of one lexicon node.
type TreeNode struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Target   string            `json:"target"`
	Type     string            `json:"type"`
	Default  any               `json:"default,omitempty"`
	Range    *schema.RangeSpec `json:"range,omitempty"`
	Values   []string          `json:"values,omitempty"`
	Children []*TreeNode       `json:"children,omitempty"`
}

// Snapshot captures the subtree rooted at the lexicon root as TreeNodes.
func Snapshot(lex lexicon.Reader) (*TreeNode, error) {
	root, found, err := lex.NodeFor(lex.Root())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewUnknownPropertyError(lex.Root().ID())
	}
	return snapshot(root), nil
}

func snapshot(n lexicon.Node) *TreeNode {
	d := n.Property()
	spec := schema.SpecFor(d, "")
	tn := &TreeNode{
		ID:      d.ID(),
		Name:    d.DisplayName(),
		Target:  spec.Target,
		Type:    spec.Type,
		Default: spec.Default,
		Range:   spec.Range,
		Values:  spec.Values,
	}
	for _, c := range n.Children() {
		tn.Children = append(tn.Children, snapshot(c))
	}
	return tn
}

// JSON exports the whole lexicon as a nested JSON tree.
func JSON(lex lexicon.Reader) ([]byte, error) {
	tree, err := Snapshot(lex)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode lexicon")
	}
	return append(data, '\n'), nil
}

// Extensions returns a schema file declaring every non-base property in
// pre-order, so it can be loaded into a fresh base lexicon.
func Extensions(lex lexicon.Reader, name string) *schema.File {
	f := &schema.File{Name: name, Version: "1"}
	lexicon.Walk(lex, func(n lexicon.Node) bool {
		d := n.Property()
		if basic.IsBase(d.ID()) {
			return true
		}
		parentID := ""
		if p, ok := n.Parent(); ok && !p.IsRoot() {
			parentID = p.Property().ID()
		}
		f.Properties = append(f.Properties, schema.SpecFor(d, parentID))
		return true
	})
	return f
}

// ExportSchema encodes the non-base properties as a loadable schema file.
func ExportSchema(lex lexicon.Reader, name string, format schema.Format) ([]byte, error) {
	return schema.Encode(Extensions(lex, name), format)
}

// Export encodes the lexicon in the named format: "json" for the full tree,
// "yaml" or "toml" for a loadable extension schema.
func Export(lex lexicon.Reader, format string) ([]byte, error) {
	switch schema.Format(format) {
	case schema.FormatJSON:
		return JSON(lex)
	case schema.FormatYAML, schema.FormatTOML:
		return ExportSchema(lex, "export", schema.Format(format))
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "export format %q", format)
	}
}
