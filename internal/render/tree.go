// Package render turns a lexicon into text for terminals and files: an
// indented tree, a single-property description, and JSON, YAML or TOML
// exports.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Tree connectors.
const (
	branch = "├── "
	last   = "└── "
	pipe   = "│   "
	space  = "    "
)

// Options controls tree and description output.
type Options struct {
	ShowTypes    bool
	ShowDefaults bool
	// MaxWidth truncates each line; zero disables truncation.
	MaxWidth int
	Styles   Styles
}

func (o Options) withDefaults() Options {
	if o.Styles.targets == nil {
		o.Styles = NewStyles(io.Discard, false)
	}
	return o
}

// Tree renders the subtree rooted at from. A nil from renders the whole
// lexicon.
func Tree(lex lexicon.Reader, from *property.Descriptor, opts Options) (string, error) {
	opts = opts.withDefaults()
	if from == nil {
		from = lex.Root()
	}
	start, found, err := lex.NodeFor(from)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.NewUnknownPropertyError(from.ID())
	}

	var b strings.Builder
	b.WriteString(Truncate(line(start.Property(), opts), opts.MaxWidth))
	b.WriteByte('\n')
	writeChildren(&b, start, "", opts)
	return b.String(), nil
}

func writeChildren(b *strings.Builder, n lexicon.Node, prefix string, opts Options) {
	children := n.Children()
	for i, child := range children {
		connector, indent := branch, pipe
		if i == len(children)-1 {
			connector, indent = last, space
		}

		row := opts.Styles.Connector.Render(prefix+connector) + line(child.Property(), opts)
		b.WriteString(Truncate(row, opts.MaxWidth))
		b.WriteByte('\n')
		writeChildren(b, child, prefix+indent, opts)
	}
}

// line renders one property: ID, then optional type badge and default.
func line(d *property.Descriptor, opts Options) string {
	parts := []string{opts.Styles.ID(d)}
	if opts.ShowTypes {
		parts = append(parts, opts.Styles.Badge.Render("["+d.ValueType().String()+"]"))
	}
	if opts.ShowDefaults && d.Default() != nil {
		parts = append(parts, opts.Styles.Default.Render("= "+FormatValue(d.Default())))
	}
	return strings.Join(parts, " ")
}

// FormatValue renders a property value the way schema files spell it.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return fmt.Sprintf("%q", val)
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
