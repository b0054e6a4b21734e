package render

import (
	"strings"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Describe renders one registered property with its ancestry and children.
func Describe(lex lexicon.Reader, d *property.Descriptor, opts Options) (string, error) {
	opts = opts.withDefaults()
	s := opts.Styles

	n, found, err := lex.NodeFor(d)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.NewUnknownPropertyError(d.ID())
	}
	registered := n.Property()

	ancestors, err := lex.Ancestors(registered)
	if err != nil {
		return "", err
	}

	field := func(label, value string) string {
		return Truncate(s.Label.Render(label)+value, opts.MaxWidth)
	}

	rows := []string{
		s.Title.Render(registered.ID()),
		field("Name", registered.DisplayName()),
		field("Target", registered.Target().String()),
		field("Type", registered.ValueType().String()),
	}
	if registered.ValueType().HasValue() {
		rows = append(rows, field("Default", s.Default.Render(FormatValue(registered.Default()))))
		if r := registered.Range(); r != nil {
			rows = append(rows, field("Range", r.String()))
		}
	}

	chain := make([]string, 0, len(ancestors))
	for _, a := range ancestors {
		chain = append(chain, s.ID(a))
	}
	if len(chain) == 0 {
		rows = append(rows, field("Ancestors", s.Badge.Render("(root)")))
	} else {
		rows = append(rows, field("Ancestors", strings.Join(chain, s.Connector.Render(" > "))))
	}

	children := n.Children()
	if len(children) == 0 {
		rows = append(rows, field("Children", s.Badge.Render("(none)")))
	} else {
		names := make([]string, len(children))
		for i, c := range children {
			names[i] = s.ID(c.Property())
		}
		rows = append(rows, field("Children", strings.Join(names, ", ")))
	}

	return strings.Join(rows, "\n") + "\n", nil
}
