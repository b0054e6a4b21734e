package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/render"
	"github.com/Iron-Ham/vizlex/internal/style"
)

func newStyleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Build a visual style and print its effective defaults",
		Long: `Create a visual style, override property defaults with --set, and print
the resulting values. Each value is checked against the property's type and
range.

Examples:
  vizlex style --title Dark --set NODE_FILL_COLOR=#202020 --set NODE_SIZE=50
  vizlex style --set NODE_SHAPE=RECTANGLE --all`,
		Args: cobra.NoArgs,
		RunE: runStyle,
	}
	cmd.Flags().String("title", "default", "style title")
	cmd.Flags().StringArray("set", nil, "override a default, as ID=VALUE (repeatable)")
	cmd.Flags().Bool("all", false, "print every valued property, not only overrides")
	return cmd
}

func runStyle(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	title, _ := cmd.Flags().GetString("title")
	sets, _ := cmd.Flags().GetStringArray("set")
	all, _ := cmd.Flags().GetBool("all")

	vs := style.NewFactory(a.lex, a.logger).Create(title)
	for _, s := range sets {
		id, raw, ok := strings.Cut(s, "=")
		if !ok {
			return errors.NewValidationError("expected ID=VALUE").WithField("set").WithValue(s)
		}
		d, err := a.lookup(strings.TrimSpace(id))
		if err != nil {
			return err
		}
		if err := vs.SetDefault(d, strings.TrimSpace(raw)); err != nil {
			return err
		}
	}

	props := vs.Properties()
	if all {
		props = nil
		a.lex.Walk(func(n lexicon.Node) bool {
			if n.Property().ValueType().HasValue() {
				props = append(props, n.Property())
			}
			return true
		})
	}

	opts := a.renderOptions(cmd)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, opts.Styles.Title.Render("Style: "+vs.Title()))

	width := 0
	for _, d := range props {
		width = max(width, len(d.ID()))
	}
	overrides := vs.Overrides()
	for _, d := range props {
		v, err := vs.Default(d)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%-*s  %s", width, d.ID(), render.FormatValue(v))
		if _, ok := overrides[d.ID()]; ok {
			line += opts.Styles.Badge.Render(fmt.Sprintf("  (default %s)", render.FormatValue(d.Default())))
		}
		fmt.Fprintln(out, render.Truncate(line, opts.MaxWidth))
	}
	return nil
}
