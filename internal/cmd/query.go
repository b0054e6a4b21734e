package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
	"github.com/Iron-Ham/vizlex/internal/render"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [id]",
		Short: "Print the property tree",
		Long: `Print the lexicon as a tree, starting at the root or at the given property.

Examples:
  vizlex tree
  vizlex tree NODE --defaults`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTree,
	}
	cmd.Flags().Bool("types", false, "show value types (overrides render.show_types)")
	cmd.Flags().Bool("defaults", false, "show default values (overrides render.show_defaults)")
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var from *property.Descriptor
	if len(args) == 1 {
		if from, err = a.lookup(args[0]); err != nil {
			return err
		}
	}

	opts := a.renderOptions(cmd)
	if f := cmd.Flags().Lookup("types"); f.Changed {
		opts.ShowTypes, _ = cmd.Flags().GetBool("types")
	}
	if f := cmd.Flags().Lookup("defaults"); f.Changed {
		opts.ShowDefaults, _ = cmd.Flags().GetBool("defaults")
	}

	out, err := render.Tree(a.lex, from, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <id>",
		Short: "Show one property with its ancestors and children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			out, err := render.Describe(a.lex, d, a.renderOptions(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newDescendantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "descendants <id>",
		Short: "List a property and everything below it, breadth first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			descendants, err := a.lex.Descendants(d)
			if err != nil {
				return err
			}
			return printIDs(cmd, descendants)
		},
	}
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List property IDs in tree order",
		Long: `List property IDs in depth-first tree order.

--match takes a glob over IDs, e.g. "NODE_*" or "*_{COLOR,PAINT}".
--target keeps only properties for network, node or edge.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().StringP("match", "m", "", "glob pattern over property IDs")
	cmd.Flags().StringP("target", "t", "", "only properties for this target (network, node, edge)")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	pattern, _ := cmd.Flags().GetString("match")
	targetName, _ := cmd.Flags().GetString("target")

	var matches []*property.Descriptor
	if pattern != "" {
		if matches, err = a.lex.Select(pattern); err != nil {
			return err
		}
	} else {
		a.lex.Walk(func(n lexicon.Node) bool {
			matches = append(matches, n.Property())
			return true
		})
	}

	if targetName != "" {
		target, err := property.ParseTarget(targetName)
		if err != nil {
			return err
		}
		filtered := matches[:0]
		for _, d := range matches {
			if d.Target() == target {
				filtered = append(filtered, d)
			}
		}
		matches = filtered
	}

	return printIDs(cmd, matches)
}

func printIDs(cmd *cobra.Command, props []*property.Descriptor) error {
	if len(props) == 0 {
		return nil
	}
	ids := make([]string, len(props))
	for i, d := range props {
		ids[i] = d.ID()
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, "\n"))
	return err
}
