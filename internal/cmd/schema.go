package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/render"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <files...>",
		Short: "Check schema files against the lexicon",
		Long: `Apply each schema file, in order, to a scratch copy of the lexicon and
report whether it would load. Later files may extend properties declared by
earlier ones. A failing file registers nothing, and validation continues with
the next file.

With --independent, each file is checked against the lexicon alone and
nothing is registered, so files cannot build on each other.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().Bool("independent", false, "check each file without applying earlier ones")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	styles := a.renderOptions(cmd).Styles
	out := cmd.OutOrStdout()

	independent, _ := cmd.Flags().GetBool("independent")

	failed := 0
	for _, path := range args {
		inserted, skipped, err := validateOne(a, path, independent)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s %s\n", styles.Error.Render("FAIL"), err)
			continue
		}

		msg := fmt.Sprintf("%s: %d properties", path, inserted)
		if skipped > 0 {
			msg += fmt.Sprintf(", %d already registered", skipped)
		}
		fmt.Fprintf(out, "%s   %s\n", styles.Default.Render("OK"), msg)
	}

	if failed > 0 {
		return errors.Wrapf(errors.ErrInvalidSchema, "%d of %d schema files failed", failed, len(args))
	}
	return nil
}

func validateOne(a *app, path string, independent bool) (inserted, skipped int, err error) {
	if independent {
		plan, err := a.loader.Validate(path)
		if err != nil {
			return 0, 0, err
		}
		return len(plan.Steps), len(plan.Skipped), nil
	}

	res, err := a.loader.Load(path)
	a.metrics.SchemaApplied(path, res, err)
	if err != nil {
		return 0, 0, err
	}
	return len(res.Inserted), len(res.Skipped), nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the lexicon",
		Long: `Export the lexicon.

json writes the complete tree. yaml and toml write a schema file holding
every property outside the base lexicon, which can be loaded back with
--schema.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	cmd.Flags().StringP("format", "f", "json", "output format: json, yaml or toml")
	cmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	format, _ := cmd.Flags().GetString("format")
	data, err := render.Export(a.lex, format)
	if err != nil {
		return err
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", output)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
