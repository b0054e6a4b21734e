// Package cmd implements the vizlex command line.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/vizlex/internal/config"
	"github.com/Iron-Ham/vizlex/internal/errors"
)

// Build information, set with -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
)

// NewRootCmd builds the vizlex command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vizlex",
		Short: "Explore and extend the visual property lexicon",
		Long: `vizlex manages a visual property lexicon: the tree of visual properties
(colors, sizes, shapes, labels) that can be applied to networks, nodes
and edges. The base lexicon is built in; schema files add properties to it.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.config/vizlex/config.yaml)")
	flags.StringSliceP("schema", "s", nil, "additional schema files or directories to load")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")

	root.AddCommand(
		newTreeCmd(),
		newDescribeCmd(),
		newDescendantsCmd(),
		newListCmd(),
		newValidateCmd(),
		newExportCmd(),
		newStyleCmd(),
		newBrowseCmd(),
		newWatchCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		reportError(root.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err. Errors that are not lexicon, schema or validation
// errors are mostly command line mistakes, so they get a usage hint.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if !errors.IsUserFacing(err) {
		fmt.Fprintln(w, "Run 'vizlex --help' for usage.")
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		viper.Set("logging.level", f.Value.String())
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		viper.Set("render.color", false)
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", cfgFile)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(config.ConfigDir())
	viper.AddConfigPath(".")

	// A missing config file is fine; a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}
