package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/vizlex/internal/config"
	"github.com/Iron-Ham/vizlex/internal/errors"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or create vizlex configuration",
		Long: `View or create vizlex configuration.

Without arguments, displays the current configuration.`,
		RunE: runConfigShow,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long:  `Create a default config file at ~/.config/vizlex/config.yaml with all available options.`,
		Args:  cobra.NoArgs,
		// The file named by --config may not exist yet.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			config.SetDefaults()
			return nil
		},
		RunE: runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
		initCmd,
	)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	_, err = out.Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = config.ConfigFile()
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ConfigFile()
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New("config file already exists at " + path + " (use --force to overwrite)")
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return errors.Wrap(err, "failed to encode default config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	header := "# vizlex configuration\n# Environment variables override these values, e.g. VIZLEX_LOGGING_LEVEL=debug\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", path)
	return err
}
