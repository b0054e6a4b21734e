package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// VIZLEX_LOGGING_LEVEL=debug.
const EnvPrefix = "VIZLEX"

// Config represents the complete vizlex configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Schema  SchemaConfig  `mapstructure:"schema" yaml:"schema"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls the structured debug log
type LoggingConfig struct {
	// Level is the minimum level written: "debug", "info", "warn" or "error"
	Level string `mapstructure:"level" yaml:"level"`
	// File is the log file path. Empty writes to stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// SchemaConfig controls which extension schema files are loaded on startup
type SchemaConfig struct {
	// Paths lists schema files or directories, loaded in order
	Paths []string `mapstructure:"paths" yaml:"paths"`
	// Watch keeps watching schema directories after the initial load
	Watch bool `mapstructure:"watch" yaml:"watch"`
	// Strict rejects files that re-declare already registered properties.
	// When false, a property already registered under the same parent is skipped.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// RenderConfig controls text output of the tree and describe commands
type RenderConfig struct {
	ShowTypes    bool `mapstructure:"show_types" yaml:"show_types"`
	ShowDefaults bool `mapstructure:"show_defaults" yaml:"show_defaults"`
	// MaxWidth truncates output lines (0 = terminal width)
	MaxWidth int  `mapstructure:"max_width" yaml:"max_width"`
	Color    bool `mapstructure:"color" yaml:"color"`
}

// MetricsConfig controls the prometheus endpoint of the watch command
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9090". Empty disables the endpoint.
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "warn",
		},
		Schema: SchemaConfig{
			Paths:  []string{},
			Strict: true,
		},
		Render: RenderConfig{
			ShowTypes: true,
			Color:     true,
		},
	}
}

// SetDefaults registers default values with viper and binds environment
// variables.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)

	viper.SetDefault("schema.paths", defaults.Schema.Paths)
	viper.SetDefault("schema.watch", defaults.Schema.Watch)
	viper.SetDefault("schema.strict", defaults.Schema.Strict)

	viper.SetDefault("render.show_types", defaults.Render.ShowTypes)
	viper.SetDefault("render.show_defaults", defaults.Render.ShowDefaults)
	viper.SetDefault("render.max_width", defaults.Render.MaxWidth)
	viper.SetDefault("render.color", defaults.Render.Color)

	viper.SetDefault("metrics.addr", defaults.Metrics.Addr)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vizlex")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vizlex"
	}
	return filepath.Join(home, ".config", "vizlex")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// SchemaPaths returns the configured schema paths with ~ expanded.
func (c *Config) SchemaPaths() []string {
	paths := make([]string, 0, len(c.Schema.Paths))
	for _, p := range c.Schema.Paths {
		paths = append(paths, ExpandPath(p))
	}
	return paths
}
