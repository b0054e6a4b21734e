package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/vizlex/internal/basic"
	"github.com/Iron-Ham/vizlex/internal/config"
	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/logging"
	"github.com/Iron-Ham/vizlex/internal/metrics"
	"github.com/Iron-Ham/vizlex/internal/property"
	"github.com/Iron-Ham/vizlex/internal/render"
	"github.com/Iron-Ham/vizlex/internal/schema"
)

// app is the state shared by commands: configuration, the logger, and a
// lexicon built from the base schema plus the configured schema files.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	lex     *lexicon.Registry
	loader  *schema.Loader
	metrics *metrics.Collector
	results []*schema.Result
	// startup holds the configured and --schema paths loaded by newApp.
	startup []string
}

// newApp loads configuration and builds the lexicon. Configured schema paths
// and --schema paths are applied in order; the first failing file aborts.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	lex, err := basic.New(lexicon.WithLogger(logger))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	collector := metrics.New(lex)
	lex.Observe(collector)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		lex:     lex,
		metrics: collector,
		loader: schema.NewLoader(lex,
			schema.WithLogger(logger),
			schema.WithStrict(cfg.Schema.Strict),
		),
	}

	extra, _ := cmd.Flags().GetStringSlice("schema")
	paths := append(cfg.SchemaPaths(), extra...)
	results, err := a.loader.LoadPaths(paths)
	for _, res := range results {
		collector.SchemaApplied(res.Path, res, nil)
	}
	a.results = results
	a.startup = paths
	if err != nil {
		collector.SchemaApplied("", nil, err)
		_ = logger.Close()
		return nil, err
	}

	logger.Debug("lexicon ready", "properties", lex.Len(), "schema_files", len(results))
	return a, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	if cfg.Logging.File == "" {
		return logging.NewLoggerWithWriter(cmd.ErrOrStderr(), level), nil
	}
	return logging.NewLogger(config.ExpandPath(cfg.Logging.File), level)
}

func (a *app) Close() error {
	return a.logger.Close()
}

// loadedAtStartup reports whether path was one of the startup paths.
func (a *app) loadedAtStartup(path string) bool {
	path = filepath.Clean(path)
	for _, p := range a.startup {
		if filepath.Clean(p) == path {
			return true
		}
	}
	return false
}

// lookup resolves a property ID argument. IDs are matched exactly and then
// upper-cased, so "node_size" finds NODE_SIZE.
func (a *app) lookup(id string) (*property.Descriptor, error) {
	if d, ok := a.lex.Lookup(id); ok {
		return d, nil
	}
	if d, ok := a.lex.Lookup(strings.ToUpper(id)); ok {
		return d, nil
	}
	return nil, errors.NewUnknownPropertyError(id)
}

// renderOptions builds render options from config, writing to the command's
// output. A zero max width uses the terminal width when stdout is a terminal.
func (a *app) renderOptions(cmd *cobra.Command) render.Options {
	out := cmd.OutOrStdout()
	width := a.cfg.Render.MaxWidth
	if width == 0 {
		if f, ok := out.(*os.File); ok {
			width = render.TerminalWidth(f, 0)
		}
	}
	return render.Options{
		ShowTypes:    a.cfg.Render.ShowTypes,
		ShowDefaults: a.cfg.Render.ShowDefaults,
		MaxWidth:     width,
		Styles:       render.NewStyles(out, a.cfg.Render.Color),
	}
}
