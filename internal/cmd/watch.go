package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/vizlex/internal/browse"
	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/render"
	"github.com/Iron-Ham/vizlex/internal/schema"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the lexicon interactively",
		Long: `Open a full-screen tree browser.

Keys: j/k move, l/h expand and collapse, e/c expand or collapse all,
/ filters by glob, esc clears the filter, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = browse.Program(a.lex, a.renderOptions(cmd).Styles,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Load schema files as they appear in watched directories",
		Long: `Watch schema directories and register the properties of every new schema
file. Directories come from the arguments, or from the configured and
--schema directories when no arguments are given. Files already present are
loaded first.

Registration cannot be undone, so a file is applied at most once; a file
that fails to load is retried when it is written again.

With --metrics-addr, Prometheus metrics are served on /metrics.
With --browse, the interactive browser runs and refreshes on every load.`,
		RunE: runWatch,
	}
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
	cmd.Flags().Bool("browse", false, "run the interactive browser while watching")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	dirs, err := watchDirs(a, args)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return errors.NewValidationError("no schema directories to watch").WithField("schema.paths")
	}

	// Directories from the arguments may not be part of the startup load.
	for _, dir := range dirs {
		if a.loadedAtStartup(dir) {
			continue
		}
		results, err := a.loader.LoadDir(dir)
		for _, res := range results {
			a.metrics.SchemaApplied(res.Path, res, nil)
		}
		a.results = append(a.results, results...)
		if err != nil {
			a.metrics.SchemaApplied(dir, nil, err)
			return err
		}
	}

	addr := a.cfg.Metrics.Addr
	if f := cmd.Flags().Lookup("metrics-addr"); f.Changed {
		addr = f.Value.String()
	}
	withBrowser, _ := cmd.Flags().GetBool("browse")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var program *tea.Program
	out := cmd.OutOrStdout()
	if withBrowser {
		program = browse.Program(a.lex, a.renderOptions(cmd).Styles,
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(out),
		)
		out = io.Discard
	}
	styles := render.NewStyles(out, a.cfg.Render.Color)

	watcher, err := schema.NewWatcher(a.loader,
		schema.WithWatcherLogger(a.logger),
		schema.WithApplyFunc(func(path string, res *schema.Result, err error) {
			a.metrics.SchemaApplied(path, res, err)
			if err != nil {
				fmt.Fprintf(out, "%s %s\n", styles.Error.Render("FAIL"), err)
			} else {
				fmt.Fprintf(out, "%s   %s: %d properties\n", styles.Default.Render("OK"), path, len(res.Inserted))
			}
			if program != nil {
				program.Send(browse.RefreshMsg{})
			}
		}),
	)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, res := range a.results {
		watcher.MarkApplied(res.Path)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	fmt.Fprintf(out, "watching %d directories, %d properties registered\n", len(dirs), a.lex.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	if addr != "" {
		a.logger.Info("serving metrics", "addr", addr)
		g.Go(func() error {
			return a.metrics.Serve(gctx, addr)
		})
	}
	if program != nil {
		g.Go(func() error {
			defer stop()
			_, err := program.Run()
			return err
		})
		go func() {
			<-gctx.Done()
			program.Quit()
		}()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchDirs returns the argument directories, or the startup schema paths
// that are directories.
func watchDirs(a *app, args []string) ([]string, error) {
	candidates := args
	if len(candidates) == 0 {
		candidates = a.startup
	}

	var dirs []string
	for _, path := range candidates {
		info, err := a.loader.Fs().Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", path)
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		} else if len(args) > 0 {
			return nil, errors.NewValidationError("not a directory").WithField("dir").WithValue(path)
		}
	}
	return dirs, nil
}
