package schema

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/logging"
)

// DefaultDebounce is how long the watcher waits for a burst of events on the
// same file to settle before loading it.
const DefaultDebounce = 50 * time.Millisecond

// ApplyFunc receives the outcome of every load attempted by a Watcher.
type ApplyFunc func(path string, res *Result, err error)

// Watcher loads schema files that appear in watched directories after
// startup. Registration is irreversible, so each path is applied at most
// once; later writes to an applied path are skipped with a warning. A file
// that fails validation inserts nothing and is retried on its next write.
//
// The watcher observes the real filesystem, so its loader must read from
// the OS filesystem.
type Watcher struct {
	loader   *Loader
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	debounce time.Duration
	onApply  ApplyFunc

	mu      sync.Mutex
	applied map[string]bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithApplyFunc sets a callback for load outcomes.
func WithApplyFunc(fn ApplyFunc) WatcherOption {
	return func(w *Watcher) {
		w.onApply = fn
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(logger *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher that applies files through loader.
func NewWatcher(loader *Loader, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		loader:   loader,
		watcher:  fsw,
		logger:   logging.NopLogger(),
		debounce: DefaultDebounce,
		applied:  make(map[string]bool),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("schema-watcher")
	return w, nil
}

// Add starts watching dir. Files already in dir are not loaded; use
// Loader.LoadDir for those and MarkApplied with the result.
func (w *Watcher) Add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.logger.Debug("watching schema directory", "dir", dir)
	return nil
}

// MarkApplied records paths that were loaded before watching began.
func (w *Watcher) MarkApplied(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		w.applied[filepath.Clean(p)] = true
	}
}

// Applied reports whether path has been applied.
func (w *Watcher) Applied(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied[filepath.Clean(path)]
}

// Run processes filesystem events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	// Editors emit several events per save; collect them per path.
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	defer debounceTimer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !IsSchemaFile(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			// Lexical order, as in LoadDir, so a file can extend one that
			// arrived in the same burst.
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				w.handle(path)
			}
			pending = make(map[string]struct{})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

func (w *Watcher) handle(path string) {
	log := w.logger.WithSchema(path)
	if w.Applied(path) {
		log.Warn("schema already applied, ignoring change")
		return
	}

	res, err := w.loader.Load(path)
	switch {
	case err == nil:
		w.MarkApplied(path)
	case errors.GetSeverity(err) >= errors.SeverityError:
		log.Error("failed to apply schema", "error", err.Error())
	default:
		log.Warn("failed to apply schema", "error", err.Error())
	}

	if w.onApply != nil {
		w.onApply(path, res, err)
	}
}

// Close stops Run and releases the underlying watcher.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})
	return err
}
