package schema

import (
	"path/filepath"
	"sort"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/logging"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Result describes one applied schema file.
type Result struct {
	Path     string
	Name     string
	Version  string
	Inserted []*property.Descriptor
	// Skipped holds IDs that were already registered under the declared
	// parent. Only non-strict loaders skip.
	Skipped []string
}

// Step is one planned insertion.
type Step struct {
	Property *property.Descriptor
	Parent   *property.Descriptor
}

// Plan is a validated, parent-first insertion order for one file.
type Plan struct {
	Path    string
	File    *File
	Steps   []Step
	Skipped []string
}

// Loader reads schema files and registers their properties.
type Loader struct {
	fs     afero.Fs
	lex    lexicon.Lexicon
	logger *logging.Logger
	strict bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFs sets the filesystem schema files are read from. Defaults to the OS.
func WithFs(fs afero.Fs) LoaderOption {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *logging.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithStrict makes any already-registered ID an error. A non-strict loader
// skips properties that are already registered under the declared parent,
// so the same file can be applied to a lexicon that already contains it.
func WithStrict(strict bool) LoaderOption {
	return func(l *Loader) {
		l.strict = strict
	}
}

// NewLoader creates a loader that registers into lex.
func NewLoader(lex lexicon.Lexicon, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     afero.NewOsFs(),
		lex:    lex,
		logger: logging.NopLogger(),
		strict: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("schema")
	return l
}

// Fs returns the loader's filesystem.
func (l *Loader) Fs() afero.Fs {
	return l.fs
}

// Read reads and decodes a schema file without validating it.
func (l *Loader) Read(path string) (*File, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.NewSchemaError("failed to read schema", err).WithPath(path)
	}
	return Decode(path, data)
}

// Validate reads path and checks it against the current lexicon without
// inserting anything.
func (l *Loader) Validate(path string) (*Plan, error) {
	f, err := l.Read(path)
	if err != nil {
		return nil, err
	}
	return l.Plan(path, f)
}

// Load reads, validates and applies one schema file.
func (l *Loader) Load(path string) (*Result, error) {
	f, err := l.Read(path)
	if err != nil {
		return nil, err
	}
	return l.Apply(path, f)
}

// Apply validates f as a whole and then inserts its properties parent-first.
// Nothing is inserted when validation fails.
func (l *Loader) Apply(path string, f *File) (*Result, error) {
	log := l.logger.WithSchema(path)
	plan, err := l.Plan(path, f)
	if err != nil {
		log.Warn("schema rejected", "error", err.Error())
		return nil, err
	}

	result := &Result{
		Path:    path,
		Name:    f.Name,
		Version: f.Version,
		Skipped: plan.Skipped,
	}
	for _, step := range plan.Steps {
		// Only a concurrent producer can make this fail after planning.
		if err := l.lex.Insert(step.Property, step.Parent); err != nil {
			return result, errors.NewSchemaError("failed to register property", err).
				WithPath(path).
				WithPropertyID(step.Property.ID())
		}
		result.Inserted = append(result.Inserted, step.Property)
	}

	log.Info("schema applied",
		"name", f.Name,
		"inserted", len(result.Inserted),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// Plan validates f against the current lexicon and orders its properties so
// every parent precedes its children. It checks, in order: IDs unique within
// the file, each declaration well-formed, IDs not already registered, each
// parent registered or declared in the file, no cycles among declared parents.
func (l *Loader) Plan(path string, f *File) (*Plan, error) {
	fail := func(id, msg string, cause error) error {
		err := errors.NewSchemaError(msg, cause).WithPath(path).WithPropertyID(id)
		// The file is well-formed but does not fit the current tree.
		if errors.IsLexiconError(cause) {
			err = err.WithSeverity(errors.SeverityWarning)
		}
		return err
	}

	if f == nil {
		return nil, errors.NewSchemaError("empty schema", errors.ErrNullArgument).WithPath(path)
	}

	plan := &Plan{Path: path, File: f}
	declared := make(map[string]*property.Descriptor, len(f.Properties))
	parents := make(map[string]string, len(f.Properties))
	var order []string

	for _, spec := range f.Properties {
		if spec.ID == "" {
			return nil, fail("", "property without id", nil)
		}
		if _, dup := declared[spec.ID]; dup {
			return nil, fail(spec.ID, "duplicate property id", nil)
		}
		if spec.Parent == spec.ID {
			return nil, fail(spec.ID, "property is its own parent", nil)
		}

		d, err := spec.Descriptor()
		if err != nil {
			return nil, fail(spec.ID, "invalid property", err)
		}
		declared[spec.ID] = d
		parents[spec.ID] = spec.Parent
		order = append(order, spec.ID)
	}

	// Drop declarations already present in the lexicon.
	for _, id := range order {
		existing, ok := l.lex.Lookup(id)
		if !ok {
			continue
		}
		if l.strict || !l.sameParent(existing, parents[id]) {
			return nil, fail(id, "property already registered", errors.NewAlreadyRegisteredError(id))
		}
		plan.Skipped = append(plan.Skipped, id)
		delete(declared, id)
	}

	// Resolve parents to descriptors.
	resolved := make(map[string]*property.Descriptor, len(declared))
	for _, id := range order {
		if _, ok := declared[id]; !ok {
			continue
		}
		pid := parents[id]
		switch {
		case pid == "":
			resolved[id] = l.lex.Root()
		case declared[pid] != nil:
			resolved[id] = declared[pid]
		default:
			p, ok := l.lex.Lookup(pid)
			if !ok {
				return nil, fail(id, "parent is neither registered nor declared", errors.NewUnknownPropertyError(pid))
			}
			resolved[id] = p
		}
	}

	// Depth-first topological sort over in-file parent links, keeping file
	// order among siblings.
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(declared))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fail(id, "parent cycle", nil)
		}
		state[id] = visiting
		if pid := parents[id]; declared[pid] != nil {
			if err := visit(pid); err != nil {
				return err
			}
		}
		state[id] = done
		plan.Steps = append(plan.Steps, Step{Property: declared[id], Parent: resolved[id]})
		return nil
	}
	for _, id := range order {
		if declared[id] == nil {
			continue
		}
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (l *Loader) sameParent(existing *property.Descriptor, parentID string) bool {
	chain, err := l.lex.Ancestors(existing)
	if err != nil || len(chain) == 0 {
		return false
	}
	if parentID == "" {
		return chain[0].SameAs(l.lex.Root())
	}
	return chain[0].ID() == parentID
}

// SchemaFiles lists the schema files directly inside dir in lexical order.
func (l *Loader) SchemaFiles(dir string) ([]string, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, errors.NewSchemaError("failed to read schema directory", err).WithPath(dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSchemaFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDir applies every schema file in dir in lexical order, so a file may
// extend properties declared by an earlier one. Files are decoded
// concurrently; application stops at the first file that fails to decode or
// apply and returns the results applied before it.
func (l *Loader) LoadDir(dir string) ([]*Result, error) {
	paths, err := l.SchemaFiles(dir)
	if err != nil {
		return nil, err
	}
	return l.LoadFiles(paths)
}

type decoded struct {
	file *File
	err  error
}

// LoadFiles applies the given schema files in order. Files before the first
// one that fails to decode are still applied.
func (l *Loader) LoadFiles(paths []string) ([]*Result, error) {
	files := iter.Map(paths, func(path *string) decoded {
		f, err := l.Read(*path)
		return decoded{file: f, err: err}
	})

	results := make([]*Result, 0, len(paths))
	for i, path := range paths {
		if files[i].err != nil {
			return results, files[i].err
		}
		res, err := l.Apply(path, files[i].file)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// LoadPaths applies each path, loading directories with LoadDir.
func (l *Loader) LoadPaths(paths []string) ([]*Result, error) {
	var results []*Result
	for _, path := range paths {
		info, err := l.fs.Stat(path)
		if err != nil {
			return results, errors.NewSchemaError("failed to stat schema path", err).WithPath(path)
		}

		if info.IsDir() {
			res, err := l.LoadDir(path)
			results = append(results, res...)
			if err != nil {
				return results, err
			}
			continue
		}

		res, err := l.Load(path)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
