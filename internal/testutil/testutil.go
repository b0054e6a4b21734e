// Package testutil provides testing utilities for vizlex tests.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Fixture is the smallest interesting lexicon: a root R with a single child F.
type Fixture struct {
	Registry *lexicon.Registry
	R        *property.Descriptor
	F        *property.Descriptor
}

// NewLexicon creates a registry rooted at R and inserts F under it.
func NewLexicon(t *testing.T, opts ...lexicon.Option) Fixture {
	t.Helper()

	r := property.MustNew("R", "Root", property.TargetNetwork, property.TypeNull)
	f := property.MustNew("F", "Fill", property.TargetNode, property.TypeColor)

	reg, err := lexicon.NewRegistry(r, opts...)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	if err := reg.Insert(f, r); err != nil {
		t.Fatalf("failed to insert F: %v", err)
	}

	return Fixture{Registry: reg, R: r, F: f}
}

// Descriptor creates a visualizable descriptor with the given ID, for tests
// that only care about tree shape.
func Descriptor(t *testing.T, id string) *property.Descriptor {
	t.Helper()

	d, err := property.New(id, id, property.TargetNode, property.TypeVisualizable)
	if err != nil {
		t.Fatalf("failed to create descriptor %s: %v", id, err)
	}
	return d
}

// WriteFiles writes files into fs. The files map contains paths relative to
// dir mapped to contents.
func WriteFiles(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()

	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
}

// RecordingObserver records lexicon insert outcomes.
type RecordingObserver struct {
	mu       sync.Mutex
	inserted []string
	rejected []error
}

// Inserted implements lexicon.Observer.
func (o *RecordingObserver) Inserted(d, _ *property.Descriptor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inserted = append(o.inserted, d.ID())
}

// Rejected implements lexicon.Observer.
func (o *RecordingObserver) Rejected(_ *property.Descriptor, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, err)
}

// InsertedIDs returns the IDs seen by Inserted, in call order.
func (o *RecordingObserver) InsertedIDs() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.inserted...)
}

// Rejections returns the errors seen by Rejected, in call order.
func (o *RecordingObserver) Rejections() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), o.rejected...)
}
