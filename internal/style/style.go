// Package style holds named visual styles: per-style default values for
// registered visual properties.
package style

import (
	"maps"
	"sync"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/logging"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Factory creates visual styles bound to one lexicon.
type Factory struct {
	lex    lexicon.Reader
	logger *logging.Logger
}

// NewFactory creates a factory for styles over lex.
func NewFactory(lex lexicon.Reader, logger *logging.Logger) *Factory {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Factory{lex: lex, logger: logger.WithComponent("style")}
}

// Create returns an empty style with the given title.
func (f *Factory) Create(title string) *VisualStyle {
	f.logger.Debug("style created", "title", title)
	return &VisualStyle{
		lex:       f.lex,
		title:     title,
		overrides: make(map[string]override),
	}
}

// Copy returns an independent style with src's title and overrides.
func (f *Factory) Copy(src *VisualStyle) (*VisualStyle, error) {
	if src == nil {
		return nil, errors.NewNullArgumentError("style")
	}

	src.mu.RLock()
	defer src.mu.RUnlock()

	f.logger.Debug("style copied", "title", src.title, "overrides", len(src.overrides))
	return &VisualStyle{
		lex:       f.lex,
		title:     src.title,
		overrides: maps.Clone(src.overrides),
	}, nil
}

type override struct {
	prop  *property.Descriptor
	value any
}

// VisualStyle maps registered properties to default values that replace the
// descriptor's own default. It is safe for concurrent use.
type VisualStyle struct {
	lex lexicon.Reader

	mu        sync.RWMutex
	title     string
	overrides map[string]override
}

// Title returns the style's title.
func (s *VisualStyle) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// SetTitle renames the style.
func (s *VisualStyle) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// resolve maps d to the registered descriptor with the same ID.
func (s *VisualStyle) resolve(d *property.Descriptor) (*property.Descriptor, error) {
	n, found, err := s.lex.NodeFor(d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewUnknownPropertyError(d.ID())
	}
	return n.Property(), nil
}

// SetDefault overrides the default for d. The value is normalized to the
// property's value type and must lie in its range.
func (s *VisualStyle) SetDefault(d *property.Descriptor, v any) error {
	registered, err := s.resolve(d)
	if err != nil {
		return err
	}

	nv, err := registered.Normalize(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[registered.ID()] = override{prop: registered, value: nv}
	return nil
}

// ClearDefault removes the override for d, if any.
func (s *VisualStyle) ClearDefault(d *property.Descriptor) error {
	if d == nil {
		return errors.NewNullArgumentError("property")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, d.ID())
	return nil
}

// Default returns the override for d or, without one, the descriptor's own
// default (which may be nil).
func (s *VisualStyle) Default(d *property.Descriptor) (any, error) {
	registered, err := s.resolve(d)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.overrides[registered.ID()]; ok {
		return o.value, nil
	}
	return registered.Default(), nil
}

// Overrides returns a snapshot of the overridden values keyed by property ID.
func (s *VisualStyle) Overrides() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.overrides))
	for id, o := range s.overrides {
		out[id] = o.value
	}
	return out
}

// Properties returns the overridden descriptors in lexicon order.
func (s *VisualStyle) Properties() []*property.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*property.Descriptor
	lexicon.Walk(s.lex, func(n lexicon.Node) bool {
		if o, ok := s.overrides[n.Property().ID()]; ok {
			out = append(out, o.prop)
		}
		return true
	})
	return out
}
