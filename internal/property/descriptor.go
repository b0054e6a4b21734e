// Package property defines visual property descriptors: immutable values
// naming one visual attribute (fill colour, shape, size, ...) together with
// the data category it applies to, its value type, default and range.
//
// Descriptors are compared by ID. Two descriptors with the same ID denote
// the same property as far as a lexicon is concerned.
package property

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Iron-Ham/vizlex/internal/errors"
)

// Descriptor describes one visual property. It is immutable once built.
type Descriptor struct {
	id           string
	displayName  string
	target       Target
	valueType    ValueType
	defaultValue any
	valueRange   Range
}

// Option configures optional descriptor attributes at construction.
type Option func(*Descriptor)

// WithDefault sets the default value. It is normalized with ParseValue.
func WithDefault(v any) Option {
	return func(d *Descriptor) {
		d.defaultValue = v
	}
}

// WithRange restricts accepted values beyond the value type.
func WithRange(r Range) Option {
	return func(d *Descriptor) {
		d.valueRange = r
	}
}

// New builds a descriptor. The ID must be non-empty and free of whitespace;
// the default, if any, must satisfy the value type and range. Enum
// properties require a DiscreteRange.
func New(id, displayName string, target Target, valueType ValueType, opts ...Option) (*Descriptor, error) {
	if id == "" {
		return nil, errors.NewValidationError("property id is required").WithField("id")
	}
	if strings.ContainsFunc(id, unicode.IsSpace) {
		return nil, errors.NewValidationError("property id must not contain whitespace").WithField("id").WithValue(id)
	}
	if displayName == "" {
		displayName = id
	}

	d := &Descriptor{
		id:          id,
		displayName: displayName,
		target:      target,
		valueType:   valueType,
	}
	for _, opt := range opts {
		opt(d)
	}

	if valueType == TypeEnum {
		if _, ok := d.valueRange.(DiscreteRange); !ok {
			return nil, errors.NewValidationError("enum properties need a discrete range").WithField(id)
		}
	}
	if !valueType.HasValue() && d.valueRange != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("%s properties cannot declare a range", valueType)).WithField(id)
	}

	if d.defaultValue != nil {
		v, err := d.Normalize(d.defaultValue)
		if err != nil {
			return nil, errors.Wrapf(err, "default for %s", id)
		}
		d.defaultValue = v
	}
	return d, nil
}

// MustNew is New for package-level descriptor tables; it panics on error.
func MustNew(id, displayName string, target Target, valueType ValueType, opts ...Option) *Descriptor {
	d, err := New(id, displayName, target, valueType, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// ID returns the unique identity of the property.
func (d *Descriptor) ID() string { return d.id }

// DisplayName returns the human-readable name.
func (d *Descriptor) DisplayName() string { return d.displayName }

// Target returns the data category the property applies to.
func (d *Descriptor) Target() Target { return d.target }

// ValueType returns the declared value type.
func (d *Descriptor) ValueType() ValueType { return d.valueType }

// Default returns the normalized default value, or nil.
func (d *Descriptor) Default() any { return d.defaultValue }

// Range returns the value range, or nil when only the type constrains values.
func (d *Descriptor) Range() Range { return d.valueRange }

// Normalize converts v to the canonical representation of the property's
// value type and checks it against the range.
func (d *Descriptor) Normalize(v any) (any, error) {
	if v == nil {
		return nil, errors.NewValidationError("value is required").WithField(d.id)
	}
	nv, err := ParseValue(d.valueType, v)
	if err != nil {
		var ve *errors.ValidationError
		if errors.As(err, &ve) {
			ve.WithField(d.id)
		}
		return nil, err
	}
	if d.valueRange != nil && !d.valueRange.Contains(nv) {
		return nil, errors.NewValidationError("outside range " + d.valueRange.String()).
			WithField(d.id).
			WithValue(v)
	}
	return nv, nil
}

// Validate reports whether v is acceptable for this property.
func (d *Descriptor) Validate(v any) error {
	_, err := d.Normalize(v)
	return err
}

// SameAs reports whether both descriptors denote the same property.
func (d *Descriptor) SameAs(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.id == other.id
}

func (d *Descriptor) String() string {
	return d.id
}
