// Package schema loads extension visual properties from schema files and
// registers them in a lexicon.
//
// A schema file declares properties together with the ID of their parent,
// which is either already registered or declared in the same file:
//
//	name: glow
//	version: "1"
//	properties:
//	  - id: NODE_GLOW
//	    name: Node Glow
//	    target: node
//	    type: visualizable
//	    parent: NODE
//	  - id: NODE_GLOW_RADIUS
//	    target: node
//	    type: double
//	    parent: NODE_GLOW
//	    default: 4
//	    range: {min: 0}
//
// YAML, TOML and JSON files are supported, chosen by extension. A file is
// validated as a whole before anything is inserted, so a bad file leaves the
// lexicon untouched.
package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/property"
)

// Format identifies a schema file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// File is the decoded form of a schema file.
type File struct {
	Name       string         `yaml:"name" toml:"name" json:"name"`
	Version    string         `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty"`
	Properties []PropertySpec `yaml:"properties" toml:"properties" json:"properties"`
}

// PropertySpec declares one property. An empty Parent means the lexicon root.
type PropertySpec struct {
	ID      string     `yaml:"id" toml:"id" json:"id"`
	Name    string     `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Target  string     `yaml:"target" toml:"target" json:"target"`
	Type    string     `yaml:"type" toml:"type" json:"type"`
	Parent  string     `yaml:"parent,omitempty" toml:"parent,omitempty" json:"parent,omitempty"`
	Default any        `yaml:"default,omitempty" toml:"default,omitempty" json:"default,omitempty"`
	Range   *RangeSpec `yaml:"range,omitempty" toml:"range,omitempty" json:"range,omitempty"`
	Values  []string   `yaml:"values,omitempty" toml:"values,omitempty" json:"values,omitempty"`
}

// RangeSpec is a continuous range. A missing bound is unbounded.
type RangeSpec struct {
	Min *float64 `yaml:"min,omitempty" toml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" toml:"max,omitempty" json:"max,omitempty"`
}

// FormatFor returns the format implied by a path's extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// IsSchemaFile reports whether path has a supported schema extension.
func IsSchemaFile(path string) bool {
	_, ok := FormatFor(path)
	return ok
}

// Decode parses data in the format implied by path.
func Decode(path string, data []byte) (*File, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, errors.NewSchemaError("unsupported schema format", errors.ErrUnsupportedFormat).WithPath(path)
	}

	var f File
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	}
	if err != nil {
		return nil, errors.NewSchemaError("failed to decode schema", err).WithPath(path)
	}
	return &f, nil
}

// Encode serializes f in the given format.
func Encode(f *File, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, errors.Wrap(err, "failed to encode schema")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "failed to encode schema")
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(f)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode schema")
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode schema")
		}
		return append(data, '\n'), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
}

// Descriptor builds the descriptor a spec declares.
func (s PropertySpec) Descriptor() (*property.Descriptor, error) {
	target, err := property.ParseTarget(s.Target)
	if err != nil {
		return nil, err
	}
	vt, err := property.ParseValueType(s.Type)
	if err != nil {
		return nil, err
	}

	var opts []property.Option
	switch {
	case len(s.Values) > 0 && s.Range != nil:
		return nil, errors.NewValidationError("range and values are mutually exclusive").WithField(s.ID)
	case len(s.Values) > 0:
		opts = append(opts, property.WithRange(property.NewDiscreteRange(s.Values...)))
	case s.Range != nil:
		r := property.ContinuousRange{Min: math.Inf(-1), Max: math.Inf(1)}
		if s.Range.Min != nil {
			r.Min = *s.Range.Min
		}
		if s.Range.Max != nil {
			r.Max = *s.Range.Max
		}
		if r.Min > r.Max {
			return nil, errors.NewValidationError("range min exceeds max").WithField(s.ID).WithValue(r.String())
		}
		opts = append(opts, property.WithRange(r))
	}
	if s.Default != nil {
		opts = append(opts, property.WithDefault(s.Default))
	}

	return property.New(s.ID, s.Name, target, vt, opts...)
}

// SpecFor converts a descriptor back into its declaration under parentID.
func SpecFor(d *property.Descriptor, parentID string) PropertySpec {
	s := PropertySpec{
		ID:     d.ID(),
		Target: d.Target().String(),
		Type:   d.ValueType().String(),
		Parent: parentID,
	}
	if d.DisplayName() != d.ID() {
		s.Name = d.DisplayName()
	}

	switch v := d.Default().(type) {
	case nil:
	case property.Color:
		s.Default = v.Hex()
	default:
		s.Default = v
	}

	switch r := d.Range().(type) {
	case property.DiscreteRange:
		s.Values = r.Values()
	case property.ContinuousRange:
		rs := &RangeSpec{}
		if !math.IsInf(r.Min, -1) {
			lo := r.Min
			rs.Min = &lo
		}
		if !math.IsInf(r.Max, 1) {
			hi := r.Max
			rs.Max = &hi
		}
		if rs.Min != nil || rs.Max != nil {
			s.Range = rs
		}
	}
	return s
}
