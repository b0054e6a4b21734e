package property

import (
	"math"
	"testing"

	"github.com/Iron-Ham/vizlex/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		vt        ValueType
		opts      []Option
		expectErr bool
	}{
		{"minimal", "NODE_GLOW", TypeBoolean, nil, false},
		{"empty id", "", TypeBoolean, nil, true},
		{"whitespace id", "NODE GLOW", TypeBoolean, nil, true},
		{"default normalized", "NODE_SIZE", TypeDouble, []Option{WithDefault(35)}, false},
		{"default outside range", "NODE_TRANSPARENCY", TypeInteger, []Option{WithDefault(300), WithRange(TransparencyRange)}, true},
		{"default wrong type", "NODE_VISIBLE", TypeBoolean, []Option{WithDefault("maybe")}, true},
		{"enum without range", "NODE_SHAPE", TypeEnum, nil, true},
		{"enum default not in range", "NODE_SHAPE", TypeEnum, []Option{WithRange(NewDiscreteRange("ELLIPSE")), WithDefault("STAR")}, true},
		{"enum with range", "NODE_SHAPE", TypeEnum, []Option{WithRange(NewDiscreteRange("ELLIPSE", "RECTANGLE")), WithDefault("ELLIPSE")}, false},
		{"visualizable with range", "NODE", TypeVisualizable, []Option{WithRange(NonNegativeDoubleRange)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, "", TargetNode, tt.vt, tt.opts...)
			if (err != nil) != tt.expectErr {
				t.Errorf("New() error = %v, expectErr %v", err, tt.expectErr)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidValue) {
				t.Errorf("New() error %v should match ErrInvalidValue", err)
			}
		})
	}
}

func TestDescriptorAccessors(t *testing.T) {
	d := MustNew("NODE_WIDTH", "Node Width", TargetNode, TypeDouble,
		WithDefault(60), WithRange(NonNegativeDoubleRange))

	if d.ID() != "NODE_WIDTH" {
		t.Errorf("ID() = %q", d.ID())
	}
	if d.DisplayName() != "Node Width" {
		t.Errorf("DisplayName() = %q", d.DisplayName())
	}
	if d.Target() != TargetNode {
		t.Errorf("Target() = %v", d.Target())
	}
	if d.ValueType() != TypeDouble {
		t.Errorf("ValueType() = %v", d.ValueType())
	}
	if d.Default() != float64(60) {
		t.Errorf("Default() = %#v, want float64(60)", d.Default())
	}
	if d.Range() == nil {
		t.Error("Range() = nil")
	}
	if d.String() != "NODE_WIDTH" {
		t.Errorf("String() = %q", d.String())
	}

	unnamed := MustNew("EDGE_LABEL", "", TargetEdge, TypeString)
	if unnamed.DisplayName() != "EDGE_LABEL" {
		t.Errorf("DisplayName() fallback = %q", unnamed.DisplayName())
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew with empty id did not panic")
		}
	}()
	MustNew("", "", TargetNode, TypeString)
}

func TestSameAs(t *testing.T) {
	a := MustNew("NODE_GLOW", "Glow", TargetNode, TypeBoolean)
	b := MustNew("NODE_GLOW", "Another Glow", TargetEdge, TypeDouble)
	c := MustNew("EDGE_GLOW", "Glow", TargetNode, TypeBoolean)

	if !a.SameAs(b) {
		t.Error("descriptors with equal IDs should be the same property")
	}
	if a.SameAs(c) {
		t.Error("descriptors with different IDs should differ even when otherwise equal")
	}
	var nilDesc *Descriptor
	if a.SameAs(nilDesc) || !nilDesc.SameAs(nil) {
		t.Error("nil handling in SameAs is wrong")
	}
}

func TestNormalize(t *testing.T) {
	transparency := MustNew("NODE_TRANSPARENCY", "", TargetNode, TypeInteger, WithRange(TransparencyRange))
	fill := MustNew("NODE_FILL_COLOR", "", TargetNode, TypeColor)

	tests := []struct {
		name      string
		d         *Descriptor
		in        any
		want      any
		expectErr bool
	}{
		{"int in range", transparency, 128, 128, false},
		{"string int", transparency, "64", 64, false},
		{"integral float", transparency, float64(10), 10, false},
		{"fractional float", transparency, 10.5, nil, true},
		{"above range", transparency, 256, nil, true},
		{"nil", transparency, nil, nil, true},
		{"hex colour", fill, "#FF0000", MustParseColor("#ff0000"), false},
		{"short colour", fill, "#0f0", RGB(0, 255, 0), false},
		{"bad colour", fill, "red", nil, true},
		{"colour value", fill, RGB(1, 2, 3), RGB(1, 2, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.d.Normalize(tt.in)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Normalize(%v) error = %v, expectErr %v", tt.in, err, tt.expectErr)
			}
			if err != nil {
				var ve *errors.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error %T is not a ValidationError", err)
				}
				if ve.Field != tt.d.ID() {
					t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.d.ID())
				}
				return
			}
			if c, ok := tt.want.(Color); ok {
				if !c.Equal(got.(Color)) {
					t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Normalize(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestContinuousRange(t *testing.T) {
	tests := []struct {
		r    ContinuousRange
		v    any
		want bool
	}{
		{TransparencyRange, 0, true},
		{TransparencyRange, 255, true},
		{TransparencyRange, 255.5, false},
		{TransparencyRange, -1, false},
		{ArbitraryDoubleRange, -1e300, true},
		{ArbitraryDoubleRange, math.NaN(), false},
		{NonNegativeDoubleRange, "1", false},
	}

	for _, tt := range tests {
		if got := tt.r.Contains(tt.v); got != tt.want {
			t.Errorf("%s.Contains(%v) = %v, want %v", tt.r, tt.v, got, tt.want)
		}
	}

	if got := ArbitraryDoubleRange.String(); got != "[-inf, +inf]" {
		t.Errorf("String() = %q", got)
	}
	if got := TransparencyRange.String(); got != "[0, 255]" {
		t.Errorf("String() = %q", got)
	}
}

func TestDiscreteRange(t *testing.T) {
	r := NewDiscreteRange("SOLID", "DOT", "SOLID")

	if got := r.Values(); len(got) != 2 || got[0] != "SOLID" || got[1] != "DOT" {
		t.Errorf("Values() = %v, want [SOLID DOT]", got)
	}
	if !r.Contains("DOT") || r.Contains("DASH") || r.Contains(1) {
		t.Error("Contains() gave wrong answers")
	}

	values := r.Values()
	values[0] = "MUTATED"
	if r.Values()[0] != "SOLID" {
		t.Error("Values() must return a copy")
	}
	if r.String() != "{SOLID, DOT}" {
		t.Errorf("String() = %q", r.String())
	}
}
