package basic

import (
	"testing"

	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
)

func TestNew(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if reg.Root() != Root {
		t.Errorf("Root() = %v, want %v", reg.Root(), Root)
	}
	if got, want := reg.Len(), len(Schema())+1; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}

	tests := []struct {
		property *property.Descriptor
		parent   *property.Descriptor
	}{
		{Network, Root},
		{Node, Network},
		{Edge, Network},
		{NodeFillColor, NodePaint},
		{NodeWidth, NodeSize},
		{EdgeTargetArrowShape, Edge},
	}

	for _, tt := range tests {
		t.Run(tt.property.ID(), func(t *testing.T) {
			n, found, err := reg.NodeFor(tt.property)
			if err != nil || !found {
				t.Fatalf("NodeFor(%s) = found %v, err %v", tt.property, found, err)
			}
			p, ok := n.Parent()
			if !ok || p.Property() != tt.parent {
				t.Errorf("parent of %s = %v, want %s", tt.property, p.Property(), tt.parent)
			}
		})
	}
}

func TestTargetsMatchCategories(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for category, target := range map[*property.Descriptor]property.Target{
		Node: property.TargetNode,
		Edge: property.TargetEdge,
	} {
		below, err := reg.Descendants(category)
		if err != nil {
			t.Fatalf("Descendants(%s) error = %v", category, err)
		}
		for _, d := range below {
			if d.Target() != target {
				t.Errorf("%s has target %s under %s", d, d.Target(), category)
			}
		}
	}
}

func TestDefaultsAreValid(t *testing.T) {
	for _, e := range Schema() {
		d := e.Property
		if !d.ValueType().HasValue() {
			if d.Default() != nil {
				t.Errorf("%s has a default but no value type", d)
			}
			continue
		}
		if err := d.Validate(d.Default()); err != nil {
			t.Errorf("%s default %v is invalid: %v", d, d.Default(), err)
		}
	}
}

func TestPopulateTwice(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	before := reg.Len()
	if err := Populate(reg); !errors.Is(err, errors.ErrAlreadyRegistered) {
		t.Errorf("Populate() on a populated registry = %v, want ErrAlreadyRegistered", err)
	}
	if reg.Len() != before {
		t.Errorf("Len() changed from %d to %d", before, reg.Len())
	}
}

func TestPopulateWrongRoot(t *testing.T) {
	other := property.MustNew("OTHER_ROOT", "", property.TargetNetwork, property.TypeNull)
	reg, err := lexicon.NewRegistry(other)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if err := Populate(reg); !errors.Is(err, errors.ErrUnknownProperty) {
		t.Errorf("Populate() = %v, want ErrUnknownProperty", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestIsBase(t *testing.T) {
	if !IsBase("VISUAL_PROPERTY_ROOT") || !IsBase("NODE_SHAPE") {
		t.Error("IsBase() should report base properties")
	}
	if IsBase("NODE_GLOW") {
		t.Error("IsBase(NODE_GLOW) = true")
	}
}

func TestSelectNodeProperties(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := reg.Select("NODE_*")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Select(NODE_*) returned nothing")
	}
	for _, d := range got {
		if d.Target() != property.TargetNode {
			t.Errorf("Select(NODE_*) returned %s", d)
		}
	}
}
