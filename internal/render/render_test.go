package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/vizlex/internal/basic"
	"github.com/Iron-Ham/vizlex/internal/errors"
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
	"github.com/Iron-Ham/vizlex/internal/schema"
)

func newLexicon(t *testing.T) *lexicon.Registry {
	t.Helper()

	reg, err := basic.New()
	if err != nil {
		t.Fatalf("basic.New() error = %v", err)
	}
	return reg
}

func withGlow(t *testing.T, reg *lexicon.Registry) {
	t.Helper()

	f := &schema.File{
		Name: "glow",
		Properties: []schema.PropertySpec{
			{ID: "NODE_GLOW", Target: "node", Type: "visualizable", Parent: "NODE"},
			{ID: "NODE_GLOW_RADIUS", Target: "node", Type: "double", Parent: "NODE_GLOW", Default: 4},
			{ID: "ANNOTATION", Target: "network", Type: "string", Default: "none"},
		},
	}
	if _, err := schema.NewLoader(reg).Apply("glow", f); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
}

func TestTree(t *testing.T) {
	reg := newLexicon(t)

	got, err := Tree(reg, basic.NodeSize, Options{})
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	want := "NODE_SIZE\n" +
		"├── NODE_WIDTH\n" +
		"└── NODE_HEIGHT\n"
	if got != want {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, want)
	}
}

func TestTreeNestedConnectors(t *testing.T) {
	reg := newLexicon(t)

	got, err := Tree(reg, basic.Node, Options{})
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")

	for _, want := range []string{
		"├── NODE_PAINT",
		"│   ├── NODE_FILL_COLOR",
		"│   └── NODE_LABEL_COLOR",
		"└── NODE_Y_LOCATION",
	} {
		found := false
		for _, l := range lines {
			if l == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Tree() missing line %q in\n%s", want, got)
		}
	}
}

func TestTreeWholeLexicon(t *testing.T) {
	reg := newLexicon(t)

	got, err := Tree(reg, nil, Options{})
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if n := strings.Count(got, "\n"); n != reg.Len() {
		t.Errorf("Tree() has %d lines, want %d", n, reg.Len())
	}
	if !strings.HasPrefix(got, "VISUAL_PROPERTY_ROOT\n") {
		t.Errorf("Tree() should start at the root, got %q", strings.SplitN(got, "\n", 2)[0])
	}
}

func TestTreeTypesAndDefaults(t *testing.T) {
	reg := newLexicon(t)

	got, err := Tree(reg, basic.NodeSize, Options{ShowTypes: true, ShowDefaults: true})
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if first := strings.SplitN(got, "\n", 2)[0]; first != "NODE_SIZE [double] = 35" {
		t.Errorf("first line = %q", first)
	}

	got, _ = Tree(reg, basic.NodeShape, Options{ShowDefaults: true})
	if !strings.Contains(got, `NODE_SHAPE = "ELLIPSE"`) {
		t.Errorf("enum default missing: %q", got)
	}
}

func TestTreeTruncates(t *testing.T) {
	reg := newLexicon(t)

	got, err := Tree(reg, basic.Edge, Options{MaxWidth: 16})
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	for _, l := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if w := lipgloss.Width(l); w > 16 {
			t.Errorf("line %q has width %d", l, w)
		}
	}
	if !strings.Contains(got, "...") {
		t.Error("expected at least one truncated line")
	}
}

func TestTreeErrors(t *testing.T) {
	reg := newLexicon(t)

	missing := property.MustNew("NODE_GLOW", "", property.TargetNode, property.TypeVisualizable)
	if _, err := Tree(reg, missing, Options{}); !errors.Is(err, errors.ErrUnknownProperty) {
		t.Errorf("Tree(unregistered) error = %v", err)
	}
}

func TestDescribe(t *testing.T) {
	reg := newLexicon(t)

	got, err := Describe(reg, basic.NodeSize, Options{})
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	for _, want := range []string{
		"NODE_SIZE\n",
		"Name       Node Size",
		"Target     node",
		"Type       double",
		"Default    35",
		"Range      [0, +inf]",
		"Ancestors  NODE > NETWORK > VISUAL_PROPERTY_ROOT",
		"Children   NODE_WIDTH, NODE_HEIGHT",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe() missing %q in\n%s", want, got)
		}
	}

	got, err = Describe(reg, basic.Root, Options{})
	if err != nil {
		t.Fatalf("Describe(root) error = %v", err)
	}
	if !strings.Contains(got, "(root)") || strings.Contains(got, "Default") {
		t.Errorf("Describe(root) =\n%s", got)
	}

	if _, err := Describe(reg, nil, Options{}); !errors.Is(err, errors.ErrNullArgument) {
		t.Errorf("Describe(nil) error = %v", err)
	}
}

func TestJSON(t *testing.T) {
	reg := newLexicon(t)

	data, err := JSON(reg)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var tree TreeNode
	if err := json.Unmarshal(data, &tree); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tree.ID != "VISUAL_PROPERTY_ROOT" || len(tree.Children) != 1 {
		t.Fatalf("root = %s with %d children", tree.ID, len(tree.Children))
	}

	count := 0
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		count++
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(&tree)
	if count != reg.Len() {
		t.Errorf("JSON tree has %d nodes, want %d", count, reg.Len())
	}
}

func TestExportSchemaReloads(t *testing.T) {
	reg := newLexicon(t)
	withGlow(t, reg)

	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			data, err := Export(reg, format)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			f, err := schema.Decode("export."+format, data)
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, data)
			}
			if len(f.Properties) != 3 {
				t.Fatalf("exported %d properties, want 3", len(f.Properties))
			}

			fresh := newLexicon(t)
			if _, err := schema.NewLoader(fresh).Apply("export", f); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if fresh.Len() != reg.Len() {
				t.Errorf("reloaded Len() = %d, want %d", fresh.Len(), reg.Len())
			}

			annotation, _ := fresh.Lookup("ANNOTATION")
			n, _, _ := fresh.NodeFor(annotation)
			if p, _ := n.Parent(); !p.IsRoot() {
				t.Errorf("ANNOTATION parent = %s, want root", p.Property())
			}
		})
	}

	if _, err := Export(reg, "xml"); !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Errorf("Export(xml) error = %v", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"exact unchanged", "hello", 5, "hello"},
		{"long truncated", "hello world", 8, "hello..."},
		{"tiny width", "hello", 2, "..."},
		{"zero disables", "hello world", 0, "hello world"},
		{"wide characters", "日本語テスト", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{"x", `"x"`},
		{2.5, "2.5"},
		{12, "12"},
		{true, "true"},
		{property.RGB(200, 0, 0), "#c80000"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
