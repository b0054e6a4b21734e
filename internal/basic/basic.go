// Package basic defines the base visual property schema that every vizlex
// lexicon starts from: the root, the NETWORK, NODE and EDGE categories and
// the standard properties beneath them.
//
// The descriptors are package-level values. They are immutable and may be
// shared by any number of registries.
package basic

import (
	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/property"
)

var (
	nodeShapes = property.NewDiscreteRange(
		"RECTANGLE", "ROUND_RECTANGLE", "TRIANGLE", "DIAMOND", "ELLIPSE",
		"HEXAGON", "OCTAGON", "PARALLELOGRAM", "VEE",
	)
	lineTypes   = property.NewDiscreteRange("SOLID", "DOT", "EQUAL_DASH", "LONG_DASH", "DASH_DOT")
	arrowShapes = property.NewDiscreteRange(
		"NONE", "ARROW", "DELTA", "T", "CIRCLE", "DIAMOND", "HALF_TOP", "HALF_BOTTOM",
	)
)

// Root and categories.
var (
	Root    = property.MustNew("VISUAL_PROPERTY_ROOT", "Visual Property Root", property.TargetNetwork, property.TypeNull)
	Network = property.MustNew("NETWORK", "Network Visual Property", property.TargetNetwork, property.TypeVisualizable)
	Node    = property.MustNew("NODE", "Node Visual Property", property.TargetNode, property.TypeVisualizable)
	Edge    = property.MustNew("EDGE", "Edge Visual Property", property.TargetEdge, property.TypeVisualizable)
)

// Network properties.
var (
	NetworkBackgroundPaint = property.MustNew("NETWORK_BACKGROUND_PAINT", "Network Background Paint",
		property.TargetNetwork, property.TypeColor, property.WithDefault(property.RGB(255, 255, 255)))
	NetworkTitle = property.MustNew("NETWORK_TITLE", "Network Title",
		property.TargetNetwork, property.TypeString, property.WithDefault(""))
	NetworkScaleFactor = property.MustNew("NETWORK_SCALE_FACTOR", "Network Scale Factor",
		property.TargetNetwork, property.TypeDouble,
		property.WithRange(property.NonNegativeDoubleRange), property.WithDefault(1.0))
)

// Node properties.
var (
	NodePaint = property.MustNew("NODE_PAINT", "Node Paint",
		property.TargetNode, property.TypeColor, property.WithDefault(property.RGB(120, 120, 120)))
	NodeFillColor = property.MustNew("NODE_FILL_COLOR", "Node Fill Color",
		property.TargetNode, property.TypeColor, property.WithDefault(property.RGB(200, 0, 0)))
	NodeBorderPaint = property.MustNew("NODE_BORDER_PAINT", "Node Border Paint",
		property.TargetNode, property.TypeColor, property.WithDefault(property.RGB(0, 0, 0)))
	NodeLabelColor = property.MustNew("NODE_LABEL_COLOR", "Node Label Color",
		property.TargetNode, property.TypeColor, property.WithDefault(property.RGB(0, 0, 0)))

	NodeSize = property.MustNew("NODE_SIZE", "Node Size",
		property.TargetNode, property.TypeDouble,
		property.WithRange(property.NonNegativeDoubleRange), property.WithDefault(35.0))
	NodeWidth = property.MustNew("NODE_WIDTH", "Node Width",
		property.TargetNode, property.TypeDouble,
		property.WithRange(property.NonNegativeDoubleRange), property.WithDefault(60.0))
	NodeHeight = property.MustNew("NODE_HEIGHT", "Node Height",
		property.TargetNode, property.TypeDouble,
		property.WithRange(property.NonNegativeDoubleRange), property.WithDefault(30.0))

	NodeShape = property.MustNew("NODE_SHAPE", "Node Shape",
		property.TargetNode, property.TypeEnum,
		property.WithRange(nodeShapes), property.WithDefault("ELLIPSE"))
	NodeBorderWidth = property.MustNew("NODE_BORDER_WIDTH", "Node Border Width",
		property.TargetNode, property.TypeDouble,
		property.WithRange(property.NonNegativeDoubleRange), property.WithDefault(2.0))
	NodeLabel = property.MustNew("NODE_LABEL", "Node Label",
		property.TargetNode, property.TypeString, property.WithDefault(""))
	NodeLabelFontSize = property.MustNew("NODE_LABEL_FONT_SIZE", "Node Label Font Size",
		property.TargetNode, property.TypeInteger,
		property.WithRange(property.NonNegativeIntegerRange), property.WithDefault(12))
	NodeTransparency = property.MustNew("NODE_TRANSPARENCY", "Node Transparency",
		property.TargetNode, property.TypeInteger,
		property.WithRange(property.TransparencyRange), property.WithDefault(255))
	NodeVisible = property.MustNew("NODE_VISIBLE", "Node Visible",
		property.TargetNode, property.TypeBoolean, property.WithDefault(true))
	NodeXLocation = property.MustNew("NODE_X_LOCATION", "Node X Location",
		property.TargetNode, property.TypeDouble,
		property.WithRange(property.ArbitraryDoubleRange), property.WithDefault(0.0))
	NodeYLocation = property.MustNew("NODE_Y_LOCATION", "Node Y Location",
		property.TargetNode, property.TypeDouble,
		property.WithRange(property.ArbitraryDoubleRange), property.WithDefault(0.0))
)

// Edge properties.
var (
	EdgePaint = property.MustNew("EDGE_PAINT", "Edge Paint",
		property.TargetEdge, property.TypeColor, property.WithDefault(property.RGB(64, 64, 64)))
	EdgeStrokeUnselectedPaint = property.MustNew("EDGE_STROKE_UNSELECTED_PAINT", "Edge Color (Unselected)",
		property.TargetEdge, property.TypeColor, property.WithDefault(property.RGB(64, 64, 64)))
	EdgeLabelColor = property.MustNew("EDGE_LABEL_COLOR", "Edge Label Color",
		property.TargetEdge, property.TypeColor, property.WithDefault(property.RGB(0, 0, 0)))

	EdgeWidth = property.MustNew("EDGE_WIDTH", "Edge Width",
		property.TargetEdge, property.TypeDouble,
		property.WithRange(property.NonNegativeDoubleRange), property.WithDefault(2.0))
	EdgeLineType = property.MustNew("EDGE_LINE_TYPE", "Edge Line Type",
		property.TargetEdge, property.TypeEnum,
		property.WithRange(lineTypes), property.WithDefault("SOLID"))
	EdgeSourceArrowShape = property.MustNew("EDGE_SOURCE_ARROW_SHAPE", "Edge Source Arrow Shape",
		property.TargetEdge, property.TypeEnum,
		property.WithRange(arrowShapes), property.WithDefault("NONE"))
	EdgeTargetArrowShape = property.MustNew("EDGE_TARGET_ARROW_SHAPE", "Edge Target Arrow Shape",
		property.TargetEdge, property.TypeEnum,
		property.WithRange(arrowShapes), property.WithDefault("NONE"))
	EdgeLabel = property.MustNew("EDGE_LABEL", "Edge Label",
		property.TargetEdge, property.TypeString, property.WithDefault(""))
	EdgeTransparency = property.MustNew("EDGE_TRANSPARENCY", "Edge Transparency",
		property.TargetEdge, property.TypeInteger,
		property.WithRange(property.TransparencyRange), property.WithDefault(255))
	EdgeVisible = property.MustNew("EDGE_VISIBLE", "Edge Visible",
		property.TargetEdge, property.TypeBoolean, property.WithDefault(true))
)

// Entry pairs a base descriptor with its parent.
type Entry struct {
	Property *property.Descriptor
	Parent   *property.Descriptor
}

// schema lists every non-root base property, parents before children.
var schema = []Entry{
	{Network, Root},
	{NetworkBackgroundPaint, Network},
	{NetworkTitle, Network},
	{NetworkScaleFactor, Network},

	{Node, Network},
	{NodePaint, Node},
	{NodeFillColor, NodePaint},
	{NodeBorderPaint, NodePaint},
	{NodeLabelColor, NodePaint},
	{NodeSize, Node},
	{NodeWidth, NodeSize},
	{NodeHeight, NodeSize},
	{NodeShape, Node},
	{NodeBorderWidth, Node},
	{NodeLabel, Node},
	{NodeLabelFontSize, Node},
	{NodeTransparency, Node},
	{NodeVisible, Node},
	{NodeXLocation, Node},
	{NodeYLocation, Node},

	{Edge, Network},
	{EdgePaint, Edge},
	{EdgeStrokeUnselectedPaint, EdgePaint},
	{EdgeLabelColor, EdgePaint},
	{EdgeWidth, Edge},
	{EdgeLineType, Edge},
	{EdgeSourceArrowShape, Edge},
	{EdgeTargetArrowShape, Edge},
	{EdgeLabel, Edge},
	{EdgeTransparency, Edge},
	{EdgeVisible, Edge},
}

var baseIDs = func() map[string]bool {
	ids := map[string]bool{Root.ID(): true}
	for _, e := range schema {
		ids[e.Property.ID()] = true
	}
	return ids
}()

// Schema returns the base entries in insertion order, root excluded.
func Schema() []Entry {
	return append([]Entry(nil), schema...)
}

// IsBase reports whether id names a base property.
func IsBase(id string) bool {
	return baseIDs[id]
}

// New creates a registry rooted at Root and populated with the base schema.
func New(opts ...lexicon.Option) (*lexicon.Registry, error) {
	reg, err := lexicon.NewRegistry(Root, opts...)
	if err != nil {
		return nil, err
	}
	if err := Populate(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Populate inserts the base schema into lex, whose root must be Root.
func Populate(lex lexicon.Lexicon) error {
	for _, e := range schema {
		if err := lex.Insert(e.Property, e.Parent); err != nil {
			return err
		}
	}
	return nil
}
