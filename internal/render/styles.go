package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Iron-Ham/vizlex/internal/property"
)

var (
	// Palette, chosen to stay readable on dark and light backgrounds.
	NetworkColor = lipgloss.Color("#A78BFA") // Purple
	NodeColor    = lipgloss.Color("#10B981") // Green
	EdgeColor    = lipgloss.Color("#60A5FA") // Blue
	MutedColor   = lipgloss.Color("#9CA3AF") // Gray
	AccentColor  = lipgloss.Color("#F59E0B") // Amber
	ErrorColor   = lipgloss.Color("#F87171") // Red
)

// Styles is the set of lipgloss styles a renderer uses.
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Connector lipgloss.Style
	Badge     lipgloss.Style
	Default   lipgloss.Style
	Category  lipgloss.Style
	Error     lipgloss.Style

	targets map[property.Target]lipgloss.Style
}

// NewStyles builds styles bound to a renderer for w. With color false every
// style renders plain text.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Title:     r.NewStyle().Bold(true).Foreground(NetworkColor),
		Label:     r.NewStyle().Foreground(MutedColor).Width(11),
		Connector: r.NewStyle().Foreground(MutedColor),
		Badge:     r.NewStyle().Foreground(MutedColor).Italic(true),
		Default:   r.NewStyle().Foreground(AccentColor),
		Category:  r.NewStyle().Bold(true),
		Error:     r.NewStyle().Foreground(ErrorColor),
		targets: map[property.Target]lipgloss.Style{
			property.TargetNetwork: r.NewStyle().Foreground(NetworkColor),
			property.TargetNode:    r.NewStyle().Foreground(NodeColor),
			property.TargetEdge:    r.NewStyle().Foreground(EdgeColor),
		},
	}
}

// ID renders a property ID in its target's color; categories are bold.
func (s Styles) ID(d *property.Descriptor) string {
	style := s.targets[d.Target()]
	if !d.ValueType().HasValue() {
		style = style.Inherit(s.Category)
	}
	return style.Render(d.ID())
}
