// Package browse is an interactive terminal browser for a lexicon: a
// collapsible property tree on the left and the selected property's details
// on the right.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/vizlex/internal/lexicon"
	"github.com/Iron-Ham/vizlex/internal/render"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	treeFraction  = 0.45
)

// RefreshMsg asks the browser to re-read the lexicon, for example after a
// watcher registered new properties.
type RefreshMsg struct{}

type row struct {
	node        lexicon.Node
	depth       int
	hasChildren bool
}

// Model is the bubbletea model for the browser.
type Model struct {
	lex    lexicon.Reader
	styles render.Styles

	rows     []row
	cursor   int
	offset   int
	expanded map[string]bool

	filtering bool
	filter    textinput.Model
	pattern   string
	visible   map[string]bool // nil when no filter is active

	width    int
	height   int
	errorMsg string
	quitting bool
}

// New creates a browser over lex with the root expanded.
func New(lex lexicon.Reader, styles render.Styles) Model {
	ti := textinput.New()
	ti.Placeholder = "NODE_*"
	ti.Prompt = "/"
	ti.CharLimit = 100
	ti.Width = 40

	m := Model{
		lex:      lex,
		styles:   styles,
		expanded: map[string]bool{lex.Root().ID(): true},
		filter:   ti,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case RefreshMsg:
		if err := m.applyFilter(m.pattern); err != nil {
			m.errorMsg = err.Error()
		}
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		m.errorMsg = ""
		if m.filtering {
			return m.handleFilterKeypress(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case "home", "g":
			m.cursor = 0

		case "end", "G":
			m.cursor = len(m.rows) - 1

		case "right", "l", "enter":
			if r, ok := m.current(); ok && r.hasChildren {
				m.expanded[r.node.Property().ID()] = true
				m.rebuild()
			}

		case "left", "h":
			m.collapseOrAscend()

		case " ":
			if r, ok := m.current(); ok && r.hasChildren {
				id := r.node.Property().ID()
				m.expanded[id] = !m.expanded[id]
				m.rebuild()
			}

		case "e":
			lexicon.Walk(m.lex, func(n lexicon.Node) bool {
				m.expanded[n.Property().ID()] = true
				return true
			})
			m.rebuild()

		case "c":
			m.expanded = map[string]bool{m.lex.Root().ID(): true}
			m.rebuild()

		case "/":
			m.filtering = true
			m.filter.SetValue(m.pattern)
			m.filter.CursorEnd()
			return m, m.filter.Focus()

		case "esc":
			m.pattern = ""
			m.visible = nil
			m.rebuild()
		}
		m.scroll()
	}
	return m, nil
}

func (m Model) handleFilterKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		pattern := strings.TrimSpace(m.filter.Value())
		if err := m.applyFilter(pattern); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.rebuild()
		m.selectFirstMatch()
		m.scroll()
		return m, nil

	case "esc":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

// applyFilter limits the tree to properties matching pattern and their
// ancestors. An empty pattern clears the filter.
func (m *Model) applyFilter(pattern string) error {
	if pattern == "" {
		m.pattern = ""
		m.visible = nil
		return nil
	}

	matches, err := lexicon.Select(m.lex, pattern)
	if err != nil {
		return err
	}

	visible := make(map[string]bool)
	for _, d := range matches {
		visible[d.ID()] = true
		ancestors, err := m.lex.Ancestors(d)
		if err != nil {
			return err
		}
		for _, a := range ancestors {
			visible[a.ID()] = true
		}
	}
	m.pattern = pattern
	m.visible = visible
	return nil
}

// rebuild recomputes the visible rows, keeping the selected property under
// the cursor when it is still shown.
func (m *Model) rebuild() {
	selected := ""
	if r, ok := m.current(); ok {
		selected = r.node.Property().ID()
	}

	var rows []row
	lexicon.Walk(m.lex, func(n lexicon.Node) bool {
		id := n.Property().ID()
		if m.visible != nil && !m.visible[id] {
			return false
		}
		rows = append(rows, row{
			node:        n,
			depth:       n.Depth(),
			hasChildren: len(n.Children()) > 0,
		})
		return m.visible != nil || m.expanded[id]
	})
	m.rows = rows

	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, r := range m.rows {
		if r.node.Property().ID() == selected {
			m.cursor = i
			break
		}
	}
}

func (m *Model) selectFirstMatch() {
	matches, err := lexicon.Select(m.lex, m.pattern)
	if err != nil || len(matches) == 0 {
		return
	}
	for i, r := range m.rows {
		if r.node.Property().SameAs(matches[0]) {
			m.cursor = i
			return
		}
	}
}

func (m *Model) collapseOrAscend() {
	r, ok := m.current()
	if !ok {
		return
	}
	id := r.node.Property().ID()
	if r.hasChildren && m.expanded[id] && m.visible == nil {
		m.expanded[id] = false
		m.rebuild()
		return
	}
	parent, ok := r.node.Parent()
	if !ok {
		return
	}
	for i, pr := range m.rows {
		if pr.node == parent {
			m.cursor = i
			return
		}
	}
}

// scroll keeps the cursor inside the visible window of the tree pane.
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-h))
}

func (m Model) listHeight() int {
	return max(m.height-3, 1)
}

func (m Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// Selected returns the ID of the property under the cursor.
func (m Model) Selected() string {
	if r, ok := m.current(); ok {
		return r.node.Property().ID()
	}
	return ""
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	treeWidth := int(float64(m.width) * treeFraction)
	detailWidth := max(m.width-treeWidth-1, 10)

	var tree strings.Builder
	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		tree.WriteString(m.renderRow(m.rows[i], i == m.cursor, treeWidth))
		tree.WriteByte('\n')
	}

	detail := ""
	if r, ok := m.current(); ok {
		d, err := render.Describe(m.lex, r.node.Property(), render.Options{
			MaxWidth: detailWidth,
			Styles:   m.styles,
		})
		if err != nil {
			detail = m.styles.Error.Render(err.Error())
		} else {
			detail = d
		}
	}

	treePane := lipgloss.NewStyle().Width(treeWidth).Render(strings.TrimSuffix(tree.String(), "\n"))
	detailPane := lipgloss.NewStyle().Width(detailWidth).PaddingLeft(1).Render(strings.TrimSuffix(detail, "\n"))

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("vizlex: %d properties", m.lex.Len())))
	b.WriteByte('\n')
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, treePane, detailPane))
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderRow(r row, selected bool, width int) string {
	marker := "  "
	if r.hasChildren {
		if m.expanded[r.node.Property().ID()] || m.visible != nil {
			marker = "▾ "
		} else {
			marker = "▸ "
		}
	}

	cursor := "  "
	if selected {
		cursor = m.styles.Default.Render("> ")
	}
	line := cursor + strings.Repeat("  ", r.depth) + m.styles.Connector.Render(marker) + m.styles.ID(r.node.Property())
	return render.Truncate(line, width)
}

func (m Model) renderFooter() string {
	switch {
	case m.filtering:
		return m.filter.View()
	case m.errorMsg != "":
		return m.styles.Error.Render(m.errorMsg)
	case m.pattern != "":
		return m.styles.Badge.Render(fmt.Sprintf("filter %s  [esc] clear  [/] edit  [q] quit", m.pattern))
	default:
		return m.styles.Badge.Render("[j/k] move  [l/h] expand/collapse  [e/c] all  [/] filter  [q] quit")
	}
}

// Program creates a full-screen program for the browser drawn with styles.
// Send RefreshMsg to it when the lexicon grows.
func Program(lex lexicon.Reader, styles render.Styles, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(New(lex, styles), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}
