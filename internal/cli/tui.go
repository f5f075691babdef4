package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/taggle/pkg/dataset"
	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/pipeline"
	"github.com/matzehuels/taggle/pkg/tree"
)

const (
	// heightStep is the viewport change of one grow or shrink key press.
	heightStep = 50.0
	// barWidth is the width of the row height bar at the maximum leaf height.
	barWidth = 20
	// chromeLines are the lines taken by header, footer and help.
	chromeLines = 7
)

var (
	listCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	listBarStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	listColumnStyle = lipgloss.NewStyle().Foreground(colorGray)
	listActiveStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true).Underline(true)
)

// reloadMsg carries a dataset reloaded after its file changed.
type reloadMsg struct {
	ds  *dataset.Dataset
	err error
}

// =============================================================================
// BrowseModel - Interactive table layout browser
// =============================================================================

// BrowseModel is the bubbletea model of the interactive browser. Every key
// press maps to one session operation; the session is only ever touched
// from Update.
type BrowseModel struct {
	Session     *pipeline.Session
	LabelColumn string

	keys   keyMap
	help   help.Model
	column int
	cursor int
	offset int
	lines  int
	width  int
	status string
	err    error

	// watch waits for the next dataset reload; nil when not watching.
	watch tea.Cmd
}

// NewBrowseModel creates a browser over s.
func NewBrowseModel(s *pipeline.Session, labelColumn string) BrowseModel {
	if labelColumn == "" {
		labelColumn = pipeline.DefaultLabelColumn(s.Columns())
	}
	return BrowseModel{
		Session:     s,
		LabelColumn: labelColumn,
		keys:        defaultKeyMap(),
		help:        help.New(),
		lines:       20,
		width:       80,
	}
}

// WithWatch returns a copy of m that reloads the dataset whenever cmd
// yields a reloadMsg.
func (m BrowseModel) WithWatch(cmd tea.Cmd) BrowseModel {
	m.watch = cmd
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return m.watch
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.lines = max(msg.Height-chromeLines, 3)
		m.help.Width = msg.Width
		return m, nil

	case reloadMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = m.Session.Reload(msg.ds)
			m.status = fmt.Sprintf("reloaded %d rows", len(msg.ds.Rows))
		}
		m.clampCursor()
		return m, m.watch

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.Session
	rows := s.Rows()
	m.err = nil
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(rows) - 1
	case key.Matches(msg, m.keys.NextColumn):
		m.column = (m.column + 1) % len(s.Columns())
	case key.Matches(msg, m.keys.PrevColumn):
		m.column = (m.column + len(s.Columns()) - 1) % len(s.Columns())

	case key.Matches(msg, m.keys.Select, m.keys.SelectAdd):
		if l, ok := m.leafAt(rows); ok {
			m.err = s.Select(l.DataIndex(), key.Matches(msg, m.keys.SelectAdd))
		}
	case key.Matches(msg, m.keys.ClearSelect):
		s.ClearSelection()

	case key.Matches(msg, m.keys.Group, m.keys.GroupAdd):
		m.err = s.ToggleGroup(m.columnName(), key.Matches(msg, m.keys.GroupAdd))
	case key.Matches(msg, m.keys.Sort):
		next := m.columnName()
		if s.SortKey() == next {
			next = ""
		}
		m.err = s.SetSort(next)
	case key.Matches(msg, m.keys.Collapse):
		if path, ok := m.groupAt(rows); ok {
			m.err = s.ToggleCollapsed(path)
		}

	case key.Matches(msg, m.keys.NextRuleSet, m.keys.PrevRuleSet):
		step := 1
		if key.Matches(msg, m.keys.PrevRuleSet) {
			step = -1
		}
		m.err = s.SetRuleSet(m.ruleSetAt(step))
	case key.Matches(msg, m.keys.Grow):
		m.err = s.Resize(s.Height() + heightStep)
	case key.Matches(msg, m.keys.Shrink):
		if h := s.Height() - heightStep; h > 0 {
			m.err = s.Resize(h)
		}
	}

	m.clampCursor()
	return m, nil
}

// leafAt returns the leaf under the cursor.
func (m BrowseModel) leafAt(rows []layout.Row) (tree.LeafNode, bool) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil, false
	}
	l, ok := rows[m.cursor].Node.(tree.LeafNode)
	return l, ok
}

// groupAt returns the path of the group the cursor row stands for: a
// collapsed group itself, or the enclosing group of a leaf.
func (m BrowseModel) groupAt(rows []layout.Row) (string, bool) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return "", false
	}
	n := rows[m.cursor].Node
	if inner, ok := n.(*tree.Inner); ok {
		return tree.PathString(inner), true
	}
	p := n.Parent()
	if p == nil || p.Parent() == nil {
		return "", false
	}
	return tree.PathString(p), true
}

func (m BrowseModel) columnName() string {
	return m.Session.Columns()[m.column].Name
}

// ruleSetAt returns the name step positions away from the active rule set
// in registry order, wrapping around.
func (m BrowseModel) ruleSetAt(step int) string {
	names := m.Session.Registry().Names()
	i := slices.Index(names, m.Session.RuleSet().Descriptor().Name)
	return names[(i+step+len(names))%len(names)]
}

// clampCursor keeps the cursor, the scroll offset and the active column
// inside the current session, which may have shrunk after a reload.
func (m *BrowseModel) clampCursor() {
	m.column = min(max(m.column, 0), max(len(m.Session.Columns())-1, 0))
	n := len(m.Session.Rows())
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.lines {
		m.offset = m.cursor - m.lines + 1
	}
}

func (m BrowseModel) View() string {
	s := m.Session
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %.0f px", s.RuleSet().Descriptor().Name, s.Height())))
	b.WriteString("\n")
	b.WriteString(m.columnsLine())
	b.WriteString("\n\n")

	rows := s.Rows()
	end := min(m.offset+m.lines, len(rows))
	labelWidth := max(m.width-barWidth-16, 10)
	maxLeaf := s.Dataset().Layout.MaxLeafHeight
	for i := m.offset; i < end; i++ {
		b.WriteString(m.rowLine(rows[i], i == m.cursor, labelWidth, maxLeaf))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("[%d/%d] %d selected", min(m.cursor+1, len(rows)), len(rows), len(s.Selected()))))
	switch {
	case m.err != nil:
		b.WriteString("  " + styleIconError.Render(iconError+" "+ErrorMessage(m.err)))
	case m.status != "":
		b.WriteString("  " + StyleSuccess.Render(m.status))
	}
	b.WriteString("\n")
	for _, line := range violationLines(s.Violations()) {
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(truncate(line, max(m.width-2, 10))))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// columnsLine lists the columns with the column cursor, grouping and sort
// markers.
func (m BrowseModel) columnsLine() string {
	s := m.Session
	keys := s.GroupKeys()
	parts := make([]string, len(s.Columns()))
	for i, c := range s.Columns() {
		name := c.Name
		if j := slices.Index(keys, c.Name); j >= 0 {
			name = fmt.Sprintf("%s[g%d]", name, j+1)
		}
		if s.SortKey() == c.Name {
			name += "[s]"
		}
		switch {
		case i == m.column:
			parts[i] = listActiveStyle.Render(name)
		case slices.Contains(keys, c.Name):
			parts[i] = styleGroup.Render(name)
		default:
			parts[i] = listColumnStyle.Render(name)
		}
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (m BrowseModel) rowLine(r layout.Row, current bool, labelWidth int, maxLeaf float64) string {
	marker := "  "
	if current {
		marker = "▸ "
	}
	sel := " "
	if r.Node.Selected() {
		sel = iconSelected
	}

	label := padRight(truncate(rowLabel(r, m.LabelColumn), labelWidth), labelWidth)

	fill := int(math.Round(min(r.Height()/maxLeaf, 1) * barWidth))
	bar := padRight(strings.Repeat("█", fill), barWidth)

	line := fmt.Sprintf("%s%s %s %s %6.1f %s", marker, sel, label, listBarStyle.Render(bar), r.Height(), StyleDim.Render(r.LOD.String()))
	switch {
	case current:
		return listCursorStyle.Render(line)
	case r.Node.Kind() == tree.KindInner:
		return styleCollapsed.Render(line)
	case r.Node.Selected():
		return styleSelected.Render(line)
	}
	return line
}

// labelOf names the row with data index idx.
func (m BrowseModel) labelOf(idx int) string {
	rows := m.Session.Dataset().Rows
	if idx >= 0 && idx < len(rows) && m.LabelColumn != "" {
		if s := rows[idx].Text(m.LabelColumn); s != "" {
			return s
		}
	}
	return fmt.Sprintf("#%d", idx)
}
