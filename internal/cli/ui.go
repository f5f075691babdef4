package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/pipeline"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/tree"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleGroup     = lipgloss.NewStyle().Foreground(colorCyan)
	styleSelected  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleCollapsed = lipgloss.NewStyle().Foreground(colorCyan).Italic(true)
	styleCommand   = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess   = "✓"
	iconError     = "✗"
	iconWarning   = "!"
	iconInfo      = "›"
	iconArrow     = "→"
	iconCollapsed = "▸"
	iconSelected  = "●"
	iconEllipsis  = "…"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// printViolations prints one warning per violation line, sorted by kind.
func printViolations(v map[rule.ViolationKind]string) {
	for _, line := range violationLines(v) {
		printWarning("%s", line)
	}
}

// =============================================================================
// Row Formatting
// =============================================================================

// truncate shortens s to at most width terminal cells, ending in an
// ellipsis when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, iconEllipsis)
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// rowLabel names a visible row: leaves by their label column, groups by
// name and size. Rows are indented by level.
func rowLabel(r layout.Row, labelColumn string) string {
	indent := strings.Repeat("  ", max(r.Level-1, 0))
	switch n := r.Node.(type) {
	case *tree.Inner:
		return fmt.Sprintf("%s%s %s (%d)", indent, iconCollapsed, n.Name(), n.FlatLeavesLength())
	case tree.LeafNode:
		return indent + pipeline.LeafLabel(labelColumn)(n)
	}
	return indent + r.Node.String()
}

// rowsTable renders visible rows as a bordered table.
func rowsTable(rows []layout.Row, labelColumn string, labelWidth int) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		index := ""
		if l, ok := r.Node.(tree.LeafNode); ok {
			index = strconv.Itoa(l.DataIndex())
		}
		data[i] = []string{
			index,
			truncate(rowLabel(r, labelColumn), labelWidth),
			strconv.FormatFloat(r.Top, 'f', 1, 64),
			strconv.FormatFloat(r.Height(), 'f', 1, 64),
			r.LOD.String(),
			string(r.Node.VisType()),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Row", "Top", "Height", "Detail", "Vis").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			n := rows[row].Node
			switch {
			case n.Kind() == tree.KindInner:
				return styleCollapsed
			case n.Selected():
				return styleSelected
			case col == 0 || col == 4 || col == 5:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// levelsString formats a stratification or sort level count.
func levelsString(n int) string {
	if n == rule.Unlimited {
		return "unlimited"
	}
	return strconv.Itoa(n)
}
