package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/pipeline"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/tree"
)

// rulesCommand creates the rules command that lists the rule set catalog.
func (c *CLI) rulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available layout rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(rulesTable(rule.DefaultRegistry(rule.DefaultMetrics())))
			printNewline()
			printNextStep("Use one", appName+" layout <dataset> --rule-set <name>")
			return nil
		},
	}
}

// rulesTable renders one line per rule set: its grouping and sort levels
// and whether its heights follow the selection.
func rulesTable(reg *rule.Registry) string {
	var rows [][]string
	for _, rs := range reg.All() {
		d := rs.Descriptor()
		name := d.Name
		if name == pipeline.DefaultRuleSet {
			name += " (default)"
		}
		dynamic := "no"
		if layout.IsDynamic(rs.Apply(tree.NewInner(""), pipeline.DefaultHeight)) {
			dynamic = "yes"
		}
		rows = append(rows, []string{name, levelsString(d.StratificationLevels), levelsString(d.SortLevels), dynamic})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Rule set", "Group levels", "Sort levels", "Follows selection").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
