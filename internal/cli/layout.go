package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taggle/pkg/errors"
	"github.com/matzehuels/taggle/pkg/layout"
	"github.com/matzehuels/taggle/pkg/pipeline"
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/table"
)

// defaultLabelWidth caps the width of the row label column.
const defaultLabelWidth = 32

type layoutOpts struct {
	view        viewFlags
	labelColumn string
	labelWidth  int
	where       []string
}

// layoutCommand creates the layout command that lays out a dataset once and
// prints the visible rows.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{labelWidth: defaultLabelWidth}

	cmd := &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Lay out a dataset and print the visible rows",
		Long: `Lay out a dataset and print the visible rows.

The dataset is a TOML or YAML file declaring columns, rows and optionally
layout metrics and a default view. Flags override the view: grouping,
sorting, selection, collapsed groups and the rule set that computes row
heights for the given viewport height.

Constraint violations (rows clamped to their minimal or maximal height)
are reported as warnings.`,
		Example: `  taggle layout countries.toml --group-by continent --height 400
  taggle layout countries.toml -r SpacefillingProportional --collapse Asia
  taggle layout countries.toml --where continent=Europe --sort-by population`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVar(&opts.labelColumn, "label", "", "column that names rows (default: first string column)")
	cmd.Flags().IntVar(&opts.labelWidth, "label-width", opts.labelWidth, "maximum width of row labels")
	cmd.Flags().StringArrayVar(&opts.where, "where", nil, "only show rows where column=value (repeatable)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	filter, err := parseWhere(opts.where)
	if err != nil {
		return err
	}

	runner := c.newRunner()
	ds, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}
	s, err := runner.NewSession(ds, opts.view.options())
	if err != nil {
		return err
	}
	if filter != nil {
		s.SetFilter(filter)
	}

	label := opts.labelColumn
	if label == "" {
		label = pipeline.DefaultLabelColumn(ds.Columns)
	} else if _, ok := ds.Columns.Find(label); !ok {
		return &errors.UnknownNameError{Kind: "column", Name: label, Known: ds.Columns.Names()}
	}

	rows := s.Rows()
	prog.done(fmt.Sprintf("Laid out %d rows", len(rows)))

	fmt.Println(rowsTable(rows, label, opts.labelWidth))
	printNewline()
	printSuccess("%d of %d rows visible", len(rows), len(ds.Rows))
	printKeyValue("rule set", s.RuleSet().Descriptor().Name)
	if keys := s.GroupKeys(); len(keys) > 0 {
		printKeyValue("grouped by", strings.Join(keys, ", "))
	}
	if key := s.SortKey(); key != "" {
		printKeyValue("sorted by", key)
	}
	printKeyValue("extent", fmt.Sprintf("%.1f of %.1f px", layout.Extent(rows, ds.Layout), s.Height()))
	printViolations(s.Violations())
	return nil
}

// parseWhere turns column=value clauses into a row predicate that keeps
// rows matching all of them. No clauses yield a nil predicate.
func parseWhere(clauses []string) (func(table.Row) bool, error) {
	if len(clauses) == 0 {
		return nil, nil
	}
	type cond struct{ column, value string }
	conds := make([]cond, 0, len(clauses))
	for _, c := range clauses {
		column, value, ok := strings.Cut(c, "=")
		if !ok || column == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --where %q: want column=value", c)
		}
		conds = append(conds, cond{strings.TrimSpace(column), strings.TrimSpace(value)})
	}
	return func(r table.Row) bool {
		for _, c := range conds {
			if r.Text(c.column) != c.value {
				return false
			}
		}
		return true
	}, nil
}

// violationLines flattens a violations map into "kind: message" lines,
// ordered by kind.
func violationLines(v map[rule.ViolationKind]string) []string {
	kinds := make([]rule.ViolationKind, 0, len(v))
	for k := range v {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	var lines []string
	for _, k := range kinds {
		for _, msg := range strings.Split(v[k], "\n") {
			lines = append(lines, fmt.Sprintf("%s: %s", k, msg))
		}
	}
	return lines
}
