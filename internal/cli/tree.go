package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taggle/pkg/pipeline"
)

type treeOpts struct {
	view        viewFlags
	output      string
	formats     string
	labelColumn string
}

// treeCommand creates the tree command that writes node-link diagrams of
// the row tree.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree [dataset]",
		Short: "Write the row tree as a node-link diagram",
		Long: `Write the row tree as a node-link diagram.

The tree is grouped, sorted and laid out like 'layout' does, then written
as Graphviz DOT or rendered to SVG. Every node shows its height, level of
detail and visualization type. Rows inside collapsed groups are omitted.

Use -o - to write a single format to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if opts.output == "-" && len(formats) != 1 {
				return fmt.Errorf("-o - needs exactly one format, got %s", strings.Join(formats, ","))
			}
			return c.runTree(cmd.Context(), args[0], formats, opts)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: <dataset>.<format>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().StringVar(&opts.labelColumn, "label", "", "column that names rows (default: first string column)")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, path string, formats []string, opts treeOpts) error {
	runner := c.newRunner()
	ds, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}

	popts := opts.view.options()
	popts.Formats = formats
	popts.LabelColumn = opts.labelColumn
	popts.Logger = loggerFromContext(ctx)

	result, err := runner.Execute(ctx, ds, popts)
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[formats[0]])
		return err
	}

	paths := outputPaths(path, opts.output, formats)
	for _, format := range sortedKeys(paths) {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Wrote %d diagram(s) of %d visible rows", len(paths), result.Stats.VisibleRows)
	for _, format := range sortedKeys(paths) {
		printFile(paths[format])
	}
	printViolations(result.Violations)
	return nil
}

// outputPaths maps each format to its output file. A single format with
// an explicit output writes there; otherwise output (or the dataset path)
// is a base path and the format is the extension.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
