package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/taggle/pkg/render/nodelink"
	"github.com/matzehuels/taggle/pkg/table"
	"github.com/matzehuels/taggle/pkg/tree"
)

// Render generates node-link diagrams of the tree in the requested formats.
func Render(ctx context.Context, root *tree.Inner, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(root, nodelink.Options{
		Detailed:      true,
		HideCollapsed: true,
		Label:         LeafLabel(opts.LabelColumn),
	})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			data, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[format] = data
		}
	}
	return artifacts, nil
}

// LeafLabel returns a label function that names leaves by a column value.
// An empty column falls back to the row's data index.
func LeafLabel(column string) func(tree.LeafNode) string {
	return func(l tree.LeafNode) string {
		if row, ok := l.Payload().(table.Row); ok && column != "" {
			if s := row.Text(column); s != "" {
				return s
			}
		}
		return fmt.Sprintf("#%d", l.DataIndex())
	}
}

// DefaultLabelColumn returns the first string column, or "".
func DefaultLabelColumn(columns table.Columns) string {
	for _, c := range columns {
		if c.Type == table.TypeString {
			return c.Name
		}
	}
	return ""
}
