package layout

import (
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/tree"
)

// Row is one visible line of the table: a leaf or a collapsed group.
// Offsets grow downwards from the top of the viewport, in pixels.
type Row struct {
	Node  tree.Node
	Level int
	Top   float64
	// Bottom is Top plus the node height; margins and group spacing
	// follow below it.
	Bottom float64
	LOD    rule.LOD
	// EndsGroup is set when group spacing follows the row.
	EndsGroup bool
}

// Height returns the vertical span of the row.
func (r Row) Height() float64 { return r.Bottom - r.Top }

// CenterY returns the vertical center of the row.
func (r Row) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Rows stacks the visible nodes of root in render order. Each leaf is
// followed by the margin of its level of detail and every group end by
// m.GroupSpacing.
func Rows(root *tree.Inner, m rule.Metrics) []Row {
	visible := tree.FlatRows(root)
	rows := make([]Row, 0, len(visible))
	var y float64
	for _, r := range visible {
		n := r.Node
		lod := rule.LevelOfDetail(n)
		h := n.Height()
		rows = append(rows, Row{
			Node:      n,
			Level:     tree.Level(n),
			Top:       y,
			Bottom:    y + h,
			LOD:       lod,
			EndsGroup: r.EndsGroup,
		})
		y += h
		if n.Kind() == tree.KindLeaf {
			y += m.LeafMargins.For(lod)
		}
		if r.EndsGroup {
			y += m.GroupSpacing
		}
	}
	return rows
}

// Extent returns the total height rows occupy, including the trailing
// margin or spacing of the last row.
func Extent(rows []Row, m rule.Metrics) float64 {
	if len(rows) == 0 {
		return 0
	}
	last := rows[len(rows)-1]
	y := last.Bottom
	if last.Node.Kind() == tree.KindLeaf {
		y += m.LeafMargins.For(last.LOD)
	}
	if last.EndsGroup {
		y += m.GroupSpacing
	}
	return y
}
