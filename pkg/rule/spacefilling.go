package rule

import (
	"github.com/matzehuels/taggle/pkg/tree"
)

// visibleCounts summarizes the visible rows of a tree for space-filling
// allocation.
type visibleCounts struct {
	aggregated int // collapsed groups
	groups     int // rows followed by group spacing
	items      int // leaves
	selected   int // selected leaves
}

func countVisible(root *tree.Inner) visibleCounts {
	var c visibleCounts
	for _, r := range tree.FlatRows(root) {
		n := r.Node
		if r.EndsGroup {
			c.groups++
		}
		if n.Kind() == tree.KindInner {
			c.aggregated++
			continue
		}
		c.items++
		if n.Selected() {
			c.selected++
		}
	}
	return c
}

// SpacefillingNotProportional fills the viewport: every unselected visible
// row gets the same height, selected rows keep the default height and
// collapsed groups the default aggregated height.
func SpacefillingNotProportional(m Metrics) RuleSet {
	return Factory(unlimited(NameSpacefillingNotProportional), func(root *tree.Inner, availableHeight float64) *Instance {
		return newSpacefillingNotProportional(m, root, availableHeight)
	})
}

func newSpacefillingNotProportional(m Metrics, root *tree.Inner, availableHeight float64) *Instance {
	c := countVisible(root)
	pinned := m.DefaultLeafHeight

	leafHeight := pinned
	if unselected := c.items - c.selected; unselected > 0 {
		available := availableHeight - m.PaddingBottom -
			float64(c.aggregated)*m.DefaultAggregatedHeight -
			float64(c.groups)*m.GroupSpacing -
			float64(c.selected)*(pinned+m.LeafMargins.High)
		leafHeight = m.fitLeaf(available / float64(unselected))
	}

	inst := &Instance{
		LeafVisType:  Const[tree.LeafNode](tree.VisDefault),
		InnerHeight:  Const[*tree.Inner](m.DefaultAggregatedHeight),
		InnerVisType: Const[*tree.Inner](tree.VisDefault),
	}
	inst.LeafHeight = Computed(func(l tree.LeafNode) float64 {
		if l.Selected() {
			return pinned
		}
		return inst.clampLeaf(ViolationSpaceFilling, m, leafHeight)
	})
	return inst
}

// SpacefillingProportional fills the viewport in proportion to group size:
// every unfiltered leaf is worth one unit of height, a collapsed group is
// as tall as the units of its leaves and selected rows keep the default
// height.
func SpacefillingProportional(m Metrics) RuleSet {
	return Factory(unlimited(NameSpacefillingProportional), func(root *tree.Inner, availableHeight float64) *Instance {
		return newSpacefillingProportional(m, root, availableHeight)
	})
}

func newSpacefillingProportional(m Metrics, root *tree.Inner, availableHeight float64) *Instance {
	c := countVisible(root)
	pinned := m.DefaultLeafHeight

	// Leaves hidden in collapsed groups count as unselected.
	items := root.FlatLeavesLength()
	unselected := items - c.selected

	unit := 1.0
	if unselected > 0 {
		available := availableHeight - m.PaddingBottom -
			float64(c.groups)*m.GroupSpacing -
			float64(c.selected)*(pinned+m.LeafMargins.High)
		unit = available / float64(unselected)
	}
	leafHeight := m.fitLeaf(unit)

	inst := &Instance{
		LeafVisType:  Const[tree.LeafNode](tree.VisDefault),
		InnerVisType: Const[*tree.Inner](tree.VisDefault),
	}
	inst.LeafHeight = Computed(func(l tree.LeafNode) float64 {
		if l.Selected() {
			return pinned
		}
		return inst.clampLeaf(ViolationSpaceFilling, m, leafHeight)
	})
	inst.InnerHeight = Computed(func(n *tree.Inner) float64 {
		if n.Aggregation() != tree.Aggregated {
			return m.DefaultAggregatedHeight
		}
		// Hidden selected leaves take one unit here, matching their share of items.
		return inst.clampGroup(ViolationSpaceFilling, m, float64(n.FlatLeavesLength())*unit)
	})
	return inst
}
