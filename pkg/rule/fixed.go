package rule

import (
	"math"

	"github.com/matzehuels/taggle/pkg/tree"
)

// Table-lens shape: rows next to a selection are TableLensMaxHeight tall
// and shrink to TableLensMinHeight over TableLensReach siblings.
const (
	TableLensMaxHeight = 40.0
	TableLensMinHeight = 2.0
	TableLensReach     = 7
)

func flatDescriptor(name string) Descriptor {
	return Descriptor{Name: name, StratificationLevels: 0, SortLevels: 1}
}

func defaultInner(m Metrics) (Value[*tree.Inner, float64], Value[*tree.Inner, tree.VisType]) {
	return Const[*tree.Inner](m.DefaultAggregatedHeight), Const[*tree.Inner](tree.VisDefault)
}

// TableRuleSet lays out a flat table with rows of the default height.
func TableRuleSet(m Metrics) RuleSet {
	innerHeight, innerVis := defaultInner(m)
	return Static(flatDescriptor(NameTable), Instance{
		LeafHeight:   Const[tree.LeafNode](m.DefaultLeafHeight),
		LeafVisType:  Const[tree.LeafNode](tree.VisDefault),
		InnerHeight:  innerHeight,
		InnerVisType: innerVis,
	})
}

// CompactRuleSet lays out a flat table of compact rows.
func CompactRuleSet(m Metrics) RuleSet {
	innerHeight, innerVis := defaultInner(m)
	return Static(flatDescriptor(NameCompact), Instance{
		LeafHeight:   Const[tree.LeafNode](m.CompactLeafHeight),
		LeafVisType:  Const[tree.LeafNode](tree.VisCompact),
		InnerHeight:  innerHeight,
		InnerVisType: innerVis,
	})
}

// TableLensHeight returns the height of a row distance rows away from the
// nearest selected sibling. found is false when no sibling is selected.
func TableLensHeight(distance int, found bool) float64 {
	if !found {
		return TableLensMinHeight
	}
	d := float64(min(distance, TableLensReach))
	return max(TableLensMinHeight, TableLensMaxHeight*math.Sin(math.Pi/2*((TableLensReach-d)/TableLensReach)))
}

// tableLensDistances maps every leaf below root to the distance of its
// nearest selected sibling, or -1 when no sibling is selected.
func tableLensDistances(root *tree.Inner) map[tree.LeafNode]int {
	out := make(map[tree.LeafNode]int)
	tree.Visit(root, func(n *tree.Inner) bool {
		for i, d := range tree.SiblingDistances(n, tree.Node.Selected) {
			if l, ok := n.Children()[i].(tree.LeafNode); ok {
				out[l] = d
			}
		}
		return true
	}, nil)
	return out
}

// TableLensRuleSet magnifies the rows around selected rows of a flat table.
// Heights follow the selection, so both leaf attributes are computed.
func TableLensRuleSet(m Metrics) RuleSet {
	innerHeight, innerVis := defaultInner(m)
	return Factory(flatDescriptor(NameTableLens), func(root *tree.Inner, _ float64) *Instance {
		distances := tableLensDistances(root)
		height := func(l tree.LeafNode) float64 {
			d, ok := distances[l]
			if !ok {
				return TableLensHeight(tree.NearestSibling(l, tree.Node.Selected))
			}
			return TableLensHeight(d, d >= 0)
		}
		return &Instance{
			LeafHeight: Computed(height),
			LeafVisType: Computed(func(l tree.LeafNode) tree.VisType {
				if height(l) < m.DefaultLeafHeight {
					return tree.VisCompact
				}
				return tree.VisDefault
			}),
			InnerHeight:  innerHeight,
			InnerVisType: innerVis,
		}
	})
}

func unlimited(name string) Descriptor {
	return Descriptor{Name: name, StratificationLevels: Unlimited, SortLevels: Unlimited}
}

// NotSpacefillingNotProportional gives every row and every collapsed group a
// fixed height, ignoring the viewport.
func NotSpacefillingNotProportional(m Metrics) RuleSet {
	innerHeight, innerVis := defaultInner(m)
	return Static(unlimited(NameNotSpacefillingNotProportional), Instance{
		LeafHeight:   Const[tree.LeafNode](m.DefaultLeafHeight),
		LeafVisType:  Const[tree.LeafNode](tree.VisDefault),
		InnerHeight:  innerHeight,
		InnerVisType: innerVis,
	})
}

// NotSpacefillingProportional ignores the viewport: unselected rows get the
// minimum height, selected rows the default height, and a collapsed group
// the minimum height per unfiltered leaf, clamped to the group bounds.
func NotSpacefillingProportional(m Metrics) RuleSet {
	return Factory(unlimited(NameNotSpacefillingProportional), func(*tree.Inner, float64) *Instance {
		inst := &Instance{
			LeafHeight: Computed(func(l tree.LeafNode) float64 {
				if l.Selected() {
					return m.DefaultLeafHeight
				}
				return m.MinLeafHeight
			}),
			LeafVisType:  Const[tree.LeafNode](tree.VisDefault),
			InnerVisType: Const[*tree.Inner](tree.VisDefault),
		}
		inst.InnerHeight = Computed(func(n *tree.Inner) float64 {
			if n.Aggregation() != tree.Aggregated {
				return m.DefaultAggregatedHeight
			}
			return inst.clampGroup(ViolationProportional, m, float64(n.FlatLeavesLength())*m.MinLeafHeight)
		})
		return inst
	})
}
