package layout

import (
	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/tree"
)

// ApplyStatic creates a fresh instance of rs for root and assigns every
// attribute of every node. Rule sets that forbid grouping flatten the tree
// first. The returned instance holds the pass's violations.
func ApplyStatic(rs rule.RuleSet, root *tree.Inner, availableHeight float64) *rule.Instance {
	if rs.Descriptor().Flat() {
		root.Flatten()
	}
	inst := rs.Apply(root, availableHeight)
	tree.Visit(root, func(n *tree.Inner) bool {
		n.SetAggregatedHeight(inst.InnerHeight.Resolve(n))
		n.SetVisType(inst.InnerVisType.Resolve(n))
		return true
	}, func(l tree.LeafNode) {
		l.SetHeight(inst.LeafHeight.Resolve(l))
		l.SetVisType(inst.LeafVisType.Resolve(l))
	})
	return inst
}

// ApplyDynamic creates a fresh instance of rs for root and re-evaluates only
// its computed attributes. Constant attributes keep the values of the last
// static pass.
func ApplyDynamic(rs rule.RuleSet, root *tree.Inner, availableHeight float64) *rule.Instance {
	inst := rs.Apply(root, availableHeight)
	if !IsDynamic(inst) {
		return inst
	}
	tree.Visit(root, func(n *tree.Inner) bool {
		if inst.InnerHeight.IsComputed() {
			n.SetAggregatedHeight(inst.InnerHeight.Resolve(n))
		}
		if inst.InnerVisType.IsComputed() {
			n.SetVisType(inst.InnerVisType.Resolve(n))
		}
		return true
	}, func(l tree.LeafNode) {
		if inst.LeafHeight.IsComputed() {
			l.SetHeight(inst.LeafHeight.Resolve(l))
		}
		if inst.LeafVisType.IsComputed() {
			l.SetVisType(inst.LeafVisType.Resolve(l))
		}
	})
	return inst
}

// IsDynamic reports whether any attribute of inst is computed per node.
func IsDynamic(inst *rule.Instance) bool {
	return inst.LeafHeight.IsComputed() || inst.LeafVisType.IsComputed() ||
		inst.InnerHeight.IsComputed() || inst.InnerVisType.IsComputed()
}
