package tree

// Visit walks the tree depth-first in render order. visitInner is called
// before an inner node's children and returning false skips them.
// Either callback may be nil.
func Visit(root Node, visitInner func(*Inner) bool, visitLeaf func(LeafNode)) {
	switch n := root.(type) {
	case *Inner:
		if visitInner != nil && !visitInner(n) {
			return
		}
		for _, c := range n.children {
			Visit(c, visitInner, visitLeaf)
		}
	case LeafNode:
		if visitLeaf != nil {
			visitLeaf(n)
		}
	}
}

// Walk returns every node of the tree in pre-order, root first.
func Walk(root Node) []Node {
	var out []Node
	var walk func(Node)
	walk = func(n Node) {
		out = append(out, n)
		if inner, ok := n.(*Inner); ok {
			for _, c := range inner.children {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

// Flat returns the visible rows of the tree: unfiltered leaves and
// unfiltered collapsed groups. Collapsed groups hide their children.
func Flat(root Node) []Node {
	return appendFlat(nil, root)
}

func appendFlat(out []Node, n Node) []Node {
	inner, isInner := n.(*Inner)
	if !isInner || inner.aggregation == Aggregated {
		if !n.Filtered() {
			out = append(out, n)
		}
		return out
	}
	for _, c := range inner.children {
		out = appendFlat(out, c)
	}
	return out
}

// FlatRow is one visible row and whether group spacing follows it.
type FlatRow struct {
	Node      Node
	EndsGroup bool
}

// FlatRows is Flat with the EndsGroup flag of every row, computed in a
// single pass. The last unfiltered child of each expanded group is looked
// up once per group instead of once per leaf.
func FlatRows(root Node) []FlatRow {
	return appendFlatRows(nil, root)
}

func appendFlatRows(out []FlatRow, n Node) []FlatRow {
	inner, isInner := n.(*Inner)
	if !isInner || inner.aggregation == Aggregated {
		if !n.Filtered() {
			out = append(out, FlatRow{Node: n, EndsGroup: isInner && inner.Parent() != nil})
		}
		return out
	}
	last := -1
	if inner.Parent() != nil {
		last = lastUnfiltered(inner.children)
	}
	for i, c := range inner.children {
		out = appendFlatRows(out, c)
		if i == last && c.Kind() == KindLeaf {
			out[len(out)-1].EndsGroup = true
		}
	}
	return out
}

func lastUnfiltered(children []Node) int {
	for i := len(children) - 1; i >= 0; i-- {
		if !children[i].Filtered() {
			return i
		}
	}
	return -1
}

// Leaves returns every leaf of the tree, filtered ones included, in render
// order.
func Leaves(root Node) []LeafNode {
	var out []LeafNode
	Visit(root, nil, func(l LeafNode) { out = append(out, l) })
	return out
}

// FlatLeaves returns every leaf holding a row of type T, in render order.
func FlatLeaves[T any](root Node) []*Leaf[T] {
	var out []*Leaf[T]
	Visit(root, nil, func(l LeafNode) {
		if typed, ok := l.(*Leaf[T]); ok {
			out = append(out, typed)
		}
	})
	return out
}

// Find returns the first inner node, in pre-order, whose path string equals
// path. The root matches the empty path.
func Find(root *Inner, path string) (*Inner, bool) {
	var found *Inner
	Visit(root, func(n *Inner) bool {
		if found != nil {
			return false
		}
		if PathString(n) == path {
			found = n
			return false
		}
		return true
	}, nil)
	return found, found != nil
}
