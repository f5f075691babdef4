package tree

import (
	"slices"
	"strings"
)

// Kind distinguishes leaves from inner nodes.
type Kind int

const (
	// KindLeaf is a node representing exactly one source row.
	KindLeaf Kind = iota
	// KindInner is a group of zero or more child nodes.
	KindInner
)

func (k Kind) String() string {
	if k == KindInner {
		return "inner"
	}
	return "leaf"
}

// VisType is the visual variant a renderer should use for a node.
type VisType string

const (
	VisDefault VisType = "default"
	VisCompact VisType = "compact"
	VisMean    VisType = "mean"
)

// Default sizes applied to freshly created nodes.
const (
	DefaultLeafHeight       = 20.0
	DefaultAggregatedHeight = 100.0
	// DefaultDOI is the degree of interest of an unfiltered leaf.
	DefaultDOI = 0.5
)

// Node is a vertex of the row tree: either a *[Leaf] or an *[Inner].
//
// The interface is sealed; only this package provides implementations.
type Node interface {
	Kind() Kind

	// Height returns the node's current height in pixels.
	Height() float64
	// SetHeight assigns a height. For inner nodes the effect depends on
	// the node's Aggregation.
	SetHeight(h float64)

	VisType() VisType
	SetVisType(v VisType)

	// Selected reports whether the leaf is selected or, for an inner node,
	// whether any leaf below it is selected.
	Selected() bool

	// DOI returns the degree of interest in [0, 1]; zero means filtered.
	DOI() float64
	Filtered() bool

	// Parent returns the enclosing group, or nil for the root.
	Parent() *Inner

	// FlatLength counts the visible rows of the subtree, including the
	// node itself for inner nodes.
	FlatLength() int
	// FlatLeavesLength counts the unfiltered leaves of the subtree.
	FlatLeavesLength() int

	String() string

	base() *nodeBase
}

type nodeBase struct {
	parent  *Inner
	visType VisType
}

func (b *nodeBase) base() *nodeBase      { return b }
func (b *nodeBase) Parent() *Inner       { return b.parent }
func (b *nodeBase) VisType() VisType     { return b.visType }
func (b *nodeBase) SetVisType(v VisType) { b.visType = v }

// Index returns the position of n among its siblings, or -1 for the root.
func Index(n Node) int {
	p := n.Parent()
	if p == nil {
		return -1
	}
	return slices.Index(p.children, n)
}

// Level returns the depth of n; the root is at level 0.
func Level(n Node) int {
	level := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		level++
	}
	return level
}

// Parents returns the ancestors of n, nearest first.
func Parents(n Node) []*Inner {
	var out []*Inner
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// Path returns n followed by its ancestors, nearest first.
func Path(n Node) []Node {
	out := []Node{n}
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// PathString joins the labels from below the root down to n with dots,
// e.g. "Asia.Female". The root itself has the empty path.
func PathString(n Node) string {
	path := Path(n)
	path = path[:len(path)-1]
	labels := make([]string, len(path))
	for i, p := range path {
		labels[len(path)-1-i] = p.String()
	}
	return strings.Join(labels, ".")
}

// IsFirstChild reports whether n is the first child of its parent.
// The root counts as both first and last child.
func IsFirstChild(n Node) bool {
	p := n.Parent()
	return p == nil || (len(p.children) > 0 && p.children[0] == n)
}

// IsLastChild reports whether n is the last child of its parent.
func IsLastChild(n Node) bool {
	p := n.Parent()
	return p == nil || (len(p.children) > 0 && p.children[len(p.children)-1] == n)
}

// NearestSibling returns the distance from n to the closest sibling
// (n itself included, at distance 0) for which match returns true.
// The second result is false when there is no parent or no sibling matches.
func NearestSibling(n Node, match func(Node) bool) (int, bool) {
	p := n.Parent()
	if p == nil {
		return 0, false
	}
	idx := slices.Index(p.children, n)
	if idx < 0 {
		return 0, false
	}
	for d := 0; d < len(p.children); d++ {
		if before := idx - d; before >= 0 && match(p.children[before]) {
			return d, true
		}
		if after := idx + d; after < len(p.children) && match(p.children[after]) {
			return d, true
		}
	}
	return 0, false
}

// SiblingDistances returns, for every child of p in order, the distance to
// the closest child (itself included) for which match returns true, or -1
// when none does. Two sweeps over the children keep it linear.
func SiblingDistances(p *Inner, match func(Node) bool) []int {
	dist := make([]int, len(p.children))
	last := -1
	for i, c := range p.children {
		if match(c) {
			last = i
		}
		dist[i] = -1
		if last >= 0 {
			dist[i] = i - last
		}
	}
	next := -1
	for i := len(p.children) - 1; i >= 0; i-- {
		if match(p.children[i]) {
			next = i
		}
		if next >= 0 && (dist[i] < 0 || next-i < dist[i]) {
			dist[i] = next - i
		}
	}
	return dist
}

// EndsGroup reports whether n is followed by group spacing in the visible
// row list. Collapsed groups always are; a leaf is when it is the last
// unfiltered child of a group below the root. Callers walking every row
// should use FlatRows instead.
func EndsGroup(n Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	switch n := n.(type) {
	case *Inner:
		return n.aggregation == Aggregated
	case LeafNode:
		if p.Parent() == nil || n.Filtered() {
			return false
		}
		idx := slices.Index(p.children, Node(n))
		for _, c := range p.children[idx+1:] {
			if !c.Filtered() {
				return false
			}
		}
		return true
	}
	return false
}
