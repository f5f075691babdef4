package tree

// Aggregation controls how an inner node derives and distributes its height.
type Aggregation int

const (
	// Uniform splits an assigned height evenly across the children.
	Uniform Aggregation = iota
	// NonUniform splits an assigned height by unfiltered leaf count and
	// collapses inner children.
	NonUniform
	// Aggregated collapses the group into a single summary row.
	Aggregated
)

func (a Aggregation) String() string {
	switch a {
	case NonUniform:
		return "non-uniform"
	case Aggregated:
		return "aggregated"
	default:
		return "uniform"
	}
}

// Inner is a group node owning an ordered slice of children.
type Inner struct {
	nodeBase
	name             string
	children         []Node
	aggregation      Aggregation
	aggregatedHeight float64
	aggregate        map[string][]int
}

// NewInner creates an empty, expanded group.
func NewInner(name string) *Inner {
	return &Inner{
		nodeBase:         nodeBase{visType: VisDefault},
		name:             name,
		aggregatedHeight: DefaultAggregatedHeight,
	}
}

func (n *Inner) Kind() Kind     { return KindInner }
func (n *Inner) Name() string   { return n.name }
func (n *Inner) String() string { return n.name }

// Children returns the children in render order. The slice is owned by the
// node and must not be modified; use SetChildren instead.
func (n *Inner) Children() []Node { return n.children }

// SetChildren replaces the children and points their parent at n.
func (n *Inner) SetChildren(children ...Node) {
	n.children = children
	for _, c := range children {
		c.base().parent = n
	}
}

// AppendChild adds c as the last child of n.
func (n *Inner) AppendChild(c Node) {
	c.base().parent = n
	n.children = append(n.children, c)
}

// Flatten replaces the subtree below n with its leaves, in their current
// render order. Leaf identity is preserved and intermediate groups are
// dropped. Layout passes flatten trees that may already be sorted, so unlike
// table.Restratify without keys this does not return to data order.
func (n *Inner) Flatten() {
	leaves := Leaves(n)
	children := make([]Node, len(leaves))
	for i, l := range leaves {
		children[i] = l
	}
	n.SetChildren(children...)
}

func (n *Inner) Aggregation() Aggregation     { return n.aggregation }
func (n *Inner) SetAggregation(a Aggregation) { n.aggregation = a }

func (n *Inner) AggregatedHeight() float64     { return n.aggregatedHeight }
func (n *Inner) SetAggregatedHeight(h float64) { n.aggregatedHeight = h }

// Aggregate returns the per-column histogram summaries of the group.
func (n *Inner) Aggregate() map[string][]int       { return n.aggregate }
func (n *Inner) SetAggregate(agg map[string][]int) { n.aggregate = agg }

// Height returns AggregatedHeight for collapsed groups and the sum of the
// children's heights otherwise.
func (n *Inner) Height() float64 {
	if n.aggregation == Aggregated {
		return n.aggregatedHeight
	}
	var sum float64
	for _, c := range n.children {
		sum += c.Height()
	}
	return sum
}

// SetHeight stores h for collapsed groups and distributes it over the
// children otherwise.
func (n *Inner) SetHeight(h float64) {
	switch n.aggregation {
	case Aggregated:
		n.aggregatedHeight = h
	case Uniform:
		n.distributeEvenly(h)
	case NonUniform:
		sizes := make([]int, len(n.children))
		total := 0
		for i, c := range n.children {
			sizes[i] = c.FlatLeavesLength()
			total += sizes[i]
		}
		for _, c := range n.children {
			if inner, ok := c.(*Inner); ok {
				inner.aggregation = Aggregated
			}
		}
		if total == 0 {
			n.distributeEvenly(h)
			return
		}
		for i, c := range n.children {
			c.SetHeight(float64(sizes[i]) / float64(total) * h)
		}
	}
}

func (n *Inner) distributeEvenly(h float64) {
	if len(n.children) == 0 {
		return
	}
	each := h / float64(len(n.children))
	for _, c := range n.children {
		c.SetHeight(each)
	}
}

// Selected reports whether any leaf below n is selected.
func (n *Inner) Selected() bool {
	for _, c := range n.children {
		if c.Selected() {
			return true
		}
	}
	return false
}

// DOI returns the highest degree of interest among the children.
func (n *Inner) DOI() float64 {
	var doi float64
	for _, c := range n.children {
		doi = max(doi, c.DOI())
	}
	return doi
}

// Filtered reports whether every child is filtered. An empty group is
// filtered.
func (n *Inner) Filtered() bool {
	for _, c := range n.children {
		if !c.Filtered() {
			return false
		}
	}
	return true
}

// Length returns 1 plus the number of direct children.
func (n *Inner) Length() int { return 1 + len(n.children) }

func (n *Inner) FlatLength() int {
	total := 1
	for _, c := range n.children {
		total += c.FlatLength()
	}
	return total
}

func (n *Inner) FlatLeavesLength() int {
	total := 0
	for _, c := range n.children {
		total += c.FlatLeavesLength()
	}
	return total
}

// FlatChildren returns the visible rows below n. See [Flat].
func (n *Inner) FlatChildren() []Node {
	var out []Node
	for _, c := range n.children {
		out = appendFlat(out, c)
	}
	return out
}
