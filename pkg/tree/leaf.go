package tree

import "fmt"

// LeafNode is the type-erased view of a [Leaf]. Layout policies use it to
// address leaves without knowing the row type.
type LeafNode interface {
	Node
	DataIndex() int
	Payload() any
	SetSelected(selected bool)
	SetDOI(doi float64)
	SetFiltered(filtered bool)
}

// Leaf wraps one source row of type T.
type Leaf[T any] struct {
	nodeBase
	item      T
	dataIndex int
	height    float64
	doi       float64
	selected  bool
}

// NewLeaf creates an unparented leaf for item at position dataIndex of the
// source rows.
func NewLeaf[T any](item T, dataIndex int) *Leaf[T] {
	return &Leaf[T]{
		nodeBase:  nodeBase{visType: VisDefault},
		item:      item,
		dataIndex: dataIndex,
		height:    DefaultLeafHeight,
		doi:       DefaultDOI,
	}
}

func (l *Leaf[T]) Kind() Kind { return KindLeaf }

// Item returns the wrapped row.
func (l *Leaf[T]) Item() T { return l.item }

// Payload returns the wrapped row as an untyped value.
func (l *Leaf[T]) Payload() any { return l.item }

// DataIndex returns the row's position in the original, ungrouped and
// unsorted row slice.
func (l *Leaf[T]) DataIndex() int { return l.dataIndex }

func (l *Leaf[T]) Height() float64     { return l.height }
func (l *Leaf[T]) SetHeight(h float64) { l.height = h }

func (l *Leaf[T]) Selected() bool            { return l.selected }
func (l *Leaf[T]) SetSelected(selected bool) { l.selected = selected }

func (l *Leaf[T]) DOI() float64       { return l.doi }
func (l *Leaf[T]) SetDOI(doi float64) { l.doi = doi }

func (l *Leaf[T]) Filtered() bool { return l.doi == 0 }

// SetFiltered hides the leaf (doi 0) or restores the default interest.
func (l *Leaf[T]) SetFiltered(filtered bool) {
	if filtered {
		l.doi = 0
		return
	}
	l.doi = DefaultDOI
}

func (l *Leaf[T]) FlatLength() int { return l.FlatLeavesLength() }

func (l *Leaf[T]) FlatLeavesLength() int {
	if l.Filtered() {
		return 0
	}
	return 1
}

func (l *Leaf[T]) String() string { return fmt.Sprint(l.item) }

var _ LeafNode = (*Leaf[int])(nil)
