package tree

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FromSlice builds a flat tree: one unnamed root with one leaf per row.
// Each leaf gets height leafHeight and DataIndex equal to its row position.
func FromSlice[T any](rows []T, leafHeight float64) *Inner {
	root := NewInner("")
	children := make([]Node, len(rows))
	for i, r := range rows {
		l := NewLeaf(r, i)
		l.height = leafHeight
		children[i] = l
	}
	root.SetChildren(children...)
	return root
}

// GroupBy rebuilds the group structure below root from leaves.
//
// grouper returns the group path of a row; the first element selects the
// top-level group, further elements nested sub-groups. Groups are created in
// first-encountered order. A row with an empty path stays directly below
// root. Existing inner nodes below root are discarded; the leaves are
// reparented, not copied.
func GroupBy[T any](root *Inner, leaves []*Leaf[T], grouper func(T) []string) *Inner {
	top := make(map[string]*Inner)
	root.children = nil
	for _, l := range leaves {
		keys := grouper(l.item)
		if len(keys) == 0 {
			root.AppendChild(l)
			continue
		}
		group, ok := top[keys[0]]
		if !ok {
			group = NewInner(keys[0])
			root.AppendChild(group)
			top[keys[0]] = group
		}
		for _, key := range keys[1:] {
			group = childGroup(group, key)
		}
		group.AppendChild(l)
	}
	return root
}

func childGroup(parent *Inner, name string) *Inner {
	for _, c := range parent.children {
		if inner, ok := c.(*Inner); ok && inner.name == name {
			return inner
		}
	}
	inner := NewInner(name)
	parent.AppendChild(inner)
	return inner
}

// Sort reorders the children of every inner node in place. Groups come
// first, ordered by name using locale-aware collation; leaves follow,
// stably ordered by cmp on their rows.
func Sort[T any](root *Inner, cmp func(a, b T) int) *Inner {
	sortInner(root, collate.New(language.Und), cmp)
	return root
}

func sortInner[T any](n *Inner, coll *collate.Collator, cmp func(a, b T) int) {
	var inners []*Inner
	var leaves []Node
	for _, c := range n.children {
		if inner, ok := c.(*Inner); ok {
			inners = append(inners, inner)
		} else {
			leaves = append(leaves, c)
		}
	}
	slices.SortStableFunc(inners, func(a, b *Inner) int {
		return coll.CompareString(a.name, b.name)
	})
	slices.SortStableFunc(leaves, func(a, b Node) int {
		la, okA := a.(*Leaf[T])
		lb, okB := b.(*Leaf[T])
		if !okA || !okB {
			return 0
		}
		return cmp(la.item, lb.item)
	})
	children := make([]Node, 0, len(n.children))
	for _, inner := range inners {
		sortInner(inner, coll, cmp)
		children = append(children, inner)
	}
	children = append(children, leaves...)
	n.SetChildren(children...)
}
