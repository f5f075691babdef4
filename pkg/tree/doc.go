// Package tree provides the hierarchical row model behind the adaptive table
// layout.
//
// # Overview
//
// A table is represented as a tree whose leaves are source rows and whose
// inner nodes are groups. The tree is built once from a row slice with
// [FromSlice], producing a single root [Inner] whose children are [Leaf]
// values. Grouping ([GroupBy]) rebuilds the inner structure while reparenting
// the existing leaves, and sorting ([Sort]) only reorders children in place,
// so leaf identity and [Leaf.DataIndex] survive every structural change.
//
// # Heights
//
// Every node has a pixel height. A leaf stores it directly. An inner node
// derives it from its [Aggregation] state:
//
//   - [Aggregated]: the group is collapsed to one summary row and its height
//     is [Inner.AggregatedHeight].
//   - [Uniform]: the height is the sum of the children; assigning a height
//     splits it evenly across the children.
//   - [NonUniform]: the height is the sum of the children; assigning a height
//     splits it proportionally to each child's unfiltered leaf count and
//     collapses every inner child on the way.
//
// # Visibility
//
// A leaf whose degree of interest ([Node.DOI]) is zero is filtered. [Flat]
// returns the visible rows of a tree: unfiltered leaves and unfiltered
// collapsed groups, without descending into collapsed groups.
//
// # Parent References
//
// [Node.Parent] is a non-owning back-reference used only to walk upward
// ([Level], [Parents], [Index], [NearestSibling]). It is rewritten by every
// operation that changes the shape of the tree and is never used for
// ownership: an [Inner] owns its children slice.
//
// A tree is not safe for concurrent use. Grouping, sorting and layout passes
// must be serialized by the caller.
package tree
