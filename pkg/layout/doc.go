// Package layout applies rule sets to row trees.
//
// A layout pass is one depth-first traversal that writes the aggregated
// height and visual type of every inner node and the height and visual type
// of every leaf. [ApplyStatic] writes every attribute and must follow any
// structural change (regrouping, resorting, switching rule sets).
// [ApplyDynamic] only re-evaluates attributes the rule set computes per node
// and is meant for repaints after selection changes or viewport resizes.
//
// Passes are synchronous and must not run concurrently on the same tree. A
// pass depends only on the tree's current shape, selection and the given
// height; nothing carries over from earlier passes.
//
// After a pass, [Rows] turns the visible part of the tree into positioned
// rows for a renderer.
package layout
