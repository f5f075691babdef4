// Package rule defines the layout policies ("rule sets") that decide the
// pixel height and visual variant of every node of a row tree.
//
// # Overview
//
// A rule set has two parts. The [Descriptor] is static: a name, how deep the
// tree may be grouped, how many sort keys apply, and a level-of-detail
// classifier. The [Instance] is produced per layout pass by [RuleSet.Apply]
// from the current tree and viewport height, because space-filling policies
// must count the rows that are visible right now.
//
// Each attribute of an instance is a [Value]: either a constant or a function
// of the node. The layout engine writes constants once per structural change
// and re-evaluates functions on every repaint.
//
// # Catalog
//
// [DefaultRegistry] builds the fixed catalog:
//
//	table                           flat rows, default height
//	compact                         flat rows, 2px compact rendering
//	tablelens                       fisheye around selected rows
//	NotSpacefillingNotProportional  fixed row and group heights
//	NotSpacefillingProportional     groups scale with their size
//	SpacefillingNotProportional     rows share the viewport evenly
//	SpacefillingProportional        rows and groups share the viewport by size
//
// # Violations
//
// Heights outside the allowed bounds are clamped, never rejected. Each
// instance records one message per kind of clamp (not one per node); read
// them with [Instance.Violations] after the pass.
package rule
