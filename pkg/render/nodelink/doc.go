// Package nodelink renders row trees as node-link diagrams.
//
// # Overview
//
// This package draws the group structure of a row tree with Graphviz: the
// root at the top, groups below it, and leaves at the bottom, each node
// labelled with its name and, optionally, its layout state. It replaces
// printing the tree to a console when debugging groupings and layout passes.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, labels include height, aggregation and vis type
//   - Label: Formats leaf labels; defaults to the leaf's string form
//   - HideCollapsed: When true, the children of collapsed groups are omitted
//
// # Styling
//
// Collapsed groups are drawn dashed on grey, selected leaves bold, and
// filtered leaves with grey text.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
