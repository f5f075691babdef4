// Package pkg provides the core libraries for taggle, an adaptive row-height
// layout for large hierarchical tables.
//
// # Overview
//
// Taggle arranges the rows of a table as a tree: leaves are rows, inner nodes
// are groups formed by one or more categorical columns. A rule set decides
// how tall every visible row is for a given viewport, from fixed-size rows to
// space-filling layouts that shrink unselected rows so thousands of them fit
// on screen while the selected ones stay readable.
//
// The data flow:
//
//	Dataset file (TOML / YAML)
//	         ↓
//	    [dataset] package (columns, rows, metrics, default view)
//	         ↓
//	    [table] package (flat tree, regroup, resort, histograms)
//	         ↓
//	    [rule] + [layout] packages (static and dynamic passes, violations)
//	         ↓
//	    visible rows with offsets, or a DOT / SVG tree diagram
//
// # Quick Start
//
//	ds, _ := dataset.Load("countries.toml")
//	s, _ := pipeline.NewSession(ds, nil, pipeline.Options{
//	    GroupBy: []string{"Continent"},
//	    Height:  400,
//	})
//	s.Select(3, false)
//	for _, r := range s.Rows() {
//	    fmt.Printf("%-20s %6.1f\n", r.Node, r.Height())
//	}
//
// # Main Packages
//
// [tree] - Leaf and inner nodes, their height, selection and filter state,
// traversal, grouping and sorting.
//
// [table] - Column declarations, typed cell access, [table.Restratify] and
// [table.Reorder], and per-group histograms.
//
// [rule] - Rule sets: a static descriptor plus a function that assigns
// heights and levels of detail and records violated constraints. The
// registry holds the built-in table, compact, table-lens and the four
// space-filling/proportional combinations.
//
// [layout] - Applies a rule set to a tree (static and dynamic passes) and
// stacks the visible rows.
//
// [pipeline] - Interactive sessions and the load → layout → render runner
// used by the CLI.
//
// [render/nodelink] - Tree diagrams through Graphviz.
//
// [dataset] - Dataset file decoding and validation.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - Hooks for pipeline and session events.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/rule/...      # Specific package
//	go test -run Example ./...  # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/tree
// [table]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/table
// [rule]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/rule
// [layout]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/render/nodelink
// [dataset]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/dataset
// [errors]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/taggle/pkg/observability
package pkg
