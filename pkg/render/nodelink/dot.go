package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taggle/pkg/rule"
	"github.com/matzehuels/taggle/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes height, aggregation and vis type in node labels.
	// When false, only the node name is shown.
	Detailed bool

	// Label formats a leaf's label. Nil uses the leaf's String form.
	Label func(tree.LeafNode) string

	// HideCollapsed omits the subtrees of collapsed groups.
	HideCollapsed bool
}

// ToDOT converts a row tree to Graphviz DOT format.
// Nodes are named n0, n1, ... in pre-order; the root is n0.
func ToDOT(root *tree.Inner, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	ids := make(map[tree.Node]string)
	var edges []string
	tree.Visit(root, func(n *tree.Inner) bool {
		id := register(ids, n)
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(innerAttrs(n, opts), ", "))
		if p := n.Parent(); p != nil {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", ids[p], id))
		}
		return !opts.HideCollapsed || n.Aggregation() != tree.Aggregated
	}, func(l tree.LeafNode) {
		id := register(ids, l)
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(leafAttrs(l, opts), ", "))
		edges = append(edges, fmt.Sprintf("  %s -> %s;\n", ids[l.Parent()], id))
	})

	if len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			buf.WriteString(e)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func register(ids map[tree.Node]string, n tree.Node) string {
	id := "n" + strconv.Itoa(len(ids))
	ids[n] = id
	return id
}

func innerAttrs(n *tree.Inner, opts Options) []string {
	label := n.Name()
	if label == "" && n.Parent() == nil {
		label = "(root)"
	}
	if opts.Detailed {
		label += fmt.Sprintf("\n%s, %d rows\nheight: %.1f (%s)\nvis: %s",
			n.Aggregation(), n.FlatLeavesLength(), n.Height(), rule.LevelOfDetail(n), n.VisType())
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Aggregation() == tree.Aggregated {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

func leafAttrs(l tree.LeafNode, opts Options) []string {
	label := l.String()
	if opts.Label != nil {
		label = opts.Label(l)
	}
	if opts.Detailed {
		label += fmt.Sprintf("\n#%d height: %.1f (%s)\nvis: %s", l.DataIndex(), l.Height(), rule.LevelOfDetail(l), l.VisType())
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if l.Selected() {
		attrs = append(attrs, "penwidth=3")
	}
	if l.Filtered() {
		attrs = append(attrs, "fontcolor=grey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
