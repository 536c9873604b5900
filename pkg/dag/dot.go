package dag

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the graph.
//
// Vertices appear in insertion order and edges in declaration order, so the
// output is deterministic for a given graph. The root is drawn as a bold box,
// direct dependencies as boxes and transitive dependencies as rounded boxes.
// Edges whose Meta carries a non-empty "range" string are labeled with it.
//
// If labels[id] exists, the vertex is shown with that label instead of its ID.
// Pass nil to label vertices by ID.
func (g *Graph) ToDOT(labels map[string]string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Mods {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n\n")

	for _, v := range g.Vertices() {
		label := v.ID
		if l, ok := labels[v.ID]; ok && l != "" {
			label = l
		}
		switch v.Kind {
		case KindRoot:
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box, penwidth=2];\n", v.ID, label)
		case KindDirect:
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box];\n", v.ID, label)
		default:
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=\"filled,rounded\"];\n", v.ID, label)
		}
	}
	if len(g.edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.edges {
		if r, ok := e.Meta["range"].(string); ok && r != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, r)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the graph as an SVG image via Graphviz.
//
// RenderSVG generates a DOT representation via ToDOT and renders it with
// github.com/goccy/go-graphviz. Errors are returned if Graphviz cannot
// initialize, the DOT is malformed, or rendering fails.
func (g *Graph) RenderSVG(ctx context.Context, labels map[string]string) ([]byte, error) {
	dot := g.ToDOT(labels)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
