package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
)

// ToDOT converts a diagram to Graphviz DOT source.
//
// The diagram title becomes the graph label, each cluster a nested
// "cluster_<id>" subgraph colored by depth, and each node a rounded box
// colored by its kind category. Edge labels are emitted only when non-empty.
func ToDOT(d *diagram.Diagram, theme Theme) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "digraph %s {\n", quote(d.Name()))
	graph := theme.Graph.clone().
		Set("label", d.Title()).
		Set("rankdir", string(d.Direction()))
	fmt.Fprintf(&buf, "  graph [%s];\n", fmtAttrs(graph))
	fmt.Fprintf(&buf, "  node [%s];\n", fmtAttrs(theme.Node))
	fmt.Fprintf(&buf, "  edge [%s];\n", fmtAttrs(theme.Edge))

	for _, n := range d.TopLevelNodes() {
		writeNode(&buf, n, theme, "  ")
	}
	for _, c := range d.Clusters() {
		writeCluster(&buf, c, theme, "  ")
	}

	if len(d.Edges()) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range d.Edges() {
		if e.Label == "" {
			fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", quote(e.From), quote(e.To), quote(e.Label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, c *diagram.Cluster, theme Theme, indent string) {
	fmt.Fprintf(buf, "\n%ssubgraph %s {\n", indent, quote("cluster_"+c.ID))
	attrs := theme.Cluster.clone().
		Set("label", c.Label).
		Set("fillcolor", theme.ClusterColor(c.Depth()))
	fmt.Fprintf(buf, "%s  graph [%s];\n", indent, fmtAttrs(attrs))

	for _, n := range c.Nodes() {
		writeNode(buf, n, theme, indent+"  ")
	}
	for _, child := range c.Clusters() {
		writeCluster(buf, child, theme, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeNode(buf *bytes.Buffer, n *diagram.Node, theme Theme, indent string) {
	p := theme.PaletteFor(n.Kind)
	attrs := Attrs{
		{"label", n.Label},
		{"fillcolor", p.Fill},
		{"color", p.Border},
	}
	if n.Kind != "" {
		attrs = append(attrs, Attr{"tooltip", string(n.Kind)})
	}
	fmt.Fprintf(buf, "%s%s [%s];\n", indent, quote(n.ID), fmtAttrs(attrs))
}

func fmtAttrs(attrs Attrs) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Key + "=" + quote(a.Value)
	}
	return strings.Join(parts, ", ")
}

// quote returns s as a DOT double-quoted string. Newlines become the DOT
// centered line break "\n".
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
