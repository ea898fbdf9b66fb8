package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
)

var mermaidDirection = map[diagram.Direction]string{
	diagram.TopBottom: "TB",
	diagram.BottomTop: "BT",
	diagram.LeftRight: "LR",
	diagram.RightLeft: "RL",
}

// ToMermaid converts a diagram to a Mermaid flowchart.
// Clusters become subgraphs; multi-line labels use <br/>. Nodes are
// renumbered n1, n2, ... in declaration order, so IDs such as "end" or
// "my node" never reach the output.
func ToMermaid(d *diagram.Diagram) string {
	var buf bytes.Buffer
	ids := mermaidIDs(d)

	fmt.Fprintf(&buf, "---\ntitle: %s\n---\n", d.Title())
	dir, ok := mermaidDirection[d.Direction()]
	if !ok {
		dir = "TB"
	}
	fmt.Fprintf(&buf, "flowchart %s\n", dir)

	for _, n := range d.TopLevelNodes() {
		fmt.Fprintf(&buf, "  %s[%s]\n", ids[n.ID], mermaidLabel(n.Label))
	}
	for _, c := range d.Clusters() {
		writeMermaidCluster(&buf, c, ids, "  ")
	}
	for _, e := range d.Edges() {
		from, okFrom := ids[e.From]
		to, okTo := ids[e.To]
		if !okFrom || !okTo {
			continue
		}
		if e.Label == "" {
			fmt.Fprintf(&buf, "  %s --> %s\n", from, to)
			continue
		}
		fmt.Fprintf(&buf, "  %s -->|%s| %s\n", from, mermaidText(e.Label), to)
	}
	return buf.String()
}

func mermaidIDs(d *diagram.Diagram) map[string]string {
	ids := make(map[string]string, len(d.Nodes()))
	for i, n := range d.Nodes() {
		ids[n.ID] = "n" + strconv.Itoa(i+1)
	}
	return ids
}

// writeMermaidCluster writes c as a subgraph. Cluster IDs are always
// generated by the builder and need no renaming.
func writeMermaidCluster(buf *bytes.Buffer, c *diagram.Cluster, ids map[string]string, indent string) {
	fmt.Fprintf(buf, "%ssubgraph %s[%s]\n", indent, c.ID, mermaidLabel(c.Label))
	for _, n := range c.Nodes() {
		fmt.Fprintf(buf, "%s  %s[%s]\n", indent, ids[n.ID], mermaidLabel(n.Label))
	}
	for _, child := range c.Clusters() {
		writeMermaidCluster(buf, child, ids, indent+"  ")
	}
	fmt.Fprintf(buf, "%send\n", indent)
}

// mermaidLabel quotes a label so punctuation such as parentheses and slashes
// is not parsed as shape syntax.
func mermaidLabel(s string) string {
	return `"` + mermaidText(s) + `"`
}

func mermaidText(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "|", "#124;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
