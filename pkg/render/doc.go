// Package render turns diagrams into images.
//
// # Overview
//
// Rendering happens in two steps:
//
//  1. [ToDOT] translates a [diagram.Diagram] into Graphviz DOT source, styled
//     by a [Theme]. Clusters become nested "cluster_" subgraphs.
//  2. An [Engine] lays the DOT out and encodes it as PNG, SVG or JPG. The
//     default engine, [Graphviz], runs Graphviz in-process through
//     [github.com/goccy/go-graphviz], so no system install is needed.
//
//	dot := render.ToDOT(d, render.DefaultTheme())
//	gv, err := render.NewGraphviz(ctx)
//	if err != nil {
//	    return err
//	}
//	defer gv.Close()
//	png, err := gv.Render(ctx, dot, render.FormatPNG)
//
// # Text Formats
//
// [FormatDOT] returns the source unchanged, which is useful for debugging a
// layout with external Graphviz tools. [ToMermaid] produces a Mermaid
// flowchart for embedding in Markdown documentation.
//
// # Determinism
//
// ToDOT output depends only on the diagram and theme: attributes are emitted
// in a fixed order and nodes, clusters and edges in declaration order. The
// pipeline relies on this to key its artifact cache on the DOT hash.
package render
