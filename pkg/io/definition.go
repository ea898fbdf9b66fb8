package io

import (
	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Document is the top level of a definition file.
type Document struct {
	Diagrams []Definition `json:"diagrams" toml:"diagram" yaml:"diagrams"`
}

// Definition declares one diagram.
type Definition struct {
	Name      string       `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Title     string       `json:"title" toml:"title" yaml:"title"`
	Filename  string       `json:"filename,omitempty" toml:"filename,omitempty" yaml:"filename,omitempty"`
	Direction string       `json:"direction,omitempty" toml:"direction,omitempty" yaml:"direction,omitempty"`
	Nodes     []NodeDef    `json:"nodes,omitempty" toml:"node,omitempty" yaml:"nodes,omitempty"`
	Clusters  []ClusterDef `json:"clusters,omitempty" toml:"cluster,omitempty" yaml:"clusters,omitempty"`
	Edges     []EdgeDef    `json:"edges,omitempty" toml:"edge,omitempty" yaml:"edges,omitempty"`
}

// ClusterDef declares a cluster and everything nested in it.
type ClusterDef struct {
	Label    string       `json:"label" toml:"label" yaml:"label"`
	Nodes    []NodeDef    `json:"nodes,omitempty" toml:"node,omitempty" yaml:"nodes,omitempty"`
	Clusters []ClusterDef `json:"clusters,omitempty" toml:"cluster,omitempty" yaml:"clusters,omitempty"`
}

// NodeDef declares a node. Kind defaults to aws.general.general. A node
// without an ID gets a generated one and cannot be referenced by edges.
type NodeDef struct {
	ID    string `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Kind  string `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Label string `json:"label" toml:"label" yaml:"label"`
}

// EdgeDef connects every ID in From to every ID in To.
type EdgeDef struct {
	From  []string `json:"from" toml:"from" yaml:"from"`
	To    []string `json:"to" toml:"to" yaml:"to"`
	Label string   `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
}

// Build turns a definition into a validated diagram.
func Build(def Definition) (*diagram.Diagram, error) {
	dir, err := diagram.ParseDirection(def.Direction)
	if err != nil {
		return nil, err
	}

	opts := []diagram.Option{diagram.WithDirection(dir)}
	if def.Name != "" {
		opts = append(opts, diagram.WithName(def.Name))
	}
	if def.Filename != "" {
		opts = append(opts, diagram.WithFilename(def.Filename))
	}
	d := diagram.New(def.Title, opts...)

	for _, n := range def.Nodes {
		kind, err := parseKind(n.Kind)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDefinition, err, "diagram %q: node %q", def.Title, n.ID)
		}
		addNode(n, kind, d.Node, d.AddNode)
	}
	for _, c := range def.Clusters {
		if err := buildCluster(d.Cluster(c.Label), c, def.Title); err != nil {
			return nil, err
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}

	for i, e := range def.Edges {
		if len(e.From) == 0 || len(e.To) == 0 {
			return nil, errs.New(errs.ErrCodeInvalidDiagram, "diagram %q: edge %d needs at least one source and one target", def.Title, i)
		}
		from, err := resolve(d, def.Title, i, e.From)
		if err != nil {
			return nil, err
		}
		to, err := resolve(d, def.Title, i, e.To)
		if err != nil {
			return nil, err
		}
		d.Connect(from, to, e.Label)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// BuildAll builds every diagram in doc. Names must be unique.
func BuildAll(doc *Document) ([]*diagram.Diagram, error) {
	if len(doc.Diagrams) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidDefinition, "document declares no diagrams")
	}
	seen := make(map[string]bool, len(doc.Diagrams))
	out := make([]*diagram.Diagram, 0, len(doc.Diagrams))
	for _, def := range doc.Diagrams {
		d, err := Build(def)
		if err != nil {
			return nil, err
		}
		if seen[d.Name()] {
			return nil, errs.New(errs.ErrCodeInvalidDefinition, "duplicate diagram name %q", d.Name())
		}
		seen[d.Name()] = true
		out = append(out, d)
	}
	return out, nil
}

func buildCluster(c *diagram.Cluster, def ClusterDef, title string) error {
	for _, n := range def.Nodes {
		kind, err := parseKind(n.Kind)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidDefinition, err, "diagram %q: cluster %q: node %q", title, def.Label, n.ID)
		}
		addNode(n, kind, c.Node, c.AddNode)
	}
	for _, child := range def.Clusters {
		if err := buildCluster(c.Cluster(child.Label), child, title); err != nil {
			return err
		}
	}
	return nil
}

func addNode(n NodeDef, kind diagram.Kind, gen func(diagram.Kind, string) *diagram.Node, explicit func(string, diagram.Kind, string) *diagram.Node) {
	if n.ID == "" {
		gen(kind, n.Label)
		return
	}
	explicit(n.ID, kind, n.Label)
}

func parseKind(s string) (diagram.Kind, error) {
	if s == "" {
		return diagram.KindGeneral, nil
	}
	return diagram.ParseKind(s)
}

func resolve(d *diagram.Diagram, title string, edge int, ids []string) ([]*diagram.Node, error) {
	nodes := make([]*diagram.Node, len(ids))
	for i, id := range ids {
		n, ok := d.NodeByID(id)
		if !ok {
			return nil, errs.Wrap(errs.ErrCodeInvalidDiagram, diagram.ErrUnknownNode, "diagram %q: edge %d references %q", title, edge, id)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// FromDiagram exports d as a definition with explicit node IDs and one
// single-endpoint edge per diagram edge.
func FromDiagram(d *diagram.Diagram) Definition {
	def := Definition{
		Name:      d.Name(),
		Title:     d.Title(),
		Filename:  d.Filename(),
		Direction: string(d.Direction()),
		Nodes:     nodeDefs(d.TopLevelNodes()),
	}
	for _, c := range d.Clusters() {
		def.Clusters = append(def.Clusters, clusterDef(c))
	}
	for _, e := range d.Edges() {
		def.Edges = append(def.Edges, EdgeDef{
			From:  []string{e.From},
			To:    []string{e.To},
			Label: e.Label,
		})
	}
	return def
}

// DocumentOf wraps diagrams in a Document.
func DocumentOf(diagrams ...*diagram.Diagram) *Document {
	doc := &Document{Diagrams: make([]Definition, len(diagrams))}
	for i, d := range diagrams {
		doc.Diagrams[i] = FromDiagram(d)
	}
	return doc
}

func clusterDef(c *diagram.Cluster) ClusterDef {
	def := ClusterDef{Label: c.Label, Nodes: nodeDefs(c.Nodes())}
	for _, child := range c.Clusters() {
		def.Clusters = append(def.Clusters, clusterDef(child))
	}
	return def
}

func nodeDefs(nodes []*diagram.Node) []NodeDef {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]NodeDef, len(nodes))
	for i, n := range nodes {
		out[i] = NodeDef{ID: n.ID, Kind: string(n.Kind), Label: n.Label}
	}
	return out
}
