package diagram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

var (
	// ErrEmptyTitle is returned when a diagram has no title.
	ErrEmptyTitle = errors.New("diagram title must not be empty")

	// ErrEmptyLabel is returned when a node or cluster has no label.
	ErrEmptyLabel = errors.New("label must not be empty")

	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when a node ID is declared twice.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNilNode is returned when an edge endpoint is nil.
	ErrNilNode = errors.New("edge endpoint is nil")

	// ErrForeignNode is returned when an edge endpoint was declared in a
	// different diagram.
	ErrForeignNode = errors.New("edge endpoint belongs to another diagram")

	// ErrUnknownNode is returned by [Diagram.Validate] when an edge references
	// a node ID that is not declared in the diagram.
	ErrUnknownNode = errors.New("edge endpoint is not declared")
)

// Node is a labeled vertex of a diagram.
type Node struct {
	ID    string // Unique within the diagram
	Kind  Kind   // Visual category
	Label string // Display text, may contain "\n"

	owner   *Diagram
	cluster *Cluster
}

// Cluster returns the innermost cluster containing n, or nil for top-level nodes.
func (n *Node) Cluster() *Cluster { return n.cluster }

// Edge is a directed connection between two nodes.
type Edge struct {
	From  string // Source node ID
	To    string // Target node ID
	Label string // Optional edge label
}

// Cluster is a labeled, nestable group of nodes.
type Cluster struct {
	ID    string
	Label string

	owner    *Diagram
	parent   *Cluster
	depth    int
	nodes    []*Node
	children []*Cluster
}

// Depth returns 0 for clusters declared directly on the diagram.
func (c *Cluster) Depth() int { return c.depth }

// Parent returns the enclosing cluster, or nil at the top level.
func (c *Cluster) Parent() *Cluster { return c.parent }

// Nodes returns the nodes declared directly in c.
func (c *Cluster) Nodes() []*Node { return c.nodes }

// Clusters returns the clusters nested directly in c.
func (c *Cluster) Clusters() []*Cluster { return c.children }

// Node declares a node inside c with a generated ID.
func (c *Cluster) Node(kind Kind, label string) *Node {
	return c.owner.addNode("", kind, label, c)
}

// AddNode declares a node inside c with an explicit ID.
func (c *Cluster) AddNode(id string, kind Kind, label string) *Node {
	if id == "" {
		return c.owner.fail(ErrInvalidNodeID, "cluster %q", c.Label)
	}
	return c.owner.addNode(id, kind, label, c)
}

// Cluster declares a cluster nested in c.
func (c *Cluster) Cluster(label string) *Cluster {
	return c.owner.addCluster(label, c)
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithName sets the registry name used to look the diagram up.
func WithName(name string) Option {
	return func(d *Diagram) { d.name = name }
}

// WithFilename sets the output base name (without extension).
func WithFilename(filename string) Option {
	return func(d *Diagram) { d.filename = filename }
}

// WithDirection sets the rank direction. The default is TopBottom.
func WithDirection(dir Direction) Option {
	return func(d *Diagram) { d.direction = dir }
}

// Diagram collects nodes, clusters and edges for one rendered image.
// The zero value is not usable; create diagrams with [New].
type Diagram struct {
	title     string
	name      string
	filename  string
	direction Direction

	nodes    []*Node
	byID     map[string]*Node
	roots    []*Node
	clusters []*Cluster
	edges    []Edge

	nodeSeq    int
	clusterSeq int
	err        error
}

// New creates an empty diagram. The filename and name default to the
// slugified title.
func New(title string, opts ...Option) *Diagram {
	d := &Diagram{
		title:     title,
		direction: TopBottom,
		byID:      make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.filename == "" {
		d.filename = Slug(title)
	}
	if d.name == "" {
		d.name = d.filename
	}
	if strings.TrimSpace(title) == "" {
		d.fail(ErrEmptyTitle, "")
	}
	return d
}

// Title returns the diagram title.
func (d *Diagram) Title() string { return d.title }

// Name returns the registry name.
func (d *Diagram) Name() string { return d.name }

// Filename returns the output base name without extension.
func (d *Diagram) Filename() string { return d.filename }

// Direction returns the rank direction.
func (d *Diagram) Direction() Direction { return d.direction }

// Nodes returns every node in declaration order.
func (d *Diagram) Nodes() []*Node { return d.nodes }

// TopLevelNodes returns the nodes declared outside any cluster.
func (d *Diagram) TopLevelNodes() []*Node { return d.roots }

// Clusters returns the top-level clusters in declaration order.
func (d *Diagram) Clusters() []*Cluster { return d.clusters }

// Edges returns every edge in declaration order.
func (d *Diagram) Edges() []Edge { return d.edges }

// NodeByID returns the node with the given ID.
func (d *Diagram) NodeByID(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// ClusterCount returns the number of clusters at any depth.
func (d *Diagram) ClusterCount() int { return d.clusterSeq }

// Walk visits every cluster depth-first in declaration order.
// Returning false from fn skips the cluster's children.
func (d *Diagram) Walk(fn func(*Cluster) bool) {
	var visit func([]*Cluster)
	visit = func(cs []*Cluster) {
		for _, c := range cs {
			if fn(c) {
				visit(c.children)
			}
		}
	}
	visit(d.clusters)
}

// Node declares a top-level node with a generated ID.
func (d *Diagram) Node(kind Kind, label string) *Node {
	return d.addNode("", kind, label, nil)
}

// AddNode declares a top-level node with an explicit ID.
func (d *Diagram) AddNode(id string, kind Kind, label string) *Node {
	if id == "" {
		return d.fail(ErrInvalidNodeID, "top level")
	}
	return d.addNode(id, kind, label, nil)
}

// Cluster declares a top-level cluster.
func (d *Diagram) Cluster(label string) *Cluster {
	return d.addCluster(label, nil)
}

// Edge declares a single edge from one node to another.
func (d *Diagram) Edge(from, to *Node, label string) {
	if d.err != nil {
		return
	}
	if err := d.checkEndpoint(from); err != nil {
		d.fail(err, "edge source")
		return
	}
	if err := d.checkEndpoint(to); err != nil {
		d.fail(err, "edge target")
		return
	}
	d.edges = append(d.edges, Edge{From: from.ID, To: to.ID, Label: label})
}

// Connect declares one edge for every (from, to) pair, iterating sources
// first. It models both fan-out (one source, many targets) and fan-in.
func (d *Diagram) Connect(from, to []*Node, label string) {
	for _, f := range from {
		for _, t := range to {
			d.Edge(f, t, label)
		}
	}
}

// Chain connects consecutive nodes: Chain("", a, b, c) declares a→b and b→c.
func (d *Diagram) Chain(label string, nodes ...*Node) {
	for i := 1; i < len(nodes); i++ {
		d.Edge(nodes[i-1], nodes[i], label)
	}
}

// Group returns its arguments as a slice, for use with [Diagram.Connect].
func Group(nodes ...*Node) []*Node { return nodes }

// Err returns the first error recorded by a builder method.
func (d *Diagram) Err() error { return d.err }

// Validate reports the first builder error or any structural problem.
// Errors carry [errs.ErrCodeInvalidDiagram] and wrap the sentinel cause.
func (d *Diagram) Validate() error {
	if d.err != nil {
		return d.err
	}
	if err := errs.ValidateFilename(d.filename); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDiagram, err, "diagram %q", d.title)
	}
	for i, e := range d.edges {
		for _, id := range []string{e.From, e.To} {
			if _, ok := d.byID[id]; !ok {
				return errs.Wrap(errs.ErrCodeInvalidDiagram, ErrUnknownNode, "diagram %q: edge %d references %q", d.title, i, id)
			}
		}
	}
	return nil
}

func (d *Diagram) checkEndpoint(n *Node) error {
	switch {
	case n == nil:
		return ErrNilNode
	case n.owner != d:
		return ErrForeignNode
	}
	return nil
}

func (d *Diagram) addNode(id string, kind Kind, label string, parent *Cluster) *Node {
	if d.err != nil {
		return &Node{ID: id, Kind: kind, Label: label}
	}
	if strings.TrimSpace(label) == "" {
		return d.fail(ErrEmptyLabel, "node %q", id)
	}
	if id == "" {
		id = d.nextNodeID()
	} else if _, dup := d.byID[id]; dup {
		return d.fail(ErrDuplicateNodeID, "%q", id)
	}

	n := &Node{ID: id, Kind: kind, Label: label, owner: d, cluster: parent}
	d.nodes = append(d.nodes, n)
	d.byID[id] = n
	if parent == nil {
		d.roots = append(d.roots, n)
	} else {
		parent.nodes = append(parent.nodes, n)
	}
	return n
}

func (d *Diagram) addCluster(label string, parent *Cluster) *Cluster {
	c := &Cluster{Label: label, owner: d, parent: parent}
	if d.err != nil {
		return c
	}
	if strings.TrimSpace(label) == "" {
		d.fail(ErrEmptyLabel, "cluster")
		return c
	}
	d.clusterSeq++
	c.ID = "c" + strconv.Itoa(d.clusterSeq)
	if parent == nil {
		d.clusters = append(d.clusters, c)
	} else {
		c.depth = parent.depth + 1
		parent.children = append(parent.children, c)
	}
	return c
}

// nextNodeID returns the next free sequential ID, skipping explicit IDs.
func (d *Diagram) nextNodeID() string {
	for {
		d.nodeSeq++
		id := "n" + strconv.Itoa(d.nodeSeq)
		if _, taken := d.byID[id]; !taken {
			return id
		}
	}
}

// fail records the first error and returns a detached node.
func (d *Diagram) fail(cause error, format string, args ...any) *Node {
	if d.err == nil {
		msg := fmt.Sprintf(format, args...)
		if msg == "" {
			d.err = errs.Wrap(errs.ErrCodeInvalidDiagram, cause, "diagram %q", d.title)
		} else {
			d.err = errs.Wrap(errs.ErrCodeInvalidDiagram, cause, "diagram %q: %s", d.title, msg)
		}
	}
	return &Node{}
}

// Slug lower-cases s and replaces runs of non-alphanumerics with "-".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
