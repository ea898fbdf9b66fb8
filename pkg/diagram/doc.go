// Package diagram provides the declarative model for architecture diagrams.
//
// # Overview
//
// A [Diagram] collects labeled nodes, nested [Cluster] groupings and labeled
// directed edges. It owns no layout or rendering logic: the render package
// translates a Diagram to Graphviz DOT and Graphviz decides where everything
// goes.
//
// # Building
//
// Diagrams are built imperatively, in the order a reader would describe them:
//
//	d := diagram.New("Simple EKS Architecture", diagram.WithDirection(diagram.LeftRight))
//	user := d.Node(diagram.KindUser, "Developer")
//
//	aws := d.Cluster("AWS Cloud")
//	vpc := aws.Cluster("VPC")
//	eks := vpc.Node(diagram.KindEKS, "EKS\nControl Plane")
//
//	workers := vpc.Cluster("Worker Nodes")
//	n1 := workers.Node(diagram.KindEC2, "Node 1\nt3.medium")
//	n2 := workers.Node(diagram.KindEC2, "Node 2\nt3.medium")
//
//	d.Edge(user, eks, "")
//	d.Connect(diagram.Group(eks), diagram.Group(n1, n2), "manages")
//
//	if err := d.Validate(); err != nil {
//	    return err
//	}
//
// # Errors
//
// Builder methods never return errors. The first failure (empty label, node
// from another diagram, duplicate ID) is recorded and every later call
// becomes a no-op; [Diagram.Err] and [Diagram.Validate] report it. This keeps
// long declarative blocks readable while guaranteeing that an invalid diagram
// never reaches the renderer.
//
// # Invariants
//
//   - Every edge endpoint is a node declared earlier in the same diagram.
//   - Node IDs are unique and non-empty.
//   - Titles are non-empty and filenames are plain base names.
//
// A Diagram is not safe for concurrent modification.
package diagram
