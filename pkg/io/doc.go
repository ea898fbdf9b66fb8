// Package io reads and writes diagram definition files.
//
// # Overview
//
// A definition file declares diagrams in the same shape as the built-in
// catalog: nested clusters holding nodes, and labeled edges between node IDs.
// The format is chosen by file extension:
//
//   - .json
//   - .toml
//   - .yaml / .yml
//
// # YAML Format
//
//	diagrams:
//	  - title: Simple EKS Architecture
//	    direction: LR
//	    nodes:
//	      - {id: dev, kind: aws.general.user, label: Developer}
//	    clusters:
//	      - label: AWS Cloud
//	        nodes:
//	          - {id: eks, kind: aws.compute.eks, label: "EKS\nControl Plane"}
//	    edges:
//	      - {from: [dev], to: [eks], label: kubectl}
//
// Edge endpoints are lists. An edge with several sources and targets expands
// to every source-target pair, sources first.
//
// # TOML Format
//
// TOML uses arrays of tables with singular names:
//
//	[[diagram]]
//	title = "Simple EKS Architecture"
//
//	[[diagram.node]]
//	id = "dev"
//	kind = "aws.general.user"
//	label = "Developer"
//
//	[[diagram.edge]]
//	from = ["dev"]
//	to = ["eks"]
//
// # Round Trip
//
// [FromDiagram] exports a built diagram with explicit node IDs, so
// Build(FromDiagram(d)) renders to exactly the same DOT source as d.
package io
