// Package pkg holds the eksdiagrams libraries.
//
// The data flow is:
//
//	[catalog] or [io] definition file
//	         ↓
//	    [diagram] (nodes, clusters, edges)
//	         ↓
//	    [render] (DOT, Mermaid, Graphviz engine)
//	         ↓
//	    [pipeline] (cache lookup, layout, atomic file write)
//
// Supporting packages:
//   - [cache]: content-addressed artifact storage (file, Redis, null)
//   - [observability]: render and cache hooks with Prometheus metrics
//   - [errors]: coded errors with user messages and hints
//   - [buildinfo]: version metadata
//
// [catalog]: github.com/matzehuels/eksdiagrams/pkg/catalog
// [io]: github.com/matzehuels/eksdiagrams/pkg/io
// [diagram]: github.com/matzehuels/eksdiagrams/pkg/diagram
// [render]: github.com/matzehuels/eksdiagrams/pkg/render
// [pipeline]: github.com/matzehuels/eksdiagrams/pkg/pipeline
// [cache]: github.com/matzehuels/eksdiagrams/pkg/cache
// [observability]: github.com/matzehuels/eksdiagrams/pkg/observability
// [errors]: github.com/matzehuels/eksdiagrams/pkg/errors
// [buildinfo]: github.com/matzehuels/eksdiagrams/pkg/buildinfo
package pkg
