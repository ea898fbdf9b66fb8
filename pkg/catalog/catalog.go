// Package catalog holds the built-in EKS architecture diagrams.
//
// Each constructor returns a fresh [diagram.Diagram], so callers may render
// or modify the result without affecting other callers.
package catalog

import (
	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Registry names of the built-in diagrams.
const (
	NameWellArchitected = "well-architected"
	NameSimple          = "simple"
	NameNetwork         = "network"
)

type entry struct {
	name    string
	summary string
	build   func() *diagram.Diagram
}

// entries is ordered: generation renders diagrams in this order.
var entries = []entry{
	{NameWellArchitected, "Well-Architected", WellArchitected},
	{NameSimple, "simplified", Simple},
	{NameNetwork, "network-focused", Network},
}

// All returns fresh instances of every built-in diagram in generation order.
func All() []*diagram.Diagram {
	out := make([]*diagram.Diagram, len(entries))
	for i, e := range entries {
		out[i] = e.build()
	}
	return out
}

// Names returns the registry names in generation order.
func Names() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

// Lookup returns a fresh instance of the named diagram. Names are also
// matched against output filenames so "simple-eks-architecture" works too.
func Lookup(name string) (*diagram.Diagram, error) {
	for _, e := range entries {
		if e.name == name {
			return e.build(), nil
		}
	}
	for _, d := range All() {
		if d.Filename() == name {
			return d, nil
		}
	}
	return nil, errs.New(errs.ErrCodeDiagramNotFound, "unknown diagram %q (available: %v)", name, Names())
}

// Select resolves names in order; an empty list selects every diagram.
func Select(names []string) ([]*diagram.Diagram, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]*diagram.Diagram, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		d, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[d.Name()] {
			continue
		}
		seen[d.Name()] = true
		out = append(out, d)
	}
	return out, nil
}

// Summary returns the short description used in progress output, such as
// "Well-Architected". Diagrams outside the catalog are described by title.
func Summary(d *diagram.Diagram) string {
	for _, e := range entries {
		if e.name == d.Name() {
			return e.summary
		}
	}
	return d.Title()
}
