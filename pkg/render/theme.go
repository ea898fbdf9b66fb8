package render

import (
	"strconv"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
)

// Attr is a single Graphviz attribute.
type Attr struct {
	Key   string
	Value string
}

// Attrs is an ordered attribute list. Order is preserved in DOT output.
type Attrs []Attr

// Set replaces the value of key, or appends it when absent.
func (a Attrs) Set(key, value string) Attrs {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Key: key, Value: value})
}

// Get returns the value of key.
func (a Attrs) Get(key string) (string, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return "", false
}

func (a Attrs) clone() Attrs {
	return append(Attrs(nil), a...)
}

// Palette is the fill and border color of a node category.
type Palette struct {
	Fill   string
	Border string
}

// Theme holds the Graphviz attributes applied to a rendered diagram.
type Theme struct {
	Graph   Attrs
	Node    Attrs
	Edge    Attrs
	Cluster Attrs

	// ClusterColors are background colors indexed by cluster depth, cycling.
	ClusterColors []string

	// Categories maps a kind category ("compute", "network", ...) to colors.
	Categories map[string]Palette

	// Fallback is used for categories without an entry.
	Fallback Palette
}

const (
	fontName  = "Sans-Serif"
	fontColor = "#2D3436"
)

// DefaultTheme returns the theme used for the built-in diagrams.
func DefaultTheme() Theme {
	return Theme{
		Graph: Attrs{
			{"fontname", fontName},
			{"fontsize", "15"},
			{"fontcolor", fontColor},
			{"labelloc", "t"},
			{"pad", "2.0"},
			{"splines", "spline"},
			{"nodesep", "0.60"},
			{"ranksep", "0.75"},
			{"compound", "true"},
		},
		Node: Attrs{
			{"shape", "box"},
			{"style", "rounded,filled"},
			{"width", "1.4"},
			{"height", "1.0"},
			{"margin", "0.15,0.1"},
			{"fontname", fontName},
			{"fontsize", "13"},
			{"fontcolor", fontColor},
		},
		Edge: Attrs{
			{"color", "#7B8894"},
			{"fontname", fontName},
			{"fontsize", "12"},
			{"fontcolor", fontColor},
		},
		Cluster: Attrs{
			{"style", "rounded,filled"},
			{"labeljust", "l"},
			{"pencolor", "#AEB6BE"},
			{"fontname", fontName},
			{"fontsize", "12"},
			{"fontcolor", fontColor},
			{"margin", "16"},
		},
		ClusterColors: []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"},
		Categories: map[string]Palette{
			"compute":     {Fill: "#FBD8B5", Border: "#ED7100"},
			"network":     {Fill: "#DCCBFF", Border: "#8C4FFF"},
			"security":    {Fill: "#F6C1C9", Border: "#DD344C"},
			"storage":     {Fill: "#D7E8B8", Border: "#7AA116"},
			"management":  {Fill: "#F8C4DD", Border: "#E7157B"},
			"integration": {Fill: "#F8C4DD", Border: "#E7157B"},
			"general":     {Fill: "#E1E5E8", Border: "#232F3E"},
			"blank":       {Fill: "#FFFFFF", Border: "#FFFFFF"},
		},
		Fallback: Palette{Fill: "#FFFFFF", Border: "#7B8894"},
	}
}

// WithDPI returns a copy of t whose raster output uses the given resolution.
// Non-positive values leave the Graphviz default (96) in place.
func (t Theme) WithDPI(dpi int) Theme {
	if dpi <= 0 {
		return t
	}
	out := t
	out.Graph = t.Graph.clone().Set("dpi", strconv.Itoa(dpi))
	return out
}

// ClusterColor returns the background color for a cluster at depth.
func (t Theme) ClusterColor(depth int) string {
	if len(t.ClusterColors) == 0 {
		return "transparent"
	}
	return t.ClusterColors[depth%len(t.ClusterColors)]
}

// PaletteFor returns the colors of kind.
func (t Theme) PaletteFor(kind diagram.Kind) Palette {
	if p, ok := t.Categories[kind.Category()]; ok {
		return p
	}
	return t.Fallback
}
