package render

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Engine lays out DOT source and encodes the result.
// Implementations are not required to be safe for concurrent use.
type Engine interface {
	Render(ctx context.Context, dot string, format Format) ([]byte, error)
	Close() error
}

// EngineFactory creates an Engine. The pipeline takes a factory so tests can
// substitute a failing or recording engine.
type EngineFactory func(ctx context.Context) (Engine, error)

// Graphviz is an Engine backed by an in-process Graphviz instance.
type Graphviz struct {
	gv *graphviz.Graphviz
}

// NewGraphviz starts the embedded Graphviz runtime. Failures are reported
// with [errs.ErrCodeBackendUnavailable].
func NewGraphviz(ctx context.Context) (*Graphviz, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeBackendUnavailable, err, "init graphviz")
	}
	return &Graphviz{gv: gv}, nil
}

// NewGraphvizEngine adapts [NewGraphviz] to an [EngineFactory].
func NewGraphvizEngine(ctx context.Context) (Engine, error) {
	return NewGraphviz(ctx)
}

// Render lays out dot and encodes it in format. FormatDOT returns the input.
func (r *Graphviz) Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatJPG:
		gvFormat = graphviz.JPG
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %q", format)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "parse DOT")
	}
	if g == nil {
		return nil, errs.New(errs.ErrCodeRenderFailed, "parse DOT: empty graph")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := r.gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render %s", format)
	}
	if buf.Len() == 0 {
		return nil, errs.New(errs.ErrCodeRenderFailed, "render %s: empty output", format)
	}
	return buf.Bytes(), nil
}

// Close releases the Graphviz runtime.
func (r *Graphviz) Close() error {
	return r.gv.Close()
}

var _ Engine = (*Graphviz)(nil)
