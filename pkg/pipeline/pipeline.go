// Package pipeline turns diagram models into image files.
//
// The pipeline has two stages that are run once per diagram:
//
//  1. Render: validate the model, build DOT source and lay it out with the
//     embedded Graphviz engine. Artifacts are cached by DOT hash.
//  2. Write: store the bytes at <OutputDir>/<Filename><ext> through a temp
//     file and rename, so a reader never sees a half-written image.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	report, err := runner.Generate(ctx, catalog.All(), pipeline.Options{
//	    OutputDir: ".",
//	    Format:    render.FormatPNG,
//	})
//
// Generate is strictly sequential. The first failure stops the run and the
// partial report is returned together with the error.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

const (
	// DefaultOutputDir is where diagrams are written when no directory is set.
	DefaultOutputDir = "."

	// DefaultFormat is PNG.
	DefaultFormat = render.FormatPNG

	// DefaultTTL is how long rendered artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// MaxDPI bounds the dpi graph attribute. Larger values make Graphviz
	// allocate very large bitmaps.
	MaxDPI = 600
)

// Options configures a pipeline run.
type Options struct {
	OutputDir string
	Format    render.Format
	DPI       int

	// Refresh skips cache reads. Fresh artifacts are still stored.
	Refresh bool

	// TTL for cached artifacts. Zero means DefaultTTL; negative disables
	// expiry.
	TTL time.Duration

	Logger *log.Logger

	// OnStart and OnDone, when set, are called around each diagram in
	// Generate. i is the zero-based position in the run.
	OnStart func(i int, d *diagram.Diagram)
	OnDone  func(i int, res Result)
}

// WithDefaults returns a copy of o with empty fields filled in and format
// aliases such as "jpeg" or "PNG" normalized. An unknown format is kept for
// Validate to reject.
func (o Options) WithDefaults() Options {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	} else if f, err := render.ParseFormat(string(o.Format)); err == nil {
		o.Format = f
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	return o
}

// Validate checks the options after defaults are applied. Only canonical
// format names pass.
func (o Options) Validate() error {
	f, err := render.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	if f != o.Format {
		return errs.New(errs.ErrCodeInvalidFormat, "format %q is not normalized (use %q)", o.Format, f)
	}
	return ValidateDPI(o.DPI)
}

func (o Options) cacheTTL() time.Duration {
	if o.TTL < 0 {
		return 0
	}
	return o.TTL
}
