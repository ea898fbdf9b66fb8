package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eksdiagrams/pkg/cache"
	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/observability"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

const keyTypeArtifact = "artifact"

// Runner renders diagrams with caching.
//
// The Graphviz engine is created on first use and shared by every later
// render. Calls are serialized on the engine, so a Runner may be shared
// between goroutines (the preview server does this).
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Theme  render.Theme
	Logger *log.Logger

	// NewEngine creates the layout engine. Defaults to the embedded
	// Graphviz runtime.
	NewEngine render.EngineFactory

	mu     sync.Mutex
	engine render.Engine
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Theme:     render.DefaultTheme(),
		Logger:    logger,
		NewEngine: render.NewGraphvizEngine,
	}
}

// Artifact is one rendered diagram.
type Artifact struct {
	Diagram  string
	Format   render.Format
	Data     []byte
	CacheHit bool
	Duration time.Duration
}

// DOT returns the DOT source the runner would lay out for d.
func (r *Runner) DOT(d *diagram.Diagram, opts Options) (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	return render.ToDOT(d, r.Theme.WithDPI(opts.DPI)), nil
}

// Render validates d, then returns its artifact from the cache or from the
// engine.
func (r *Runner) Render(ctx context.Context, d *diagram.Diagram, opts Options) (*Artifact, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	dot, err := r.DOT(d, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, d.Name(), string(opts.Format))

	art := &Artifact{Diagram: d.Name(), Format: opts.Format}
	art.Data, art.CacheHit, err = r.renderCached(ctx, dot, opts)
	art.Duration = time.Since(start)

	hooks.OnRenderComplete(ctx, d.Name(), string(opts.Format), len(art.Data), art.Duration, err)
	if err != nil {
		return nil, errs.Wrap(codeOr(err, errs.ErrCodeRenderFailed), err, "render %q", d.Title())
	}

	return art, nil
}

func (r *Runner) renderCached(ctx context.Context, dot string, opts Options) ([]byte, bool, error) {
	// DOT output is the source itself; it needs neither engine nor cache.
	if opts.Format == render.FormatDOT {
		return []byte(dot), false, nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{
		Format: string(opts.Format),
		DPI:    opts.DPI,
	})
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			// A broken cache never fails a render.
			opts.Logger.Warn("cache read failed", "error", err)
		case hit:
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			return data, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeArtifact)

	data, err := r.layout(ctx, dot, opts.Format)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, opts.cacheTTL()); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}

func (r *Runner) layout(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine == nil {
		factory := r.NewEngine
		if factory == nil {
			factory = render.NewGraphvizEngine
		}
		engine, err := factory(ctx)
		if err != nil {
			return nil, errs.Wrap(codeOr(err, errs.ErrCodeBackendUnavailable), err, "start layout engine")
		}
		r.engine = engine
	}
	return r.engine.Render(ctx, dot, format)
}

// Close releases the engine and the cache.
func (r *Runner) Close() error {
	r.mu.Lock()
	var engineErr error
	if r.engine != nil {
		engineErr = r.engine.Close()
		r.engine = nil
	}
	r.mu.Unlock()

	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return err
		}
	}
	return engineErr
}

// codeOr returns the code carried by err, or fallback if it has none.
func codeOr(err error, fallback errs.Code) errs.Code {
	if code := errs.GetCode(err); code != "" {
		return code
	}
	return fallback
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
