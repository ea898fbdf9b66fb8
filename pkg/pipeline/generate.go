package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Result describes one written diagram.
type Result struct {
	Name     string        `json:"name"`
	Title    string        `json:"title"`
	Path     string        `json:"path"`
	Bytes    int           `json:"bytes"`
	CacheHit bool          `json:"cache_hit"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes a Generate run. On failure it holds the diagrams written
// before the failing one.
type Report struct {
	RunID    string        `json:"run_id"`
	Results  []Result      `json:"results"`
	Bytes    int           `json:"bytes"`
	Cached   int           `json:"cached"`
	Duration time.Duration `json:"duration"`
}

// Count returns the number of diagrams written.
func (r *Report) Count() int { return len(r.Results) }

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	r.Bytes += res.Bytes
	if res.CacheHit {
		r.Cached++
	}
}

// Generate renders and writes diagrams one at a time, in order. Each file is
// complete on disk before the next diagram starts.
func (r *Runner) Generate(ctx context.Context, diagrams []*diagram.Diagram, opts Options) (*Report, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	report := &Report{RunID: uuid.NewString()}
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	logger := opts.Logger.With("run", report.RunID[:8])
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return report, errs.Wrap(errs.ErrCodeInvalidPath, err, "create output directory %s", opts.OutputDir)
	}

	for i, d := range diagrams {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if opts.OnStart != nil {
			opts.OnStart(i, d)
		}

		art, err := r.Render(ctx, d, opts)
		if err != nil {
			return report, err
		}

		path := OutputPath(opts.OutputDir, d, opts)
		if err := WriteFileAtomic(path, art.Data); err != nil {
			return report, errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
		}
		logger.Debug("wrote diagram", "path", path, "bytes", len(art.Data))

		res := Result{
			Name:     d.Name(),
			Title:    d.Title(),
			Path:     path,
			Bytes:    len(art.Data),
			CacheHit: art.CacheHit,
			Duration: art.Duration,
		}
		report.add(res)
		if opts.OnDone != nil {
			opts.OnDone(i, res)
		}
	}
	return report, nil
}

// OutputPath is <dir>/<filename><ext> for d.
func OutputPath(dir string, d *diagram.Diagram, opts Options) string {
	opts = opts.WithDefaults()
	return filepath.Join(dir, d.Filename()+opts.Format.Ext())
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
