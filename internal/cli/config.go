package cli

import (
	"errors"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/pipeline"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

// Config is the optional config file. Every field can be overridden by the
// matching command-line flag.
//
//	output_dir = "docs/diagrams"
//	format     = "svg"
//	dpi        = 150
//	cache_url  = "redis://localhost:6379/0"
//	no_cache   = false
//	cache_ttl  = "72h"
type Config struct {
	OutputDir string        `toml:"output_dir"`
	Format    string        `toml:"format"`
	DPI       int           `toml:"dpi"`
	CacheURL  string        `toml:"cache_url"`
	NoCache   bool          `toml:"no_cache"`
	CacheTTL  time.Duration `toml:"cache_ttl"`
}

// loadConfig reads the config file at path. A missing file yields the zero
// Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// config loads the config file from c.ConfigPath or the XDG location.
func (c *CLI) config() (Config, error) {
	path := c.ConfigPath
	if path == "" {
		p, err := configPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return Config{}, err
	}
	c.Logger.Debug("config", "path", path)
	return cfg, nil
}

// settings are the effective values after config and flags are merged.
type settings struct {
	OutputDir string
	Format    render.Format
	DPI       int
	CacheURL  string
	NoCache   bool
	Refresh   bool
	TTL       time.Duration
}

// merge overlays flags that were set explicitly on top of cfg.
func merge(cfg Config, f *generateFlags, set *pflag.FlagSet) (settings, error) {
	s := settings{
		OutputDir: cfg.OutputDir,
		DPI:       cfg.DPI,
		CacheURL:  cfg.CacheURL,
		NoCache:   cfg.NoCache,
		TTL:       cfg.CacheTTL,
		Refresh:   f.refresh,
	}
	format := cfg.Format

	if set.Changed("output-dir") {
		s.OutputDir = f.outputDir
	}
	if set.Changed("format") {
		format = f.format
	}
	if set.Changed("dpi") {
		s.DPI = f.dpi
	}
	if set.Changed("cache-url") {
		s.CacheURL = f.cacheURL
	}
	if set.Changed("no-cache") {
		s.NoCache = f.noCache
	}

	var err error
	if s.Format, err = render.ParseFormat(format); err != nil {
		return settings{}, err
	}
	if err := pipeline.ValidateDPI(s.DPI); err != nil {
		return settings{}, err
	}
	if s.OutputDir == "" {
		s.OutputDir = pipeline.DefaultOutputDir
	}
	return s, nil
}

func (s settings) options() pipeline.Options {
	return pipeline.Options{
		OutputDir: s.OutputDir,
		Format:    s.Format,
		DPI:       s.DPI,
		Refresh:   s.Refresh,
		TTL:       s.TTL,
	}
}
