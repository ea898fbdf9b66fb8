package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eksdiagrams/pkg/buildinfo"
	"github.com/matzehuels/eksdiagrams/pkg/cache"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/pipeline"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "eksdiagrams"

	// redisKeyPrefix namespaces keys in a shared Redis instance.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the config file location. Empty means the XDG
	// default.
	ConfigPath string

	// newEngine overrides the layout engine, for tests.
	newEngine render.EngineFactory
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand, it generates every built-in diagram.
func (c *CLI) RootCommand() *cobra.Command {
	flags := &generateFlags{}

	root := &cobra.Command{
		Use:   appName,
		Short: "eksdiagrams renders Amazon EKS architecture diagrams",
		Long: `eksdiagrams renders Amazon EKS architecture diagrams with an embedded
Graphviz engine.

Run without arguments to write the three built-in diagrams as PNG files into
the current directory:

  eks-well-architected-architecture.png
  simple-eks-architecture.png
  eks-network-architecture.png`,
		Version:      buildinfo.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		// main prints failures with remediation hints.
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, flags, nil)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	flags.register(root)

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, s settings) (*pipeline.Runner, error) {
	store, err := newCache(ctx, s)
	if err != nil {
		return nil, err
	}
	// Artifacts depend on the theme, which changes between releases.
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")

	runner := pipeline.NewRunner(store, keyer, c.Logger)
	if c.newEngine != nil {
		runner.NewEngine = c.newEngine
	}
	return runner, nil
}

func newCache(ctx context.Context, s settings) (cache.Cache, error) {
	switch {
	case s.NoCache:
		return cache.NewNullCache(), nil
	case s.CacheURL != "":
		rc, err := cache.NewRedisCache(ctx, s.CacheURL, redisKeyPrefix)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCache, err, "open cache")
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeCache, err, "open cache")
	}
	return fc, nil
}

// cacheDir returns $XDG_CACHE_HOME/eksdiagrams, defaulting to
// ~/.cache/eksdiagrams.
func cacheDir() (string, error) {
	return xdgPath("XDG_CACHE_HOME", ".cache", appName)
}

// configPath returns $XDG_CONFIG_HOME/eksdiagrams/config.toml, defaulting to
// ~/.config/eksdiagrams/config.toml.
func configPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", appName, "config.toml")
}

func xdgPath(env, fallback string, elem ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base}, elem...)...), nil
}
