package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eksdiagrams/pkg/catalog"
	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	dio "github.com/matzehuels/eksdiagrams/pkg/io"
	"github.com/matzehuels/eksdiagrams/pkg/observability"
	"github.com/matzehuels/eksdiagrams/pkg/pipeline"
)

// generateFlags are shared by the root command and "generate".
type generateFlags struct {
	outputDir   string
	format      string
	file        string
	dpi         int
	noCache     bool
	refresh     bool
	cacheURL    string
	metricsFile string
	interactive bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "directory to write diagrams to (default: current directory)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: png (default), svg, jpg, dot")
	cmd.Flags().StringVar(&f.file, "file", "", "definition file (.yaml, .toml, .json) to render instead of the built-ins")
	cmd.Flags().IntVar(&f.dpi, "dpi", 0, "raster resolution (default: Graphviz default of 96)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even when a cached artifact exists")
	cmd.Flags().StringVar(&f.cacheURL, "cache-url", "", "Redis URL for a shared artifact cache (redis://host:6379/0)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "pick diagrams interactively")
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [name...]",
		Short: "Render diagrams to image files",
		Long: `Render diagrams to image files.

Without names, every diagram is rendered. Names are registry names
(well-architected, simple, network) or output filenames. With --file, the
names refer to diagrams declared in the definition file.

Rendered artifacts are cached by content, so unchanged diagrams are written
without running Graphviz again.`,
		Example: `  eksdiagrams generate
  eksdiagrams generate simple network -f svg -o docs/
  eksdiagrams generate --file platform.yaml --dpi 200`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return catalog.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, flags, args)
		},
	}
	flags.register(cmd)
	return cmd
}

// runGenerate resolves diagrams and settings, then writes every diagram.
func (c *CLI) runGenerate(cmd *cobra.Command, flags *generateFlags, names []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	s, err := merge(cfg, flags, cmd.Flags())
	if err != nil {
		return err
	}

	diagrams, err := selectDiagrams(flags.file, names)
	if err != nil {
		return err
	}
	if flags.interactive {
		diagrams, err = pickDiagrams(ctx, diagrams)
		if err != nil {
			return err
		}
		if len(diagrams) == 0 {
			printInfo("No diagrams selected")
			return nil
		}
	}

	var metrics *observability.Metrics
	if flags.metricsFile != "" {
		metrics = observability.NewMetrics()
	}
	defer observability.Install(c.Logger, metrics)()

	runner, err := c.newRunner(ctx, s)
	if err != nil {
		return err
	}
	defer runner.Close()

	report, err := c.generate(ctx, runner, diagrams, s.options())
	if metrics != nil {
		if werr := metrics.WriteTextfile(flags.metricsFile); werr != nil {
			c.Logger.Warn("write metrics", "path", flags.metricsFile, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	printGenerateSummary(report, s)
	return nil
}

// generate runs the pipeline, printing one progress block per diagram.
func (c *CLI) generate(ctx context.Context, runner *pipeline.Runner, diagrams []*diagram.Diagram, opts pipeline.Options) (*pipeline.Report, error) {
	opts.Logger = c.Logger

	var (
		spinner *Spinner
		current string
	)
	opts.OnStart = func(i int, d *diagram.Diagram) {
		printInfo("%d. Creating %s diagram...", i+1, catalog.Summary(d))
		current = d.Filename() + opts.Format.Ext()
		spinner = newSpinner(ctx, os.Stderr, "Rendering "+current)
		spinner.Start()
	}
	opts.OnDone = func(i int, res pipeline.Result) {
		spinner.Stop()
		spinner = nil
		printSuccess("%s created", res.Path)
		printStats(res.Bytes, res.Duration, res.CacheHit)
	}

	printTitle("Generating EKS Architecture Diagrams...")
	report, err := runner.Generate(ctx, diagrams, opts)
	if spinner != nil {
		if err != nil && ctx.Err() == nil {
			spinner.StopWithError(current + " failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		if report != nil {
			c.Logger.Debug("generate failed", "run", report.RunID, "written", report.Count(), "error", err)
		}
		return report, err
	}
	c.Logger.Debug("generate done", "run", report.RunID, "written", report.Count(), "duration", report.Duration)
	return report, nil
}

// selectDiagrams returns the named diagrams from file, or from the catalog
// when file is empty.
func selectDiagrams(file string, names []string) ([]*diagram.Diagram, error) {
	if file == "" {
		return catalog.Select(names)
	}

	all, err := dio.LoadDiagrams(file)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return all, nil
	}

	out := make([]*diagram.Diagram, 0, len(names))
	for _, name := range names {
		d := findDiagram(all, name)
		if d == nil {
			return nil, errs.New(errs.ErrCodeDiagramNotFound, "diagram %q is not declared in %s", name, file)
		}
		out = append(out, d)
	}
	return out, nil
}

func findDiagram(diagrams []*diagram.Diagram, name string) *diagram.Diagram {
	for _, d := range diagrams {
		if d.Name() == name || d.Filename() == name {
			return d
		}
	}
	return nil
}

// pickDiagrams runs the interactive picker. Quitting without confirming
// selects nothing.
func pickDiagrams(ctx context.Context, diagrams []*diagram.Diagram) ([]*diagram.Diagram, error) {
	p := tea.NewProgram(newDiagramPicker(diagrams), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("run picker: %w", err)
	}
	return final.(diagramPicker).Chosen(), nil
}

func printGenerateSummary(report *pipeline.Report, s settings) {
	printNewline()
	printSuccess("All diagrams generated successfully! (%d files, %s)", report.Count(), report.Duration.Round(time.Millisecond))
	printDetail("Check %s for the %s files.", displayDir(s.OutputDir), s.Format)
	if report.Cached > 0 {
		printDetail("%d of %d served from cache", report.Cached, report.Count())
	}
	printNextStep("Preview in a browser", "eksdiagrams serve")
}

func displayDir(dir string) string {
	if dir == "." {
		return "the current directory"
	}
	return dir
}
