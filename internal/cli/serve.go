package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eksdiagrams/internal/server"
	"github.com/matzehuels/eksdiagrams/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags generateFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered diagrams over HTTP",
		Long: `Serve rendered diagrams over HTTP for previewing.

  GET /healthz
  GET /diagrams                   list diagrams as JSON
  GET /diagrams/{name}            PNG (or ?format=svg|jpg|dot|mermaid)
  GET /metrics                    Prometheus metrics

Renders share the artifact cache with 'generate'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.config()
			if err != nil {
				return err
			}
			s, err := merge(cfg, &flags, cmd.Flags())
			if err != nil {
				return err
			}
			diagrams, err := selectDiagrams(flags.file, nil)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, s)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := observability.NewMetrics()
			defer observability.Install(c.Logger, metrics)()

			srv := server.New(server.Config{
				Runner:   runner,
				Diagrams: diagrams,
				Metrics:  metrics,
				Logger:   c.Logger,
				DPI:      s.DPI,
			})

			printInfo("Serving %d diagrams", len(diagrams))
			fmt.Fprintln(stdout, "  "+StyleLink.Render("http://"+displayAddr(addr)+"/diagrams"))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.file, "file", "", "serve diagrams from a definition file")
	cmd.Flags().IntVar(&flags.dpi, "dpi", 0, "raster resolution")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&flags.cacheURL, "cache-url", "", "Redis URL for a shared artifact cache")

	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
