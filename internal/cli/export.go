package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eksdiagrams/pkg/catalog"
	"github.com/matzehuels/eksdiagrams/pkg/diagram"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	dio "github.com/matzehuels/eksdiagrams/pkg/io"
	"github.com/matzehuels/eksdiagrams/pkg/pipeline"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

// Export encodings besides the definition codecs.
const (
	exportDOT     = "dot"
	exportMermaid = "mermaid"
)

var exportFormats = []string{"yaml", "toml", "json", exportDOT, exportMermaid}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		as     string
		file   string
		output string
		dpi    int
	)

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Print a diagram as a definition, DOT or Mermaid source",
		Long: `Print a diagram as an editable definition (yaml, toml, json), as the
Graphviz DOT source that would be rendered, or as a Mermaid flowchart.

Exported definitions can be edited and rendered with 'generate --file'.`,
		Example: `  eksdiagrams export simple --as yaml > my-cluster.yaml
  eksdiagrams export network --as dot | dot -Tpdf > network.pdf
  eksdiagrams export well-architected --as mermaid`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return catalog.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			diagrams, err := selectDiagrams(file, args)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateDPI(dpi); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := exportDiagram(&buf, diagrams[0], as, dpi); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := pipeline.WriteFileAtomic(output, buf.Bytes()); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", output)
			}
			printSuccess("Exported %s as %s", diagrams[0].Name(), as)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "yaml", "output encoding: "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringVar(&file, "file", "", "export from a definition file instead of the built-ins")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "dpi graph attribute for DOT output")
	cmd.RegisterFlagCompletionFunc("as", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return exportFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// exportDiagram writes d to w in the named encoding.
func exportDiagram(w io.Writer, d *diagram.Diagram, as string, dpi int) error {
	switch strings.ToLower(as) {
	case exportDOT, "gv":
		if err := d.Validate(); err != nil {
			return err
		}
		_, err := io.WriteString(w, render.ToDOT(d, render.DefaultTheme().WithDPI(dpi)))
		return err
	case exportMermaid, "mmd":
		if err := d.Validate(); err != nil {
			return err
		}
		_, err := io.WriteString(w, render.ToMermaid(d))
		return err
	}

	codec, err := dio.ParseCodec(as)
	if err != nil {
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported export format %q (use %s)", as, strings.Join(exportFormats, ", "))
	}
	if err := dio.Encode(w, dio.DocumentOf(d), codec); err != nil {
		return fmt.Errorf("encode %s: %w", codec, err)
	}
	return nil
}
