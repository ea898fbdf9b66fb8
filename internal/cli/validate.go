package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dio "github.com/matzehuels/eksdiagrams/pkg/io"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a definition file without rendering",
		Long: `Check a definition file without rendering.

Every diagram in the file is built: node kinds, directions, duplicate IDs and
edge endpoints are checked. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			diagrams, err := dio.LoadDiagrams(args[0])
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Built %d diagrams from %s", len(diagrams), args[0]))

			for _, d := range diagrams {
				printSuccess("%s", d.Title())
				printKeyValue("  name", d.Name())
				printKeyValue("  file", d.Filename())
				printDetail("%d nodes · %d clusters · %d edges", d.NodeCount(), d.ClusterCount(), d.EdgeCount())
			}
			printNewline()
			printSuccess("%s is valid (%d diagrams)", args[0], len(diagrams))
			printNextStep("Render it", "eksdiagrams generate --file "+args[0])
			return nil
		},
	}
}
