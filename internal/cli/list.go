package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			diagrams, err := selectDiagrams(file, nil)
			if err != nil {
				return err
			}
			writeDiagramTable(cmd.OutOrStdout(), diagrams)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "list diagrams declared in a definition file")
	return cmd
}

// writeDiagramTable renders diagrams as a bordered table.
func writeDiagramTable(w io.Writer, diagrams []*diagram.Diagram) {
	rows := make([][]string, len(diagrams))
	for i, d := range diagrams {
		rows[i] = []string{
			d.Name(),
			d.Title(),
			d.Filename(),
			string(d.Direction()),
			strconv.Itoa(d.NodeCount()),
			strconv.Itoa(d.ClusterCount()),
			strconv.Itoa(d.EdgeCount()),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Title", "File", "Dir", "Nodes", "Clusters", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			case col >= 3:
				return cellStyle.Foreground(colorGray)
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}
