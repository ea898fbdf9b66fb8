package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/eksdiagrams/pkg/diagram"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// diagramPicker - Interactive diagram selection
// =============================================================================

// diagramPicker is the bubbletea model for choosing which diagrams to render.
// Every diagram starts selected.
type diagramPicker struct {
	Diagrams  []*diagram.Diagram
	Cursor    int
	Selected  []bool
	Confirmed bool
}

func newDiagramPicker(diagrams []*diagram.Diagram) diagramPicker {
	selected := make([]bool, len(diagrams))
	for i := range selected {
		selected[i] = true
	}
	return diagramPicker{Diagrams: diagrams, Selected: selected}
}

// Chosen returns the selected diagrams in order, or nil if the picker was
// not confirmed.
func (m diagramPicker) Chosen() []*diagram.Diagram {
	if !m.Confirmed {
		return nil
	}
	var out []*diagram.Diagram
	for i, d := range m.Diagrams {
		if m.Selected[i] {
			out = append(out, d)
		}
	}
	return out
}

func (m diagramPicker) count() int {
	n := 0
	for _, s := range m.Selected {
		if s {
			n++
		}
	}
	return n
}

func (m diagramPicker) Init() tea.Cmd {
	return nil
}

func (m diagramPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Diagrams)-1 {
			m.Cursor++
		}
	case " ", "space", "x":
		m.Selected = toggled(m.Selected, m.Cursor)
	case "a":
		all := m.count() < len(m.Diagrams)
		m.Selected = make([]bool, len(m.Diagrams))
		for i := range m.Selected {
			m.Selected[i] = all
		}
	case "enter":
		if m.count() == 0 {
			return m, nil
		}
		m.Confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

// toggled returns a copy of s with s[i] flipped, so earlier model values
// are not mutated.
func toggled(s []bool, i int) []bool {
	out := append([]bool(nil), s...)
	out[i] = !out[i]
	return out
}

func (m diagramPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagrams"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Diagrams))
	for i, d := range m.Diagrams {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Selected[i] {
			check = "[✓]"
		}
		rows[i] = []string{cursor + check, d.Title(), d.Filename(), strconv.Itoa(d.NodeCount())}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Diagram", "File", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(m.Diagrams) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if row == m.Cursor {
				base = base.Bold(true)
			}
			if !m.Selected[row] {
				return base.Foreground(colorDim)
			}
			if col == 0 || row == m.Cursor {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", m.count(), len(m.Diagrams))))

	return b.String()
}
