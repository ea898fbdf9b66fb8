package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// stdout receives status output. Tests may swap it.
var stdout io.Writer = os.Stdout

// Palette. The title color follows the AWS console orange.
var (
	colorOrange = lipgloss.Color("208")
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle is used for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	// StyleLink is used for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim is used for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue is used for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning is used for warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// status marks the kind of a status line.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = status{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) line(msg string) string {
	return s.style.Render(s.icon) + " " + msg
}

func printTitle(format string, args ...any) {
	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, statusSuccess.line(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, statusError.line(fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, statusWarning.line(StyleWarning.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, statusInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// printStats prints artifact size, render time and cache status, e.g.
// "  41.2 KB · 312ms · fresh". Cached artifacts omit the time.
func printStats(size int, elapsed time.Duration, cached bool) {
	parts := []string{formatBytes(size)}
	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	} else {
		parts = append(parts, elapsed.Round(time.Millisecond).String())
	}

	sep := StyleDim.Render(" · ")
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · "))+sep+origin)
}

// formatBytes renders n as B, KB or MB.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// PrintFailure writes the top-level failure line for the command that ran
// and any remediation hint for err to w. Only the root and generate commands
// say "Error generating diagrams"; cmd may be nil.
func PrintFailure(w io.Writer, cmd *cobra.Command, err error) {
	fmt.Fprintln(w, statusError.line(failureTitle(cmd)+": "+errs.UserMessage(err)))
	hint := errs.Hint(err)
	if hint == "" {
		return
	}
	for _, line := range strings.Split(hint, "\n") {
		fmt.Fprintln(w, "  "+StyleDim.Render(line))
	}
}

func failureTitle(cmd *cobra.Command) string {
	if cmd == nil || !cmd.HasParent() || cmd.Name() == "generate" {
		return "Error generating diagrams"
	}
	return "Error"
}
