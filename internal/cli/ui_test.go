package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// captureStdout redirects status output for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPrintStats(t *testing.T) {
	out := captureStdout(t)

	printStats(2048, 312*time.Millisecond, false)
	printStats(2048, 312*time.Millisecond, true)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "312ms") || !strings.Contains(lines[0], "fresh") {
		t.Errorf("fresh line = %q", lines[0])
	}
	if strings.Contains(lines[1], "312ms") || !strings.Contains(lines[1], "cached") {
		t.Errorf("cached line = %q", lines[1])
	}
}

func TestPrintFailure(t *testing.T) {
	root := &cobra.Command{Use: appName}
	generate := &cobra.Command{Use: "generate"}
	export := &cobra.Command{Use: "export"}
	validate := &cobra.Command{Use: "validate"}
	root.AddCommand(generate, export, validate)

	backend := errs.Wrap(errs.ErrCodeBackendUnavailable, errs.New(errs.ErrCodeInternal, "no wasm"), "start layout engine")
	tests := []struct {
		name     string
		cmd      *cobra.Command
		err      error
		want     string
		wantHint bool
	}{
		{"root", root, backend, "✗ Error generating diagrams: start layout engine: no wasm", true},
		{"generate", generate, bytes.ErrTooLarge, "✗ Error generating diagrams: bytes.Buffer: too large", false},
		{"no command", nil, bytes.ErrTooLarge, "✗ Error generating diagrams: bytes.Buffer: too large", false},
		{"export", export, errs.New(errs.ErrCodeDiagramNotFound, "unknown diagram %q", "x"), `✗ Error: unknown diagram "x"`, true},
		{"validate", validate, errs.New(errs.ErrCodeInvalidInput, "bad"), "✗ Error: bad", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintFailure(&buf, tt.cmd, tt.err)
			out := buf.String()
			if first, _, _ := strings.Cut(out, "\n"); !strings.Contains(first, tt.want) {
				t.Errorf("first line = %q, want %q", first, tt.want)
			}
			if lines := strings.Count(out, "\n"); (lines > 1) != tt.wantHint {
				t.Errorf("hint lines present = %v, want %v:\n%s", lines > 1, tt.wantHint, out)
			}
		})
	}
}
