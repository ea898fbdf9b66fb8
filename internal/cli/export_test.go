package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/eksdiagrams/pkg/catalog"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	dio "github.com/matzehuels/eksdiagrams/pkg/io"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

func TestExportDiagram(t *testing.T) {
	tests := []struct {
		as   string
		want string
	}{
		{"yaml", "name: simple"},
		{"yml", "name: simple"},
		{"toml", "[[diagram]]"},
		{"json", `"name": "simple"`},
		{"dot", `digraph "simple"`},
		{"gv", `digraph "simple"`},
		{"mermaid", "flowchart"},
		{"mmd", "flowchart"},
	}
	for _, tt := range tests {
		t.Run(tt.as, func(t *testing.T) {
			var buf bytes.Buffer
			if err := exportDiagram(&buf, catalog.Simple(), tt.as, 0); err != nil {
				t.Fatalf("exportDiagram: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestExportDiagramDPI(t *testing.T) {
	var buf bytes.Buffer
	if err := exportDiagram(&buf, catalog.Network(), "dot", 200); err != nil {
		t.Fatalf("exportDiagram: %v", err)
	}
	if !strings.Contains(buf.String(), `dpi="200"`) {
		t.Error("DOT output missing dpi attribute")
	}
}

func TestExportDiagramUnknownFormat(t *testing.T) {
	err := exportDiagram(&bytes.Buffer{}, catalog.Simple(), "pdf", 0)
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	c := newTestCLI(t, &stubEngine{})
	out, err := execute(t, c, "export", "well-architected", "--as", "yaml")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	doc, err := dio.Decode(strings.NewReader(out), dio.CodecYAML)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	got, err := dio.BuildAll(doc)
	if err != nil {
		t.Fatalf("build export: %v", err)
	}

	want := render.ToDOT(catalog.WellArchitected(), render.DefaultTheme())
	if dot := render.ToDOT(got[0], render.DefaultTheme()); dot != want {
		t.Error("exported definition renders different DOT than the built-in")
	}
}

func TestExportToFile(t *testing.T) {
	c := newTestCLI(t, &stubEngine{})
	path := filepath.Join(t.TempDir(), "network.toml")

	if _, err := execute(t, c, "export", "network", "--as", "toml", "-o", path); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := dio.LoadDiagrams(path); err != nil {
		t.Errorf("exported file does not load: %v", err)
	}
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errs.Code
	}{
		{"unknown diagram", []string{"export", "nope"}, errs.ErrCodeDiagramNotFound},
		{"bad encoding", []string{"export", "simple", "--as", "png"}, errs.ErrCodeInvalidFormat},
		{"bad dpi", []string{"export", "simple", "--as", "dot", "--dpi", "-5"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, &stubEngine{})
			if _, err := execute(t, c, tt.args...); !errs.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	c := newTestCLI(t, &stubEngine{})
	if _, err := execute(t, c, "validate", "../../pkg/io/testdata/platform.json"); err != nil {
		t.Errorf("validate: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	body := "diagrams:\n  - name: x\n    title: X\n    nodes:\n      - {id: a, kind: aws.nope.thing}\n"
	if err := os.WriteFile(bad, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, c, "validate", bad); !errs.Is(err, errs.ErrCodeInvalidDefinition) {
		t.Errorf("validate bad kind error = %v, want INVALID_DEFINITION", err)
	}
}

func TestListCommand(t *testing.T) {
	c := newTestCLI(t, nil)
	out, err := execute(t, c, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range catalog.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %q", name)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	c := newTestCLI(t, nil)
	for _, shell := range completionShells {
		out, err := execute(t, c, "completion", shell)
		if err != nil {
			t.Errorf("completion %s: %v", shell, err)
			continue
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}
}
