package cli

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/eksdiagrams/pkg/catalog"
	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

// stubEngine returns a PNG header followed by the DOT source.
type stubEngine struct {
	mu    sync.Mutex
	calls int
}

func (e *stubEngine) Render(_ context.Context, dot string, _ render.Format) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return append(append([]byte(nil), pngHeader...), dot...), nil
}

func (e *stubEngine) Close() error { return nil }

// newTestCLI returns a CLI isolated from the user's config and cache.
func newTestCLI(t *testing.T, engine render.Engine) *CLI {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))

	c := New(&bytes.Buffer{}, LogInfo)
	c.ConfigPath = filepath.Join(tmp, "config.toml")
	if engine != nil {
		c.newEngine = func(context.Context) (render.Engine, error) { return engine, nil }
	}
	return c
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootGeneratesAllDiagrams(t *testing.T) {
	engine := &stubEngine{}
	c := newTestCLI(t, engine)
	dir := t.TempDir()

	if _, err := execute(t, c, "-o", dir); err != nil {
		t.Fatalf("execute: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 3 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("output dir holds %d files, want exactly 3: %v", len(entries), names)
	}

	for _, d := range catalog.All() {
		data, err := os.ReadFile(filepath.Join(dir, d.Filename()+".png"))
		if err != nil {
			t.Fatalf("read %s: %v", d.Filename(), err)
		}
		if !render.IsPNG(data) {
			t.Errorf("%s is not a PNG", d.Filename())
		}
	}
	if engine.calls != 3 {
		t.Errorf("engine calls = %d, want 3", engine.calls)
	}
}

func TestGenerateUsesCache(t *testing.T) {
	engine := &stubEngine{}
	c := newTestCLI(t, engine)
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		if _, err := execute(t, c, "generate", "simple", "-o", dir); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1 (second run cached)", engine.calls)
	}

	if _, err := execute(t, c, "generate", "simple", "-o", dir, "--refresh"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if engine.calls != 2 {
		t.Errorf("engine calls = %d, want 2 after --refresh", engine.calls)
	}
}

func TestGenerateFromConfig(t *testing.T) {
	engine := &stubEngine{}
	c := newTestCLI(t, engine)
	dir := t.TempDir()
	body := "output_dir = " + `"` + filepath.ToSlash(dir) + `"` + "\nformat = \"dot\"\nno_cache = true\n"
	if err := os.WriteFile(c.ConfigPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, c, "generate", "network"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "eks-network-architecture.dot"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output does not start with digraph: %.40q", data)
	}
	if engine.calls != 0 {
		t.Errorf("engine calls = %d, want 0 for dot", engine.calls)
	}
}

func TestGenerateFromDefinitionFile(t *testing.T) {
	engine := &stubEngine{}
	c := newTestCLI(t, engine)
	dir := t.TempDir()

	if _, err := execute(t, c, "generate", "--file", "../../pkg/io/testdata/platform.yaml", "-o", dir, "--no-cache"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".png") {
		t.Errorf("output files = %v, want one png", entries)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errs.Code
	}{
		{"unknown diagram", []string{"generate", "nope"}, errs.ErrCodeDiagramNotFound},
		{"bad format", []string{"-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"bad dpi", []string{"--dpi", "9999"}, errs.ErrCodeInvalidInput},
		{"missing file", []string{"generate", "--file", "missing.yaml"}, errs.ErrCodeFileNotFound},
		{"not in file", []string{"generate", "simple", "--file", "../../pkg/io/testdata/platform.yaml"}, errs.ErrCodeDiagramNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t, &stubEngine{})
			args := append(tt.args, "-o", t.TempDir())
			_, err := execute(t, c, args...)
			if !errs.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestGenerateBackendUnavailable(t *testing.T) {
	c := newTestCLI(t, nil)
	c.newEngine = func(context.Context) (render.Engine, error) {
		return nil, errors.New("wasm compile failed")
	}

	_, err := execute(t, c, "-o", t.TempDir(), "--no-cache")
	if !errs.Is(err, errs.ErrCodeBackendUnavailable) {
		t.Fatalf("error = %v, want BACKEND_UNAVAILABLE", err)
	}

	var buf bytes.Buffer
	PrintFailure(&buf, nil, err)
	out := buf.String()
	for _, want := range []string{"Error generating diagrams:", "wasm compile failed", "go install"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintFailure output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "BACKEND_UNAVAILABLE") {
		t.Errorf("PrintFailure output leaks error code:\n%s", out)
	}
}

func TestGenerateMetricsFile(t *testing.T) {
	c := newTestCLI(t, &stubEngine{})
	metrics := filepath.Join(t.TempDir(), "eksdiagrams.prom")

	if _, err := execute(t, c, "generate", "simple", "-o", t.TempDir(), "--metrics-file", metrics); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "eksdiagrams_renders_total") {
		t.Errorf("metrics file missing render counter:\n%s", data)
	}
}

func TestGenerateWithGraphviz(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Graphviz render in short mode")
	}
	c := newTestCLI(t, nil)
	dir := t.TempDir()

	if _, err := execute(t, c, "-o", dir); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, d := range catalog.All() {
		f, err := os.Open(filepath.Join(dir, d.Filename()+".png"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", d.Filename(), err)
		}
		if cfg.Width == 0 || cfg.Height == 0 {
			t.Errorf("%s has empty dimensions %dx%d", d.Filename(), cfg.Width, cfg.Height)
		}
	}
}

func TestSelectDiagrams(t *testing.T) {
	got, err := selectDiagrams("", []string{"network", "simple-eks-architecture"})
	if err != nil {
		t.Fatalf("selectDiagrams: %v", err)
	}
	if len(got) != 2 || got[0].Name() != "network" || got[1].Name() != "simple" {
		t.Errorf("selectDiagrams names = %v", got)
	}
}

func TestGenerateProgressOutput(t *testing.T) {
	out := captureStdout(t)
	c := newTestCLI(t, &stubEngine{})
	dir := t.TempDir()

	if _, err := execute(t, c, "-o", dir); err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []string{
		"Generating EKS Architecture Diagrams...",
		"1. Creating Well-Architected diagram...",
		"eks-well-architected-architecture.png created",
		"2. Creating simplified diagram...",
		"simple-eks-architecture.png created",
		"3. Creating network-focused diagram...",
		"eks-network-architecture.png created",
		"All diagrams generated successfully! (3 files",
	}
	got := out.String()
	pos := 0
	for _, w := range want {
		i := strings.Index(got[pos:], w)
		if i < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", w, pos, got)
		}
		pos += i + len(w)
	}
}
