package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
	"github.com/matzehuels/eksdiagrams/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
output_dir = "docs/diagrams"
format     = "svg"
dpi        = 150
cache_url  = "redis://localhost:6379/0"
cache_ttl  = "72h"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := Config{
		OutputDir: "docs/diagrams",
		Format:    "svg",
		DPI:       150,
		CacheURL:  "redis://localhost:6379/0",
		CacheTTL:  72 * time.Hour,
	}
	if cfg != want {
		t.Errorf("loadConfig = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("loadConfig = %+v, want zero", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", `output = "x"`},
		{"bad syntax", `format = `},
		{"wrong type", `dpi = "high"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("loadConfig error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func parseGenerateFlags(t *testing.T, args ...string) (*generateFlags, *cobra.Command) {
	t.Helper()
	f := &generateFlags{}
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return f, cmd
}

func TestMerge(t *testing.T) {
	cfg := Config{OutputDir: "out", Format: "svg", DPI: 150, CacheTTL: time.Hour}

	tests := []struct {
		name string
		args []string
		want settings
	}{
		{
			name: "config only",
			want: settings{OutputDir: "out", Format: render.FormatSVG, DPI: 150, TTL: time.Hour},
		},
		{
			name: "flags win",
			args: []string{"-o", "docs", "-f", "jpg", "--dpi", "300", "--no-cache", "--refresh"},
			want: settings{OutputDir: "docs", Format: render.FormatJPG, DPI: 300, NoCache: true, Refresh: true, TTL: time.Hour},
		},
		{
			name: "explicit zero dpi",
			args: []string{"--dpi", "0"},
			want: settings{OutputDir: "out", Format: render.FormatSVG, DPI: 0, TTL: time.Hour},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cmd := parseGenerateFlags(t, tt.args...)
			got, err := merge(cfg, f, cmd.Flags())
			if err != nil {
				t.Fatalf("merge: %v", err)
			}
			if got != tt.want {
				t.Errorf("merge = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeDefaults(t *testing.T) {
	f, cmd := parseGenerateFlags(t)
	got, err := merge(Config{}, f, cmd.Flags())
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got.OutputDir != "." || got.Format != render.FormatPNG {
		t.Errorf("merge = %+v, want current directory and png", got)
	}
}

func TestMergeInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		args []string
		want errs.Code
	}{
		{"bad format flag", Config{}, []string{"-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"bad format config", Config{Format: "bmp"}, nil, errs.ErrCodeInvalidFormat},
		{"dpi too high", Config{}, []string{"--dpi", "5000"}, errs.ErrCodeInvalidInput},
		{"negative dpi", Config{DPI: -1}, nil, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cmd := parseGenerateFlags(t, tt.args...)
			_, err := merge(tt.cfg, f, cmd.Flags())
			if !errs.Is(err, tt.want) {
				t.Errorf("merge error = %v, want %s", err, tt.want)
			}
		})
	}
}
