package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// recorder counts events.
type recorder struct {
	starts, completes, failures int
	hits, misses, sets          int
}

func (r *recorder) OnRenderStart(context.Context, string, string) { r.starts++ }
func (r *recorder) OnRenderComplete(_ context.Context, _, _ string, _ int, _ time.Duration, err error) {
	r.completes++
	if err != nil {
		r.failures++
	}
}
func (r *recorder) OnCacheHit(context.Context, string)      { r.hits++ }
func (r *recorder) OnCacheMiss(context.Context, string)     { r.misses++ }
func (r *recorder) OnCacheSet(context.Context, string, int) { r.sets++ }

func TestRegistryDefaults(t *testing.T) {
	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Errorf("Render() = %T, want NoopRenderHooks", Render())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
}

func TestSetHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recorder{}
	SetRenderHooks(rec)
	SetCacheHooks(rec)
	SetRenderHooks(nil)
	SetCacheHooks(nil)

	ctx := context.Background()
	Render().OnRenderStart(ctx, "simple", "png")
	Cache().OnCacheMiss(ctx, "artifact")
	if rec.starts != 1 || rec.misses != 1 {
		t.Errorf("recorder = %+v, want one start and one miss (nil must not replace hooks)", rec)
	}

	Reset()
	Render().OnRenderStart(ctx, "simple", "png")
	if rec.starts != 1 {
		t.Error("Reset did not detach hooks")
	}
}

func TestTee(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	ctx := context.Background()

	r := TeeRender(a, nil, b)
	r.OnRenderStart(ctx, "network", "svg")
	r.OnRenderComplete(ctx, "network", "svg", 10, time.Millisecond, errors.New("boom"))

	c := TeeCache(a, b)
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 10)

	for _, rec := range []*recorder{a, b} {
		want := recorder{starts: 1, completes: 1, failures: 1, hits: 1, misses: 1, sets: 1}
		if *rec != want {
			t.Errorf("recorder = %+v, want %+v", *rec, want)
		}
	}
}

func TestLogHooks(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(h *LogHooks)
		want  string
	}{
		{"render done", log.DebugLevel, func(h *LogHooks) {
			h.OnRenderComplete(context.Background(), "simple", "png", 2048, time.Second, nil)
		}, "render done"},
		{"render failed at info", log.InfoLevel, func(h *LogHooks) {
			h.OnRenderComplete(context.Background(), "simple", "png", 0, time.Second, errors.New("wasm trap"))
		}, "wasm trap"},
		{"cache hit", log.DebugLevel, func(h *LogHooks) {
			h.OnCacheHit(context.Background(), "artifact")
		}, "cache hit"},
		{"debug hidden at info", log.InfoLevel, func(h *LogHooks) {
			h.OnCacheMiss(context.Background(), "artifact")
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: tt.level}))
			tt.emit(h)
			got := buf.String()
			if tt.want == "" && got != "" {
				t.Errorf("unexpected output %q", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q missing %q", got, tt.want)
			}
		})
	}
}

func TestInstall(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	m := NewMetrics()

	restore := Install(logger, m)
	Render().OnRenderComplete(context.Background(), "simple", "png", 100, time.Millisecond, nil)
	restore()

	if !strings.Contains(buf.String(), "render done") {
		t.Error("Install did not register log hooks")
	}
	if got := counterValue(t, m, "eksdiagrams_renders_total"); got != 1 {
		t.Errorf("renders_total = %v, want 1", got)
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("restore did not reset hooks")
	}
}

func TestInstallWithoutMetrics(t *testing.T) {
	t.Cleanup(Reset)
	Install(nil, nil)
	if _, ok := Render().(*LogHooks); !ok {
		t.Errorf("Render() = %T, want *LogHooks", Render())
	}
}

// counterValue sums every series of the named counter.
func counterValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
