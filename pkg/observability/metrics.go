package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements RenderHooks and CacheHooks on a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	ArtifactBytes  *prometheus.GaugeVec
	CacheEvents    *prometheus.CounterVec
}

// NewMetrics creates and registers the eksdiagrams collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{registry: reg}

	m.RendersTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eksdiagrams_renders_total",
			Help: "Total number of diagram renders",
		},
		[]string{"format", "status"}, // status: ok, error
	)

	m.RenderDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eksdiagrams_render_duration_seconds",
			Help:    "Duration of diagram renders in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"format"},
	)

	m.ArtifactBytes = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eksdiagrams_artifact_bytes",
			Help: "Size of the most recently rendered artifact per diagram",
		},
		[]string{"diagram", "format"},
	)

	m.CacheEvents = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "eksdiagrams_cache_events_total",
			Help: "Artifact cache events",
		},
		[]string{"type", "event"}, // event: hit, miss, set
	)

	return m
}

// OnRenderStart is a no-op; durations are observed on completion.
func (m *Metrics) OnRenderStart(context.Context, string, string) {}

// OnRenderComplete records the outcome, duration and size of a render.
func (m *Metrics) OnRenderComplete(_ context.Context, diagram, format string, size int, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RendersTotal.WithLabelValues(format, status).Inc()
	m.RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
	if err == nil {
		m.ArtifactBytes.WithLabelValues(diagram, format).Set(float64(size))
	}
}

// OnCacheHit records a cache hit.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss records a cache miss.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet records a cache write.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry to path for the node_exporter textfile
// collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

var (
	_ RenderHooks = (*Metrics)(nil)
	_ CacheHooks  = (*Metrics)(nil)
)
