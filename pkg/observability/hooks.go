// Package observability carries render and cache events out of the
// pipeline.
//
// The pipeline calls small hook interfaces instead of depending on a
// metrics backend. Two implementations ship here: [LogHooks], which writes
// events to a charmbracelet logger at debug level, and [Metrics], which
// records them in Prometheus collectors. [Install] registers both at once:
//
//	m := observability.NewMetrics()
//	defer observability.Install(logger, m)()
//
// Library code reads the current hooks at the call site:
//
//	observability.Render().OnRenderStart(ctx, name, format)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// RenderHooks receives events from diagram rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, diagram, format string)
	OnRenderComplete(ctx context.Context, diagram, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from artifact cache lookups. keyType names the
// kind of cached value, currently always "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopRenderHooks ignores every event.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// LogHooks writes events to Logger. Successful events are logged at debug
// level, failed renders at warn.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnRenderStart(_ context.Context, diagram, format string) {
	h.Logger.Debug("render start", "diagram", diagram, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, diagram, format string, size int, duration time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "diagram", diagram, "format", format, "duration", duration, "error", err)
		return
	}
	h.Logger.Debug("render done", "diagram", diagram, "format", format, "bytes", size, "duration", duration)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

type teeRender []RenderHooks

// TeeRender fans events out to every non-nil h in order.
func TeeRender(h ...RenderHooks) RenderHooks {
	var out teeRender
	for _, x := range h {
		if x != nil {
			out = append(out, x)
		}
	}
	return out
}

func (t teeRender) OnRenderStart(ctx context.Context, diagram, format string) {
	for _, h := range t {
		h.OnRenderStart(ctx, diagram, format)
	}
}

func (t teeRender) OnRenderComplete(ctx context.Context, diagram, format string, size int, duration time.Duration, err error) {
	for _, h := range t {
		h.OnRenderComplete(ctx, diagram, format, size, duration, err)
	}
}

type teeCache []CacheHooks

// TeeCache fans events out to every non-nil h in order.
func TeeCache(h ...CacheHooks) CacheHooks {
	var out teeCache
	for _, x := range h {
		if x != nil {
			out = append(out, x)
		}
	}
	return out
}

func (t teeCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheHit(ctx, keyType)
	}
}

func (t teeCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (t teeCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range t {
		h.OnCacheSet(ctx, keyType, size)
	}
}

var registry struct {
	sync.RWMutex
	render RenderHooks
	cache  CacheHooks
}

func init() { Reset() }

// SetRenderHooks replaces the render hooks. Nil is ignored.
func SetRenderHooks(h RenderHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.render = h
	registry.Unlock()
}

// SetCacheHooks replaces the cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.cache = h
	registry.Unlock()
}

// Render returns the current render hooks.
func Render() RenderHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.render
}

// Cache returns the current cache hooks.
func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

// Reset restores the no-op hooks.
func Reset() {
	registry.Lock()
	registry.render = NoopRenderHooks{}
	registry.cache = NoopCacheHooks{}
	registry.Unlock()
}

// Install registers log hooks on logger and, when m is non-nil, metrics.
// The returned function restores the no-op hooks.
func Install(logger *log.Logger, m *Metrics) func() {
	lh := NewLogHooks(logger)
	if m == nil {
		SetRenderHooks(lh)
		SetCacheHooks(lh)
	} else {
		SetRenderHooks(TeeRender(lh, m))
		SetCacheHooks(TeeCache(lh, m))
	}
	return Reset
}
