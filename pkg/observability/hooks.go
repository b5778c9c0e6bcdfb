// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about painting, layout, glyph lookups, cache operations
// and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPaintHooks(&myPaintHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Paint().OnPaintStart(ctx, "svg", nodes, edges)
//	// ... paint ...
//	observability.Paint().OnPaintComplete(ctx, "svg", len(out), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Paint Hooks
// =============================================================================

// PaintHooks receives events from painters.
type PaintHooks interface {
	OnPaintStart(ctx context.Context, format string, nodeCount, edgeCount int)
	OnPaintComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the external layout engine adapter.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, engine string, inputSize int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)
}

// =============================================================================
// Glyph Hooks
// =============================================================================

// GlyphHooks receives events from glyph catalog lookups.
type GlyphHooks interface {
	// OnGlyphResolved records a catalog lookup and whether a glyph was found.
	OnGlyphResolved(key string, found bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPaintHooks is a no-op implementation of PaintHooks.
type NoopPaintHooks struct{}

func (NoopPaintHooks) OnPaintStart(context.Context, string, int, int) {}
func (NoopPaintHooks) OnPaintComplete(context.Context, string, int, time.Duration, error) {
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}

// NoopGlyphHooks is a no-op implementation of GlyphHooks.
type NoopGlyphHooks struct{}

func (NoopGlyphHooks) OnGlyphResolved(string, bool) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	paintHooks  PaintHooks  = NoopPaintHooks{}
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	glyphHooks  GlyphHooks  = NoopGlyphHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetPaintHooks registers custom paint hooks.
// This should be called once at application startup before any painting.
func SetPaintHooks(h PaintHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		paintHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetGlyphHooks registers custom glyph hooks.
func SetGlyphHooks(h GlyphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		glyphHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Paint returns the registered paint hooks.
func Paint() PaintHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return paintHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Glyph returns the registered glyph hooks.
func Glyph() GlyphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return glyphHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	paintHooks = NoopPaintHooks{}
	layoutHooks = NoopLayoutHooks{}
	glyphHooks = NoopGlyphHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
