// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout computation, node expansion,
// and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the core free of observability framework dependencies.
//
// # Usage
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, nodeCount)
//	// ... compute layout ...
//	observability.Layout().OnLayoutComplete(ctx, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from layout computation.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout pass.
	OnLayoutStart(ctx context.Context, nodeCount int)

	// OnLayoutComplete records a finished layout pass.
	OnLayoutComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)
}

// ExpandHooks receives events from node expansion.
type ExpandHooks interface {
	// OnExpandStart records the start of a child fetch.
	OnExpandStart(ctx context.Context, nodeID string)

	// OnExpandComplete records a settled child fetch.
	OnExpandComplete(ctx context.Context, nodeID string, childCount int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int)                          {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {}

// NoopExpandHooks is a no-op implementation of ExpandHooks.
type NoopExpandHooks struct{}

func (NoopExpandHooks) OnExpandStart(context.Context, string)                          {}
func (NoopExpandHooks) OnExpandComplete(context.Context, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	expandHooks ExpandHooks = NoopExpandHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetExpandHooks registers custom expansion hooks.
// This should be called once at application startup.
func SetExpandHooks(h ExpandHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		expandHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Expand returns the registered expansion hooks.
func Expand() ExpandHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return expandHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	expandHooks = NoopExpandHooks{}
	cacheHooks = NoopCacheHooks{}
}
