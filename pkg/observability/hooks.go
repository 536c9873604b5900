// Package observability provides hooks for metrics and tracing of mod
// resolution.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about resolve calls, resolve-state cache activity and
// traversals.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The resolution engine has no cancellation surface, so hooks take plain
// identifiers rather than a context. The Prometheus implementation lives in
// the metrics subpackage.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resolve().OnResolveStart(mod)
//	// ... build and check the graph ...
//	observability.Resolve().OnResolveComplete(mod, vertices, edges, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from resolve calls and traversals.
type ResolveHooks interface {
	// OnResolveStart records the start of a resolve call that missed the cache.
	OnResolveStart(mod string)
	// OnResolveComplete records the outcome of a resolve call. vertices and
	// edges describe the graph that was built (zero when building failed).
	OnResolveComplete(mod string, vertices, edges int, duration time.Duration, err error)

	// OnTraverse records a traversal and the length of the flattened order.
	OnTraverse(mod string, length int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events about the per-mod resolve-state cache.
type CacheHooks interface {
	// OnCacheHit records a resolve call on an already resolved mod.
	OnCacheHit(mod string)

	// OnCacheFill records a mod resolved as part of resolving another mod.
	OnCacheFill(mod string, deps int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(string)                                    {}
func (NoopResolveHooks) OnResolveComplete(string, int, int, time.Duration, error) {}
func (NoopResolveHooks) OnTraverse(string, int, time.Duration, error)             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)       {}
func (NoopCacheHooks) OnCacheFill(string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks ResolveHooks = NoopResolveHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any resolve calls.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any resolve calls.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
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
	resolveHooks = NoopResolveHooks{}
	cacheHooks = NoopCacheHooks{}
}
